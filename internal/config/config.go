// Package config holds every tunable of the engine: solver options, hard
// rule toggles, and the soft-objective weights. Weight magnitudes are
// configuration, not derived constants.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StrategySystematic = "systematic"
	StrategyFixed      = "fixed"
	StrategyPortfolio  = "portfolio"
)

type SolverConfig struct {
	TimeLimit time.Duration `mapstructure:"timeLimit"`
	Workers   int           `mapstructure:"workers"`
	Strategy  string        `mapstructure:"strategy"`
	Presolve  bool          `mapstructure:"presolve"`
	Seed      int64         `mapstructure:"seed"`
	// SymmetryLevel > 0 canonicalizes the room enumeration order so
	// interchangeable rooms are explored deterministically.
	SymmetryLevel int `mapstructure:"symmetryLevel"`
	// LinearizationLevel is accepted for configuration compatibility and
	// recorded in run stats; the PB backend has no equivalent knob.
	LinearizationLevel int `mapstructure:"linearizationLevel"`
}

// Rules toggles the hard constraint modules individually. All default on;
// switching one off is a diagnostic tool, not a production mode.
type Rules struct {
	Coverage          bool `mapstructure:"coverage"`
	TeacherExclusive  bool `mapstructure:"teacherExclusive"`
	RoomExclusive     bool `mapstructure:"roomExclusive"`
	ClassExclusive    bool `mapstructure:"classExclusive"`
	TeacherDailyCap   bool `mapstructure:"teacherDailyCap"`
	TeacherWeeklyCap  bool `mapstructure:"teacherWeeklyCap"`
	CalendarExclusion bool `mapstructure:"calendarExclusion"`
	LabRoomOnly       bool `mapstructure:"labRoomOnly"`
}

// Weights parameterizes the soft objective. A zero weight disables a term.
type Weights struct {
	// Morning bonus per session: Morning * max(0, MorningHorizon - slotIndexInDay).
	Morning        int `mapstructure:"morning"`
	MorningHorizon int `mapstructure:"morningHorizon"`

	// Daily-load band for class groups.
	IdealMinDaily int `mapstructure:"idealMinDaily"`
	IdealMaxDaily int `mapstructure:"idealMaxDaily"`
	BalanceUnder  int `mapstructure:"balanceUnder"`
	BalanceOver   int `mapstructure:"balanceOver"`

	// Penalty per idle slot between a class group's sessions on one day.
	Gap int `mapstructure:"gap"`

	// Soft cap on a teacher's consecutive sessions, below the hard daily cap.
	ConsecutiveCap int `mapstructure:"consecutiveCap"`
	Consecutive    int `mapstructure:"consecutive"`

	// Penalty for clustering more than ClusterThreshold sessions of one
	// subject for one class group on one day.
	ClusterThreshold int `mapstructure:"clusterThreshold"`
	Cluster          int `mapstructure:"cluster"`

	// Multiplier for the teacher's per-subject preference level.
	Preference int `mapstructure:"preference"`

	// Per-room bonus, injected by the variant generator for diversity.
	Room map[int]int `mapstructure:"room"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Config struct {
	Solver   SolverConfig `mapstructure:"solver"`
	Rules    Rules        `mapstructure:"rules"`
	Weights  Weights      `mapstructure:"weights"`
	Variants int          `mapstructure:"variants"`
	Log      LogConfig    `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("solver.timeLimit", "3m")
	v.SetDefault("solver.workers", 4)
	v.SetDefault("solver.strategy", StrategySystematic)
	v.SetDefault("solver.presolve", true)
	v.SetDefault("solver.seed", 12345)
	v.SetDefault("solver.symmetryLevel", 2)
	v.SetDefault("solver.linearizationLevel", 2)

	v.SetDefault("rules.coverage", true)
	v.SetDefault("rules.teacherExclusive", true)
	v.SetDefault("rules.roomExclusive", true)
	v.SetDefault("rules.classExclusive", true)
	v.SetDefault("rules.teacherDailyCap", true)
	v.SetDefault("rules.teacherWeeklyCap", true)
	v.SetDefault("rules.calendarExclusion", true)
	v.SetDefault("rules.labRoomOnly", true)

	v.SetDefault("weights.morning", 1)
	v.SetDefault("weights.morningHorizon", 10)
	v.SetDefault("weights.idealMinDaily", 3)
	v.SetDefault("weights.idealMaxDaily", 5)
	v.SetDefault("weights.balanceUnder", 2)
	v.SetDefault("weights.balanceOver", 2)
	v.SetDefault("weights.gap", 3)
	v.SetDefault("weights.consecutiveCap", 3)
	v.SetDefault("weights.consecutive", 5)
	v.SetDefault("weights.clusterThreshold", 2)
	v.SetDefault("weights.cluster", 3)
	v.SetDefault("weights.preference", 1)

	v.SetDefault("variants", 3)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Load builds the configuration from defaults, an optional config file, and
// TT_-prefixed environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("TT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("cannot read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("cannot unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(err) // defaults are static and always valid
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.Solver.Strategy {
	case StrategySystematic, StrategyFixed, StrategyPortfolio:
	default:
		return fmt.Errorf("unknown search strategy %q", c.Solver.Strategy)
	}
	if c.Solver.Workers < 1 {
		return fmt.Errorf("solver workers must be at least 1, got %d", c.Solver.Workers)
	}
	if c.Weights.IdealMinDaily > c.Weights.IdealMaxDaily {
		return fmt.Errorf("idealMinDaily %d exceeds idealMaxDaily %d",
			c.Weights.IdealMinDaily, c.Weights.IdealMaxDaily)
	}
	if c.Variants < 1 {
		return fmt.Errorf("variants must be at least 1, got %d", c.Variants)
	}
	return nil
}

// Clone returns a deep copy safe to mutate per variant.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Weights.Room != nil {
		clone.Weights.Room = make(map[int]int, len(c.Weights.Room))
		for k, v := range c.Weights.Room {
			clone.Weights.Room[k] = v
		}
	}
	return &clone
}
