package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/sathvik2377/timetable-engine/internal/config"
	"github.com/sathvik2377/timetable-engine/internal/engine"
	"github.com/sathvik2377/timetable-engine/internal/schedule"
	"github.com/sathvik2377/timetable-engine/pkg/logger"
)

var dayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	instancePath := flag.String("instance", "", "path to the instance JSON (required)")
	variants := flag.Int("variants", 0, "number of schedule variants (0 = value from config)")
	outPath := flag.String("out", "", "write the JSON result here instead of stdout")
	quiet := flag.Bool("quiet", false, "suppress the human-readable timetable listing")
	flag.Parse()

	if *instancePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("cannot load configuration: %v", err)
	}
	if *variants > 0 {
		cfg.Variants = *variants
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("cannot build logger: %v", err)
	}
	defer zl.Sync()

	in, err := schedule.InstanceFromJSON(*instancePath)
	if err != nil {
		zl.Fatal("cannot load instance file", zap.String("path", *instancePath), zap.Error(err))
	}

	eng := engine.New(cfg, zl)
	results := eng.GenerateVariants(in, cfg.Variants)

	payload, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		zl.Fatal("cannot encode results", zap.Error(err))
	}
	if *outPath != "" {
		if err := os.WriteFile(*outPath, payload, 0o644); err != nil {
			zl.Fatal("cannot write results", zap.String("path", *outPath), zap.Error(err))
		}
	} else {
		fmt.Println(string(payload))
	}

	best := bestVariant(results)
	if best == nil {
		first := results[0]
		for _, diag := range first.Diagnostics {
			fmt.Fprintf(os.Stderr, "suggestion: %s\n", diag)
		}
		if first.Status == engine.StatusInfeasible {
			os.Exit(3)
		}
		os.Exit(1)
	}

	if !*quiet {
		printTimetable(in, best)
	}
}

// bestVariant picks the solved variant with the highest quality score.
func bestVariant(variants []engine.Variant) *engine.Variant {
	var best *engine.Variant
	for i := range variants {
		v := &variants[i]
		if v.Solution == nil {
			continue
		}
		if best == nil || v.Metrics.QualityScore > best.Metrics.QualityScore {
			best = v
		}
	}
	return best
}

func printTimetable(in *schedule.Instance, v *engine.Variant) {
	subjects := make(map[int]string, len(in.Subjects))
	for _, s := range in.Subjects {
		subjects[s.ID] = s.Name
	}
	teachers := make(map[int]string, len(in.Teachers))
	for _, t := range in.Teachers {
		teachers[t.ID] = t.Name
	}
	rooms := make(map[int]string, len(in.Rooms))
	for _, r := range in.Rooms {
		rooms[r.ID] = r.Name
	}
	classes := make(map[int]string, len(in.ClassGroups))
	for _, c := range in.ClassGroups {
		classes[c.ID] = c.Name
	}

	fmt.Printf("variant %d (%s, seed %d): %d sessions, quality %.1f\n",
		v.Index, v.Status, v.Seed, v.Metrics.TotalSessions, v.Metrics.QualityScore)
	for _, s := range v.Solution.Sessions {
		day := fmt.Sprintf("day %d", s.Day)
		if s.Day >= 0 && s.Day < len(dayNames) {
			day = dayNames[s.Day]
		}
		fmt.Printf("%-9s %s-%s  %-24s %-18s class %-12s room %s\n",
			day, s.Start, s.End,
			subjects[s.SubjectID], teachers[s.TeacherID], classes[s.ClassGroupID], rooms[s.RoomID])
	}
	for _, w := range v.Solution.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
}
