package schedule

import "fmt"

type SubjectType string

const (
	SubjectTheory  SubjectType = "theory"
	SubjectLab     SubjectType = "lab"
	SubjectProject SubjectType = "project"
	SubjectAbility SubjectType = "ability_enhancement"
)

// Scope ties a subject to the cohorts that must take it.
type Scope struct {
	Branch string `json:"branch"`
	Year   int    `json:"year"`
}

type Subject struct {
	ID             int         `json:"id" mapstructure:"id"`
	Name           string      `json:"name" mapstructure:"name"`
	Type           SubjectType `json:"type" mapstructure:"type"`
	Branch         string      `json:"branch" mapstructure:"branch"`
	Year           int         `json:"year" mapstructure:"year"`
	WeeklySessions int         `json:"weeklySessions" mapstructure:"weeklySessions"`
}

func (s Subject) Scope() Scope { return Scope{Branch: s.Branch, Year: s.Year} }

type Teacher struct {
	ID         int    `json:"id" mapstructure:"id"`
	Name       string `json:"name" mapstructure:"name"`
	SubjectIDs []int  `json:"subjects" mapstructure:"subjects"`
	// Preferences carries the optional per-subject preference level of the
	// qualification relation. It biases the objective, never a hard rule.
	Preferences    map[int]int `json:"preferences,omitempty" mapstructure:"preferences"`
	MaxDailyHours  int         `json:"maxDailyHours" mapstructure:"maxDailyHours"`
	MaxWeeklyHours int         `json:"maxWeeklyHours" mapstructure:"maxWeeklyHours"`
	MaxConsecutive int         `json:"maxConsecutive" mapstructure:"maxConsecutive"`
}

type Room struct {
	ID       int    `json:"id" mapstructure:"id"`
	Name     string `json:"name" mapstructure:"name"`
	Capacity int    `json:"capacity" mapstructure:"capacity"`
	IsLab    bool   `json:"isLab" mapstructure:"isLab"`
}

type ClassGroup struct {
	ID       int    `json:"id" mapstructure:"id"`
	Name     string `json:"name" mapstructure:"name"`
	Branch   string `json:"branch" mapstructure:"branch"`
	Year     int    `json:"year" mapstructure:"year"`
	Strength int    `json:"strength" mapstructure:"strength"`
}

func (c ClassGroup) Scope() Scope { return Scope{Branch: c.Branch, Year: c.Year} }

// Calendar describes the weekly grid the engine schedules into. WorkingDays
// accepts integer tokens (0 = Monday) or day names, full or abbreviated.
type Calendar struct {
	WorkingDays  []any  `json:"workingDays" mapstructure:"workingDays"`
	StartTime    string `json:"startTime" mapstructure:"startTime"`
	EndTime      string `json:"endTime" mapstructure:"endTime"`
	SlotDuration int    `json:"slotDuration" mapstructure:"slotDuration"`
	LunchStart   string `json:"lunchStart" mapstructure:"lunchStart"`
	LunchEnd     string `json:"lunchEnd" mapstructure:"lunchEnd"`
}

// Instance is the read-only input snapshot for one scheduling run. Mutating
// it while a run is in flight is unsupported.
type Instance struct {
	Calendar    Calendar     `json:"calendar" mapstructure:"calendar"`
	Subjects    []Subject    `json:"subjects" mapstructure:"subjects"`
	Teachers    []Teacher    `json:"teachers" mapstructure:"teachers"`
	Rooms       []Room       `json:"rooms" mapstructure:"rooms"`
	ClassGroups []ClassGroup `json:"classGroups" mapstructure:"classGroups"`
}

// Minutes is a clock time as minutes from midnight.
type Minutes int

func (m Minutes) String() string { return fmt.Sprintf("%02d:%02d", m/60, m%60) }

func (m Minutes) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// TimeSlot is one cell of the weekly grid. Derived per run, never persisted.
type TimeSlot struct {
	Day   int     `json:"day"`
	Start Minutes `json:"start"`
	End   Minutes `json:"end"`
}

// Session is one scheduled occurrence: a subject taught by a teacher to a
// class group in a room during one time slot.
type Session struct {
	SubjectID    int         `json:"subjectId"`
	TeacherID    int         `json:"teacherId"`
	RoomID       int         `json:"roomId"`
	ClassGroupID int         `json:"classGroupId"`
	Day          int         `json:"day"`
	Start        Minutes     `json:"start"`
	End          Minutes     `json:"end"`
	SessionType  SubjectType `json:"sessionType"`
}

const (
	ConflictTeacher = "teacher"
	ConflictRoom    = "room"
	ConflictClass   = "class"
)

// Conflict is a pairwise collision found during post-solve validation.
type Conflict struct {
	Kind       string    `json:"kind"`
	ResourceID int       `json:"resourceId"`
	Day        int       `json:"day"`
	Start      Minutes   `json:"start"`
	Sessions   []Session `json:"sessions"`
}

type TeacherUtilization struct {
	ScheduledHours int     `json:"scheduledHours"`
	MaxHours       int     `json:"maxHours"`
	Percent        float64 `json:"percent"`
}

type RoomUtilization struct {
	HoursUsed      int     `json:"hoursUsed"`
	TotalAvailable int     `json:"totalAvailable"`
	Percent        float64 `json:"percent"`
}

type ClassLoad struct {
	TotalHours   int         `json:"totalHours"`
	DailyHours   map[int]int `json:"dailyHours"`
	AverageDaily float64     `json:"averageDaily"`
	MaxDaily     int         `json:"maxDaily"`
	MinDaily     int         `json:"minDaily"`
}

type Statistics struct {
	TotalSessions      int                        `json:"totalSessions"`
	TeacherUtilization map[int]TeacherUtilization `json:"teacherUtilization"`
	RoomUtilization    map[int]RoomUtilization    `json:"roomUtilization"`
	ClassLoads         map[int]ClassLoad          `json:"classLoads"`
	QualityScore       float64                    `json:"qualityScore"`
}

// Solution is the lasting output of a run: the validated session list plus
// statistics and whatever the validator had to exclude.
type Solution struct {
	Sessions   []Session  `json:"sessions"`
	Statistics Statistics `json:"statistics"`
	Conflicts  []Conflict `json:"conflicts"`
	Warnings   []string   `json:"warnings"`
	IsValid    bool       `json:"isValid"`
}
