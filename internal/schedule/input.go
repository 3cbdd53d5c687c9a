package schedule

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

// InstanceFromJSON reads and decodes a full instance snapshot.
func InstanceFromJSON(file string) (*Instance, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("cannot read instance file: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(bytes, &raw); err != nil {
		return nil, fmt.Errorf("cannot parse instance file: %w", err)
	}
	return DecodeInstance(raw)
}

// DecodeInstance maps a generic JSON document onto the instance model.
func DecodeInstance(raw map[string]any) (*Instance, error) {
	var instance Instance
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &instance,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("cannot decode instance: %w", err)
	}
	return &instance, nil
}

// Validate reports structural problems that make the instance unusable.
// The returned issues are empty when the snapshot is well formed.
func (in *Instance) Validate() []string {
	var issues []string

	if len(in.Subjects) == 0 {
		issues = append(issues, "instance has no subjects")
	}
	if len(in.Teachers) == 0 {
		issues = append(issues, "instance has no teachers")
	}
	if len(in.Rooms) == 0 {
		issues = append(issues, "instance has no rooms")
	}
	if len(in.ClassGroups) == 0 {
		issues = append(issues, "instance has no class groups")
	}

	subjectIDs := lo.SliceToMap(in.Subjects, func(s Subject) (int, bool) { return s.ID, true })
	for _, subject := range in.Subjects {
		if subject.WeeklySessions <= 0 {
			issues = append(issues, fmt.Sprintf("subject %q requires %d weekly sessions", subject.Name, subject.WeeklySessions))
		}
	}
	for _, teacher := range in.Teachers {
		if teacher.MaxDailyHours <= 0 || teacher.MaxWeeklyHours <= 0 {
			issues = append(issues, fmt.Sprintf("teacher %q has non-positive hour caps", teacher.Name))
		}
		for _, id := range teacher.SubjectIDs {
			if !subjectIDs[id] {
				issues = append(issues, fmt.Sprintf("teacher %q is qualified for unknown subject %d", teacher.Name, id))
			}
		}
	}
	for _, room := range in.Rooms {
		if room.Capacity <= 0 {
			issues = append(issues, fmt.Sprintf("room %q has non-positive capacity", room.Name))
		}
	}
	for _, class := range in.ClassGroups {
		if class.Strength <= 0 {
			issues = append(issues, fmt.Sprintf("class group %q has non-positive strength", class.Name))
		}
	}

	return issues
}
