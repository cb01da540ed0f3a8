// Package fallback builds the profile guidance returned when no career path could be trusted.
package fallback

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/career-pathfinder/internal/types"
)

// DefaultGaps is used when the user's profile gaps are unknown.
var DefaultGaps = []types.ProfileGap{types.GapCareerGoals, types.GapSkills}

var taskTable = map[types.ProfileGap]types.ProfileTask{
	types.GapWorkHistory: {
		Category:                 "experience",
		Title:                    "Add your work history",
		Description:              "List your past roles with dates and responsibilities so a path can start from where you are today.",
		Priority:                 types.PriorityHigh,
		EstimatedDurationMinutes: 15,
		ActionURL:                "/profile/experience",
	},
	types.GapSkills: {
		Category:                 "skills",
		Title:                    "List your skills",
		Description:              "Add the tools, methods and domains you work with so each stage can be compared against them.",
		Priority:                 types.PriorityHigh,
		EstimatedDurationMinutes: 10,
		ActionURL:                "/profile/skills",
	},
	types.GapResume: {
		Category:                 "resume",
		Title:                    "Upload your resume",
		Description:              "A current resume fills in details that the profile form does not capture.",
		Priority:                 types.PriorityMedium,
		EstimatedDurationMinutes: 5,
		ActionURL:                "/profile/resume",
	},
	types.GapEducation: {
		Category:                 "education",
		Title:                    "Add your education",
		Description:              "Degrees, bootcamps and courses help place you on the right starting stage.",
		Priority:                 types.PriorityMedium,
		EstimatedDurationMinutes: 5,
		ActionURL:                "/profile/education",
	},
	types.GapCareerGoals: {
		Category:                 "goals",
		Title:                    "Describe your career goals",
		Description:              "Say what kind of work you want next and on what timeline, so the target role can be refined.",
		Priority:                 types.PriorityMedium,
		EstimatedDurationMinutes: 10,
		ActionURL:                "/profile/goals",
	},
	types.GapCertifications: {
		Category:                 "certifications",
		Title:                    "Add your certifications",
		Description:              "Record certifications you already hold, with the issuing organization.",
		Priority:                 types.PriorityLow,
		EstimatedDurationMinutes: 5,
		ActionURL:                "/profile/certifications",
	},
}

// Options customize a guidance result. The zero value is valid.
type Options struct {
	// Reason is the last failure seen before falling back.
	Reason types.FailureReason
	// Now overrides the clock.
	Now func() time.Time
}

// Build returns profile guidance for targetRole. The output depends only on its
// inputs apart from the ID and timestamp: unknown gaps are skipped, duplicates collapse
// and tasks are ordered high to medium to low, keeping input order within a priority.
// With no usable gaps DefaultGaps is used.
func Build(targetRole string, gaps []types.ProfileGap, opts ...Options) *types.GuidanceResult {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	now := time.Now
	if o.Now != nil {
		now = o.Now
	}

	tasks := tasksFor(gaps)
	if len(tasks) == 0 {
		tasks = tasksFor(DefaultGaps)
	}

	return &types.GuidanceResult{
		Kind:        types.KindProfileGuidance,
		ID:          uuid.NewString(),
		TargetRole:  targetRole,
		Message:     Message(targetRole),
		Tasks:       tasks,
		Reason:      o.Reason,
		GeneratedAt: now().UTC(),
	}
}

// Message is the fixed explanation shown with guidance.
func Message(targetRole string) string {
	return fmt.Sprintf("We couldn't build a reliable career path to %s yet. "+
		"Completing the steps below gives us more to work with.", targetRole)
}

func tasksFor(gaps []types.ProfileGap) []types.ProfileTask {
	seen := make(map[types.ProfileGap]struct{}, len(gaps))
	tasks := make([]types.ProfileTask, 0, len(gaps))
	for _, gap := range gaps {
		if _, dup := seen[gap]; dup {
			continue
		}
		seen[gap] = struct{}{}
		if task, ok := taskTable[gap]; ok {
			tasks = append(tasks, task)
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Priority.Rank() < tasks[j].Priority.Rank()
	})
	return tasks
}
