package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/career-pathfinder/internal/types"
)

// profileChecks maps each gap to the table whose rows close it, in reporting order.
var profileChecks = []struct {
	gap   types.ProfileGap
	table string
}{
	{types.GapWorkHistory, "work_experiences"},
	{types.GapSkills, "user_skills"},
	{types.GapEducation, "education"},
	{types.GapResume, "resumes"},
	{types.GapCertifications, "certifications"},
	{types.GapCareerGoals, "career_goals"},
}

// profileGapsQuery is one round trip with an EXISTS column per check.
var profileGapsQuery = func() string {
	cols := make([]string, len(profileChecks))
	for i, c := range profileChecks {
		cols[i] = fmt.Sprintf("EXISTS (SELECT 1 FROM %s WHERE user_id = $1)", c.table)
	}
	return "SELECT " + strings.Join(cols, ", ")
}()

// FindProfileGaps reports which profile sections the user has not filled in.
// The profile tables belong to the profile service and are read only here.
func (db *DB) FindProfileGaps(ctx context.Context, userID string) ([]types.ProfileGap, error) {
	present := make([]bool, len(profileChecks))
	dest := make([]any, len(present))
	for i := range present {
		dest[i] = &present[i]
	}

	if err := db.q.QueryRow(ctx, profileGapsQuery, userID).Scan(dest...); err != nil {
		return nil, fmt.Errorf("failed to look up profile for %s: %w", userID, err)
	}

	var gaps []types.ProfileGap
	for i, ok := range present {
		if !ok {
			gaps = append(gaps, profileChecks[i].gap)
		}
	}
	return gaps, nil
}
