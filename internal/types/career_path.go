// Package types provides type definitions for structured data used throughout the career-path pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// ResultKind discriminates the two terminal outcomes of a generation.
type ResultKind string

// Result kinds
const (
	KindCareerPath      ResultKind = "career_path"
	KindProfileGuidance ResultKind = "profile_guidance"
)

// Level is the seniority tag of a career path node.
type Level string

// Level values
const (
	LevelEntry     Level = "entry"
	LevelMid       Level = "mid"
	LevelSenior    Level = "senior"
	LevelLead      Level = "lead"
	LevelExecutive Level = "executive"
)

// GrowthPotential is the model's estimate of upward mobility from a node.
type GrowthPotential string

// GrowthPotential values
const (
	GrowthLow    GrowthPotential = "low"
	GrowthMedium GrowthPotential = "medium"
	GrowthHigh   GrowthPotential = "high"
)

// CareerPathNode is a domain-trusted stage of a career path.
// Only the guard mapper constructs these.
type CareerPathNode struct {
	Title           string          `json:"title"`
	Level           Level           `json:"level"`
	SalaryLow       *float64        `json:"salaryLow,omitempty"`
	SalaryHigh      *float64        `json:"salaryHigh,omitempty"`
	YearsExperience float64         `json:"yearsExperience"`
	Skills          []string        `json:"skills"`
	Certifications  []string        `json:"certifications"`
	GrowthPotential GrowthPotential `json:"growthPotential"`
	Description     string          `json:"description"`
}

// Result is either a *CareerPathResult or a *GuidanceResult.
// Callers must switch on the concrete type (or Kind) before reading fields.
type Result interface {
	ResultKind() ResultKind
	ResultID() string
	isResult()
}

// CareerPathResult is the successful outcome of a generation.
type CareerPathResult struct {
	Kind          ResultKind       `json:"kind"`
	ID            string           `json:"id"`
	TargetRole    string           `json:"targetRole"`
	Region        string           `json:"region,omitempty"`
	Nodes         []CareerPathNode `json:"nodes"`
	UsedModel     string           `json:"usedModel"`
	PromptVariant string           `json:"promptVariant"`
	GeneratedAt   time.Time        `json:"generatedAt"`
}

// ResultKind implements Result.
func (r *CareerPathResult) ResultKind() ResultKind { return KindCareerPath }

// ResultID implements Result.
func (r *CareerPathResult) ResultID() string { return r.ID }

func (r *CareerPathResult) isResult() {}

// Priority orders profile tasks.
type Priority string

// Priority values
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank returns a sort key where high sorts first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// ProfileTask is one action the user can take to improve their profile.
type ProfileTask struct {
	Category                 string   `json:"category"`
	Title                    string   `json:"title"`
	Description              string   `json:"description"`
	Priority                 Priority `json:"priority"`
	EstimatedDurationMinutes int      `json:"estimatedDurationMinutes"`
	ActionURL                string   `json:"actionUrl,omitempty"`
}

// GuidanceResult is the degraded outcome returned when no attempt produced a
// trustworthy career path. It deliberately shares no fields with CareerPathNode.
type GuidanceResult struct {
	Kind        ResultKind    `json:"kind"`
	ID          string        `json:"id"`
	TargetRole  string        `json:"targetRole"`
	Message     string        `json:"message"`
	Tasks       []ProfileTask `json:"tasks"`
	Reason      FailureReason `json:"reason,omitempty"`
	GeneratedAt time.Time     `json:"generatedAt"`
}

// ResultKind implements Result.
func (r *GuidanceResult) ResultKind() ResultKind { return KindProfileGuidance }

// ResultID implements Result.
func (r *GuidanceResult) ResultID() string { return r.ID }

func (r *GuidanceResult) isResult() {}

// ProfileGap names a piece of the user profile that is missing or too thin
// for path generation.
type ProfileGap string

// ProfileGap values
const (
	GapWorkHistory    ProfileGap = "missing_work_history"
	GapSkills         ProfileGap = "missing_skills"
	GapEducation      ProfileGap = "missing_education"
	GapResume         ProfileGap = "missing_resume"
	GapCertifications ProfileGap = "missing_certifications"
	GapCareerGoals    ProfileGap = "missing_career_goals"
)
