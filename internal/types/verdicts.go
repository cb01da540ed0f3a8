// Package types provides type definitions for structured data used throughout the career-path pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

// FailureReason is a stable code for why a generation attempt was discarded.
type FailureReason string

// FailureReason values. This set is closed; telemetry consumers key on these strings.
const (
	ReasonNone                   FailureReason = ""
	ReasonModelError             FailureReason = "model_error"
	ReasonEmptyResponse          FailureReason = "empty_response"
	ReasonParseError             FailureReason = "parse_error"
	ReasonSchemaInvalid          FailureReason = "schema_invalid"
	ReasonEmptyPath              FailureReason = "empty_path"
	ReasonActionVerbTitle        FailureReason = "action_verb_title"
	ReasonInvalidLevel           FailureReason = "invalid_level"
	ReasonInvalidGrowthPotential FailureReason = "invalid_growth_potential"
	ReasonInvalidExperience      FailureReason = "invalid_experience"
	ReasonNonMonotonicExperience FailureReason = "non_monotonic_experience"
	ReasonTargetMismatch         FailureReason = "target_mismatch"
	ReasonInsufficientStages     FailureReason = "insufficient_stages"
	ReasonTitlesNotDistinct      FailureReason = "titles_not_distinct"
	ReasonDescriptionTooShort    FailureReason = "description_too_short"
	ReasonMissingKeywords        FailureReason = "missing_keywords"
	ReasonCancelled              FailureReason = "cancelled"
)

// QualityVerdict is the outcome of the holistic quality gate for one attempt.
type QualityVerdict struct {
	Passed  bool          `json:"passed"`
	Reason  FailureReason `json:"reason,omitempty"`
	Details string        `json:"details,omitempty"`
}

// Pass returns a passing verdict.
func Pass() QualityVerdict {
	return QualityVerdict{Passed: true}
}

// Fail returns a failing verdict with a reason and details.
func Fail(reason FailureReason, details string) QualityVerdict {
	return QualityVerdict{Passed: false, Reason: reason, Details: details}
}

// EventType classifies a telemetry event.
type EventType string

// EventType values
const (
	EventSuccess        EventType = "success"
	EventQualityFailure EventType = "quality_failure"
	EventFallback       EventType = "fallback"
	EventError          EventType = "error"
)

// TelemetryEvent is an append-only record of one generation outcome.
type TelemetryEvent struct {
	ID            string        `json:"id"`
	Type          EventType     `json:"type"`
	UserID        string        `json:"userId"`
	TargetRole    string        `json:"targetRole"`
	Model         string        `json:"model"`
	PromptVariant string        `json:"promptVariant"`
	Attempt       int           `json:"attempt"`
	Reason        FailureReason `json:"reason,omitempty"`
	Details       string        `json:"details,omitempty"`
	TimestampMs   int64         `json:"timestampMs"`
}
