package careerpath

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/jonathan/career-pathfinder/internal/fallback"
	"github.com/jonathan/career-pathfinder/internal/guard"
	"github.com/jonathan/career-pathfinder/internal/llm"
	"github.com/jonathan/career-pathfinder/internal/quality"
	"github.com/jonathan/career-pathfinder/internal/schemas"
	"github.com/jonathan/career-pathfinder/internal/types"
)

const (
	defaultPersistTimeout = 10 * time.Second
	gapLookupTimeout      = 3 * time.Second
	anonymousUser         = "anonymous"
)

// Emitter receives telemetry events. *telemetry.Emitter implements it.
type Emitter interface {
	Emit(event types.TelemetryEvent)
}

// Store persists generation results.
type Store interface {
	SaveResult(ctx context.Context, result types.Result, ownerID string) error
}

// GapFinder reports what is missing from a user's profile.
type GapFinder interface {
	FindProfileGaps(ctx context.Context, userID string) ([]types.ProfileGap, error)
}

// Deps are the collaborators of an Orchestrator. Client, Mapper, Gate and Emitter
// are required; Store and Gaps may be nil.
type Deps struct {
	Client  llm.Client
	Tier    llm.ModelTier
	Mapper  *guard.Mapper
	Gate    *quality.Gate
	Emitter Emitter
	Store   Store
	Gaps    GapFinder
	Logger  *zap.Logger

	// Variants overrides the prompt variants; nil means Variants().
	Variants []PromptVariant
	// PersistTimeout bounds a background store write.
	PersistTimeout time.Duration
	// Now overrides the clock.
	Now func() time.Time
}

// Orchestrator runs generations. It is safe for concurrent use; each call to
// Generate is an independent, strictly sequential run over the variants.
type Orchestrator struct {
	deps   Deps
	tracer trace.Tracer
	logger *zap.Logger

	persisting sync.WaitGroup
}

// New creates an Orchestrator.
func New(deps Deps) (*Orchestrator, error) {
	switch {
	case deps.Client == nil:
		return nil, errors.New("careerpath: model client is required")
	case deps.Mapper == nil:
		return nil, errors.New("careerpath: guard mapper is required")
	case deps.Gate == nil:
		return nil, errors.New("careerpath: quality gate is required")
	case deps.Emitter == nil:
		return nil, errors.New("careerpath: telemetry emitter is required")
	}
	if deps.Tier == "" {
		deps.Tier = llm.TierStandard
	}
	if deps.Variants == nil {
		deps.Variants = Variants()
	}
	if deps.PersistTimeout <= 0 {
		deps.PersistTimeout = defaultPersistTimeout
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		deps:   deps,
		tracer: otel.Tracer("github.com/jonathan/career-pathfinder/internal/careerpath"),
		logger: logger.Named("careerpath"),
	}, nil
}

// attemptFailure is why one variant did not produce a result.
type attemptFailure struct {
	reason  types.FailureReason
	details string
	event   types.EventType
}

// Generate validates body and returns a CareerPathResult or a GuidanceResult.
// The only error it returns is a *schemas.ValidationError for an invalid request;
// every other failure degrades to guidance.
func (o *Orchestrator) Generate(ctx context.Context, userID string, body []byte) (types.Result, error) {
	req, err := schemas.ValidateInput(body)
	if err != nil {
		return nil, err
	}
	return o.run(ctx, userID, *req), nil
}

// GenerateRequest is Generate for an already decoded request.
func (o *Orchestrator) GenerateRequest(ctx context.Context, userID string, req types.GenerationRequest) (types.Result, error) {
	req.TargetRole = strings.Join(strings.Fields(req.TargetRole), " ")
	req.Region = strings.TrimSpace(req.Region)
	if err := schemas.ValidateRequest(&req); err != nil {
		return nil, err
	}
	return o.run(ctx, userID, req), nil
}

func (o *Orchestrator) run(ctx context.Context, userID string, req types.GenerationRequest) types.Result {
	start := o.deps.Now()
	if userID == "" {
		userID = anonymousUser
	}
	model := o.deps.Client.GetModel(o.deps.Tier)
	logger := o.logger.With(zap.String("user_id", userID), zap.String("target_role", req.TargetRole))

	ctx, span := o.tracer.Start(ctx, "careerpath.generate", trace.WithAttributes(
		attribute.String("careerpath.target_role", req.TargetRole),
		attribute.String("careerpath.model", model),
	))
	defer span.End()

	last := attemptFailure{reason: types.ReasonNone}
	attempt := 0
	for _, variant := range o.deps.Variants {
		if ctx.Err() != nil {
			last = attemptFailure{reason: types.ReasonCancelled, details: ctx.Err().Error()}
			break
		}
		attempt++

		nodes, failure := o.attempt(ctx, variant, attempt, req)
		base := types.TelemetryEvent{
			UserID:        userID,
			TargetRole:    req.TargetRole,
			Model:         model,
			PromptVariant: variant.Name,
			Attempt:       attempt,
		}
		if failure == nil {
			result := &types.CareerPathResult{
				Kind:          types.KindCareerPath,
				ID:            uuid.NewString(),
				TargetRole:    req.TargetRole,
				Region:        req.Region,
				Nodes:         nodes,
				UsedModel:     model,
				PromptVariant: variant.Name,
				GeneratedAt:   o.deps.Now().UTC(),
			}
			base.Type = types.EventSuccess
			o.deps.Emitter.Emit(base)
			attemptsTotal.WithLabelValues(variant.Name, "success").Inc()
			logger.Info("career path generated",
				zap.String("variant", variant.Name),
				zap.Int("attempt", attempt),
				zap.Int("stages", len(nodes)))
			o.finish(result, userID, start, span)
			return result
		}

		last = *failure
		base.Type = failure.event
		base.Reason = failure.reason
		base.Details = failure.details
		o.deps.Emitter.Emit(base)
		attemptsTotal.WithLabelValues(variant.Name, string(failure.reason)).Inc()
		logger.Info("attempt rejected",
			zap.String("variant", variant.Name),
			zap.Int("attempt", attempt),
			zap.String("reason", string(failure.reason)),
			zap.String("details", failure.details))
		if failure.reason == types.ReasonCancelled {
			break
		}
	}

	guidance := fallback.Build(req.TargetRole, o.profileGaps(ctx, userID, logger), fallback.Options{
		Reason: last.reason,
		Now:    o.deps.Now,
	})
	o.deps.Emitter.Emit(types.TelemetryEvent{
		Type:       types.EventFallback,
		UserID:     userID,
		TargetRole: req.TargetRole,
		Model:      model,
		Attempt:    attempt,
		Reason:     last.reason,
		Details:    last.details,
	})
	logger.Warn("falling back to profile guidance",
		zap.Int("attempts", attempt),
		zap.String("reason", string(last.reason)))
	o.finish(guidance, userID, start, span)
	return guidance
}

// attempt runs one variant. It returns the accepted nodes or why they were not accepted.
func (o *Orchestrator) attempt(ctx context.Context, variant PromptVariant, n int, req types.GenerationRequest) ([]types.CareerPathNode, *attemptFailure) {
	ctx, span := o.tracer.Start(ctx, "careerpath.attempt", trace.WithAttributes(
		attribute.String("careerpath.variant", variant.Name),
		attribute.Int("careerpath.attempt", n),
	))
	defer span.End()

	fail := func(event types.EventType, reason types.FailureReason, details string) *attemptFailure {
		span.SetStatus(codes.Error, string(reason))
		span.SetAttributes(attribute.String("careerpath.reason", string(reason)))
		return &attemptFailure{reason: reason, details: details, event: event}
	}

	prompt, err := variant.Build(req)
	if err != nil {
		span.RecordError(err)
		return nil, fail(types.EventError, types.ReasonModelError, fmt.Sprintf("building prompt: %v", err))
	}

	raw, err := o.deps.Client.GenerateJSON(ctx, prompt, o.deps.Tier)
	if err != nil {
		span.RecordError(err)
		if ctx.Err() != nil {
			return nil, fail(types.EventError, types.ReasonCancelled, err.Error())
		}
		return nil, fail(types.EventError, types.ReasonModelError, err.Error())
	}
	if strings.TrimSpace(raw) == "" {
		return nil, fail(types.EventError, types.ReasonEmptyResponse, "model returned no content")
	}

	out, err := schemas.ValidateModelOutput(raw)
	if err != nil {
		span.RecordError(err)
		var schemaErr *schemas.OutputSchemaError
		if errors.As(err, &schemaErr) {
			return nil, fail(types.EventError, types.ReasonSchemaInvalid, err.Error())
		}
		return nil, fail(types.EventError, types.ReasonParseError, err.Error())
	}

	mapped := o.deps.Mapper.Map(out.Paths[0], req.TargetRole)
	if mapped.Rejected {
		return nil, fail(types.EventQualityFailure, mapped.Reason, mapped.Details)
	}

	verdict := o.deps.Gate.Evaluate(mapped.Nodes, req.TargetRole)
	if !verdict.Passed {
		return nil, fail(types.EventQualityFailure, verdict.Reason, verdict.Details)
	}

	span.SetStatus(codes.Ok, "")
	return mapped.Nodes, nil
}

func (o *Orchestrator) profileGaps(ctx context.Context, userID string, logger *zap.Logger) []types.ProfileGap {
	if o.deps.Gaps == nil || userID == anonymousUser {
		return nil
	}
	// The lookup still runs when the caller gave up; guidance is always returned.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), gapLookupTimeout)
	defer cancel()
	gaps, err := o.deps.Gaps.FindProfileGaps(ctx, userID)
	if err != nil {
		logger.Warn("profile gap lookup failed, using default guidance", zap.Error(err))
		return nil
	}
	return gaps
}

func (o *Orchestrator) finish(result types.Result, ownerID string, start time.Time, span trace.Span) {
	kind := string(result.ResultKind())
	span.SetAttributes(attribute.String("careerpath.result_kind", kind), attribute.String("careerpath.result_id", result.ResultID()))
	resultsTotal.WithLabelValues(kind).Inc()
	generationDuration.WithLabelValues(kind).Observe(o.deps.Now().Sub(start).Seconds())
	o.persist(result, ownerID)
}

// persist stores the result in the background. Failures are logged only.
func (o *Orchestrator) persist(result types.Result, ownerID string) {
	if o.deps.Store == nil {
		return
	}
	o.persisting.Add(1)
	go func() {
		defer o.persisting.Done()
		ctx, cancel := context.WithTimeout(context.Background(), o.deps.PersistTimeout)
		defer cancel()
		if err := o.deps.Store.SaveResult(ctx, result, ownerID); err != nil {
			persistFailures.Inc()
			o.logger.Error("failed to persist result",
				zap.String("result_id", result.ResultID()),
				zap.String("kind", string(result.ResultKind())),
				zap.Error(err))
		}
	}()
}

// Close waits for background writes to finish or ctx to end.
func (o *Orchestrator) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		o.persisting.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
