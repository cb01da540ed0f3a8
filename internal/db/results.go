package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/career-pathfinder/internal/types"
)

// anonymousOwner is stored as NULL.
const anonymousOwner = "anonymous"

// StoredResult is a persisted generation result.
type StoredResult struct {
	ID         string           `json:"id"`
	OwnerID    string           `json:"owner_id,omitempty"`
	Kind       types.ResultKind `json:"kind"`
	TargetRole string           `json:"target_role"`
	Payload    json.RawMessage  `json:"payload"`
}

// SaveResult stores a career path or guidance result as JSONB.
// Saving the same result twice overwrites the payload.
func (db *DB) SaveResult(ctx context.Context, result types.Result, ownerID string) error {
	if result == nil {
		return errors.New("db: nil result")
	}

	var targetRole string
	var reason *string
	switch r := result.(type) {
	case *types.CareerPathResult:
		targetRole = r.TargetRole
	case *types.GuidanceResult:
		targetRole = r.TargetRole
		if r.Reason != types.ReasonNone {
			s := string(r.Reason)
			reason = &s
		}
	default:
		return fmt.Errorf("db: unsupported result type %T", result)
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	_, err = db.q.Exec(ctx,
		`INSERT INTO career_path_results (id, owner_id, kind, target_role, reason, payload)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET payload = $6`,
		result.ResultID(), nullableOwner(ownerID), string(result.ResultKind()), targetRole, reason, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to save result %s: %w", result.ResultID(), err)
	}
	return nil
}

// GetResult retrieves a stored result by ID. It returns nil when none exists.
func (db *DB) GetResult(ctx context.Context, id string) (*StoredResult, error) {
	var out StoredResult
	var owner *string
	var kind string
	err := db.q.QueryRow(ctx,
		`SELECT id::text, owner_id, kind, target_role, payload
		 FROM career_path_results WHERE id = $1`,
		id,
	).Scan(&out.ID, &owner, &kind, &out.TargetRole, &out.Payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get result %s: %w", id, err)
	}
	out.Kind = types.ResultKind(kind)
	if owner != nil {
		out.OwnerID = *owner
	}
	return &out, nil
}

func nullableOwner(ownerID string) *string {
	if ownerID == "" || ownerID == anonymousOwner {
		return nil
	}
	return &ownerID
}
