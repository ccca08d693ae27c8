package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/serisow/knackflow/pipeline"
)

const createExecutionsTable = `
CREATE TABLE IF NOT EXISTS action_executions (
	execution_id  TEXT PRIMARY KEY,
	pipeline_id   TEXT NOT NULL,
	status        TEXT NOT NULL,
	results       JSONB,
	error_message TEXT,
	submitted_at  TIMESTAMPTZ,
	completed_at  TIMESTAMPTZ
)`

const insertExecution = `
INSERT INTO action_executions
	(execution_id, pipeline_id, status, results, error_message, submitted_at, completed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (execution_id) DO UPDATE SET
	status = EXCLUDED.status,
	results = EXCLUDED.results,
	error_message = EXCLUDED.error_message,
	completed_at = EXCLUDED.completed_at`

// Execer is the part of *pgxpool.Pool the recorder needs.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// ExecutionRecorder persists finished executions.
type ExecutionRecorder struct {
	db Execer
}

func NewExecutionRecorder(db Execer) *ExecutionRecorder {
	return &ExecutionRecorder{db: db}
}

func (r *ExecutionRecorder) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createExecutionsTable); err != nil {
		return fmt.Errorf("unable to create action_executions table: %w", err)
	}
	return nil
}

func (r *ExecutionRecorder) Record(ctx context.Context, result *pipeline.ExecutionResult) error {
	results, err := json.Marshal(result.Results)
	if err != nil {
		return fmt.Errorf("error marshaling execution results: %w", err)
	}

	_, err = r.db.Exec(ctx, insertExecution,
		result.ExecutionID,
		result.PipelineID,
		string(result.Status),
		results,
		nullableString(result.ErrorMessage),
		parseTimestamp(result.SubmittedAt),
		parseTimestamp(result.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("error recording execution %s: %w", result.ExecutionID, err)
	}
	return nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func parseTimestamp(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}
	return &t
}
