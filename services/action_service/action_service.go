// Package action_service provides implementations of various pipeline action services.
package action_service

import (
	"context"

	"github.com/serisow/knackflow/pipeline_type"
)

type ActionService interface {
	// Execute processes an action step. actionConfig is the service name the
	// step was dispatched with; props come from step.ActionDetails.
	Execute(ctx context.Context, actionConfig string, pipelineContext *pipeline_type.Context, step *pipeline_type.PipelineStep) (string, error)

	CanHandle(actionService string) bool
}

// ActionOutput is what an action hands back to the runner: the summary shown
// to the user and the untouched API response.
type ActionOutput struct {
	Summary  string      `json:"summary"`
	Response interface{} `json:"response"`
}
