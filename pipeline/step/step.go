package step

import (
	"context"

	"github.com/serisow/knackflow/pipeline_type"
)

type Step interface {
	Execute(ctx context.Context, pipelineContext *pipeline_type.Context) error

	GetType() string
}
