package action_step

import (
	"context"
	"fmt"

	"github.com/serisow/knackflow/pipeline_type"
	"github.com/serisow/knackflow/services/action_service"
)

type ActionStepImpl struct {
	PipelineStep          pipeline_type.PipelineStep
	ActionServiceInstance action_service.ActionService
}

func (s *ActionStepImpl) Execute(ctx context.Context, pipelineContext *pipeline_type.Context) error {
	if s.ActionServiceInstance == nil {
		return fmt.Errorf("ActionService is not initialized for step %s", s.PipelineStep.ID)
	}

	serviceName := s.PipelineStep.ServiceName()
	if !s.ActionServiceInstance.CanHandle(serviceName) {
		return fmt.Errorf("action service cannot handle %q for step %s", serviceName, s.PipelineStep.ID)
	}

	result, err := s.ActionServiceInstance.Execute(ctx, serviceName, pipelineContext, &s.PipelineStep)
	if err != nil {
		return fmt.Errorf("error executing action service for step %s: %w", s.PipelineStep.ID, err)
	}

	if s.PipelineStep.StepOutputKey != "" {
		pipelineContext.SetStepOutput(s.PipelineStep.StepOutputKey, result)
	}

	return nil
}

func (s *ActionStepImpl) GetType() string {
	return "action_step"
}
