package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/serisow/knackflow/action_step"
	"github.com/serisow/knackflow/pipeline/step"
	"github.com/serisow/knackflow/pipeline_type"
	"github.com/serisow/knackflow/plugin_registry"
)

// RecordExecutionFunc receives every finished execution. main swaps it for
// the database recorder when one is configured.
var RecordExecutionFunc = func(ctx context.Context, result *ExecutionResult) error {
	return nil
}

// ExecutePipeline runs the steps of p in weight order and returns the output
// of each step keyed by step UUID.
func ExecutePipeline(ctx context.Context, p *pipeline_type.Pipeline, registry *plugin_registry.PluginRegistry) (map[string]interface{}, error) {
	if p.Context == nil {
		p.Context = pipeline_type.NewContext()
	}

	steps := make([]pipeline_type.PipelineStep, len(p.Steps))
	copy(steps, p.Steps)
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].Weight < steps[j].Weight
	})

	results := make(map[string]interface{})

	for _, pipelineStep := range steps {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("pipeline %s cancelled: %w", p.ID, err)
		}

		s, err := buildStep(pipelineStep, registry)
		if err != nil {
			return results, err
		}

		if err := s.Execute(ctx, p.Context); err != nil {
			return results, fmt.Errorf("error executing step %s: %w", pipelineStep.ID, err)
		}

		output, _ := p.Context.GetStepOutput(pipelineStep.StepOutputKey)
		results[stepResultKey(pipelineStep)] = map[string]interface{}{
			"output": output,
		}
	}

	return results, nil
}

// StartExecution stores a started entry for p so status lookups succeed
// before the run itself begins. It returns the execution id, generating one
// when executionID is empty.
func StartExecution(executionID string, p *pipeline_type.Pipeline) string {
	if executionID == "" {
		executionID = NewExecutionID()
	}

	now := timeProvider.Now()
	AddExecution(executionID, &ExecutionResult{
		PipelineID:  p.ID,
		ExecutionID: executionID,
		Status:      StatusStarted,
		StartTime:   now.Unix(),
		SubmittedAt: now.Format(time.RFC3339),
	})
	return executionID
}

// RunExecution starts and runs p, blocking until the pipeline is done.
func RunExecution(ctx context.Context, executionID string, p *pipeline_type.Pipeline, registry *plugin_registry.PluginRegistry, logger *slog.Logger) *ExecutionResult {
	executionID = StartExecution(executionID, p)
	return RunStartedExecution(ctx, executionID, p, registry, logger)
}

// RunStartedExecution runs p for an execution previously registered with
// StartExecution and stores its outcome. Callers that answer asynchronously
// run it in a goroutine.
func RunStartedExecution(ctx context.Context, executionID string, p *pipeline_type.Pipeline, registry *plugin_registry.PluginRegistry, logger *slog.Logger) *ExecutionResult {
	if logger == nil {
		logger = slog.Default()
	}

	results, err := ExecutePipeline(ctx, p, registry)

	finished := timeProvider.Now()
	update := ExecutionResult{
		Results:     results,
		EndTime:     finished.Unix(),
		CompletedAt: finished.Format(time.RFC3339),
		Status:      StatusCompleted,
	}
	if err != nil {
		update.Status = StatusFailed
		update.ErrorMessage = err.Error()
		logger.Error("Pipeline execution failed",
			slog.String("pipeline_id", p.ID),
			slog.String("execution_id", executionID),
			slog.String("error", err.Error()))
	} else {
		logger.Info("Pipeline execution completed",
			slog.String("pipeline_id", p.ID),
			slog.String("execution_id", executionID),
			slog.Int("steps", len(p.Steps)))
	}
	final := UpdateExecution(executionID, update)

	if recErr := RecordExecutionFunc(ctx, final); recErr != nil {
		logger.Warn("Failed to record execution",
			slog.String("execution_id", executionID),
			slog.String("error", recErr.Error()))
	}
	return final
}

func NewExecutionID() string {
	return uuid.New().String()
}

func buildStep(pipelineStep pipeline_type.PipelineStep, registry *plugin_registry.PluginRegistry) (step.Step, error) {
	s, err := registry.GetStepInstance(pipelineStep.Type)
	if err != nil {
		return nil, fmt.Errorf("error creating step %s: %w", pipelineStep.ID, err)
	}

	switch typed := s.(type) {
	case *action_step.ActionStepImpl:
		serviceName := pipelineStep.ServiceName()
		service, ok := registry.GetActionService(serviceName)
		if !ok {
			return nil, fmt.Errorf("unknown action service: %s", serviceName)
		}
		typed.PipelineStep = pipelineStep
		typed.ActionServiceInstance = service
	}
	return s, nil
}

func stepResultKey(s pipeline_type.PipelineStep) string {
	if s.UUID != "" {
		return s.UUID
	}
	return s.ID
}
