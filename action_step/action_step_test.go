package action_step

import (
	"context"
	"errors"
	"testing"

	"github.com/serisow/knackflow/pipeline_type"
	"github.com/serisow/knackflow/plugin_registry"
	"github.com/serisow/knackflow/services/action_service"
	"github.com/serisow/knackflow/services/knack"
)

func TestActionStepImpl_Execute(t *testing.T) {
	notFound := &knack.TransportError{StatusCode: 404, Method: "PUT", URL: "https://api.knack.com/v1/objects/object_1/records/rec_404"}

	tests := []struct {
		name             string
		actionConfig     string
		stepOutputKey    string
		registered       action_service.ActionService
		expectedResult   string
		expectedError    bool
		expectedErrorMsg string
	}{
		{
			name:           "Successful action",
			actionConfig:   "knack_update_record",
			stepOutputKey:  "updated",
			registered:     &action_service.MockActionService{Response: `{"summary":"Updated record successfully"}`, ServiceName: "knack_update_record"},
			expectedResult: `{"summary":"Updated record successfully"}`,
		},
		{
			name:             "Transport error is wrapped with the step id",
			actionConfig:     "knack_update_record",
			stepOutputKey:    "updated",
			registered:       &action_service.MockActionService{Error: notFound, ServiceName: "knack_update_record"},
			expectedError:    true,
			expectedErrorMsg: "error executing action service for step step_1: " + notFound.Error(),
		},
		{
			name:             "Service refuses the action name",
			actionConfig:     "knack_update_record",
			registered:       &action_service.MockActionService{ServiceName: "something_else"},
			expectedError:    true,
			expectedErrorMsg: `action service cannot handle "knack_update_record" for step step_1`,
		},
		{
			name:             "Service not registered",
			actionConfig:     "missing_action",
			expectedError:    true,
			expectedErrorMsg: "ActionService is not initialized for step step_1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := plugin_registry.NewPluginRegistry()
			if tt.registered != nil {
				registry.RegisterActionService(tt.actionConfig, tt.registered)
			}

			actionStep := &ActionStepImpl{
				PipelineStep: pipeline_type.PipelineStep{
					ID:            "step_1",
					ActionConfig:  tt.actionConfig,
					StepOutputKey: tt.stepOutputKey,
				},
			}
			if service, ok := registry.GetActionService(tt.actionConfig); ok {
				actionStep.ActionServiceInstance = service
			}

			pipelineContext := pipeline_type.NewContext()
			err := actionStep.Execute(context.Background(), pipelineContext)

			if tt.expectedError {
				if err == nil {
					t.Fatalf("Expected an error but got none")
				}
				if err.Error() != tt.expectedErrorMsg {
					t.Errorf("Expected error '%s', got '%s'", tt.expectedErrorMsg, err.Error())
				}
				return
			}

			if err != nil {
				t.Fatalf("Did not expect an error but got: %v", err)
			}
			output, exists := pipelineContext.GetStepOutput(tt.stepOutputKey)
			if !exists {
				t.Fatalf("Expected output key '%s' not found in context", tt.stepOutputKey)
			}
			if output != tt.expectedResult {
				t.Errorf("Expected output '%s', got '%s'", tt.expectedResult, output)
			}
		})
	}
}

func TestActionStepImpl_ErrorUnwrapsToTransportError(t *testing.T) {
	notFound := &knack.TransportError{StatusCode: 404}
	actionStep := &ActionStepImpl{
		PipelineStep:          pipeline_type.PipelineStep{ID: "step_1", ActionConfig: "knack_update_record"},
		ActionServiceInstance: &action_service.MockActionService{Error: notFound},
	}

	err := actionStep.Execute(context.Background(), pipeline_type.NewContext())

	var transportErr *knack.TransportError
	if !errors.As(err, &transportErr) || transportErr != notFound {
		t.Fatalf("Expected wrapped TransportError, got %v", err)
	}
}
