package plugin_registry_test

import (
	"context"
	"testing"

	"github.com/serisow/knackflow/pipeline/step"
	"github.com/serisow/knackflow/pipeline_type"
	"github.com/serisow/knackflow/plugin_registry"
	"github.com/serisow/knackflow/services/action_service"
)

type MockStep struct{}

func (s *MockStep) Execute(ctx context.Context, pipelineContext *pipeline_type.Context) error {
	return nil
}

func (s *MockStep) GetType() string {
	return "mock_step"
}

func TestRegisterAndGetStepType(t *testing.T) {
	registry := plugin_registry.NewPluginRegistry()

	registry.RegisterStepType("mock_step", func() step.Step {
		return &MockStep{}
	})

	stepInstance, err := registry.GetStepInstance("mock_step")
	if err != nil {
		t.Fatalf("Expected to retrieve step instance, got error: %v", err)
	}

	if stepInstance.GetType() != "mock_step" {
		t.Errorf("Expected step type 'mock_step', got '%s'", stepInstance.GetType())
	}
}

func TestGetUnregisteredStepType(t *testing.T) {
	registry := plugin_registry.NewPluginRegistry()

	_, err := registry.GetStepInstance("unknown_step")
	if err == nil {
		t.Fatal("Expected error when retrieving unregistered step type, got nil")
	}

	expectedErrorMsg := "unknown step type: unknown_step"
	if err.Error() != expectedErrorMsg {
		t.Errorf("Expected error '%s', got '%s'", expectedErrorMsg, err.Error())
	}
}

func TestRegisterAndGetActionService(t *testing.T) {
	registry := plugin_registry.NewPluginRegistry()

	mockActionService := &action_service.MockActionService{
		ServiceName: "knack_update_record",
	}
	registry.RegisterActionService("knack_update_record", mockActionService)

	service, ok := registry.GetActionService("knack_update_record")
	if !ok {
		t.Fatal("Expected to retrieve registered action service, got false")
	}

	if service != mockActionService {
		t.Errorf("Expected retrieved service to be the same as registered service")
	}
}

func TestGetUnregisteredActionService(t *testing.T) {
	registry := plugin_registry.NewPluginRegistry()

	_, ok := registry.GetActionService("unknown_service")
	if ok {
		t.Fatal("Expected to not find unregistered action service, but got true")
	}
}

func TestActionServiceNames(t *testing.T) {
	registry := plugin_registry.NewPluginRegistry()
	registry.RegisterActionService("z_action", &action_service.MockActionService{})
	registry.RegisterActionService("a_action", &action_service.MockActionService{})

	names := registry.ActionServiceNames()
	if len(names) != 2 || names[0] != "a_action" || names[1] != "z_action" {
		t.Errorf("Expected sorted names [a_action z_action], got %v", names)
	}
}
