package plugin_registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/serisow/knackflow/pipeline/step"
	"github.com/serisow/knackflow/services/action_service"
)

type PluginRegistry struct {
	mu             sync.RWMutex
	stepTypes      map[string]func() step.Step
	actionServices map[string]action_service.ActionService
}

func NewPluginRegistry() *PluginRegistry {
	return &PluginRegistry{
		stepTypes:      make(map[string]func() step.Step),
		actionServices: make(map[string]action_service.ActionService),
	}
}

// RegisterStepType registers a new step type
func (pr *PluginRegistry) RegisterStepType(typeName string, factory func() step.Step) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	pr.stepTypes[typeName] = factory
}

// GetStepInstance returns a new instance of a step type
func (pr *PluginRegistry) GetStepInstance(typeName string) (step.Step, error) {
	pr.mu.RLock()
	factory, ok := pr.stepTypes[typeName]
	pr.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown step type: %s", typeName)
	}
	return factory(), nil
}

// RegisterActionService registers a new Action service
func (pr *PluginRegistry) RegisterActionService(name string, service action_service.ActionService) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	pr.actionServices[name] = service
}

// GetActionService returns an Action service by name
func (pr *PluginRegistry) GetActionService(name string) (action_service.ActionService, bool) {
	pr.mu.RLock()
	defer pr.mu.RUnlock()
	service, ok := pr.actionServices[name]
	return service, ok
}

// ActionServiceNames lists the registered action services, sorted.
func (pr *PluginRegistry) ActionServiceNames() []string {
	pr.mu.RLock()
	defer pr.mu.RUnlock()
	names := make([]string, 0, len(pr.actionServices))
	for name := range pr.actionServices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
