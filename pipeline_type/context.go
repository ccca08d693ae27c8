package pipeline_type

import "sync"

// Context is shared by the steps of a single pipeline run. Handlers may read
// it while the run is in flight, so access goes through the mutex.
type Context struct {
	mu          sync.RWMutex
	StepOutputs map[string]interface{}
}

func NewContext() *Context {
	return &Context{
		StepOutputs: make(map[string]interface{}),
	}
}

func (c *Context) SetStepOutput(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.StepOutputs[key] = value
}

func (c *Context) GetStepOutput(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, ok := c.StepOutputs[key]
	return val, ok
}
