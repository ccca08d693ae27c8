package pipeline_type

// The full pipeline data
type Pipeline struct {
	ID      string         `json:"id"`
	Label   string         `json:"label"`
	Steps   []PipelineStep `json:"steps"`
	Context *Context       `json:"-"`
}

type PipelineStep struct {
	ID              string         `json:"id"`
	Type            string         `json:"type"`
	Weight          int            `json:"weight"`
	StepDescription string         `json:"step_description"`
	StepOutputKey   string         `json:"step_output_key"`
	RequiredSteps   string         `json:"required_steps"`
	UUID            string         `json:"uuid"`
	ActionConfig    string         `json:"action_config,omitempty"`
	ActionDetails   *ActionDetails `json:"action_details,omitempty"`
}

// ActionDetails carries the action service name and its user-supplied props.
type ActionDetails struct {
	ID            string                 `json:"id"`
	Label         string                 `json:"label"`
	ActionService string                 `json:"action_service"`
	Configuration map[string]interface{} `json:"configuration"`
}

// ServiceName returns the action service a step should be dispatched to.
// ActionDetails wins over the legacy ActionConfig string.
func (s PipelineStep) ServiceName() string {
	if s.ActionDetails != nil && s.ActionDetails.ActionService != "" {
		return s.ActionDetails.ActionService
	}
	return s.ActionConfig
}
