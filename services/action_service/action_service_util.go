package action_service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/serisow/knackflow/pipeline_type"
)

// Helper functions
func getStringValue(config map[string]interface{}, key string, defaultValue string) string {
	if val, ok := config[key].(string); ok && val != "" {
		return val
	}
	return defaultValue
}

// requiredStepKeys splits the step's RequiredSteps list, one key per line.
func requiredStepKeys(step *pipeline_type.PipelineStep) []string {
	var keys []string
	for _, key := range strings.Split(step.RequiredSteps, "\n") {
		key = strings.TrimSpace(key)
		if key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// resolvePlaceholders replaces {step_key} placeholders in value with the
// outputs of the step's required steps, in a single pass.
func resolvePlaceholders(value string, pipelineContext *pipeline_type.Context, step *pipeline_type.PipelineStep) (string, error) {
	var pairs []string
	for _, key := range requiredStepKeys(step) {
		placeholder := fmt.Sprintf("{%s}", key)
		if !strings.Contains(value, placeholder) {
			continue
		}
		output, ok := pipelineContext.GetStepOutput(key)
		if !ok {
			return "", fmt.Errorf("required step output '%s' not found in context", key)
		}
		pairs = append(pairs, placeholder, fmt.Sprintf("%v", output))
	}
	if len(pairs) == 0 {
		return value, nil
	}
	return strings.NewReplacer(pairs...).Replace(value), nil
}

// decodeRecordData accepts record data either as an object or as a JSON
// string holding one. Placeholders are substituted in the decoded string
// values, so step outputs never change the shape of the payload.
func decodeRecordData(raw interface{}, pipelineContext *pipeline_type.Context, step *pipeline_type.PipelineStep) (map[string]interface{}, error) {
	var data map[string]interface{}
	switch typed := raw.(type) {
	case nil:
		return map[string]interface{}{}, nil
	case map[string]interface{}:
		data = typed
	case string:
		if strings.TrimSpace(typed) == "" {
			return map[string]interface{}{}, nil
		}
		if err := json.Unmarshal([]byte(typed), &data); err != nil {
			return nil, fmt.Errorf("record_data is not a JSON object: %w", err)
		}
		if data == nil {
			return nil, fmt.Errorf("record_data is not a JSON object")
		}
	default:
		return nil, fmt.Errorf("record_data has unsupported type %T", raw)
	}

	resolved, err := resolveValue(data, pipelineContext, step)
	if err != nil {
		return nil, err
	}
	return resolved.(map[string]interface{}), nil
}

// resolveValue returns a copy of value with placeholders substituted in every
// string, walking nested maps and slices.
func resolveValue(value interface{}, pipelineContext *pipeline_type.Context, step *pipeline_type.PipelineStep) (interface{}, error) {
	switch typed := value.(type) {
	case string:
		return resolvePlaceholders(typed, pipelineContext, step)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(typed))
		for k, v := range typed {
			resolved, err := resolveValue(v, pipelineContext, step)
			if err != nil {
				return nil, err
			}
			out[k] = resolved
		}
		return out, nil
	case []interface{}:
		out := make([]interface{}, len(typed))
		for i, v := range typed {
			resolved, err := resolveValue(v, pipelineContext, step)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil
	default:
		return value, nil
	}
}
