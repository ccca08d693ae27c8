package action_service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/serisow/knackflow/pipeline_type"
	"github.com/serisow/knackflow/services/knack"
)

const (
	UpdateRecordServiceName = "knack_update_record"
	UpdateRecordSummary     = "Updated record successfully"
)

// ErrInvalidProps marks errors caused by the action configuration rather than
// by the Knack API.
var ErrInvalidProps = errors.New("invalid props")

// UpdateRecordAction updates a record of a Knack object.
// See https://docs.knack.com/docs/object-based-put
type UpdateRecordAction struct {
	connection knack.Connection
	validate   *validator.Validate
	logger     *slog.Logger
}

func NewUpdateRecordAction(connection knack.Connection, logger *slog.Logger) *UpdateRecordAction {
	if logger == nil {
		logger = slog.Default()
	}
	return &UpdateRecordAction{
		connection: connection,
		validate:   validator.New(),
		logger:     logger,
	}
}

// Run sends a single PUT for the record. Transport errors are returned as is.
func (a *UpdateRecordAction) Run(ctx context.Context, props UpdateRecordProps) (*ActionOutput, error) {
	response, err := props.Connection.HTTPRequest(ctx, knack.RequestOptions{
		Method:    http.MethodPut,
		ObjectKey: props.ObjectKey,
		RecordID:  props.RecordID,
		Data:      props.RecordData,
	})
	if err != nil {
		return nil, err
	}

	return &ActionOutput{
		Summary:  UpdateRecordSummary,
		Response: response,
	}, nil
}

func (a *UpdateRecordAction) Execute(ctx context.Context, actionConfig string, pipelineContext *pipeline_type.Context, step *pipeline_type.PipelineStep) (string, error) {
	props, err := a.resolveProps(pipelineContext, step)
	if err != nil {
		return "", fmt.Errorf("%w for %s: %w", ErrInvalidProps, UpdateRecordServiceName, err)
	}

	output, err := a.Run(ctx, props)
	if err != nil {
		a.logger.Error("Failed to update Knack record",
			slog.String("step_id", step.ID),
			slog.String("object_key", props.ObjectKey),
			slog.String("record_id", props.RecordID),
			slog.String("error", err.Error()))
		return "", err
	}

	a.logger.Info(output.Summary,
		slog.String("step_id", step.ID),
		slog.String("object_key", props.ObjectKey),
		slog.String("record_id", props.RecordID))

	if step.StepOutputKey != "" {
		pipelineContext.SetStepOutput(step.StepOutputKey+"_summary", output.Summary)
	}

	resultJson, err := json.Marshal(output)
	if err != nil {
		return "", fmt.Errorf("error marshaling result: %w", err)
	}
	return string(resultJson), nil
}

func (a *UpdateRecordAction) CanHandle(actionService string) bool {
	return actionService == UpdateRecordServiceName
}

func (a *UpdateRecordAction) resolveProps(pipelineContext *pipeline_type.Context, step *pipeline_type.PipelineStep) (UpdateRecordProps, error) {
	if step.ActionDetails == nil || step.ActionDetails.Configuration == nil {
		return UpdateRecordProps{}, fmt.Errorf("missing action configuration")
	}
	config := step.ActionDetails.Configuration

	objectKey, err := resolvePlaceholders(getStringValue(config, "object_key", ""), pipelineContext, step)
	if err != nil {
		return UpdateRecordProps{}, err
	}
	recordID, err := resolvePlaceholders(getStringValue(config, "record_id", ""), pipelineContext, step)
	if err != nil {
		return UpdateRecordProps{}, err
	}
	recordData, err := decodeRecordData(config["record_data"], pipelineContext, step)
	if err != nil {
		return UpdateRecordProps{}, err
	}

	props := UpdateRecordProps{
		KnackProps: KnackProps{
			Connection: a.connection,
			ObjectKey:  objectKey,
		},
		RecordID:   recordID,
		RecordData: recordData,
	}
	if err := a.validate.Struct(props); err != nil {
		return UpdateRecordProps{}, err
	}
	return props, nil
}
