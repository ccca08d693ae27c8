package action_service

import "github.com/serisow/knackflow/services/knack"

// KnackProps holds the props every Knack action shares.
type KnackProps struct {
	Connection knack.Connection `validate:"required"`
	ObjectKey  string           `validate:"required"`
}

// UpdateRecordProps extends KnackProps with the record to update.
type UpdateRecordProps struct {
	KnackProps
	RecordID   string `validate:"required"`
	RecordData map[string]interface{}
}
