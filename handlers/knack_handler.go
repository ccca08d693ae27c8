package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/serisow/knackflow/services/knack"
)

// ObjectLister is satisfied by *knack.Client.
type ObjectLister interface {
	ListObjects(ctx context.Context) ([]knack.Object, error)
}

type KnackHandler struct {
	Objects ObjectLister
	Logger  *slog.Logger
}

func NewKnackHandler(objects ObjectLister, logger *slog.Logger) *KnackHandler {
	return &KnackHandler{
		Objects: objects,
		Logger:  logger,
	}
}

// ListObjects returns the objects of the configured application as
// label/value options for the object key prop.
func (h *KnackHandler) ListObjects(w http.ResponseWriter, r *http.Request) {
	objects, err := h.Objects.ListObjects(r.Context())
	if err != nil {
		status := http.StatusBadGateway
		if code, ok := knack.StatusCode(err); ok {
			status = code
		}
		h.Logger.Error("Failed to list Knack objects", slog.String("error", err.Error()))
		writeError(w, status, err.Error())
		return
	}

	options := make([]map[string]string, 0, len(objects))
	for _, object := range objects {
		options = append(options, map[string]string{
			"label": object.Name,
			"value": object.Key,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"options": options})
}
