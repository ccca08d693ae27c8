package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/serisow/knackflow/pipeline"
	"github.com/serisow/knackflow/pipeline_type"
	"github.com/serisow/knackflow/plugin_registry"
	"github.com/serisow/knackflow/services/action_service"
	"github.com/serisow/knackflow/services/knack"
)

// ActionHandler runs a single registered action on demand.
type ActionHandler struct {
	Registry *plugin_registry.PluginRegistry
	Logger   *slog.Logger
}

func NewActionHandler(registry *plugin_registry.PluginRegistry, logger *slog.Logger) *ActionHandler {
	return &ActionHandler{
		Registry: registry,
		Logger:   logger,
	}
}

func (h *ActionHandler) ListActions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"actions": h.Registry.ActionServiceNames()})
}

func (h *ActionHandler) ExecuteAction(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	service, ok := h.Registry.GetActionService(name)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown action: "+name)
		return
	}

	var requestBody struct {
		Configuration map[string]interface{} `json:"configuration"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	step := &pipeline_type.PipelineStep{
		ID:           pipeline.NewExecutionID(),
		Type:         "action_step",
		ActionConfig: name,
		ActionDetails: &pipeline_type.ActionDetails{
			ActionService: name,
			Configuration: requestBody.Configuration,
		},
	}

	result, err := service.Execute(r.Context(), name, pipeline_type.NewContext(), step)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, action_service.ErrInvalidProps) {
			status = http.StatusBadRequest
		} else if code, ok := knack.StatusCode(err); ok {
			status = code
		}
		h.Logger.Error("Action execution failed",
			slog.String("action", name),
			slog.Int("status", status),
			slog.String("error", err.Error()))
		writeError(w, status, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(result))
}
