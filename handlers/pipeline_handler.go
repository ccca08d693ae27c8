package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/serisow/knackflow/pipeline"
	"github.com/serisow/knackflow/pipeline_type"
	"github.com/serisow/knackflow/plugin_registry"
)

type PipelineHandler struct {
	Registry *plugin_registry.PluginRegistry
	Logger   *slog.Logger
}

func NewPipelineHandler(registry *plugin_registry.PluginRegistry, logger *slog.Logger) *PipelineHandler {
	return &PipelineHandler{
		Registry: registry,
		Logger:   logger,
	}
}

func (h *PipelineHandler) ExecutePipeline(w http.ResponseWriter, r *http.Request) {
	pipelineID := mux.Vars(r)["id"]

	var p pipeline_type.Pipeline
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(p.Steps) == 0 {
		writeError(w, http.StatusBadRequest, "Pipeline has no steps")
		return
	}
	p.ID = pipelineID
	p.Context = pipeline_type.NewContext()

	executionID := pipeline.StartExecution("", &p)
	// The request context ends with the response; the run outlives it.
	go pipeline.RunStartedExecution(context.Background(), executionID, &p, h.Registry, h.Logger)

	writeJSON(w, http.StatusAccepted, map[string]string{
		"message":      "Pipeline execution started",
		"execution_id": executionID,
	})
}

func (h *PipelineHandler) GetExecutionStatus(w http.ResponseWriter, r *http.Request) {
	result, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"pipeline_id":   result.PipelineID,
		"execution_id":  result.ExecutionID,
		"status":        result.Status,
		"submitted_at":  result.SubmittedAt,
		"completed_at":  result.CompletedAt,
		"error_message": result.ErrorMessage,
	})
}

func (h *PipelineHandler) GetExecutionResults(w http.ResponseWriter, r *http.Request) {
	result, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if result.Status == pipeline.StatusStarted {
		writeJSON(w, http.StatusAccepted, map[string]interface{}{
			"execution_id": result.ExecutionID,
			"status":       result.Status,
		})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *PipelineHandler) lookup(w http.ResponseWriter, r *http.Request) (*pipeline.ExecutionResult, bool) {
	vars := mux.Vars(r)
	result, ok := pipeline.GetExecution(vars["execution_id"])
	if !ok || result.PipelineID != vars["id"] {
		writeError(w, http.StatusNotFound, "Execution not found")
		return nil, false
	}
	return result, true
}
