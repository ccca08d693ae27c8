package pipeline

import (
	"log/slog"
	"sync"
	"time"
)

type ExecutionStatus string

const (
	StatusStarted   ExecutionStatus = "started"
	StatusCompleted ExecutionStatus = "completed"
	StatusFailed    ExecutionStatus = "failed"
)

type ExecutionResult struct {
	PipelineID   string                 `json:"pipeline_id"`
	ExecutionID  string                 `json:"execution_id"`
	Status       ExecutionStatus        `json:"status"`
	StartTime    int64                  `json:"start_time"`
	EndTime      int64                  `json:"end_time,omitempty"`
	Results      map[string]interface{} `json:"results,omitempty"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	SubmittedAt  string                 `json:"submitted_at"`
	CompletedAt  string                 `json:"completed_at,omitempty"`
}

var (
	ExecutionStore = struct {
		sync.RWMutex
		Executions map[string]*ExecutionResult
	}{
		Executions: make(map[string]*ExecutionResult),
	}
	cleanupMu   sync.Mutex
	stopCleanup chan struct{}
)

// StartExecutionStoreCleanup starts a goroutine that periodically cleans up old execution results.
// - threshold: Duration after which execution results are considered expired.
// - cleanupInterval: How often the cleanup process runs.
// A cleanup goroutine started by an earlier call is stopped first.
func StartExecutionStoreCleanup(threshold time.Duration, cleanupInterval time.Duration) {
	cleanupMu.Lock()
	defer cleanupMu.Unlock()

	if stopCleanup != nil {
		close(stopCleanup)
	}
	stop := make(chan struct{})
	ticker := time.NewTicker(cleanupInterval)
	stopCleanup = stop

	go func() {
		for {
			select {
			case <-ticker.C:
				performCleanup(threshold)
			case <-stop:
				ticker.Stop()
				return
			}
		}
	}()
}

func StopExecutionStoreCleanup() {
	cleanupMu.Lock()
	defer cleanupMu.Unlock()
	if stopCleanup != nil {
		close(stopCleanup)
		stopCleanup = nil
	}
}

func performCleanup(threshold time.Duration) {
	now := timeProvider.Now()
	ExecutionStore.Lock()
	defer ExecutionStore.Unlock()

	for execID, execResult := range ExecutionStore.Executions {
		if execResult.CompletedAt == "" {
			continue
		}
		completedAt, err := time.Parse(time.RFC3339, execResult.CompletedAt)
		if err == nil && now.Sub(completedAt) > threshold {
			delete(ExecutionStore.Executions, execID)
			slog.Debug("Deleted execution result due to expiration", slog.String("execution_id", execID))
		}
	}
}

func AddExecution(execID string, result *ExecutionResult) {
	ExecutionStore.Lock()
	defer ExecutionStore.Unlock()
	ExecutionStore.Executions[execID] = result
}

// GetExecution returns a copy of the stored execution.
func GetExecution(execID string) (*ExecutionResult, bool) {
	ExecutionStore.RLock()
	defer ExecutionStore.RUnlock()
	result, exists := ExecutionStore.Executions[execID]
	if !exists {
		return nil, false
	}
	copied := *result
	return &copied, true
}

// UpdateExecution merges the finished state of an execution into the store
// and returns a copy of the stored value.
func UpdateExecution(execID string, update ExecutionResult) *ExecutionResult {
	ExecutionStore.Lock()
	defer ExecutionStore.Unlock()

	result, exists := ExecutionStore.Executions[execID]
	if !exists {
		result = &ExecutionResult{ExecutionID: execID}
		ExecutionStore.Executions[execID] = result
	}
	result.Status = update.Status
	result.Results = update.Results
	result.ErrorMessage = update.ErrorMessage
	result.EndTime = update.EndTime
	result.CompletedAt = update.CompletedAt

	copied := *result
	return &copied
}
