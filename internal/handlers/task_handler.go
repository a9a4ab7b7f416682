package handlers

import (
	"net/http"
	"strconv"

	"earnwallet/internal/middleware"
	"earnwallet/internal/models"
	"earnwallet/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type TaskHandler struct {
	ledgerService *services.LedgerService
	logger        zerolog.Logger
}

func NewTaskHandler(ledgerService *services.LedgerService, logger zerolog.Logger) *TaskHandler {
	return &TaskHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, models.TaskCatalog)
}

func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	taskID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_task_id", "Invalid task ID")
		return
	}

	transaction, err := h.ledgerService.CompleteTask(r.Context(), userID, taskID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "Task completed",
		"transaction": transaction,
	})
}
