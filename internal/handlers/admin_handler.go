package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"earnwallet/internal/middleware"
	"earnwallet/internal/models"
	"earnwallet/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type AdminHandler struct {
	ledgerService *services.LedgerService
	userService   *services.UserService
	logger        zerolog.Logger
}

func NewAdminHandler(ledgerService *services.LedgerService, userService *services.UserService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		ledgerService: ledgerService,
		userService:   userService,
		logger:        logger,
	}
}

func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	stats, err := h.ledgerService.AdminStats(r.Context(), callerID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	filter := models.UserFilter{
		Search: r.URL.Query().Get("search"),
		Limit:  20,
		Offset: 0,
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			filter.Limit = v
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			filter.Offset = v
		}
	}

	users, err := h.userService.ListUsers(r.Context(), callerID, filter)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}

	respondWithJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) GetPendingWithdrawals(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	withdrawals, err := h.ledgerService.PendingWithdrawals(r.Context(), callerID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	if withdrawals == nil {
		withdrawals = []*models.PendingWithdrawal{}
	}

	respondWithJSON(w, http.StatusOK, withdrawals)
}

func (h *AdminHandler) ResolveWithdrawal(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	transactionID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_transaction_id", "Invalid transaction ID")
		return
	}

	var req models.ResolveWithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	transaction, err := h.ledgerService.ResolveWithdrawal(r.Context(), callerID, transactionID, &req)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Withdrawal " + string(transaction.Status),
		"transaction": transaction,
	})
}

func (h *AdminHandler) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	userID := mux.Vars(r)["id"]

	var req models.UserStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	if err := h.userService.SetUserActive(r.Context(), callerID, userID, *req.IsActive); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	message := "User suspended"
	if *req.IsActive {
		message = "User activated"
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": message})
}
