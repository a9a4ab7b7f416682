package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"earnwallet/internal/middleware"
	"earnwallet/internal/models"
	"earnwallet/internal/services"

	"github.com/rs/zerolog"
)

type WalletHandler struct {
	ledgerService *services.LedgerService
	logger        zerolog.Logger
}

func NewWalletHandler(ledgerService *services.LedgerService, logger zerolog.Logger) *WalletHandler {
	return &WalletHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

func (h *WalletHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	var req models.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	transaction, err := h.ledgerService.Deposit(r.Context(), userID, &req)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "Deposit successful",
		"transaction": transaction,
	})
}

func (h *WalletHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	var req models.WithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	transaction, err := h.ledgerService.RequestWithdrawal(r.Context(), userID, &req)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "Withdrawal request submitted for approval",
		"transaction": transaction,
	})
}

func (h *WalletHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	filter := models.TransactionFilter{
		Type:   models.TransactionType(r.URL.Query().Get("type")),
		Status: models.TransactionStatus(r.URL.Query().Get("status")),
		Limit:  10,
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

	transactions, err := h.ledgerService.Transactions(r.Context(), userID, filter)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	if transactions == nil {
		transactions = []*models.Transaction{}
	}

	respondWithJSON(w, http.StatusOK, transactions)
}

func (h *WalletHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	stats, err := h.ledgerService.UserStats(r.Context(), userID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}
