package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/doclink/doclink/internal/domain"
	"github.com/doclink/doclink/internal/dto"
	walletservice "github.com/doclink/doclink/internal/service/walletservice"
	"github.com/doclink/doclink/pkg/auth"
	"github.com/doclink/doclink/pkg/utils"
	"github.com/doclink/doclink/pkg/validate"
)

// Amounts cross the API as decimal strings; the ledger stores minor units.
const minorUnitsFactor = 100

type Service interface {
	GetWallet(ctx context.Context, userID int) (*domain.Wallet, error)
	Fund(ctx context.Context, walletID int, amount int64, description, promoCode string) (*domain.Wallet, *domain.Transaction, error)
	Withdraw(ctx context.Context, walletID int, amount int64, description string) (*domain.Wallet, *domain.Transaction, error)
	ListTransactions(ctx context.Context, walletID int) ([]domain.Transaction, error)
}

type WalletHandler struct {
	walletService Service
}

func New(walletService Service) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

func toMinorUnits(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return 0, err
	}
	return d.Mul(decimal.NewFromInt(minorUnitsFactor)).IntPart(), nil
}

func fromMinorUnits(v int64) string {
	return decimal.NewFromInt(v).Div(decimal.NewFromInt(minorUnitsFactor)).StringFixed(2)
}

func transactionDTO(tx *domain.Transaction) dto.TransactionResponseDTO {
	return dto.TransactionResponseDTO{
		ID:          tx.ID.String(),
		Amount:      fromMinorUnits(tx.Amount),
		Kind:        string(tx.Kind),
		Description: tx.Description,
		PromoCode:   tx.PromoCode,
		CreatedAt:   tx.CreatedAt,
	}
}

// GetWallet godoc
//
//	@Summary		Get current user wallet
//	@Description	Retrieve the wallet balance for the authenticated user.
//	@Tags			Wallet
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.WalletResponseDTO	"Current wallet state"
//	@Failure		401	{object}	utils.Response			"User not authorized"
//	@Failure		404	{object}	utils.Response			"Wallet not found"
//	@Failure		500	{object}	utils.Response			"Internal server error"
//	@Router			/api/user/wallet [get]
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	wallet, err := h.walletService.GetWallet(r.Context(), userID)
	if err != nil {
		if errors.Is(err, walletservice.ErrWalletNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.WalletResponseDTO{
		WalletID: wallet.ID,
		Balance:  fromMinorUnits(wallet.Balance),
	})
}

// TopUp godoc
//
//	@Summary		Fund the wallet
//	@Description	Credit the wallet from a payment card and record a top-up transaction.
//	@Tags			Wallet
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.TopUpRequestDTO	true	"Top-up request payload"
//	@Success		200		{object}	dto.WalletOperationResponseDTO	"Updated wallet and new transaction"
//	@Failure		400		{object}	utils.Response	"Invalid amount"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		404		{object}	utils.Response	"Wallet not found"
//	@Failure		422		{object}	utils.Response	"Invalid card number"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/wallet/topup [post]
func (h *WalletHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.TopUpRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !validate.IsCardNumber(req.Card) {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Invalid card number")
		return
	}

	amount, err := toMinorUnits(req.Amount)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	wallet, err := h.walletService.GetWallet(r.Context(), userID)
	if err != nil {
		h.respondWalletError(w, err)
		return
	}

	updated, transaction, err := h.walletService.Fund(r.Context(), wallet.ID, amount, req.Description, req.PromoCode)
	if err != nil {
		h.respondWalletError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.WalletOperationResponseDTO{
		Balance:     fromMinorUnits(updated.Balance),
		Transaction: transactionDTO(transaction),
	})
}

// Withdraw godoc
//
//	@Summary		Withdraw funds
//	@Description	Debit the wallet and record a withdrawal transaction.
//	@Tags			Wallet
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.WithdrawRequestDTO	true	"Withdrawal request payload"
//	@Success		200		{object}	dto.WalletOperationResponseDTO	"Updated wallet and new transaction"
//	@Failure		400		{object}	utils.Response	"Invalid amount"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		402		{object}	utils.Response	"Insufficient funds"
//	@Failure		404		{object}	utils.Response	"Wallet not found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/wallet/withdraw [post]
func (h *WalletHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.WithdrawRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, err := toMinorUnits(req.Amount)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	wallet, err := h.walletService.GetWallet(r.Context(), userID)
	if err != nil {
		h.respondWalletError(w, err)
		return
	}

	updated, transaction, err := h.walletService.Withdraw(r.Context(), wallet.ID, amount, req.Description)
	if err != nil {
		h.respondWalletError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.WalletOperationResponseDTO{
		Balance:     fromMinorUnits(updated.Balance),
		Transaction: transactionDTO(transaction),
	})
}

// GetTransactions godoc
//
//	@Summary		Get wallet transactions
//	@Description	Get the wallet ledger for the authenticated user, newest first.
//	@Tags			Wallet
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.TransactionResponseDTO	"Transaction history"
//	@Success		204	{object}	utils.Response				"No transactions"
//	@Failure		401	{object}	utils.Response				"User not authorized"
//	@Failure		500	{object}	utils.Response				"Internal server error"
//	@Router			/api/user/wallet/transactions [get]
func (h *WalletHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	wallet, err := h.walletService.GetWallet(r.Context(), userID)
	if err != nil {
		h.respondWalletError(w, err)
		return
	}

	transactions, err := h.walletService.ListTransactions(r.Context(), wallet.ID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}

	if len(transactions) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "Transactions not found")
		return
	}

	response := make([]dto.TransactionResponseDTO, len(transactions))
	for i, tx := range transactions {
		response[i] = transactionDTO(&tx)
	}

	utils.RespondWithJSON(w, http.StatusOK, response)
}

func (h *WalletHandler) respondWalletError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, walletservice.ErrInvalidAmount):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, walletservice.ErrInsufficientFunds):
		utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, walletservice.ErrWalletNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
