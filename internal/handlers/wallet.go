package handlers

import (
	"errors"
	"strconv"

	"giftwise/internal/services/ledger"
	"giftwise/internal/services/payment"
	"giftwise/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	ledgerService  ledger.Service
	paymentService payment.Service
}

func NewWalletHandler(ledgerService ledger.Service, paymentService payment.Service) *WalletHandler {
	return &WalletHandler{
		ledgerService:  ledgerService,
		paymentService: paymentService,
	}
}

// GetBalance returns the spendable balance view. A degraded view is
// still a 200 with available zero; the flag tells clients the number is
// a floor, not the truth.
func (h *WalletHandler) GetBalance(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	view := h.ledgerService.AvailableBalance(c.Context(), claims.UserID)
	return response.Success(c, "Balance", fiber.Map{
		"available":      view.Available,
		"stored_balance": view.StoredBalance,
		"pending_holds":  view.PendingHolds,
		"degraded":       view.Degraded,
	})
}

func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	wallet, err := h.ledgerService.GetWallet(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, ledger.ErrWalletNotFound) {
			return response.NotFound(c, "Wallet not found")
		}
		return response.ServerError(c, "Failed to get wallet")
	}
	return response.Success(c, "Wallet", fiber.Map{"wallet": wallet})
}

func (h *WalletHandler) TopUp(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var input struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
		Token    string  `json:"token"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	tx, err := h.paymentService.TopUp(c.Context(), claims.UserID, input.Amount, input.Currency, input.Token)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrInvalidAmount), errors.Is(err, payment.ErrMissingToken):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, payment.ErrChargeFailed):
			return response.Error(c, fiber.StatusPaymentRequired, "Card charge failed")
		default:
			return response.ServerError(c, "Top-up failed")
		}
	}

	return response.Success(c, "Top up successful", fiber.Map{
		"transaction": tx,
	})
}

func (h *WalletHandler) ListTransactions(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	transactions, err := h.ledgerService.ListTransactions(c.Context(), claims.UserID, limit, offset)
	if err != nil {
		return response.ServerError(c, "Failed to list transactions")
	}
	return response.Success(c, "Transactions", fiber.Map{
		"transactions": transactions,
		"limit":        limit,
		"offset":       offset,
	})
}
