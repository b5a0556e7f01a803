package handlers

import (
	"context"
	"errors"
	"strconv"

	"bankhub/internal/adapters/persistence/models"
	"bankhub/internal/core/domain"
	"bankhub/internal/core/services"
	"bankhub/internal/pkg/pagination"
	"bankhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// TransactionHandler handles the admin transaction approval queue
type TransactionHandler struct {
	transactionService *services.TransactionService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// ListPending lists pending transactions awaiting approval
// @Summary Pending transactions
// @Description List pending deposit/withdrawal requests (Admin only)
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /transactions/pending [get]
func (h *TransactionHandler) ListPending(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	transactions, total, err := h.transactionService.ListPending(c.Context(), actorFromContext(c), params.Offset, params.Limit)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Only admin can view the approval queue")
		default:
			return response.InternalServerError(c, "Failed to list pending transactions")
		}
	}

	return response.Success(c, "", pagination.NewResponse(transactions, params, total))
}

// Approve settles a pending transaction
// @Summary Approve transaction
// @Description Approve a pending deposit or withdrawal (Admin only). Withdrawals are rejected when funds are insufficient.
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /transactions/{id}/approve [put]
func (h *TransactionHandler) Approve(c *fiber.Ctx) error {
	return h.decide(c, h.transactionService.Approve, "Transaction approved successfully")
}

// Reject declines a pending transaction
// @Summary Reject transaction
// @Description Reject a pending deposit or withdrawal (Admin only). The balance is never touched.
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /transactions/{id}/reject [put]
func (h *TransactionHandler) Reject(c *fiber.Ctx) error {
	return h.decide(c, h.transactionService.Reject, "Transaction rejected successfully")
}

func (h *TransactionHandler) decide(c *fiber.Ctx, fn func(ctx context.Context, txID uint, actor services.Actor) (*models.Transaction, error), message string) error {
	txID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid transaction ID")
	}

	tx, err := fn(c.Context(), uint(txID), actorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Only admin can decide transactions")
		case errors.Is(err, domain.ErrTransactionNotFound):
			return response.NotFound(c, "Transaction not found")
		case errors.Is(err, domain.ErrInvalidTransition):
			return response.Conflict(c, "Transaction is not pending")
		case errors.Is(err, domain.ErrInsufficientFunds):
			return response.BadRequest(c, "Insufficient funds for withdrawal")
		case errors.Is(err, domain.ErrAccountNotFound):
			return response.NotFound(c, "Savings account not found")
		default:
			return response.InternalServerError(c, "Failed to update transaction")
		}
	}

	return response.Success(c, message, fiber.Map{"transaction": tx})
}
