package handlers

import (
	"errors"

	"bankhub/internal/core/domain"
	"bankhub/internal/core/services"
	"bankhub/internal/pkg/pagination"
	"bankhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// AccountHandler handles savings account endpoints
type AccountHandler struct {
	accountService *services.AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// ChargeRequest represents deposit/withdrawal request body
type ChargeRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference,omitempty"`
}

// Deposit credits the authenticated customer's savings account
// @Summary Deposit
// @Description Deposit into the savings account (Customer only). Gated deployments file a pending request instead.
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ChargeRequest true "Deposit"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /accounts/deposit [post]
func (h *AccountHandler) Deposit(c *fiber.Ctx) error {
	var req ChargeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.ChargeInput{Amount: req.Amount, Reference: req.Reference}
	result, err := h.accountService.Deposit(c.Context(), actorFromContext(c), input)
	if err != nil {
		return h.mapChargeError(c, err)
	}

	return response.Success(c, "Deposit processed successfully", result)
}

// Withdraw files a withdrawal request for admin approval
// @Summary Request withdrawal
// @Description File a withdrawal request (Customer only). The balance changes only when an admin approves it.
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ChargeRequest true "Withdrawal"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /accounts/withdraw [post]
func (h *AccountHandler) Withdraw(c *fiber.Ctx) error {
	var req ChargeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.ChargeInput{Amount: req.Amount, Reference: req.Reference}
	result, err := h.accountService.RequestWithdrawal(c.Context(), actorFromContext(c), input)
	if err != nil {
		return h.mapChargeError(c, err)
	}

	return response.Success(c, "Withdrawal request submitted", result)
}

func (h *AccountHandler) mapChargeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return response.BadRequest(c, "Amount must be positive")
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, "Only customers can use savings accounts")
	case errors.Is(err, domain.ErrCustomerNotFound):
		return response.NotFound(c, "Customer profile not found")
	case errors.Is(err, domain.ErrAccountNotFound):
		return response.NotFound(c, "Savings account not found")
	default:
		return response.InternalServerError(c, "Failed to process request")
	}
}

// Balance returns the current savings balance
// @Summary Account balance
// @Description Get the authenticated customer's savings balance
// @Tags Accounts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /accounts/balance [get]
func (h *AccountHandler) Balance(c *fiber.Ctx) error {
	balance, err := h.accountService.Balance(c.Context(), actorFromContext(c))
	if err != nil {
		return h.mapChargeError(c, err)
	}

	return response.Success(c, "", fiber.Map{"balance": balance})
}

// Statement lists the customer's transactions, newest first
// @Summary Account statement
// @Description List the authenticated customer's transactions
// @Tags Accounts
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /accounts/transactions [get]
func (h *AccountHandler) Statement(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	transactions, total, err := h.accountService.Statement(c.Context(), actorFromContext(c), params.Offset, params.Limit)
	if err != nil {
		return h.mapChargeError(c, err)
	}

	return response.Success(c, "", pagination.NewResponse(transactions, params, total))
}
