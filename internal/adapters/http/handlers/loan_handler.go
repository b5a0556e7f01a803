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
	"github.com/shopspring/decimal"
)

// LoanHandler handles loan endpoints
type LoanHandler struct {
	loanService *services.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// ApplyRequest represents loan application request
type ApplyRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	DurationMonths int             `json:"duration_months"`
}

// Apply submits a loan application
// @Summary Apply for a loan
// @Description Submit a loan application (Customer only). The interest rate is snapshotted from current loan settings.
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ApplyRequest true "Loan application"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /loans/apply [post]
func (h *LoanHandler) Apply(c *fiber.Ctx) error {
	var req ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actor := actorFromContext(c)
	input := &services.ApplyLoanInput{
		Amount:         req.Amount,
		DurationMonths: req.DurationMonths,
	}

	loan, err := h.loanService.Apply(c.Context(), actor, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidLoanDetails):
			return response.BadRequest(c, "Loan amount and duration must be positive")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Only customers can apply for loans")
		case errors.Is(err, domain.ErrCustomerNotFound):
			return response.NotFound(c, "Customer profile not found")
		case errors.Is(err, domain.ErrSettingsMissing):
			return response.InternalServerError(c, "Interest rate configuration missing. Contact admin.")
		default:
			return response.InternalServerError(c, "Failed to submit loan application")
		}
	}

	return response.Created(c, "Loan application submitted successfully", fiber.Map{
		"loan": loan.ToResponse(),
	})
}

// GetByID returns a single loan
// @Summary Get loan
// @Description Get a loan by ID. Customers only see their own loans.
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id} [get]
func (h *LoanHandler) GetByID(c *fiber.Ctx) error {
	loanID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.loanService.GetByID(c.Context(), uint(loanID), actorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLoanNotFound):
			return response.NotFound(c, "Loan not found")
		default:
			return response.InternalServerError(c, "Failed to get loan")
		}
	}

	return response.Success(c, "", fiber.Map{"loan": loan.ToResponse()})
}

// GetMyLoans lists the acting customer's loans
// @Summary My loans
// @Description List the authenticated customer's loans
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /loans/my [get]
func (h *LoanHandler) GetMyLoans(c *fiber.Ctx) error {
	loans, err := h.loanService.ListByCustomer(c.Context(), actorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Only customers have loans")
		case errors.Is(err, domain.ErrCustomerNotFound):
			return response.NotFound(c, "Customer profile not found")
		default:
			return response.InternalServerError(c, "Failed to list loans")
		}
	}

	items := make([]*models.LoanResponse, len(loans))
	for i, loan := range loans {
		items[i] = loan.ToResponse()
	}

	return response.Success(c, "", fiber.Map{"loans": items})
}

// List lists loans for staff/admin review
// @Summary List loans
// @Description List loans with optional status filter (Staff/Admin only)
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(pending, approved, rejected, repaid)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /loans [get]
func (h *LoanHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	input := &services.ListInput{
		Status: domain.LoanStatus(c.Query("status")),
		Offset: params.Offset,
		Limit:  params.Limit,
	}

	loans, total, err := h.loanService.List(c.Context(), actorFromContext(c), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You don't have permission to list loans")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid status filter")
		default:
			return response.InternalServerError(c, "Failed to list loans")
		}
	}

	items := make([]*models.LoanResponse, len(loans))
	for i, loan := range loans {
		items[i] = loan.ToResponse()
	}

	return response.Success(c, "", pagination.NewResponse(items, params, total))
}

// Approve approves a pending loan
// @Summary Approve loan
// @Description Approve a pending loan (Staff/Admin only)
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/approve [put]
func (h *LoanHandler) Approve(c *fiber.Ctx) error {
	return h.decide(c, h.loanService.Approve, "Loan approved successfully")
}

// Reject rejects a pending loan
// @Summary Reject loan
// @Description Reject a pending loan (Staff/Admin only)
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/reject [put]
func (h *LoanHandler) Reject(c *fiber.Ctx) error {
	return h.decide(c, h.loanService.Reject, "Loan rejected successfully")
}

func (h *LoanHandler) decide(c *fiber.Ctx, fn func(ctx context.Context, loanID uint, actor services.Actor) (*models.Loan, error), message string) error {
	loanID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := fn(c.Context(), uint(loanID), actorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Only staff or admin can decide loans")
		case errors.Is(err, domain.ErrLoanNotFound):
			return response.NotFound(c, "Loan not found")
		case errors.Is(err, domain.ErrInvalidTransition):
			return response.Conflict(c, "Loan is not pending")
		default:
			return response.InternalServerError(c, "Failed to update loan")
		}
	}

	return response.Success(c, message, fiber.Map{"loan": loan.ToResponse()})
}

// RepayRequest represents loan repayment request
type RepayRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method,omitempty"`
	Reference string          `json:"reference,omitempty"`
}

// Repay records a repayment against a loan
// @Summary Repay loan
// @Description Record a repayment against an approved loan (Customer only, own loans)
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param body body RepayRequest true "Repayment"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/repayments [post]
func (h *LoanHandler) Repay(c *fiber.Ctx) error {
	loanID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	var req RepayRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.RepayInput{
		Amount:    req.Amount,
		Method:    req.Method,
		Reference: req.Reference,
	}

	result, err := h.loanService.Repay(c.Context(), uint(loanID), actorFromContext(c), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			return response.BadRequest(c, "Repayment amount must be positive")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You do not own this loan")
		case errors.Is(err, domain.ErrLoanNotFound):
			return response.NotFound(c, "Loan not found")
		case errors.Is(err, domain.ErrCustomerNotFound):
			return response.NotFound(c, "Customer profile not found")
		case errors.Is(err, domain.ErrInvalidTransition):
			return response.Conflict(c, "Loan is not in a repayable state")
		default:
			return response.InternalServerError(c, "Failed to record repayment")
		}
	}

	return response.Success(c, "Repayment recorded successfully", result)
}

// Repayments lists a loan's repayment ledger
// @Summary Loan repayments
// @Description List repayments of a loan, oldest first
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id}/repayments [get]
func (h *LoanHandler) Repayments(c *fiber.Ctx) error {
	loanID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	repayments, err := h.loanService.Repayments(c.Context(), uint(loanID), actorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLoanNotFound):
			return response.NotFound(c, "Loan not found")
		default:
			return response.InternalServerError(c, "Failed to list repayments")
		}
	}

	return response.Success(c, "", fiber.Map{"repayments": repayments})
}
