package loanhdl

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dimasprakoso/loansystem/internal/dto"
	"github.com/dimasprakoso/loansystem/internal/service"
	"github.com/dimasprakoso/loansystem/pkg/common"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type LoanHandler struct {
	loanService service.LoanServices
	validator   *validator.Validate
	log         *zap.Logger
}

func NewLoanHandler(loanService service.LoanServices, log *zap.Logger) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
		validator:   validator.New(validator.WithRequiredStructEnabled()),
		log:         log,
	}
}

func (h *LoanHandler) CheckEligibility(c *fiber.Ctx) error {
	var req dto.EligibilityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := h.loanService.CheckEligibility(c.Context(), dto.EligibilityToApplication(req))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrCustomerNotFound):
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, common.ErrInvalidTenure), errors.Is(err, common.ErrNegativeRate):
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			h.log.Error("Internal error on CheckEligibility", zap.Error(err))
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
		}
	}

	return c.Status(http.StatusOK).JSON(dto.EligibilityFromEntity(result))
}

func (h *LoanHandler) CreateLoan(c *fiber.Ctx) error {
	var req dto.CreateLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := h.loanService.CreateLoan(c.Context(), dto.CreateLoanToApplication(req))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrCustomerNotFound):
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, common.ErrInvalidTenure), errors.Is(err, common.ErrNegativeRate):
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, common.ErrIssuanceLocked):
			return c.Status(http.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		default:
			h.log.Error("Internal error on CreateLoan", zap.Error(err))
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
		}
	}

	// A rejection is a valid decision outcome, not an error.
	return c.Status(http.StatusOK).JSON(dto.CreateLoanFromEntity(result))
}

func (h *LoanHandler) ViewLoan(c *fiber.Ctx) error {
	loanID, err := strconv.ParseUint(c.Params("loanId"), 10, 64)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid loan id"})
	}

	detail, err := h.loanService.ViewLoan(c.Context(), loanID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrLoanNotFound), errors.Is(err, common.ErrCustomerNotFound):
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		default:
			h.log.Error("Internal error on ViewLoan", zap.Error(err))
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
		}
	}

	return c.Status(http.StatusOK).JSON(dto.LoanDetailFromEntity(detail))
}

func (h *LoanHandler) ViewLoans(c *fiber.Ctx) error {
	customerID, err := strconv.ParseUint(c.Params("customerId"), 10, 64)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid customer id"})
	}

	summaries, err := h.loanService.ViewLoansByCustomer(c.Context(), customerID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrCustomerNotFound):
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		default:
			h.log.Error("Internal error on ViewLoans", zap.Error(err))
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
		}
	}

	return c.Status(http.StatusOK).JSON(dto.LoanSummariesFromEntity(summaries))
}
