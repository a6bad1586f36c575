package customerhdl

import (
	"net/http"
	"strconv"

	"github.com/dimasprakoso/loansystem/internal/domain"
	"github.com/dimasprakoso/loansystem/internal/dto"
	"github.com/dimasprakoso/loansystem/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CustomerHandler struct {
	customerService service.CustomerServices
	validator       *validator.Validate
	log             *zap.Logger
}

func NewCustomerHandler(customerService service.CustomerServices, log *zap.Logger) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		validator:       validator.New(validator.WithRequiredStructEnabled()),
		log:             log,
	}
}

func (h *CustomerHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	customer, err := h.customerService.Register(c.Context(), dto.RegisterToEntity(req))
	if err != nil {
		h.log.Error("Internal error on Register", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.Status(http.StatusCreated).JSON(dto.RegisterFromEntity(customer))
}

func (h *CustomerHandler) ListCustomers(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	result, err := h.customerService.ListCustomers(c.Context(), domain.Params{Page: page, Limit: limit})
	if err != nil {
		h.log.Error("Internal error on ListCustomers", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.Status(http.StatusOK).JSON(dto.PaginatedFromEntity(result))
}
