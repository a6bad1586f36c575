package adminhdl

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/dimasprakoso/loansystem/internal/domain"
	"github.com/dimasprakoso/loansystem/internal/dto"
	"github.com/dimasprakoso/loansystem/internal/importer"
	"github.com/dimasprakoso/loansystem/middleware"
	"github.com/dimasprakoso/loansystem/pkg/password"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type AdminHandler struct {
	importer      *importer.Importer
	validator     *validator.Validate
	customerPath  string
	loanPath      string
	adminUsername string
	passwordHash  string
	jwtSecret     string
	tokenTTL      time.Duration
	log           *zap.Logger
}

func NewAdminHandler(
	imp *importer.Importer,
	customerPath, loanPath string,
	adminUsername, passwordHash, jwtSecret string,
	tokenTTL time.Duration,
	log *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		importer:      imp,
		validator:     validator.New(validator.WithRequiredStructEnabled()),
		customerPath:  customerPath,
		loanPath:      loanPath,
		adminUsername: adminUsername,
		passwordHash:  passwordHash,
		jwtSecret:     jwtSecret,
		tokenTTL:      tokenTTL,
		log:           log,
	}
}

// Login verifies the operator credentials and issues a signed bearer token
// for the protected admin routes.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	usernameMatch := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.adminUsername)) == 1
	if !usernameMatch || !password.CheckPasswordHash(req.Password, h.passwordHash) {
		h.log.Warn("Failed admin login attempt", zap.String("username", req.Username))
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	now := time.Now()
	claims := &domain.JwtCustomClaims{
		Subject: req.Username,
		Role:    domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(h.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		h.log.Error("Failed to sign JWT", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.Status(http.StatusOK).JSON(dto.LoginResponse{Token: signed})
}

// ImportData reloads the customer and loan workbooks from their configured
// paths. Per-row failures are reported back, not treated as request errors.
func (h *AdminHandler) ImportData(c *fiber.Ctx) error {
	claims, err := middleware.GetClaimsFromLocals(c)
	if err != nil {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Missing user claims"})
	}

	h.log.Info("Bulk import requested", zap.String("operator", claims.Subject))

	summary, err := h.importer.ImportAll(c.Context(), h.customerPath, h.loanPath)
	if err != nil {
		h.log.Error("Bulk import failed",
			zap.String("operator", claims.Subject),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(http.StatusOK).JSON(dto.ImportResponse{
		CustomersImported: summary.CustomersImported,
		LoansImported:     summary.LoansImported,
		SkippedRows:       summary.SkippedRows,
	})
}
