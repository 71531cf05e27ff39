package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gocommerce/marketplace-api/internal/api/metrics"
	"github.com/gocommerce/marketplace-api/internal/core/domain"
	"github.com/gocommerce/marketplace-api/internal/core/ports"
)

// AuthHandler exposes registration, login, and current-principal endpoints
// for both principal kinds. Error-to-status mapping lives in the central
// HTTP error handler.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterUser handles POST /auth/user/register.
func (h *AuthHandler) RegisterUser(c echo.Context) error {
	var req registerUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.RegisterUser(c.Request().Context(), ports.RegisterUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(string(domain.KindUser), registerResult(err)).Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(domain.KindUser), "created").Inc()
	return c.JSON(http.StatusCreated, toAuthResponse(result))
}

// LoginUser handles POST /auth/user/login.
func (h *AuthHandler) LoginUser(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.LoginUser(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(string(domain.KindUser), loginResult(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues(string(domain.KindUser), "ok").Inc()
	return c.JSON(http.StatusOK, toAuthResponse(result))
}

// RegisterSeller handles POST /auth/seller/register.
func (h *AuthHandler) RegisterSeller(c echo.Context) error {
	var req registerSellerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.RegisterSeller(c.Request().Context(), ports.RegisterSellerInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Company:   req.Company,
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(string(domain.KindSeller), registerResult(err)).Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(domain.KindSeller), "created").Inc()
	return c.JSON(http.StatusCreated, toAuthResponse(result))
}

// LoginSeller handles POST /auth/seller/login.
func (h *AuthHandler) LoginSeller(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.LoginSeller(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(string(domain.KindSeller), loginResult(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues(string(domain.KindSeller), "ok").Inc()
	return c.JSON(http.StatusOK, toAuthResponse(result))
}

// Me handles GET /auth/user/me and GET /auth/seller/me. The guard already
// resolved and redacted the acting principal.
func (h *AuthHandler) Me(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func registerResult(err error) string {
	if errors.Is(err, domain.ErrDuplicateEmail) {
		return "duplicate"
	}
	return "error"
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "throttled"
	default:
		return "error"
	}
}
