package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/autostock/dealership-api/internal/api/middleware"
	"github.com/autostock/dealership-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates an account and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result, err := h.authService.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.UTC(),
		User:      result.Account,
	})
}

// Validate checks a session token passed in the body or as a bearer header.
//
// @Summary      Validate a session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      validateRequest  false  "Token to validate"
// @Success      200   {object}  validateResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/validate [post]
func (h *AuthHandler) Validate(c echo.Context) error {
	var req validateRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
	}

	token := strings.TrimSpace(req.Token)
	if token == "" {
		t, err := middleware.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return err
		}
		token = t
	}

	claims, err := h.authService.ValidateToken(c.Request().Context(), token)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, validateResponse{Valid: true, Claims: toClaimsResponse(claims)})
}

// Me returns the claims of the authenticated caller.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  claimsResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClaimsResponse(claims))
}

// Register creates a new account. Admin only.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  domain.AccountSummary
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	account, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
		Roles:    req.Roles,
		Actor:    claims.AccountID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, account)
}
