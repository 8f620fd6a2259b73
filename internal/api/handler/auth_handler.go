package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/solx/solx-api/internal/api/metrics"
	"github.com/solx/solx-api/internal/core/domain"
	"github.com/solx/solx-api/internal/core/ports"
)

type AuthHandler struct {
	authService   ports.AuthService
	accessService ports.AccessRequestService
}

func NewAuthHandler(authService ports.AuthService, accessService ports.AccessRequestService) *AuthHandler {
	return &AuthHandler{authService: authService, accessService: accessService}
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string            `json:"accessToken"`
	User        domain.PublicUser `json:"user"`
}

type accessRequestRequest struct {
	Name    string `json:"name"    validate:"required,min=2"`
	Email   string `json:"email"   validate:"required,email"`
	Company string `json:"company" validate:"required,min=2"`
	Message string `json:"message" validate:"required,min=10"`
}

type accessRequestResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"requestId"`
}

type verifiedUser struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

type verifyResponse struct {
	User verifiedUser `json:"user"`
}

type updateProfileRequest struct {
	Name string `json:"name" validate:"required,min=2"`
}

type profileResponse struct {
	User domain.PublicUser `json:"user"`
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  APIResponse{data=loginResponse}
// @Failure      400   {object}  APIResponse
// @Failure      401   {object}  APIResponse
// @Failure      403   {object}  APIResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_payload").Inc()
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return respond(c, http.StatusOK, loginResponse{AccessToken: res.AccessToken, User: res.User})
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrAccountInactive):
		return "inactive"
	default:
		return "error"
	}
}

// RequestAccess records a request for a new account.
//
// @Summary      Request access
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      accessRequestRequest  true  "Applicant details"
// @Success      201   {object}  APIResponse{data=accessRequestResponse}
// @Failure      400   {object}  APIResponse
// @Router       /api/auth/request-access [post]
func (h *AuthHandler) RequestAccess(c echo.Context) error {
	var req accessRequestRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	created, err := h.accessService.RequestAccess(c.Request().Context(), ports.AccessRequestInput{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Message: req.Message,
	})
	if err != nil {
		return err
	}

	metrics.AccessRequestsTotal.Inc()
	return respond(c, http.StatusCreated, accessRequestResponse{
		Message:   "Access request submitted successfully",
		RequestID: created.ID,
	})
}

// Verify echoes the identity carried by a valid bearer token.
//
// @Summary      Verify token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  APIResponse{data=verifyResponse}
// @Failure      401  {object}  APIResponse
// @Router       /api/auth/verify [get]
func (h *AuthHandler) Verify(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, verifyResponse{User: verifiedUser{
		ID:    identity.UserID,
		Email: identity.Email,
		Role:  identity.Role,
	}})
}

// Profile returns the caller's profile.
//
// @Summary      Get profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  APIResponse{data=profileResponse}
// @Failure      401  {object}  APIResponse
// @Failure      404  {object}  APIResponse
// @Router       /api/auth/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Profile(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, profileResponse{User: user})
}

// UpdateProfile changes the caller's display name.
//
// @Summary      Update profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "New display name"
// @Success      200   {object}  APIResponse{data=profileResponse}
// @Failure      400   {object}  APIResponse
// @Failure      401   {object}  APIResponse
// @Router       /api/auth/profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), identity.UserID, req.Name)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, profileResponse{User: user})
}
