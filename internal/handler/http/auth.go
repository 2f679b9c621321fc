package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Balamathankumar/store-front/internal/gateway"
	"github.com/Balamathankumar/store-front/pkg/httputil"
	"github.com/Balamathankumar/store-front/pkg/validator"
)

// AuthAPI is the verification-code flow the auth handler drives.
type AuthAPI interface {
	RequestCode(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email, code string) (*gateway.AuthResult, error)
}

// AuthHandler handles the email verification-code login flow. The backend
// issues the token; this handler only moves it into an HttpOnly cookie so
// browser scripts never see it.
type AuthHandler struct {
	auth   AuthAPI
	logger *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(auth AuthAPI, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger,
	}
}

// RequestCodeRequest is the JSON request body for requesting a login code.
type RequestCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyCodeRequest is the JSON request body for verifying a login code.
type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// RequestCode handles POST /api/v1/auth/request-code
func (h *AuthHandler) RequestCode(w http.ResponseWriter, r *http.Request) {
	var req RequestCodeRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.auth.RequestCode(r.Context(), req.Email); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]bool{"sent": true}})
}

// VerifyCode handles POST /api/v1/auth/verify
func (h *AuthHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req VerifyCodeRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.auth.VerifyCode(r.Context(), req.Email, req.Code)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookie,
		Value:    result.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result.Customer})
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "logged_out"}})
}
