// Package handlers contains the gin HTTP handlers for the API.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/lineup-api/internal/auth"
	"github.com/gravadigital/lineup-api/internal/logger"
	"github.com/gravadigital/lineup-api/internal/response"
	"github.com/gravadigital/lineup-api/internal/storage/postgres"
	"github.com/gravadigital/lineup-api/internal/validation"
)

type AuthHandler struct {
	otp      *auth.OTPService
	issuer   *auth.TokenIssuer
	userRepo postgres.UserRepository
	log      *log.Logger
}

func NewAuthHandler(otp *auth.OTPService, issuer *auth.TokenIssuer, userRepo postgres.UserRepository) *AuthHandler {
	return &AuthHandler{
		otp:      otp,
		issuer:   issuer,
		userRepo: userRepo,
		log:      logger.Handler("auth"),
	}
}

type RequestCodeRequest struct {
	Email string `json:"email" binding:"required"`
}

// RequestCode handles POST /api/auth/request-code
func (h *AuthHandler) RequestCode(c *gin.Context) {
	var req RequestCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := validation.ValidateEmail(email); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}

	// Only known users get codes, but the response never says whether
	// the email is registered
	if _, err := h.userRepo.GetByEmail(email); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			response.SuccessResponse(c, http.StatusOK, "If the email is registered, a code has been sent", nil)
			return
		}
		h.log.Error("failed to look up user", "error", err)
		response.InternalServerError(c, "Failed to process login request")
		return
	}

	if err := h.otp.RequestCode(c.Request.Context(), email); err != nil {
		h.log.Error("failed to send login code", "error", err)
		response.InternalServerError(c, "Failed to send login code")
		return
	}

	response.SuccessResponse(c, http.StatusOK, "If the email is registered, a code has been sent", nil)
}

type VerifyCodeRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// VerifyCode handles POST /api/auth/verify-code
func (h *AuthHandler) VerifyCode(c *gin.Context) {
	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := h.otp.VerifyCode(c.Request.Context(), email, req.Code); err != nil {
		switch {
		case errors.Is(err, auth.ErrTooManyAttempts):
			response.ErrorResponseWithMessage(c, http.StatusTooManyRequests, "Too many verification attempts")
		case errors.Is(err, auth.ErrCodeInvalid):
			response.UnauthorizedError(c, "Invalid or expired code")
		default:
			h.log.Error("failed to verify login code", "error", err)
			response.InternalServerError(c, "Failed to verify code")
		}
		return
	}

	u, err := h.userRepo.GetByEmail(email)
	if err != nil {
		h.log.Error("failed to load user after verification", "error", err)
		response.InternalServerError(c, "Failed to complete login")
		return
	}

	token, err := h.issuer.Issue(u)
	if err != nil {
		h.log.Error("failed to issue token", "error", err)
		response.InternalServerError(c, "Failed to complete login")
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"user":  u,
	})
}
