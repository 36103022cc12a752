package auth

import (
	"errors"
	"net/http"

	"clipvault/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler maps the auth service onto the HTTP surface. Expected outcomes
// become {success:false, error:{code,message}} envelopes; anything
// unexpected becomes a generic SERVER_ERROR.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SendCode emails a one-time login code.
// @Summary		Request a login code
// @Description	Validates the email, rate-limits to 3 codes per hour, invalidates prior codes and emails a fresh 6-digit code valid for 10 minutes.
// @Tags		Auth
// @Param		request	body	SendCodeRequest	true	"Email to send the code to"
// @Success		200	{object}	map[string]interface{}	"Code sent"
// @Failure		400	{object}	map[string]interface{}	"Malformed email"
// @Failure		429	{object}	map[string]interface{}	"Rate limit hit"
// @Router		/auth/code [POST]
func (h *Handler) SendCode(c *gin.Context) {
	var req SendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.SendVerificationCode(c.Request.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, ErrInvalidEmail):
			response.Error(c, http.StatusBadRequest, "INVALID_EMAIL", "Email address is not valid")
		case errors.Is(err, ErrTooManyAttempts):
			response.Error(c, http.StatusTooManyRequests, "TOO_MANY_ATTEMPTS", "Too many codes requested, try again later")
		case errors.Is(err, ErrEmailSend):
			response.Error(c, http.StatusInternalServerError, "EMAIL_SEND_ERROR", "Could not send the verification email")
		default:
			response.Error(c, http.StatusInternalServerError, "SERVER_ERROR", "Something went wrong")
		}
		return
	}

	response.Message(c, http.StatusOK, "Verification code sent")
}

// VerifyCode exchanges a code for a session.
// @Summary		Verify a login code
// @Description	Consumes the code (single-use), creates the account on first login and returns an access/refresh token pair.
// @Tags		Auth
// @Param		request	body	VerifyCodeRequest	true	"Email and 6-digit code"
// @Success		200	{object}	map[string]interface{}	"Tokens, user and is_new_user flag"
// @Failure		400	{object}	map[string]interface{}	"Unknown or expired code"
// @Router		/auth/verify [POST]
func (h *Handler) VerifyCode(c *gin.Context) {
	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.VerifyCodeAndLogin(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, ErrCodeNotFound):
			response.Error(c, http.StatusBadRequest, "CODE_NOT_FOUND", "Verification code not found")
		case errors.Is(err, ErrCodeExpired):
			response.Error(c, http.StatusBadRequest, "CODE_EXPIRED", "Verification code expired")
		case errors.Is(err, ErrUserCreate):
			response.Error(c, http.StatusInternalServerError, "USER_CREATE_ERROR", "Could not create user")
		default:
			response.Error(c, http.StatusInternalServerError, "SERVER_ERROR", "Something went wrong")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"tokens":      result.Tokens,
		"user":        result.User,
		"is_new_user": result.IsNewUser,
	})
}

// Refresh mints a new access token from a refresh token.
// @Summary		Refresh the access token
// @Description	Exchanges a valid refresh token for a new access token. The refresh token itself is not rotated.
// @Tags		Auth
// @Param		request	body	RefreshRequest	true	"Refresh token"
// @Success		200	{object}	map[string]interface{}	"New access token"
// @Failure		401	{object}	map[string]interface{}	"Missing, revoked or expired refresh token"
// @Router		/auth/refresh [POST]
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	accessToken, err := h.service.RefreshAccessToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidRefreshToken) {
			response.Error(c, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "Refresh token is not valid")
			return
		}
		response.Error(c, http.StatusInternalServerError, "SERVER_ERROR", "Something went wrong")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"access_token": accessToken})
}

// Logout revokes a refresh token.
// @Summary		Log out
// @Description	Revokes the refresh token. Always reports success, even for unknown tokens — logout is idempotent.
// @Tags		Auth
// @Param		request	body	LogoutRequest	true	"Refresh token"
// @Success		200	{object}	map[string]interface{}	"Logged out"
// @Router		/auth/logout [POST]
func (h *Handler) Logout(c *gin.Context) {
	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	h.service.Logout(c.Request.Context(), req.RefreshToken)
	response.Message(c, http.StatusOK, "Logged out")
}

// LogoutAll revokes every session of the authenticated user.
// @Summary		Log out everywhere
// @Description	Revokes all refresh tokens the user holds. Protected endpoint.
// @Tags		Auth
// @Success		200	{object}	map[string]interface{}	"Number of sessions revoked"
// @Failure		401	{object}	map[string]interface{}	"Not authenticated"
// @Router		/auth/logout-all [POST]
func (h *Handler) LogoutAll(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
		return
	}

	revoked, err := h.service.LogoutAll(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "SERVER_ERROR", "Something went wrong")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"revoked": revoked})
}

// GetMe returns the authenticated user.
// @Summary		Current user
// @Tags		Users
// @Success		200	{object}	map[string]interface{}	"User profile"
// @Failure		401	{object}	map[string]interface{}	"Not authenticated"
// @Router		/users/me [GET]
func (h *Handler) GetMe(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
		return
	}

	user, err := h.service.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "SERVER_ERROR", "Something went wrong")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}
