package auth

import (
	"errors"

	"github.com/easy-read/core/internal/middleware"
	"github.com/easy-read/core/internal/models"
	"github.com/easy-read/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	svc *Service
	db  *gorm.DB
}

func NewHandler(svc *Service, db *gorm.DB) *Handler {
	return &Handler{svc: svc, db: db}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	auth := rg.Group("/auth")
	auth.POST("/register", h.register)
	auth.POST("/login", h.login)
	auth.POST("/logout", authMW, h.logout)
	auth.GET("/confirm", h.confirm)
	auth.POST("/resend-confirmation", authMW, h.resendConfirmation)
	auth.POST("/password-reset/request", h.requestReset)
	auth.POST("/password-reset", h.reset)
}

func (h *Handler) register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, token, err := h.svc.Register(&dto)
	switch {
	case err == nil:
		response.Created(c, gin.H{
			"token":    token,
			"userId":   user.ID,
			"username": user.Username,
			"message":  "You are successfully registered.",
		})
	case errors.Is(err, ErrTaken):
		response.Conflict(c, "That username or email address is already registered.")
	default:
		response.InternalError(c, err)
	}
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, token, err := h.svc.Login(&dto)
	switch {
	case err == nil:
		response.OK(c, gin.H{
			"token":    token,
			"userId":   user.ID,
			"username": user.Username,
		})
	case errors.Is(err, ErrCredentials):
		response.Denied(c, "The email or password is incorrect. Please try again.", "/auth/login")
	default:
		response.InternalError(c, err)
	}
}

// Sessions are stateless tokens; logout exists so clients have a single
// endpoint to hit while discarding theirs.
func (h *Handler) logout(c *gin.Context) {
	response.Flash(c, "You have been logged out.", "/auth/login")
}

func (h *Handler) confirm(c *gin.Context) {
	err := h.svc.ConfirmEmail(c.Query("token"))
	switch {
	case err == nil:
		response.Flash(c, "Your email address has been confirmed.", "/articles/mine")
	case errors.Is(err, ErrTokenInvalid), errors.Is(err, ErrUserNotFound):
		response.BadRequest(c, "That confirmation link is invalid or has expired.")
	default:
		response.InternalError(c, err)
	}
}

func (h *Handler) resendConfirmation(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		response.Unauthorized(c)
		return
	}
	if user.EmailConfirmed {
		response.Flash(c, "Your email address is already confirmed.", "/articles/mine")
		return
	}
	if err := h.svc.SendConfirmation(user); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Flash(c, "A new confirmation email has been sent.", "/articles/mine")
}

func (h *Handler) requestReset(c *gin.Context) {
	var dto struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.RequestPasswordReset(dto.Email); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Flash(c, "If that address is registered, a reset email is on its way.", "/auth/login")
}

func (h *Handler) reset(c *gin.Context) {
	var dto ResetDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	err := h.svc.ResetPassword(&dto)
	switch {
	case err == nil:
		response.Flash(c, "Your password has been reset. Please log in.", "/auth/login")
	case errors.Is(err, ErrTokenInvalid), errors.Is(err, ErrUserNotFound):
		response.BadRequest(c, "That reset link is invalid or has expired.")
	default:
		response.InternalError(c, err)
	}
}

func (h *Handler) currentUser(c *gin.Context) (*models.UserModel, error) {
	var user models.UserModel
	err := h.db.First(&user, "id = ?", middleware.CurrentUserID(c)).Error
	return &user, err
}
