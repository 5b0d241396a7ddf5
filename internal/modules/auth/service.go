package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/easy-read/core/internal/config"
	"github.com/easy-read/core/internal/models"
	"github.com/easy-read/core/internal/pkg/jwt"
	"github.com/easy-read/core/internal/pkg/mail"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	sessionTTL = 7 * 24 * time.Hour
	confirmTTL = 48 * time.Hour
	// Reset links are short-lived; the email copy promises ten minutes.
	resetTTL = 10 * time.Minute
)

var (
	ErrCredentials  = errors.New("the email or password is incorrect")
	ErrTaken        = errors.New("username or email already registered")
	ErrTokenInvalid = errors.New("that link is invalid or has expired")
	ErrUserNotFound = errors.New("user not found")
)

type RegisterDTO struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ResetDTO struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type Service struct {
	db     *gorm.DB
	cfg    *config.AppConfig
	mailer *mail.Sender
	logger *zap.Logger
}

func NewService(db *gorm.DB, cfg *config.AppConfig, mailer *mail.Sender, logger *zap.Logger) *Service {
	return &Service{db: db, cfg: cfg, mailer: mailer, logger: logger}
}

func (s *Service) sendAsync(msg mail.Message) {
	go func() {
		if err := s.mailer.Send(msg); err != nil {
			s.logger.Warn("failed to send email", zap.String("subject", msg.Subject), zap.Error(err))
		}
	}()
}

// Register creates an account, sends the confirmation email, and returns a
// session token so the new user is logged in immediately.
func (s *Service) Register(dto *RegisterDTO) (*models.UserModel, string, error) {
	email := strings.ToLower(strings.TrimSpace(dto.Email))

	var count int64
	err := s.db.Model(&models.UserModel{}).
		Where("username = ? OR email = ?", dto.Username, email).
		Count(&count).Error
	if err != nil {
		return nil, "", err
	}
	if count > 0 {
		return nil, "", ErrTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := models.UserModel{
		Username: dto.Username,
		Email:    email,
		Password: string(hash),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, "", err
	}

	if err := s.SendConfirmation(&user); err != nil {
		s.logger.Warn("failed to send confirmation email", zap.String("user_id", user.ID), zap.Error(err))
	}

	token, err := jwt.Sign(user.ID, sessionTTL)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return &user, token, nil
}

// Login authenticates by username or email. The failure reason is never
// disclosed.
func (s *Service) Login(dto *LoginDTO) (*models.UserModel, string, error) {
	var user models.UserModel
	err := s.db.Where("username = ? OR email = ?", dto.Username, strings.ToLower(dto.Username)).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrCredentials
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(dto.Password)) != nil {
		return nil, "", ErrCredentials
	}

	token, err := jwt.Sign(user.ID, sessionTTL)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// SendConfirmation emails a single-purpose confirmation link. The send
// itself happens in the background.
func (s *Service) SendConfirmation(user *models.UserModel) error {
	token, err := jwt.SignFor(user.ID, jwt.PurposeConfirmEmail, confirmTTL)
	if err != nil {
		return err
	}
	s.sendAsync(mail.Message{
		To:      []string{user.Email},
		Subject: "Confirm your email address",
		HTML:    mail.ConfirmEmailHTML(s.cfg.PublicURL + "/auth/confirm?token=" + token),
	})
	return nil
}

// ConfirmEmail validates a confirmation token and marks the address
// confirmed. Confirmation gates publication requests, not reading or writing.
func (s *Service) ConfirmEmail(token string) error {
	claims, err := jwt.ParseFor(token, jwt.PurposeConfirmEmail)
	if err != nil {
		return ErrTokenInvalid
	}
	res := s.db.Model(&models.UserModel{}).
		Where("id = ?", claims.UserID).
		Update("email_confirmed", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	s.logger.Info("email confirmed", zap.String("user_id", claims.UserID))
	return nil
}

// RequestPasswordReset emails a reset link when the address is known. The
// caller always sees success, so addresses cannot be probed.
func (s *Service) RequestPasswordReset(email string) error {
	var user models.UserModel
	err := s.db.First(&user, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	token, err := jwt.SignFor(user.ID, jwt.PurposePasswordReset, resetTTL)
	if err != nil {
		return err
	}
	s.sendAsync(mail.Message{
		To:      []string{user.Email},
		Subject: "Reset your password",
		HTML:    mail.PasswordResetHTML(s.cfg.PublicURL + "/auth/password-reset?token=" + token),
	})
	return nil
}

// ResetPassword validates a reset token and replaces the password.
func (s *Service) ResetPassword(dto *ResetDTO) error {
	claims, err := jwt.ParseFor(dto.Token, jwt.PurposePasswordReset)
	if err != nil {
		return ErrTokenInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	res := s.db.Model(&models.UserModel{}).
		Where("id = ?", claims.UserID).
		Update("password", string(hash))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	s.logger.Info("password reset", zap.String("user_id", claims.UserID))
	return nil
}
