package controllers

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"course-feedback-api/config"
	"course-feedback-api/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const passwordResetTTL = 30 * time.Minute

var (
	passwordResetTokenGenerator = func() (string, error) {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		return hex.EncodeToString(buf), nil
	}

	sendMailFunc                              = config.SendMail
	passwordResetRepo passwordResetRepository = &gormPasswordResetRepository{}
)

type passwordResetRepository interface {
	FindUserByEmail(email string) (*models.User, error)
	RevokePasswordResetTokens(userID int, now time.Time) error
	CreateUserToken(token *models.UserToken) error
	FindActivePasswordResetTokens(now time.Time) ([]models.UserToken, error)
	UpdateUserPassword(userID int, hashedPassword string, now time.Time) error
	RevokeToken(tokenID int, now time.Time) error
}

type gormPasswordResetRepository struct{}

func (r *gormPasswordResetRepository) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := config.DB.Where("email = ? AND delete_at IS NULL", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormPasswordResetRepository) RevokePasswordResetTokens(userID int, now time.Time) error {
	if userID == 0 {
		return nil
	}
	return config.DB.Model(&models.UserToken{}).
		Where("user_id = ? AND token_type = ? AND is_revoked = ?", userID, models.TokenTypePasswordReset, false).
		Updates(map[string]interface{}{
			"is_revoked": true,
			"updated_at": now,
			"expires_at": now,
		}).Error
}

func (r *gormPasswordResetRepository) CreateUserToken(token *models.UserToken) error {
	return config.DB.Create(token).Error
}

func (r *gormPasswordResetRepository) FindActivePasswordResetTokens(now time.Time) ([]models.UserToken, error) {
	var tokens []models.UserToken
	err := config.DB.Where("token_type = ? AND is_revoked = ? AND expires_at > ?", models.TokenTypePasswordReset, false, now).
		Order("created_at DESC").
		Find(&tokens).Error
	return tokens, err
}

func (r *gormPasswordResetRepository) UpdateUserPassword(userID int, hashedPassword string, now time.Time) error {
	return config.DB.Model(&models.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"password":  hashedPassword,
			"update_at": now,
		}).Error
}

func (r *gormPasswordResetRepository) RevokeToken(tokenID int, now time.Time) error {
	return config.DB.Model(&models.UserToken{}).
		Where("token_id = ?", tokenID).
		Updates(map[string]interface{}{
			"is_revoked": true,
			"updated_at": now,
		}).Error
}

// RequestPasswordReset mails a reset link to a staff account. The
// response is identical whether or not the email exists.
func RequestPasswordReset(c *gin.Context) {
	type resetRequest struct {
		Email string `json:"email" binding:"required,email"`
	}

	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	neutral := gin.H{"message": "If the account exists, a reset link has been sent"}

	user, err := passwordResetRepo.FindUserByEmail(req.Email)
	if err != nil || user.IsStudent() {
		c.JSON(http.StatusOK, neutral)
		return
	}

	now := time.Now()
	if err := passwordResetRepo.RevokePasswordResetTokens(user.UserID, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare reset token"})
		return
	}

	token, err := passwordResetTokenGenerator()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate reset token"})
		return
	}

	tokenHash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate reset token"})
		return
	}

	record := &models.UserToken{
		UserID:    user.UserID,
		TokenType: models.TokenTypePasswordReset,
		TokenHash: string(tokenHash),
		ExpiresAt: now.Add(passwordResetTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := passwordResetRepo.CreateUserToken(record); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store reset token"})
		return
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s",
		os.Getenv("FRONTEND_URL"), url.QueryEscape(token))
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>A password reset was requested for your feedback portal account. "+
			"The link below is valid for %d minutes.</p><p><a href=%q>Reset password</a></p>",
		user.Name, int(passwordResetTTL.Minutes()), resetURL)

	if err := sendMailFunc([]string{user.Email}, "Password reset", body); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send reset email"})
		return
	}

	c.JSON(http.StatusOK, neutral)
}

// ConfirmPasswordReset exchanges a valid reset token for a new password.
func ConfirmPasswordReset(c *gin.Context) {
	type confirmRequest struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,min=6"`
	}

	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	tokens, err := passwordResetRepo.FindActivePasswordResetTokens(now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify reset token"})
		return
	}

	var matched *models.UserToken
	for i := range tokens {
		if bcrypt.CompareHashAndPassword([]byte(tokens[i].TokenHash), []byte(req.Token)) == nil {
			matched = &tokens[i]
			break
		}
	}
	if matched == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset token"})
		return
	}

	hashed, err := HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	if err := passwordResetRepo.UpdateUserPassword(matched.UserID, hashed, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	if err := passwordResetRepo.RevokeToken(matched.TokenID, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke reset token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}
