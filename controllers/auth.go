package controllers

import (
	"course-feedback-api/config"
	"course-feedback-api/middleware"
	"course-feedback-api/models"
	"course-feedback-api/services"
	"course-feedback-api/utils"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Email      string `json:"email"`
	RollNumber string `json:"rollnumber"`
	Password   string `json:"password" binding:"required"`
	Role       string `json:"role" binding:"required"`
}

// LoginUser is the user payload of a login response. For students it
// carries the eligibility decision computed at login time.
type LoginUser struct {
	UserID     int    `json:"user_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	RollNumber string `json:"rollnumber,omitempty"`
	Name       string `json:"name"`
	ClassYear  string `json:"class,omitempty"`
	Section    string `json:"section,omitempty"`
	Semester   string `json:"semester,omitempty"`
	services.EligibilityDecision
}

type LoginResponse struct {
	Token   string    `json:"token"`
	User    LoginUser `json:"user"`
	Message string    `json:"message"`
}

// Login authenticates a user. Students sign in with their roll number,
// staff with their email. Student logins additionally carry the
// feedback restriction state so the UI can block a completed cycle.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := config.DB.Where("role = ? AND delete_at IS NULL", req.Role)
	if req.Role == models.RoleStudent {
		if !utils.ValidateRollNumber(utils.SanitizeInput(req.RollNumber)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A valid roll number is required"})
			return
		}
		query = query.Where("roll_number = ?", utils.SanitizeInput(req.RollNumber))
	} else {
		if !utils.ValidateEmail(req.Email) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email is required"})
			return
		}
		query = query.Where("email = ?", req.Email)
	}

	var user models.User
	if err := query.First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials or role"})
		return
	}

	if !verifyPassword(user.Password, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := generateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	resp := LoginResponse{
		Token: token,
		User: LoginUser{
			UserID:     user.UserID,
			Email:      user.Email,
			Role:       user.Role,
			RollNumber: user.StudentKey(),
			Name:       user.Name,
			ClassYear:  user.ClassYear,
			Section:    user.Section,
			Semester:   user.Semester,
		},
		Message: "Login successful",
	}

	if user.IsStudent() {
		decision, err := studentEligibility(&user, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check feedback eligibility"})
			return
		}
		resp.User.EligibilityDecision = decision
	}

	c.JSON(http.StatusOK, resp)
}

// studentEligibility loads the student's record snapshot and the
// catalog and runs the eligibility engine over them.
func studentEligibility(user *models.User, now time.Time) (services.EligibilityDecision, error) {
	catalog, err := services.GetCatalog()
	if err != nil {
		return services.EligibilityDecision{}, err
	}

	records, err := services.NewFeedbackService(config.DB).StudentRecords(user.StudentKey())
	if err != nil {
		return services.EligibilityDecision{}, err
	}

	return services.ComputeEligibility(records, catalog, user.ClassYear, now, services.RestrictionDays()), nil
}

// Me returns the authenticated user's profile.
func Me(c *gin.Context) {
	userID, _ := c.Get("userID")

	var user models.User
	if err := config.DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ChangePassword handles password change
func ChangePassword(c *gin.Context) {
	type PasswordChangeRequest struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,min=6"`
	}

	var req PasswordChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")

	var user models.User
	if err := config.DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if !verifyPassword(user.Password, req.CurrentPassword) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
		return
	}

	hashed, err := HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	now := time.Now()
	user.Password = hashed
	user.UpdateAt = &now

	if err := config.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// generateToken creates JWT token
func generateToken(user *models.User) (string, error) {
	expireHours, err := strconv.Atoi(os.Getenv("JWT_EXPIRE_HOURS"))
	if err != nil {
		expireHours = 24 // default 24 hours
	}

	claims := middleware.Claims{
		UserID:     user.UserID,
		Email:      user.Email,
		Role:       user.Role,
		Name:       user.Name,
		RollNumber: user.StudentKey(),
		ClassYear:  user.ClassYear,
		Section:    user.Section,
		Semester:   user.Semester,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expireHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// verifyPassword accepts bcrypt hashes; seed accounts imported with
// plain passwords still verify until their first password change.
func verifyPassword(stored, given string) bool {
	if strings.HasPrefix(stored, "$2") {
		return CheckPasswordHash(given, stored)
	}
	return stored != "" && stored == given
}

// HashPassword hashes password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares password with hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
