package controllers

import (
	"course-feedback-api/config"
	"course-feedback-api/middleware"
	"course-feedback-api/models"
	"course-feedback-api/services"
	"course-feedback-api/utils"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Rejection codes surfaced to clients.
const (
	CodeDuplicateSubmission  = "DUPLICATE_SUBMISSION"
	CodeIncompleteParameters = "INCOMPLETE_PARAMETERS"
	CodeUnknownSubject       = "UNKNOWN_SUBJECT"
)

// SubmitFeedbackRequest accepts both the canonical rollnumber field and
// the legacy studentId alias; they are unified into one student key
// before the validator ever sees the submission.
type SubmitFeedbackRequest struct {
	RollNumber string         `json:"rollnumber"`
	StudentID  string         `json:"studentId"`
	SubjectID  string         `json:"subjectId" binding:"required"`
	Ratings    map[string]int `json:"ratings" binding:"required"`
	Comment    string         `json:"comment"`
}

func (r *SubmitFeedbackRequest) studentKey() string {
	if r.RollNumber != "" {
		return r.RollNumber
	}
	return r.StudentID
}

// SubmitFeedback validates and appends one feedback submission for the
// authenticated student.
func SubmitFeedback(c *gin.Context) {
	var req SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claimsVal, _ := c.Get("claims")
	claims, ok := claimsVal.(*middleware.Claims)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication context missing"})
		return
	}

	studentKey := req.studentKey()
	if studentKey == "" {
		studentKey = claims.RollNumber
	}
	if studentKey == "" || studentKey != claims.RollNumber {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot submit feedback for another student"})
		return
	}

	catalog, err := services.GetCatalog()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subject catalog"})
		return
	}

	candidate := services.FeedbackCandidate{
		StudentKey:  studentKey,
		StudentName: claims.Name,
		ClassYear:   claims.ClassYear,
		Section:     claims.Section,
		Semester:    claims.Semester,
		SubjectID:   req.SubjectID,
		Ratings:     req.Ratings,
		Comment:     utils.SanitizeInput(req.Comment),
	}

	record, err := services.NewFeedbackService(config.DB).Submit(candidate, catalog, time.Now())
	if err != nil {
		var incomplete *services.IncompleteParamsError
		var unknown *services.UnknownSubjectError
		switch {
		case errors.Is(err, services.ErrDuplicateSubmission):
			c.JSON(http.StatusBadRequest, gin.H{
				"code":  CodeDuplicateSubmission,
				"error": "Feedback already submitted for this subject.",
			})
		case errors.As(err, &incomplete):
			c.JSON(http.StatusBadRequest, gin.H{
				"code":       CodeIncompleteParameters,
				"error":      incomplete.Error(),
				"missing":    incomplete.Missing,
				"unexpected": incomplete.Unexpected,
			})
		case errors.As(err, &unknown):
			c.JSON(http.StatusBadRequest, gin.H{
				"code":  CodeUnknownSubject,
				"error": unknown.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save feedback"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Feedback submitted successfully",
		"feedback": record,
	})
}

// GetProgress returns the distinct subject ids the authenticated
// student has already submitted feedback for.
func GetProgress(c *gin.Context) {
	claimsVal, _ := c.Get("claims")
	claims, ok := claimsVal.(*middleware.Claims)
	if !ok || claims.Role != models.RoleStudent {
		c.JSON(http.StatusForbidden, gin.H{"error": "Student account required"})
		return
	}

	ids, err := services.NewFeedbackService(config.DB).CompletedSubjectIDs(claims.RollNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch progress"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"completedSubjectIds": ids})
}

// CheckEligibility re-evaluates the restriction window for the
// authenticated student, for UIs that poll after login.
func CheckEligibility(c *gin.Context) {
	claimsVal, _ := c.Get("claims")
	claims, ok := claimsVal.(*middleware.Claims)
	if !ok || claims.Role != models.RoleStudent {
		c.JSON(http.StatusForbidden, gin.H{"error": "Student account required"})
		return
	}

	var user models.User
	if err := config.DB.Where("user_id = ?", claims.UserID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	decision, err := studentEligibility(&user, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check feedback eligibility"})
		return
	}

	c.JSON(http.StatusOK, decision)
}
