package controllers

import (
	"course-feedback-api/config"
	"course-feedback-api/models"
	"course-feedback-api/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetAnalytics returns aggregated per-faculty/subject percentage
// statistics for the requested class/section/semester selection.
// Absent query parameters leave that dimension unfiltered.
func GetAnalytics(c *gin.Context) {
	filter := services.AnalyticsFilter{
		ClassYear: c.Query("class"),
		Section:   c.Query("section"),
		Semester:  c.Query("semester"),
	}

	records, err := services.NewFeedbackService(config.DB).AllRecords()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load feedback records"})
		return
	}

	catalog, err := services.GetCatalog()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subject catalog"})
		return
	}

	students, err := loadStudents()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load student profiles"})
		return
	}

	c.JSON(http.StatusOK, services.Aggregate(records, filter, catalog, students))
}

// GetSubmissionRoster returns the per-student completion roster for one
// class/section/semester selection, pending students first.
func GetSubmissionRoster(c *gin.Context) {
	filter := services.AnalyticsFilter{
		ClassYear: c.Query("class"),
		Section:   c.Query("section"),
		Semester:  c.Query("semester"),
	}
	if filter.ClassYear == "" || filter.Section == "" || filter.Semester == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Class, Section and Semester are required"})
		return
	}

	records, err := services.NewFeedbackService(config.DB).AllRecords()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load feedback records"})
		return
	}

	catalog, err := services.GetCatalog()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subject catalog"})
		return
	}

	students, err := loadStudents()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load student profiles"})
		return
	}

	roster := services.CompletionRoster(students, records, catalog, filter)

	c.JSON(http.StatusOK, gin.H{
		"totalStudents": len(roster),
		"stats":         roster,
	})
}

func loadStudents() ([]models.User, error) {
	var users []models.User
	if err := config.DB.Where("delete_at IS NULL").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
