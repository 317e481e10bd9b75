package controllers

import (
	"course-feedback-api/middleware"
	"course-feedback-api/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetSubjects lists the catalog subjects for a class year with the
// faculty resolved per section. Students default to their own
// class/section/semester; staff pass them as query parameters.
func GetSubjects(c *gin.Context) {
	classYear := c.Query("class")
	section := c.Query("section")
	semester := c.Query("semester")

	if claimsVal, ok := c.Get("claims"); ok {
		if claims, ok := claimsVal.(*middleware.Claims); ok {
			if classYear == "" {
				classYear = claims.ClassYear
			}
			if section == "" {
				section = claims.Section
			}
			if semester == "" {
				semester = claims.Semester
			}
		}
	}

	if classYear == "" || section == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Section and Class are required"})
		return
	}

	catalog, err := services.GetCatalog()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subject catalog"})
		return
	}

	c.JSON(http.StatusOK, services.SubjectsForStudent(catalog, classYear, semester, section))
}
