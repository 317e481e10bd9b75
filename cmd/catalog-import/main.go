// Command catalog-import loads the subject catalog and student roster
// from JSON files into the database. Existing rows with the same keys
// are replaced; feedback records are never touched.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"course-feedback-api/config"
	"course-feedback-api/models"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type subjectFile struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Kind      string            `json:"type"`
	ClassYear string            `json:"class"`
	Semester  string            `json:"semester"`
	Faculties map[string]string `json:"faculties"`
}

type studentFile struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	RollNumber string `json:"rollnumber"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	ClassYear  string `json:"class"`
	Section    string `json:"section"`
	Semester   string `json:"semester"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.InitDB()

	var (
		subjectsPath string
		studentsPath string
		dryRun       bool
	)

	flag.StringVar(&subjectsPath, "subjects", "", "path to subjects JSON file (optional)")
	flag.StringVar(&studentsPath, "students", "", "path to students JSON file (optional)")
	flag.BoolVar(&dryRun, "dry-run", false, "parse files without writing to the database")
	flag.Parse()

	if subjectsPath == "" && studentsPath == "" {
		log.Fatal("at least one of -subjects or -students is required")
	}

	if subjectsPath != "" {
		if err := importSubjects(subjectsPath, dryRun); err != nil {
			log.Fatalf("subject import failed: %v", err)
		}
	}

	if studentsPath != "" {
		if err := importStudents(studentsPath, dryRun); err != nil {
			log.Fatalf("student import failed: %v", err)
		}
	}
}

func importSubjects(path string, dryRun bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var entries []subjectFile
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("invalid subjects file: %w", err)
	}

	for _, entry := range entries {
		if entry.ID == "" || entry.Name == "" || entry.ClassYear == "" {
			return fmt.Errorf("subject missing id/name/class: %+v", entry)
		}
		kind := entry.Kind
		if kind != models.KindLab {
			kind = models.KindTheory
		}

		if dryRun {
			log.Printf("[dry-run] subject %s (%s, %s)", entry.ID, entry.Name, kind)
			continue
		}

		subject := models.Subject{
			SubjectID: entry.ID,
			Name:      entry.Name,
			Kind:      kind,
			ClassYear: entry.ClassYear,
			Semester:  entry.Semester,
		}
		if err := config.DB.Save(&subject).Error; err != nil {
			return err
		}

		if err := config.DB.Where("subject_id = ?", entry.ID).Delete(&models.SubjectFaculty{}).Error; err != nil {
			return err
		}
		for section, faculty := range entry.Faculties {
			row := models.SubjectFaculty{
				SubjectID:   entry.ID,
				Section:     section,
				FacultyName: faculty,
			}
			if err := config.DB.Create(&row).Error; err != nil {
				return err
			}
		}
	}

	log.Printf("imported %d subjects from %s", len(entries), path)
	return nil
}

func importStudents(path string, dryRun bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var entries []studentFile
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("invalid students file: %w", err)
	}

	now := time.Now()
	for _, entry := range entries {
		role := entry.Role
		if role == "" {
			role = models.RoleStudent
		}
		if role == models.RoleStudent && entry.RollNumber == "" {
			return fmt.Errorf("student %q missing roll number", entry.Name)
		}

		if dryRun {
			log.Printf("[dry-run] %s %s (%s)", role, entry.Name, entry.RollNumber)
			continue
		}

		password := entry.Password
		if password != "" {
			hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			password = string(hashed)
		}

		user := models.User{
			Name:      entry.Name,
			Email:     entry.Email,
			Password:  password,
			Role:      role,
			ClassYear: entry.ClassYear,
			Section:   entry.Section,
			Semester:  entry.Semester,
			CreateAt:  &now,
			UpdateAt:  &now,
		}
		if entry.RollNumber != "" {
			roll := entry.RollNumber
			user.RollNumber = &roll
		}

		var existing models.User
		err = config.DB.Where("email = ? OR (roll_number IS NOT NULL AND roll_number = ?)",
			entry.Email, entry.RollNumber).First(&existing).Error
		if err == nil {
			user.UserID = existing.UserID
			user.CreateAt = existing.CreateAt
		}

		if err := config.DB.Save(&user).Error; err != nil {
			return err
		}
	}

	log.Printf("imported %d users from %s", len(entries), path)
	return nil
}
