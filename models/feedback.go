package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RatingSet maps a parameter key (p1..p10 for theory, l1..l8 for lab)
// to an integer rating in [1,5]. Stored as a JSON column.
type RatingSet map[string]int

func (r RatingSet) Value() (driver.Value, error) {
	if r == nil {
		return nil, nil
	}
	return json.Marshal(r)
}

func (r *RatingSet) Scan(src interface{}) error {
	if src == nil {
		*r = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into RatingSet", src)
	}
	return json.Unmarshal(data, r)
}

// FeedbackRecord is one student's submitted feedback for one subject.
// Records are created exactly once and never mutated or deleted.
// Subject name and faculty are denormalized copies taken from the
// catalog at submission time; later catalog changes do not rewrite
// historical records.
type FeedbackRecord struct {
	RecordID    string    `gorm:"primaryKey;column:record_id" json:"id"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"timestamp"`
	StudentKey  string    `gorm:"column:student_key;index" json:"rollnumber"`
	StudentName string    `gorm:"column:student_name" json:"name"`
	ClassYear   string    `gorm:"column:class_year" json:"class"`
	Section     string    `gorm:"column:section" json:"section"`
	Semester    string    `gorm:"column:semester" json:"semester"`
	SubjectID   string    `gorm:"column:subject_id;index" json:"subjectId"`
	SubjectName string    `gorm:"column:subject_name" json:"subject"`
	FacultyName string    `gorm:"column:faculty_name" json:"faculty"`
	Kind        string    `gorm:"column:kind" json:"type"`
	Ratings     RatingSet `gorm:"column:ratings;type:json" json:"ratings"`
	Comment     string    `gorm:"column:comment" json:"comment,omitempty"`
}

func (FeedbackRecord) TableName() string {
	return "feedback_records"
}

func (f *FeedbackRecord) BeforeCreate(tx *gorm.DB) error {
	if f.RecordID == "" {
		f.RecordID = uuid.NewString()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	return nil
}
