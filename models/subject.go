package models

// Subject kinds. The kind decides which rating parameter set applies.
const (
	KindTheory = "theory"
	KindLab    = "lab"
)

// Subject is read-only reference data: one catalog entry per offered
// subject, with per-section faculty assignments.
type Subject struct {
	SubjectID string `gorm:"primaryKey;column:subject_id" json:"id"`
	Name      string `gorm:"column:name" json:"name"`
	Kind      string `gorm:"column:kind" json:"type"`
	ClassYear string `gorm:"column:class_year" json:"class"`
	Semester  string `gorm:"column:semester" json:"semester"`

	Faculties []SubjectFaculty `gorm:"foreignKey:SubjectID;references:SubjectID" json:"faculties,omitempty"`
}

type SubjectFaculty struct {
	ID          int    `gorm:"primaryKey;column:id" json:"id"`
	SubjectID   string `gorm:"column:subject_id;index" json:"subject_id"`
	Section     string `gorm:"column:section" json:"section"`
	FacultyName string `gorm:"column:faculty_name" json:"faculty_name"`
}

func (Subject) TableName() string {
	return "subjects"
}

func (SubjectFaculty) TableName() string {
	return "subject_faculties"
}

// FacultyFor resolves the faculty teaching this subject for a section,
// falling back to section A and then "N/A" when no assignment exists.
func (s *Subject) FacultyFor(section string) string {
	var sectionA string
	for _, f := range s.Faculties {
		if f.Section == section {
			return f.FacultyName
		}
		if f.Section == "A" {
			sectionA = f.FacultyName
		}
	}
	if sectionA != "" {
		return sectionA
	}
	return "N/A"
}
