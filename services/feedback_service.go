package services

import (
	"sort"
	"time"

	"course-feedback-api/models"

	"gorm.io/gorm"
)

// FeedbackService orchestrates the record store around the pure
// engines: it loads consistent snapshots, runs validation, and appends
// admitted records. The engines themselves never touch the database.
type FeedbackService struct {
	db *gorm.DB
}

func NewFeedbackService(db *gorm.DB) *FeedbackService {
	return &FeedbackService{db: db}
}

// StudentRecords returns every record submitted under a student key.
func (s *FeedbackService) StudentRecords(studentKey string) ([]models.FeedbackRecord, error) {
	var records []models.FeedbackRecord
	if err := s.db.Where("student_key = ?", studentKey).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// AllRecords returns the full record set, unordered.
func (s *FeedbackService) AllRecords() ([]models.FeedbackRecord, error) {
	var records []models.FeedbackRecord
	if err := s.db.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Submit runs one candidate through the validator against the
// student's existing records and appends it on success.
func (s *FeedbackService) Submit(candidate FeedbackCandidate, catalog []models.Subject, now time.Time) (*models.FeedbackRecord, error) {
	existing, err := s.StudentRecords(candidate.StudentKey)
	if err != nil {
		return nil, err
	}

	record, err := ValidateAndAdmit(candidate, existing, catalog, now)
	if err != nil {
		return nil, err
	}

	if err := s.db.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// CompletedSubjectIDs returns the distinct subject ids a student has
// already covered, sorted for stable output.
func (s *FeedbackService) CompletedSubjectIDs(studentKey string) ([]string, error) {
	records, err := s.StudentRecords(studentKey)
	if err != nil {
		return nil, err
	}
	return DistinctSubjectIDs(records), nil
}

// DistinctSubjectIDs extracts the set of subject ids present in a
// record slice.
func DistinctSubjectIDs(records []models.FeedbackRecord) []string {
	seen := make(map[string]struct{}, len(records))
	ids := make([]string, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.SubjectID]; ok {
			continue
		}
		seen[r.SubjectID] = struct{}{}
		ids = append(ids, r.SubjectID)
	}
	sort.Strings(ids)
	return ids
}
