package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"course-feedback-api/models"

	"github.com/google/uuid"
)

// ErrDuplicateSubmission is returned when a student already has a
// record for the subject. The existing record is never updated.
var ErrDuplicateSubmission = errors.New("feedback already submitted for this subject")

// UnknownSubjectError reports a submission for a subject id the catalog
// does not know. Unlike the aggregation engine's lookup fallback, this
// is surfaced to the caller.
type UnknownSubjectError struct {
	SubjectID string
}

func (e *UnknownSubjectError) Error() string {
	return fmt.Sprintf("subject %q not found in catalog", e.SubjectID)
}

// IncompleteParamsError reports a submission whose rating set does not
// exactly cover the subject kind's parameter set with values in [1,5].
type IncompleteParamsError struct {
	Missing    []string
	Unexpected []string
}

func (e *IncompleteParamsError) Error() string {
	parts := make([]string, 0, 2)
	if len(e.Missing) > 0 {
		parts = append(parts, "missing parameters: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Unexpected) > 0 {
		parts = append(parts, "unexpected parameters: "+strings.Join(e.Unexpected, ", "))
	}
	return "incomplete rating set: " + strings.Join(parts, "; ")
}

// FeedbackCandidate is a proposed submission after the HTTP boundary
// has canonicalized the student identity into StudentKey.
type FeedbackCandidate struct {
	StudentKey  string
	StudentName string
	ClassYear   string
	Section     string
	Semester    string
	SubjectID   string
	Ratings     map[string]int
	Comment     string
}

// ValidateAndAdmit gates one submission against the student's existing
// records and the subject catalog. On success it returns the admitted
// record, with id and creation time assigned and catalog data
// denormalized, ready to be appended to the store. Appending is the
// store's responsibility; this function has no side effects.
func ValidateAndAdmit(candidate FeedbackCandidate, existing []models.FeedbackRecord, catalog []models.Subject, now time.Time) (*models.FeedbackRecord, error) {
	for _, r := range existing {
		if r.StudentKey == candidate.StudentKey && r.SubjectID == candidate.SubjectID {
			return nil, ErrDuplicateSubmission
		}
	}

	var subject *models.Subject
	for i := range catalog {
		if catalog[i].SubjectID == candidate.SubjectID {
			subject = &catalog[i]
			break
		}
	}
	if subject == nil {
		return nil, &UnknownSubjectError{SubjectID: candidate.SubjectID}
	}

	required := ParamsForKind(subject.Kind)
	ratings := make(models.RatingSet, len(required))
	var missing []string
	for _, key := range required {
		value, ok := candidate.Ratings[key]
		if !ok || value < MinRating || value > MaxRating {
			missing = append(missing, key)
			continue
		}
		ratings[key] = value
	}

	var unexpected []string
	for key := range candidate.Ratings {
		if _, ok := ratings[key]; !ok && !contains(missing, key) {
			unexpected = append(unexpected, key)
		}
	}
	sortParamKeys(unexpected)

	if len(missing) > 0 || len(unexpected) > 0 {
		return nil, &IncompleteParamsError{Missing: missing, Unexpected: unexpected}
	}

	return &models.FeedbackRecord{
		RecordID:    uuid.NewString(),
		CreatedAt:   now,
		StudentKey:  candidate.StudentKey,
		StudentName: candidate.StudentName,
		ClassYear:   candidate.ClassYear,
		Section:     candidate.Section,
		Semester:    candidate.Semester,
		SubjectID:   subject.SubjectID,
		SubjectName: subject.Name,
		FacultyName: subject.FacultyFor(candidate.Section),
		Kind:        subject.Kind,
		Ratings:     ratings,
		Comment:     candidate.Comment,
	}, nil
}

func contains(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
