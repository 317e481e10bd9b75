package services

import (
	"math"
	"os"
	"strconv"
	"time"

	"course-feedback-api/models"
)

// DefaultRestrictionDays is the cooldown window applied after a student
// has submitted feedback for every subject of their class year.
const DefaultRestrictionDays = 15

// EligibilityDecision tells whether a student may currently submit
// feedback and, if not, how many days of the cooldown remain.
type EligibilityDecision struct {
	Restricted    bool `json:"feedbackRestricted"`
	DaysRemaining int  `json:"daysRemaining"`
}

// RestrictionDays returns the configured cooldown length, defaulting to
// DefaultRestrictionDays when FEEDBACK_RESTRICTION_DAYS is unset or
// invalid.
func RestrictionDays() int {
	days, err := strconv.Atoi(os.Getenv("FEEDBACK_RESTRICTION_DAYS"))
	if err != nil || days <= 0 {
		return DefaultRestrictionDays
	}
	return days
}

// ComputeEligibility decides whether a student is inside the
// post-completion restriction window.
//
// Completion is judged against every catalog subject of the student's
// class year; the semester is intentionally not part of the filter.
// A student with pending subjects is never restricted. Once all
// subjects are covered (distinct subject ids, so a shrunken catalog
// still counts as complete), the window runs restrictionDays from the
// most recent submission, counting partial days as whole days: a gap
// of a few hours is already day 1, and on the submission day itself
// the full window remains.
func ComputeEligibility(records []models.FeedbackRecord, catalog []models.Subject, classYear string, now time.Time, restrictionDays int) EligibilityDecision {
	totalSubjects := 0
	for _, s := range catalog {
		if s.ClassYear == classYear {
			totalSubjects++
		}
	}

	completed := make(map[string]struct{}, len(records))
	var lastSubmission time.Time
	for _, r := range records {
		completed[r.SubjectID] = struct{}{}
		if r.CreatedAt.After(lastSubmission) {
			lastSubmission = r.CreatedAt
		}
	}

	if totalSubjects == 0 || len(completed) < totalSubjects {
		return EligibilityDecision{}
	}

	diff := now.Sub(lastSubmission)
	if diff < 0 {
		diff = -diff
	}
	diffDays := int(math.Ceil(diff.Hours() / 24))

	if diffDays <= restrictionDays {
		return EligibilityDecision{
			Restricted:    true,
			DaysRemaining: restrictionDays - diffDays + 1,
		}
	}
	return EligibilityDecision{}
}
