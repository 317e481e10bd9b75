package services

import (
	"testing"
	"time"

	"course-feedback-api/models"
)

var eligibilityCatalog = []models.Subject{
	{SubjectID: "dm1", Name: "Discrete Mathematics", Kind: models.KindTheory, ClassYear: "IIyr", Semester: "II"},
	{SubjectID: "osl1", Name: "Operating Systems Lab", Kind: models.KindLab, ClassYear: "IIyr", Semester: "II"},
	{SubjectID: "ws1", Name: "Web Security", Kind: models.KindTheory, ClassYear: "IVyr", Semester: "II"},
}

func record(studentKey, subjectID string, createdAt time.Time) models.FeedbackRecord {
	return models.FeedbackRecord{
		RecordID:   subjectID + "-" + studentKey,
		CreatedAt:  createdAt,
		StudentKey: studentKey,
		SubjectID:  subjectID,
	}
}

func TestComputeEligibilityInsideWindow(t *testing.T) {
	lastSubmission := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []models.FeedbackRecord{
		record("22CS001", "dm1", lastSubmission.Add(-48*time.Hour)),
		record("22CS001", "osl1", lastSubmission),
	}

	now := lastSubmission.AddDate(0, 0, 10)
	decision := ComputeEligibility(records, eligibilityCatalog, "IIyr", now, DefaultRestrictionDays)

	if !decision.Restricted {
		t.Fatalf("expected restriction 10 days after completion, got %+v", decision)
	}
	if decision.DaysRemaining != 6 {
		t.Fatalf("expected 6 days remaining, got %d", decision.DaysRemaining)
	}
}

func TestComputeEligibilityWindowExpired(t *testing.T) {
	lastSubmission := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []models.FeedbackRecord{
		record("22CS001", "dm1", lastSubmission.Add(-time.Hour)),
		record("22CS001", "osl1", lastSubmission),
	}

	now := lastSubmission.AddDate(0, 0, 16)
	decision := ComputeEligibility(records, eligibilityCatalog, "IIyr", now, DefaultRestrictionDays)

	if decision.Restricted || decision.DaysRemaining != 0 {
		t.Fatalf("expected cooldown expired after 16 days, got %+v", decision)
	}
}

func TestComputeEligibilityPartialCompletionNeverRestricts(t *testing.T) {
	lastSubmission := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []models.FeedbackRecord{
		record("22CS001", "dm1", lastSubmission),
	}

	for _, days := range []int{0, 1, 10, 100} {
		now := lastSubmission.AddDate(0, 0, days)
		decision := ComputeEligibility(records, eligibilityCatalog, "IIyr", now, DefaultRestrictionDays)
		if decision.Restricted || decision.DaysRemaining != 0 {
			t.Fatalf("partial completion must never restrict (now=+%dd): %+v", days, decision)
		}
	}
}

func TestComputeEligibilitySubDayGapCountsAsOneDay(t *testing.T) {
	lastSubmission := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []models.FeedbackRecord{
		record("22CS001", "dm1", lastSubmission),
		record("22CS001", "osl1", lastSubmission),
	}

	now := lastSubmission.Add(3 * time.Hour)
	decision := ComputeEligibility(records, eligibilityCatalog, "IIyr", now, DefaultRestrictionDays)

	if !decision.Restricted {
		t.Fatalf("expected restriction a few hours after completion, got %+v", decision)
	}
	if decision.DaysRemaining != DefaultRestrictionDays {
		t.Fatalf("expected the full window (%d days) on the submission day, got %d",
			DefaultRestrictionDays, decision.DaysRemaining)
	}
}

func TestComputeEligibilityDuplicateSubjectsCountOnce(t *testing.T) {
	lastSubmission := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []models.FeedbackRecord{
		record("22CS001", "dm1", lastSubmission.Add(-time.Hour)),
		record("22CS001", "dm1", lastSubmission),
	}

	decision := ComputeEligibility(records, eligibilityCatalog, "IIyr", lastSubmission.AddDate(0, 0, 1), DefaultRestrictionDays)
	if decision.Restricted {
		t.Fatalf("two records for one subject must not count as two completions: %+v", decision)
	}
}

func TestComputeEligibilityCatalogShrinkageStillCompletes(t *testing.T) {
	lastSubmission := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []models.FeedbackRecord{
		record("19CS044", "ob1", lastSubmission.Add(-2*time.Hour)),
		record("19CS044", "cb1", lastSubmission.Add(-time.Hour)),
		record("19CS044", "ws1", lastSubmission),
	}

	// Catalog only lists one IVyr subject now; the student has three
	// distinct subjects on record.
	decision := ComputeEligibility(records, eligibilityCatalog, "IVyr", lastSubmission.AddDate(0, 0, 2), DefaultRestrictionDays)
	if !decision.Restricted {
		t.Fatalf("more distinct subjects than the catalog defines still counts as complete: %+v", decision)
	}
	if decision.DaysRemaining != 14 {
		t.Fatalf("expected 14 days remaining, got %d", decision.DaysRemaining)
	}
}

func TestComputeEligibilityEmptyCatalogNeverRestricts(t *testing.T) {
	lastSubmission := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []models.FeedbackRecord{
		record("23IT112", "x1", lastSubmission),
	}

	decision := ComputeEligibility(records, eligibilityCatalog, "Iyr", lastSubmission, DefaultRestrictionDays)
	if decision.Restricted || decision.DaysRemaining != 0 {
		t.Fatalf("class year with no catalog subjects must not restrict: %+v", decision)
	}
}

func TestComputeEligibilityNoRecords(t *testing.T) {
	decision := ComputeEligibility(nil, eligibilityCatalog, "IIyr", time.Now(), DefaultRestrictionDays)
	if decision.Restricted || decision.DaysRemaining != 0 {
		t.Fatalf("student without records must not be restricted: %+v", decision)
	}
}

func TestComputeEligibilityCustomWindow(t *testing.T) {
	lastSubmission := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []models.FeedbackRecord{
		record("22CS001", "dm1", lastSubmission),
		record("22CS001", "osl1", lastSubmission),
	}

	decision := ComputeEligibility(records, eligibilityCatalog, "IIyr", lastSubmission.AddDate(0, 0, 3), 5)
	if !decision.Restricted || decision.DaysRemaining != 3 {
		t.Fatalf("expected restricted with 3 of 5 days remaining, got %+v", decision)
	}

	decision = ComputeEligibility(records, eligibilityCatalog, "IIyr", lastSubmission.AddDate(0, 0, 6), 5)
	if decision.Restricted {
		t.Fatalf("expected 5-day window expired after 6 days, got %+v", decision)
	}
}
