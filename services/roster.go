package services

import (
	"sort"

	"course-feedback-api/models"
)

// Completion states on the submission roster.
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// StudentStatus is one roster line: how far a student has come through
// their class year's subjects.
type StudentStatus struct {
	RollNumber     string `json:"rollnumber"`
	Name           string `json:"name"`
	CompletedCount int    `json:"completedCount"`
	TotalSubjects  int    `json:"totalSubjects"`
	Status         string `json:"status"`
}

var statusOrder = map[string]int{
	StatusPending:    1,
	StatusInProgress: 2,
	StatusCompleted:  3,
}

// CompletionRoster lists every student matching the filter with their
// feedback completion state, pending students first. Completion counts
// distinct subject ids, judged against all subjects of the class year
// regardless of semester, same as the eligibility window.
func CompletionRoster(students []models.User, records []models.FeedbackRecord, catalog []models.Subject, filter AnalyticsFilter) []StudentStatus {
	totalSubjects := 0
	for _, s := range catalog {
		if s.ClassYear == filter.ClassYear {
			totalSubjects++
		}
	}

	byStudent := make(map[string]map[string]struct{})
	for _, r := range records {
		set, ok := byStudent[r.StudentKey]
		if !ok {
			set = make(map[string]struct{})
			byStudent[r.StudentKey] = set
		}
		set[r.SubjectID] = struct{}{}
	}

	roster := make([]StudentStatus, 0, len(students))
	for i := range students {
		student := &students[i]
		if !filter.matchesStudent(student) {
			continue
		}

		key := student.StudentKey()
		completed := len(byStudent[key])

		status := StatusPending
		if totalSubjects > 0 && completed >= totalSubjects {
			status = StatusCompleted
		} else if completed > 0 {
			status = StatusInProgress
		}

		roster = append(roster, StudentStatus{
			RollNumber:     key,
			Name:           student.Name,
			CompletedCount: completed,
			TotalSubjects:  totalSubjects,
			Status:         status,
		})
	}

	sort.SliceStable(roster, func(i, j int) bool {
		if statusOrder[roster[i].Status] != statusOrder[roster[j].Status] {
			return statusOrder[roster[i].Status] < statusOrder[roster[j].Status]
		}
		return roster[i].RollNumber < roster[j].RollNumber
	})
	return roster
}
