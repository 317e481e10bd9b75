package services

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"

	"course-feedback-api/models"
)

// AnalyticsFilter narrows aggregation to one class/section/semester.
// Empty fields pass all records through for that dimension.
type AnalyticsFilter struct {
	ClassYear string
	Section   string
	Semester  string
}

func (f AnalyticsFilter) matchesRecord(r *models.FeedbackRecord) bool {
	if f.ClassYear != "" && r.ClassYear != f.ClassYear {
		return false
	}
	if f.Section != "" && r.Section != f.Section {
		return false
	}
	if f.Semester != "" && r.Semester != f.Semester {
		return false
	}
	return true
}

func (f AnalyticsFilter) matchesStudent(u *models.User) bool {
	if u.Role != models.RoleStudent {
		return false
	}
	if f.ClassYear != "" && u.ClassYear != f.ClassYear {
		return false
	}
	if f.Section != "" && u.Section != f.Section {
		return false
	}
	if f.Semester != "" && u.Semester != f.Semester {
		return false
	}
	return true
}

// ParamPercent is one parameter's aggregated percentage within a group.
type ParamPercent struct {
	Key     string
	Percent int
}

// StatRow is the aggregate for one (subject, faculty) group. Feedback
// is the overall score: the rounded mean of the already-rounded
// per-parameter percentages.
type StatRow struct {
	Subject  string
	Faculty  string
	Count    int
	Params   []ParamPercent
	Feedback int
}

// MarshalJSON flattens parameter percentages into the row object, the
// shape the dashboards consume:
// {"faculty":"Y","subject":"X","p1":90,...,"feedback":88}.
func (r StatRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	writeJSONField(&buf, "faculty", r.Faculty)
	buf.WriteByte(',')
	writeJSONField(&buf, "subject", r.Subject)
	for _, p := range r.Params {
		buf.WriteByte(',')
		writeJSONField(&buf, p.Key, p.Percent)
	}
	buf.WriteByte(',')
	writeJSONField(&buf, "feedback", r.Feedback)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSONField(buf *bytes.Buffer, key string, value interface{}) {
	k, _ := json.Marshal(key)
	v, _ := json.Marshal(value)
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
}

// AggregateResult is the analytics payload for one filter selection.
type AggregateResult struct {
	TotalSubmissions int       `json:"totalSubmissions"`
	TotalStudents    int       `json:"totalStudents"`
	TheoryStats      []StatRow `json:"theoryStats"`
	LabStats         []StatRow `json:"labStats"`
}

type statGroup struct {
	subject   string
	faculty   string
	subjectID string
	count     int
	sums      map[string]int
}

// Aggregate folds feedback records into per-(subject, faculty)
// percentage statistics, partitioned into theory and lab tables.
//
// The fold is pure and total: records without ratings are skipped (not
// counted as zero), malformed input never aborts the batch, and two
// calls on the same snapshot yield identical results. Each parameter
// percentage uses the group's submission count times the maximum
// rating as denominator, rounded half-up; the group's overall score
// averages those rounded percentages, rounding again.
func Aggregate(records []models.FeedbackRecord, filter AnalyticsFilter, catalog []models.Subject, students []models.User) AggregateResult {
	result := AggregateResult{
		TheoryStats: []StatRow{},
		LabStats:    []StatRow{},
	}

	for i := range students {
		if filter.matchesStudent(&students[i]) {
			result.TotalStudents++
		}
	}

	groups := make(map[string]*statGroup)
	var order []string
	for i := range records {
		r := &records[i]
		if !filter.matchesRecord(r) {
			continue
		}
		result.TotalSubmissions++

		if len(r.Ratings) == 0 {
			continue
		}

		key := r.SubjectName + "\x00" + r.FacultyName
		group, ok := groups[key]
		if !ok {
			group = &statGroup{
				subject:   r.SubjectName,
				faculty:   r.FacultyName,
				subjectID: r.SubjectID,
				sums:      make(map[string]int),
			}
			groups[key] = group
			order = append(order, key)
		}

		group.count++
		for param, value := range r.Ratings {
			group.sums[param] += value
		}
	}

	sort.Strings(order)

	byID := make(map[string]string, len(catalog))
	byName := make(map[string]string, len(catalog))
	for _, s := range catalog {
		byID[s.SubjectID] = s.Kind
		if _, ok := byName[s.Name]; !ok {
			byName[s.Name] = s.Kind
		}
	}

	for _, key := range order {
		group := groups[key]
		row := buildStatRow(group)

		if resolveKind(group, byID, byName) == models.KindLab {
			result.LabStats = append(result.LabStats, row)
		} else {
			result.TheoryStats = append(result.TheoryStats, row)
		}
	}

	return result
}

// resolveKind classifies a group as theory or lab: by the subject id
// carried on its records, then by catalog name match, defaulting to
// theory. Renamed or deleted catalog subjects therefore land in the
// theory table instead of failing the batch.
func resolveKind(group *statGroup, byID, byName map[string]string) string {
	if kind, ok := byID[group.subjectID]; ok {
		return kind
	}
	if kind, ok := byName[group.subject]; ok {
		return kind
	}
	return models.KindTheory
}

func buildStatRow(group *statGroup) StatRow {
	keys := make([]string, 0, len(group.sums))
	for param := range group.sums {
		keys = append(keys, param)
	}
	sortParamKeys(keys)

	row := StatRow{
		Subject: group.subject,
		Faculty: group.faculty,
		Count:   group.count,
		Params:  make([]ParamPercent, 0, len(keys)),
	}

	maxPossible := group.count * MaxRating
	percentSum := 0
	for _, param := range keys {
		percent := int(math.Round(float64(group.sums[param]) / float64(maxPossible) * 100))
		row.Params = append(row.Params, ParamPercent{Key: param, Percent: percent})
		percentSum += percent
	}

	if len(keys) > 0 {
		row.Feedback = int(math.Round(float64(percentSum) / float64(len(keys))))
	}
	return row
}
