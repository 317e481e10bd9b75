package services

import (
	"fmt"
	"sync"
	"time"

	"course-feedback-api/config"
	"course-feedback-api/models"
)

var (
	catalogCacheMu sync.RWMutex
	catalogCache   *catalogCacheEntry
	catalogTTL     = 5 * time.Minute
)

type catalogCacheEntry struct {
	subjects  []models.Subject
	fetchedAt time.Time
}

func loadCatalog(force bool) (*catalogCacheEntry, error) {
	catalogCacheMu.RLock()
	cached := catalogCache
	catalogCacheMu.RUnlock()

	if cached != nil && !force && time.Since(cached.fetchedAt) < catalogTTL {
		return cached, nil
	}

	catalogCacheMu.Lock()
	defer catalogCacheMu.Unlock()

	if catalogCache != nil && !force && time.Since(catalogCache.fetchedAt) < catalogTTL {
		return catalogCache, nil
	}

	var subjects []models.Subject
	if err := config.DB.Preload("Faculties").Find(&subjects).Error; err != nil {
		return nil, fmt.Errorf("failed to load subject catalog: %w", err)
	}

	entry := &catalogCacheEntry{
		subjects:  subjects,
		fetchedAt: time.Now(),
	}
	catalogCache = entry
	return entry, nil
}

// ClearCatalogCache invalidates the in-memory catalog cache.
func ClearCatalogCache() {
	catalogCacheMu.Lock()
	defer catalogCacheMu.Unlock()
	catalogCache = nil
}

// GetCatalog returns the subject catalog snapshot with caching support.
func GetCatalog() ([]models.Subject, error) {
	entry, err := loadCatalog(false)
	if err != nil {
		return nil, err
	}
	return entry.subjects, nil
}

// SubjectView is one catalog entry resolved for a specific section,
// the shape the submission UI consumes.
type SubjectView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Kind    string `json:"type"`
	Faculty string `json:"faculty"`
}

// SubjectsForStudent lists the catalog subjects for a class year with
// the faculty resolved for the given section. A non-empty semester
// narrows the listing; eligibility deliberately does not.
func SubjectsForStudent(catalog []models.Subject, classYear, semester, section string) []SubjectView {
	views := make([]SubjectView, 0, len(catalog))
	for i := range catalog {
		s := &catalog[i]
		if s.ClassYear != classYear {
			continue
		}
		if semester != "" && s.Semester != semester {
			continue
		}
		views = append(views, SubjectView{
			ID:      s.SubjectID,
			Name:    s.Name,
			Kind:    s.Kind,
			Faculty: s.FacultyFor(section),
		})
	}
	return views
}
