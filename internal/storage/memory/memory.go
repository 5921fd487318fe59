package memory

import (
	"context"
	"sync"

	"coursebot/internal/models"
	"coursebot/internal/storage"
)

// Store is an in-memory implementation of storage.Store.
// The catalog and the progress map share one lock.
type Store struct {
	mu       sync.RWMutex
	courses  []models.Course
	index    map[string]struct{}
	progress map[string]map[string]string
}

var _ storage.Store = (*Store)(nil)

// NewStore creates a store seeded with the given course names.
// Duplicate seed names are skipped.
func NewStore(initialCourses []string) *Store {
	s := &Store{
		index:    make(map[string]struct{}),
		progress: make(map[string]map[string]string),
	}
	for _, name := range initialCourses {
		if _, ok := s.index[name]; ok {
			continue
		}
		s.index[name] = struct{}{}
		s.courses = append(s.courses, models.Course{Name: name})
	}
	return s
}

// ListCourses returns a copy of the catalog in insertion order
func (s *Store) ListCourses(ctx context.Context) ([]models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	courses := make([]models.Course, len(s.courses))
	copy(courses, s.courses)
	return courses, nil
}

// AddCourse appends a course to the catalog. Names are matched exactly.
func (s *Store) AddCourse(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[name]; ok {
		return storage.ErrCourseExists
	}
	s.index[name] = struct{}{}
	s.courses = append(s.courses, models.Course{Name: name})
	return nil
}

// GetProgress returns the user's status for every catalog course
func (s *Store) GetProgress(ctx context.Context, userID string) ([]models.CourseProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recorded := s.progress[userID]
	result := make([]models.CourseProgress, 0, len(s.courses))
	for _, course := range s.courses {
		status, ok := recorded[course.Name]
		if !ok {
			status = models.DefaultStatus
		}
		result = append(result, models.CourseProgress{Course: course.Name, Status: status})
	}
	return result, nil
}

// SaveProgress overwrites the user's status for a course
func (s *Store) SaveProgress(ctx context.Context, userID, course, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recorded, ok := s.progress[userID]
	if !ok {
		recorded = make(map[string]string)
		s.progress[userID] = recorded
	}
	recorded[course] = status
	return nil
}
