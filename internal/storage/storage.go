package storage

import (
	"context"
	"errors"
	"io"

	"coursebot/internal/models"
)

// ErrCourseExists is returned when adding a course whose name is already in the catalog
var ErrCourseExists = errors.New("course already exists")

// Store holds the course catalog and the current progress of every user
type Store interface {
	// Catalog operations

	// ListCourses returns the catalog in insertion order
	ListCourses(ctx context.Context) ([]models.Course, error)
	// AddCourse appends a course; it returns ErrCourseExists for a duplicate name
	AddCourse(ctx context.Context, name string) error

	// Progress operations

	// GetProgress returns the user's status for every catalog course, in catalog order.
	// Courses without a recorded status report models.DefaultStatus.
	GetProgress(ctx context.Context, userID string) ([]models.CourseProgress, error)
	// SaveProgress overwrites the status for (userID, course). Catalog membership is not checked.
	SaveProgress(ctx context.Context, userID, course, status string) error
}

// ProgressLog is an append-only external record of every progress update
type ProgressLog interface {
	AppendRow(ctx context.Context, entry models.ProgressEntry) error
	Close() error
}

// FileStore persists uploaded documents under a caller-supplied key
type FileStore interface {
	Save(ctx context.Context, key string, content io.Reader) error
}
