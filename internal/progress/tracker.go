package progress

import (
	"context"
	"fmt"
	"time"

	"coursebot/internal/models"
	"coursebot/internal/storage"
)

// DefaultLogTimeout bounds a single progress log append
const DefaultLogTimeout = 10 * time.Second

// Tracker records progress updates in the store and mirrors each one to the progress log
type Tracker struct {
	store      storage.Store
	log        storage.ProgressLog
	logTimeout time.Duration
	now        func() time.Time
}

// LogError reports that the progress was stored but could not be appended to the log
type LogError struct {
	Entry models.ProgressEntry
	Err   error
}

func (e *LogError) Error() string {
	return fmt.Sprintf("failed to log progress for user %s course %q: %v", e.Entry.UserID, e.Entry.Course, e.Err)
}

func (e *LogError) Unwrap() error {
	return e.Err
}

// NewTracker creates a tracker. A non-positive timeout uses DefaultLogTimeout.
func NewTracker(store storage.Store, log storage.ProgressLog, logTimeout time.Duration) *Tracker {
	if logTimeout <= 0 {
		logTimeout = DefaultLogTimeout
	}
	return &Tracker{
		store:      store,
		log:        log,
		logTimeout: logTimeout,
		now:        time.Now,
	}
}

// Get returns the user's status for every catalog course
func (t *Tracker) Get(ctx context.Context, userID string) ([]models.CourseProgress, error) {
	return t.store.GetProgress(ctx, userID)
}

// Save overwrites the user's status for a course and appends one log row.
// When only the append fails the returned error is a *LogError and the new
// status is already visible through Get.
func (t *Tracker) Save(ctx context.Context, userID, course, status string) error {
	if err := t.store.SaveProgress(ctx, userID, course, status); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}

	if t.log == nil {
		return nil
	}

	entry := models.ProgressEntry{
		UserID:   userID,
		Course:   course,
		Status:   status,
		LoggedAt: t.now().UTC(),
	}

	logCtx, cancel := context.WithTimeout(ctx, t.logTimeout)
	defer cancel()

	if err := t.log.AppendRow(logCtx, entry); err != nil {
		return &LogError{Entry: entry, Err: err}
	}
	return nil
}
