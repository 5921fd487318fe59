package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"coursebot/internal/progress"
	"coursebot/internal/storage"
)

const (
	updateProgressUsage = "Usage: /update_progress <course> <progress>"
	addCourseUsage      = "Usage: /add_course <name>"
)

// handleStart shows the main menu
func (b *Bot) handleStart() *reply {
	keyboard := menuKeyboard()
	return &reply{text: "Welcome! Choose an option:", keyboard: &keyboard}
}

// handleUpdateProgress records a status for a course: /update_progress <course> <status words...>.
// The status is kept as typed apart from whitespace runs.
func (b *Bot) handleUpdateProgress(ctx context.Context, e commandEvent) *reply {
	course, rest := splitLeadingArg(e.args)
	status := normalizeSpace(rest)
	if course == "" || status == "" {
		return &reply{text: updateProgressUsage}
	}

	err := b.tracker.Save(ctx, e.userID, course, status)
	var logErr *progress.LogError
	switch {
	case errors.As(err, &logErr):
		// The update is stored; only the external log missed it
		b.logger.Error("Failed to append progress to log",
			zap.Error(logErr.Err),
			zap.String("user_id", e.userID),
			zap.String("course", course),
			zap.String("status", status),
		)
	case err != nil:
		b.logger.Error("Failed to save progress",
			zap.Error(err),
			zap.String("user_id", e.userID),
			zap.String("course", course),
		)
		return &reply{text: fmt.Sprintf("Could not update %s. Please try again.", course)}
	default:
		b.logger.Info("Progress updated",
			zap.String("user_id", e.userID),
			zap.String("course", course),
			zap.String("status", status),
		)
	}

	return &reply{text: fmt.Sprintf("Updated %s progress to: %s", course, status)}
}

// handleAddCourse appends a course to the catalog: /add_course <name>, admins only
func (b *Bot) handleAddCourse(ctx context.Context, e commandEvent) *reply {
	if !b.admins.IsAdmin(e.userID) {
		b.logger.Warn("Unauthorized add_course attempt", zap.String("user_id", e.userID))
		return &reply{text: "Only admins can add courses. " + addCourseUsage}
	}
	name, rest := splitLeadingArg(e.args)
	if name == "" || strings.TrimSpace(rest) != "" {
		return &reply{text: addCourseUsage}
	}

	if len(callbackSelect+name) > maxCallbackData {
		return &reply{text: fmt.Sprintf("Course name is too long (at most %d bytes).", maxCallbackData-len(callbackSelect))}
	}

	err := b.catalog.AddCourse(ctx, name)
	switch {
	case errors.Is(err, storage.ErrCourseExists):
		return &reply{text: fmt.Sprintf("%s already exists!", name)}
	case err != nil:
		b.logger.Error("Failed to add course", zap.Error(err), zap.String("course", name))
		return &reply{text: fmt.Sprintf("Could not add %s. Please try again.", name)}
	}

	b.logger.Info("Course added", zap.String("course", name), zap.String("user_id", e.userID))
	return &reply{text: fmt.Sprintf("Added course: %s", name)}
}
