package bot

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"coursebot/internal/models"
)

// handleCallback processes inline keyboard button clicks
func (b *Bot) handleCallback(ctx context.Context, press buttonPress) *reply {
	data := press.data
	switch {
	case data == callbackCourses:
		return b.handleCoursesCallback(ctx)
	case strings.HasPrefix(data, callbackSelect):
		return b.handleSelectCallback(ctx, press.userID, strings.TrimPrefix(data, callbackSelect))
	case data == callbackProgress:
		return b.handleProgressCallback(ctx, press.userID)
	case data == callbackAdmin, data == callbackAddCourse, data == callbackUploadFile:
		// Admin buttons are silently ignored for everyone else
		if !b.admins.IsAdmin(press.userID) {
			b.logger.Warn("Unauthorized admin callback",
				zap.String("user_id", press.userID),
				zap.String("callback_data", data),
			)
			return nil
		}
		return b.handleAdminCallback(data)
	}

	b.logger.Debug("Unknown callback data", zap.String("callback_data", data))
	return nil
}

// handleCoursesCallback lists the catalog as select buttons
func (b *Bot) handleCoursesCallback(ctx context.Context) *reply {
	courses, err := b.catalog.ListCourses(ctx)
	if err != nil {
		b.logger.Error("Failed to list courses", zap.Error(err))
		return &reply{text: fmt.Sprintf("Error: %v", err)}
	}
	if len(courses) == 0 {
		return &reply{text: "No courses available yet."}
	}

	keyboard := courseKeyboard(courses)
	return &reply{text: "Select a course:", keyboard: &keyboard}
}

// handleSelectCallback shows the user's status for one course
func (b *Bot) handleSelectCallback(ctx context.Context, userID, course string) *reply {
	entries, err := b.tracker.Get(ctx, userID)
	if err != nil {
		b.logger.Error("Failed to get progress", zap.Error(err), zap.String("user_id", userID))
		return &reply{text: fmt.Sprintf("Error: %v", err)}
	}

	status := models.DefaultStatus
	for _, entry := range entries {
		if entry.Course == course {
			status = entry.Status
			break
		}
	}

	return &reply{text: fmt.Sprintf("Course: %s\nProgress: %s\nUse /update_progress to change.", course, status)}
}

// handleProgressCallback lists every catalog course with the user's status
func (b *Bot) handleProgressCallback(ctx context.Context, userID string) *reply {
	entries, err := b.tracker.Get(ctx, userID)
	if err != nil {
		b.logger.Error("Failed to get progress", zap.Error(err), zap.String("user_id", userID))
		return &reply{text: fmt.Sprintf("Error: %v", err)}
	}

	var text strings.Builder
	text.WriteString("Your Progress:")
	if len(entries) == 0 {
		text.WriteString("\nNo courses available yet.")
	}
	for _, entry := range entries {
		text.WriteString(fmt.Sprintf("\n%s: %s", entry.Course, entry.Status))
	}
	return &reply{text: text.String()}
}

// handleAdminCallback shows the admin menu or explains an admin action
func (b *Bot) handleAdminCallback(data string) *reply {
	switch data {
	case callbackAddCourse:
		return &reply{text: "Send /add_course <name> to add a course."}
	case callbackUploadFile:
		return &reply{text: "Send a PDF document (up to 50MB) to upload it."}
	}

	keyboard := adminKeyboard()
	return &reply{text: "Admin Options:", keyboard: &keyboard}
}
