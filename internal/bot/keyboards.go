package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"coursebot/internal/models"
)

// Callback identifiers
const (
	callbackCourses    = "courses"
	callbackProgress   = "progress"
	callbackAdmin      = "admin"
	callbackAddCourse  = "add_course"
	callbackUploadFile = "upload_file"
	callbackSelect     = "select_"
)

// maxCallbackData is Telegram's limit on inline button callback data, in bytes
const maxCallbackData = 64

// coursesPerRow is the number of course buttons per keyboard row
const coursesPerRow = 2

// menuKeyboard is the /start menu, one action per row
func menuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Courses", callbackCourses)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Progress", callbackProgress)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Admin", callbackAdmin)),
	)
}

// adminKeyboard lists the admin actions
func adminKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Add Course", callbackAddCourse)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Upload File", callbackUploadFile)),
	)
}

// courseKeyboard lays out one select button per course, two per row, in catalog order
func courseKeyboard(courses []models.Course) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var currentRow []tgbotapi.InlineKeyboardButton
	for i, course := range courses {
		button := tgbotapi.NewInlineKeyboardButtonData(course.Name, callbackSelect+course.Name)
		currentRow = append(currentRow, button)

		// Add row when we have 2 buttons or it's the last course
		if len(currentRow) == coursesPerRow || i == len(courses)-1 {
			rows = append(rows, currentRow)
			currentRow = nil
		}
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
