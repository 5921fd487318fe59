package models

import "time"

// DefaultStatus is reported for courses a user has never updated
const DefaultStatus = "Not Started"

// Course represents a named unit of study in the catalog
type Course struct {
	Name string
}

// CourseProgress is a user's current status for one catalog course
type CourseProgress struct {
	Course string
	Status string
}

// ProgressEntry is one row of the append-only progress log
type ProgressEntry struct {
	UserID   string
	Course   string
	Status   string
	LoggedAt time.Time
}

// Document describes an uploaded attachment before its content is fetched
type Document struct {
	FileID   string
	FileName string
	Size     int64
	MimeType string
}
