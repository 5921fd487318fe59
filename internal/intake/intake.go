package intake

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"coursebot/internal/models"
	"coursebot/internal/storage"
)

const (
	// MaxDocumentSize is the largest accepted upload
	MaxDocumentSize = 50 * 1024 * 1024
	// AcceptedMimeType is the only accepted upload type
	AcceptedMimeType = "application/pdf"
)

var (
	// ErrUnauthorized is returned when a non-admin uploads a document
	ErrUnauthorized = errors.New("only admins can upload files")
	// ErrInvalidDocument is returned for documents that are too large or not PDFs
	ErrInvalidDocument = errors.New("document must be a PDF under 50MB")
)

// Authorizer decides whether a user may upload
type Authorizer interface {
	IsAdmin(userID string) bool
}

// ContentFunc fetches the document body. It is called only after validation passes.
type ContentFunc func(ctx context.Context) ([]byte, error)

// Intake validates uploaded documents and persists accepted ones
type Intake struct {
	admins Authorizer
	files  storage.FileStore
}

// New creates a file intake
func New(admins Authorizer, files storage.FileStore) *Intake {
	return &Intake{admins: admins, files: files}
}

// Validate checks authorization, then size and type, in that order
func (in *Intake) Validate(userID string, doc models.Document) error {
	if !in.admins.IsAdmin(userID) {
		return ErrUnauthorized
	}
	if doc.Size > MaxDocumentSize || doc.MimeType != AcceptedMimeType {
		return ErrInvalidDocument
	}
	return nil
}

// Accept validates the document, fetches its content and stores it under its file name
func (in *Intake) Accept(ctx context.Context, userID string, doc models.Document, fetch ContentFunc) error {
	if err := in.Validate(userID, doc); err != nil {
		return err
	}

	content, err := fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", doc.FileName, err)
	}
	// The declared size is client-reported; re-check what actually arrived
	if len(content) > MaxDocumentSize {
		return ErrInvalidDocument
	}

	if err := in.files.Save(ctx, doc.FileName, bytes.NewReader(content)); err != nil {
		return fmt.Errorf("failed to store %s: %w", doc.FileName, err)
	}
	return nil
}
