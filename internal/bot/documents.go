package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"coursebot/internal/intake"
)

// handleDocument passes an attachment to the file intake
func (b *Bot) handleDocument(ctx context.Context, e documentEvent) *reply {
	err := b.intake.Accept(ctx, e.userID, e.doc, func(ctx context.Context) ([]byte, error) {
		return b.downloadFile(ctx, e.doc.FileID)
	})

	switch {
	case errors.Is(err, intake.ErrUnauthorized):
		b.logger.Warn("Unauthorized upload attempt",
			zap.String("user_id", e.userID),
			zap.String("file_name", e.doc.FileName),
		)
		return &reply{text: "Only admins can upload files."}
	case errors.Is(err, intake.ErrInvalidDocument):
		return &reply{text: "Please upload a PDF under 50MB."}
	case err != nil:
		b.logger.Error("Failed to upload file",
			zap.Error(err),
			zap.String("user_id", e.userID),
			zap.String("file_name", e.doc.FileName),
		)
		return &reply{text: fmt.Sprintf("Failed to upload %s. Please try again.", e.doc.FileName)}
	}

	b.logger.Info("File uploaded",
		zap.String("user_id", e.userID),
		zap.String("file_name", e.doc.FileName),
		zap.Int64("size", e.doc.Size),
	)
	return &reply{text: fmt.Sprintf("Uploaded %s", e.doc.FileName)}
}

// downloadFile fetches a file's content from the Bot API file endpoint
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	fileURL, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build download request: %w", err)
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download file: unexpected status %s", resp.Status)
	}

	// Read one byte past the limit so the intake can reject oversized content
	content, err := io.ReadAll(io.LimitReader(resp.Body, intake.MaxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}
	return content, nil
}
