package app

import (
	"context"
	"strings"

	"internsaathi/internal/common"
	"internsaathi/internal/storage"
)

const uploadFolder = "internsaathi_uploads"

var allowedUploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
}

type UploadService struct {
	storage ObjectStorage
	logger  Logger
}

func NewUploadService(files ObjectStorage, logger Logger) *UploadService {
	return &UploadService{storage: files, logger: loggerOrNop(logger)}
}

// Upload stores a logo, profile picture or verification document and returns its URL.
func (s *UploadService) Upload(ctx context.Context, file *File) (string, error) {
	if file.empty() {
		return "", common.NewValidationError("no file uploaded", map[string]string{"image": "file is required"})
	}
	contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(file.ContentType, ";", 2)[0]))
	if !allowedUploadTypes[contentType] {
		return "", common.NewValidationError("unsupported file type", map[string]string{"image": "must be an image or a pdf"})
	}
	result, err := s.storage.Upload(ctx, storage.UploadRequest{
		Data:         file.Data,
		Filename:     file.Name,
		Folder:       uploadFolder,
		ResourceType: "auto",
	})
	if err != nil {
		s.logger.Error("upload failed", "filename", file.Name, "error", err)
		return "", common.NewError(common.CodeUploadFailed, "file upload failed", err)
	}
	return result.URL, nil
}
