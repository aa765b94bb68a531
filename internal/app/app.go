package app

import (
	"context"
	"time"

	"internsaathi/internal/common"
	"internsaathi/internal/domain/account"
	"internsaathi/internal/storage"
)

// Logger is satisfied by *slog.Logger.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) (bool, error)
}

type TokenProvider interface {
	Issue(userID common.UUID) (string, time.Time, error)
	Verify(token string) (common.UUID, error)
}

// ObjectStorage stores uploaded files and returns their public location.
type ObjectStorage interface {
	Upload(ctx context.Context, req storage.UploadRequest) (*storage.UploadResult, error)
}

// File is an uploaded file held in memory for the duration of a request.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f *File) empty() bool {
	return f == nil || len(f.Data) == 0
}

func requireRole(caller account.Account, role account.Role, message string) error {
	if caller.Role() != role {
		return common.NewError(common.CodeForbidden, message, nil)
	}
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

func loggerOrNop(logger Logger) Logger {
	if logger == nil {
		return nopLogger{}
	}
	return logger
}
