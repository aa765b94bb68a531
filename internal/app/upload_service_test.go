package app

import (
	"context"
	"errors"
	"testing"

	"internsaathi/internal/common"
)

func TestUploadStoresAllowedTypes(t *testing.T) {
	files := &fakeStorage{}
	service := NewUploadService(files, nil)

	url, err := service.Upload(context.Background(), &File{Name: "logo.png", ContentType: "image/png", Data: []byte("png")})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if url == "" {
		t.Fatal("expected a url")
	}
	if files.requests[0].Folder != uploadFolder {
		t.Fatalf("expected folder %s, got %s", uploadFolder, files.requests[0].Folder)
	}
}

func TestUploadRejectsMissingAndUnsupportedFiles(t *testing.T) {
	files := &fakeStorage{}
	service := NewUploadService(files, nil)

	if _, err := service.Upload(context.Background(), nil); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := service.Upload(context.Background(), &File{Name: "x.exe", ContentType: "application/octet-stream", Data: []byte("x")}); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if files.calls() != 0 {
		t.Fatalf("nothing should be uploaded, got %d calls", files.calls())
	}
}

func TestUploadReportsStorageFailure(t *testing.T) {
	service := NewUploadService(&fakeStorage{err: errors.New("boom")}, nil)
	_, err := service.Upload(context.Background(), &File{Name: "doc.pdf", ContentType: "application/pdf; charset=binary", Data: []byte("%PDF")})
	if !common.Is(err, common.CodeUploadFailed) {
		t.Fatalf("expected upload_failed, got %v", err)
	}
}
