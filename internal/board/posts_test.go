package board

import (
	"context"
	"errors"
	"io"
	"testing"

	"go.uber.org/zap"
)

type fakeStorage struct {
	deleted []string
	failOn  string
}

func (f *fakeStorage) Upload(ctx context.Context, r io.Reader, fileName string) (string, error) {
	return "https://img.example/" + fileName, nil
}

func (f *fakeStorage) Delete(ctx context.Context, fileURL string) error {
	if fileURL == f.failOn {
		return errors.New("delete failed")
	}
	f.deleted = append(f.deleted, fileURL)
	return nil
}

func TestReleaseImages(t *testing.T) {
	store := &fakeStorage{}
	s := &Service{storage: store, logger: zap.NewNop()}

	s.releaseImages(context.Background(), []string{"https://img.example/a", "https://img.example/b"})

	if len(store.deleted) != 2 {
		t.Fatalf("deleted %d images, want 2", len(store.deleted))
	}
	if store.deleted[0] != "https://img.example/a" || store.deleted[1] != "https://img.example/b" {
		t.Errorf("deleted = %v", store.deleted)
	}
}

func TestReleaseImagesContinuesPastFailure(t *testing.T) {
	store := &fakeStorage{failOn: "https://img.example/a"}
	s := &Service{storage: store, logger: zap.NewNop()}

	s.releaseImages(context.Background(), []string{"https://img.example/a", "https://img.example/b"})

	if len(store.deleted) != 1 || store.deleted[0] != "https://img.example/b" {
		t.Errorf("deleted = %v, want the non-failing image only", store.deleted)
	}
}

func TestReleaseImagesNilStorage(t *testing.T) {
	s := &Service{logger: zap.NewNop()}
	// Must not panic when media handling is disabled
	s.releaseImages(context.Background(), []string{"https://img.example/a"})
}
