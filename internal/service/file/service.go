package file

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
)

const leaveAttachmentDir = "leave_attachments"

type FileService interface {
	// UploadLeaveAttachment stores an attachment for empID and returns its storage path.
	UploadLeaveAttachment(ctx context.Context, empID string, file io.Reader, filename string) (string, error)
	DeleteFile(ctx context.Context, path string) error
	FileURL(path string) string
}

type fileServiceImpl struct {
	storage storage.FileStorage
	now     func() time.Time
	newID   func() string
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
}

// LeaveAttachmentName builds leave_attachments/<emp_id>-<unix millis>-<id8><ext>.
func LeaveAttachmentName(empID string, at time.Time, id, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return path.Join(leaveAttachmentDir, fmt.Sprintf("%s-%d-%s%s", empID, at.UnixMilli(), id, ext))
}

func (s *fileServiceImpl) UploadLeaveAttachment(ctx context.Context, empID string, file io.Reader, filename string) (string, error) {
	if empID == "" {
		return "", fmt.Errorf("upload leave attachment: %w", storage.ErrInvalidPath)
	}
	name := LeaveAttachmentName(empID, s.now(), s.newID(), filename)

	uploaded, err := s.storage.Upload(ctx, file, name)
	if err != nil {
		return "", fmt.Errorf("failed to upload leave attachment: %w", err)
	}
	return uploaded, nil
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	if err := s.storage.Delete(ctx, path); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", path, err)
	}
	return nil
}

func (s *fileServiceImpl) FileURL(path string) string {
	return s.storage.URL(path)
}
