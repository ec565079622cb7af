package services

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/voxhire/voxhire/internal/models"
	pgrepo "github.com/voxhire/voxhire/internal/repositories/postgres"
	"github.com/voxhire/voxhire/internal/storage"
	"github.com/voxhire/voxhire/internal/utils"
)

// ResumeService stores the raw résumé document. Text extraction is the
// external résumé producer's job; it pushes the extracted text separately
// through ProfileService.UpdateResume.
type ResumeService interface {
	Upload(ctx context.Context, userID, fileName string, fileSize int, mimeType, objectName string, r io.Reader) (*models.ResumeFile, error)
}

type resumeService struct {
	files    pgrepo.ResumeFileRepository
	profiles ProfileService
	uploader storage.Uploader
}

func NewResumeService(files pgrepo.ResumeFileRepository, profiles ProfileService, uploader storage.Uploader) ResumeService {
	return &resumeService{files: files, profiles: profiles, uploader: uploader}
}

func (s *resumeService) Upload(ctx context.Context, userID, fileName string, fileSize int, mimeType, objectName string, r io.Reader) (*models.ResumeFile, error) {
	const op = "ResumeService.Upload"

	if userID == "" || objectName == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and object_name are required", nil)
	}
	if s.uploader == nil {
		return nil, utils.E(utils.CodeInternal, op, "uploader is not configured", nil)
	}

	if _, err := s.profiles.EnsureProfile(ctx, userID); err != nil {
		return nil, err
	}

	storedPath, err := s.uploader.Upload(ctx, objectName, mimeType, r)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to upload file", err)
	}

	row := &models.ResumeFile{
		ID:       uuid.NewString(),
		UserID:   userID,
		FileName: fileName,
		FilePath: storedPath,
		FileSize: fileSize,
		MimeType: mimeType,
		UploadAt: time.Now().UTC(),
	}

	if err := s.files.Insert(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist resume file metadata", err)
	}

	if err := s.profiles.SetResumeURL(ctx, userID, storedPath); err != nil {
		return nil, err
	}
	return row, nil
}
