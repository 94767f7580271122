package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"jobportal_backend/internal/config"
	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/internal/storage"
	"jobportal_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UploadService struct {
	store      storage.Storage
	resumeRepo repositories.ResumeRepository
	maxSize    int64
	allowed    []string
}

func NewUploadService(store storage.Storage, resumeRepo repositories.ResumeRepository, cfg *config.Config) *UploadService {
	return &UploadService{
		store:      store,
		resumeRepo: resumeRepo,
		maxSize:    cfg.Upload.MaxSize,
		allowed:    cfg.Upload.AllowedTypes,
	}
}

// UploadProfileResume replaces the candidate's profile resume. Existing
// applications keep the URL they captured at apply time.
func (s *UploadService) UploadProfileResume(ctx context.Context, db *gorm.DB, userID string, file *multipart.FileHeader) (*dto.ResumeResponse, error) {
	contentType, err := s.validate(file)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("resumes/%s/%d_%s", userID, time.Now().UnixNano(), sanitizeFileName(file.Filename))
	url, err := s.saveFile(ctx, path, file, contentType)
	if err != nil {
		return nil, err
	}

	resume := &models.Resume{
		UserID:      userID,
		URL:         url,
		FileName:    file.Filename,
		Size:        file.Size,
		ContentType: contentType,
	}
	if err := s.resumeRepo.Upsert(db, resume); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "resume uploaded", "user_id", userID, "size", file.Size)
	return &dto.ResumeResponse{
		URL:         url,
		FileName:    file.Filename,
		Size:        file.Size,
		ContentType: contentType,
	}, nil
}

// StoreApplicationResume saves a one-off resume attached to a single
// application. The profile resume row is untouched.
func (s *UploadService) StoreApplicationResume(ctx context.Context, userID string, file *multipart.FileHeader) (string, error) {
	contentType, err := s.validate(file)
	if err != nil {
		return "", err
	}

	path := fmt.Sprintf("applications/%s/%d_%s", userID, time.Now().UnixNano(), sanitizeFileName(file.Filename))
	return s.saveFile(ctx, path, file, contentType)
}

func (s *UploadService) DeleteProfileResume(ctx context.Context, db *gorm.DB, userID string) error {
	if _, err := s.resumeRepo.FindByUser(db, userID); err != nil {
		if apperrors.Is(err, repositories.ErrResumeNotFound) {
			return apperrors.NewNotFoundError("Resume not found")
		}
		return apperrors.InternalError(err)
	}

	if err := s.resumeRepo.DeleteByUser(db, userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *UploadService) saveFile(ctx context.Context, path string, file *multipart.FileHeader, contentType string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	defer src.Close()

	if err := s.store.Save(ctx, path, src, contentType); err != nil {
		logger.CtxWithError(ctx, "failed to store file", err, "path", path)
		return "", apperrors.ExternalServiceError(err)
	}

	url, err := s.store.GetURL(ctx, path)
	if err != nil {
		return "", apperrors.ExternalServiceError(err)
	}
	return url, nil
}

func (s *UploadService) validate(file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", apperrors.NewBadRequestError("File is required")
	}
	if file.Size > s.maxSize {
		return "", apperrors.NewBadRequestError(fmt.Sprintf("File exceeds the %d byte limit", s.maxSize))
	}

	contentType := file.Header.Get("Content-Type")
	for _, allowed := range s.allowed {
		if contentType == allowed {
			return contentType, nil
		}
	}
	return "", apperrors.NewBadRequestError("Unsupported file type, upload a PDF or Word document")
}

func sanitizeFileName(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
