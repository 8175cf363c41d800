package upload

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"anoa.com/kulupportal/internal/entity"
	"anoa.com/kulupportal/internal/modules/upload/dto"
	"anoa.com/kulupportal/internal/policy"
	"anoa.com/kulupportal/pkg/apperror"
	commonDto "anoa.com/kulupportal/pkg/dto"
	"anoa.com/kulupportal/pkg/logger"
	"anoa.com/kulupportal/pkg/storage"
	"go.uber.org/zap"
)

const (
	FolderAvatars       = "avatars"
	FolderProjects      = "projects"
	FolderAnnouncements = "announcements"

	MaxImageSize = 5 << 20
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// folderAccess lists who may upload into each folder.
var folderAccess = map[string]func(entity.Role) bool{
	FolderAvatars:       func(entity.Role) bool { return true },
	FolderProjects:      func(r entity.Role) bool { return policy.CanCreateProject(r) || policy.CanManageOwnLeadProjects(r) },
	FolderAnnouncements: policy.CanPublishAnnouncements,
}

type UploadService interface {
	UploadImage(ctx context.Context, caller policy.Caller, folder string, file commonDto.UploadFile, size int64) (*dto.UploadResponse, error)
}

type uploadService struct {
	storage storage.ImageStorage
}

// NewUploadService accepts a nil storage; uploads then fail as internal
// errors.
func NewUploadService(storage storage.ImageStorage) UploadService {
	return &uploadService{storage: storage}
}

func (s *uploadService) UploadImage(ctx context.Context, caller policy.Caller, folder string, file commonDto.UploadFile, size int64) (*dto.UploadResponse, error) {
	if !caller.Authenticated() {
		return nil, apperror.New(http.StatusUnauthorized, "authorization required", apperror.ErrUnauthorized)
	}

	folder = strings.ToLower(strings.TrimSpace(folder))
	if folder == "" {
		folder = FolderAvatars
	}
	allowed, ok := folderAccess[folder]
	if !ok {
		return nil, apperror.Validation("folder_invalid", "unknown upload folder")
	}
	if !allowed(caller.Role) {
		return nil, fmt.Errorf("upload to %s: %w", folder, apperror.ErrForbidden)
	}

	if !allowedExtensions[strings.ToLower(filepath.Ext(file.FileName))] {
		return nil, apperror.Validation("file_type_invalid", "Yalnızca jpg, png, webp veya gif yüklenebilir")
	}
	if size <= 0 || size > MaxImageSize {
		return nil, apperror.Validation("file_too_large", "Görsel en fazla 5 MB olabilir")
	}

	if s.storage == nil {
		return nil, fmt.Errorf("upload image: storage not configured: %w", apperror.ErrInternal)
	}

	url, err := s.storage.UploadImage(ctx, file.Reader, folder, file.FileName)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "image uploaded",
		zap.String("user_id", caller.ID.String()),
		zap.String("folder", folder),
	)
	return &dto.UploadResponse{URL: url}, nil
}
