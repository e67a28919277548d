package services

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/QuangMinh07/BE-NOM-sub000/pkg/logger"
	"github.com/QuangMinh07/BE-NOM-sub000/repository"
)

const (
	FolderFoods    = "foods"
	FolderProfiles = "profiles"
	FolderIDImages = "id-images"

	MaxUploadSize = 10 << 20
)

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}

type UploadService struct {
	Storage ObjectStorage
	Users   *repository.UserRepository
}

func NewUploadService(storage ObjectStorage, users *repository.UserRepository) *UploadService {
	return &UploadService{Storage: storage, Users: users}
}

type UploadIn struct {
	Folder      string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

func validFolder(folder string) bool {
	switch folder {
	case FolderFoods, FolderProfiles, FolderIDImages:
		return true
	}
	return false
}

// Upload stores an image and returns its URL. An upload to id-images replaces
// the user's ID image; the previous object is removed best-effort.
func (s *UploadService) Upload(ctx context.Context, userID uint, in UploadIn) (string, error) {
	if s.Storage == nil {
		return "", upstream("object storage", errStorageDisabled)
	}
	if !validFolder(in.Folder) {
		return "", invalid("unknown upload folder %q", in.Folder)
	}
	if in.Size <= 0 || in.Size > MaxUploadSize {
		return "", invalid("image must be between 1 byte and %d bytes", MaxUploadSize)
	}
	if !imageExts[strings.ToLower(filepath.Ext(in.Filename))] {
		return "", invalid("unsupported image type %q", filepath.Ext(in.Filename))
	}

	url, err := s.Storage.Put(ctx, in.Folder, in.Filename, in.ContentType, in.Body, in.Size)
	if err != nil {
		return "", upstream("object storage", err)
	}

	switch in.Folder {
	case FolderIDImages:
		user, err := s.Users.FindByID(userID)
		if err != nil {
			return "", dbErr(err, "user")
		}
		if err := s.Users.Update(userID, map[string]any{"id_image": url}); err != nil {
			return "", err
		}
		if user.IDImage != "" && user.IDImage != url {
			if err := s.Storage.Remove(ctx, user.IDImage); err != nil {
				logger.WarnContext(ctx, "remove previous id image failed", "user_id", userID, "err", err)
			}
		}
	case FolderProfiles:
		if err := s.Users.Update(userID, map[string]any{"profile_picture": url}); err != nil {
			return "", err
		}
	}
	return url, nil
}
