package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hostel-management/hostel-service/internal/core/domain"
	"github.com/hostel-management/hostel-service/internal/core/ports"
)

// AvatarURLPrefix is where uploaded avatars are served from.
const AvatarURLPrefix = "/api/avatars/"

// MaxAvatarBytes bounds an uploaded image.
const MaxAvatarBytes = 2 << 20

type AvatarService struct {
	users  ports.UserStore
	blobs  ports.BlobStore
	logger *zap.Logger
}

var _ ports.AvatarService = (*AvatarService)(nil)

func NewAvatarService(users ports.UserStore, blobs ports.BlobStore, logger *zap.Logger) *AvatarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvatarService{users: users, blobs: blobs, logger: logger}
}

// Upload stores the image under a fresh key and points the user's avatar
// at it. The previous uploaded image, if any, is removed.
func (s *AvatarService) Upload(ctx context.Context, userID, contentType string, r io.Reader) (domain.User, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return domain.User{}, domain.Invalid("avatar must be an image, got %q", contentType)
	}
	current, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxAvatarBytes+1))
	if err != nil {
		return domain.User{}, fmt.Errorf("read avatar: %w", err)
	}
	if len(data) == 0 {
		return domain.User{}, domain.Invalid("avatar is empty")
	}
	if len(data) > MaxAvatarBytes {
		return domain.User{}, domain.Invalid("avatar exceeds %d bytes", MaxAvatarBytes)
	}

	key := "avatars/" + userID + "/" + uuid.NewString()
	if _, err := s.blobs.Put(ctx, key, contentType, bytes.NewReader(data)); err != nil {
		return domain.User{}, fmt.Errorf("store avatar: %w", err)
	}

	user, err := s.users.UpdateAvatar(ctx, userID, AvatarURLPrefix+key)
	if err != nil {
		_ = s.blobs.Delete(ctx, key)
		return domain.User{}, err
	}

	if old, ok := strings.CutPrefix(current.Avatar, AvatarURLPrefix); ok {
		if err := s.blobs.Delete(ctx, old); err != nil {
			s.logger.Warn("failed to delete previous avatar", zap.String("key", old), zap.Error(err))
		}
	}
	return user, nil
}

func (s *AvatarService) Open(ctx context.Context, key string) (ports.BlobInfo, io.ReadCloser, error) {
	if !strings.HasPrefix(key, "avatars/") || strings.Contains(key, "..") {
		return ports.BlobInfo{}, nil, domain.NotFound("avatar", key)
	}
	info, rc, err := s.blobs.Get(ctx, key)
	if errors.Is(err, ports.ErrBlobNotFound) {
		return ports.BlobInfo{}, nil, domain.NotFound("avatar", key)
	}
	if err != nil {
		return ports.BlobInfo{}, nil, err
	}
	return info, rc, nil
}
