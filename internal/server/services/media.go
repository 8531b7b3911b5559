package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/HazimBhatt/sharefolio/internal/common"
	"github.com/HazimBhatt/sharefolio/internal/logging"
	"github.com/HazimBhatt/sharefolio/internal/server/auth"
	"github.com/HazimBhatt/sharefolio/internal/server/media"
)

// MediaService signs direct-to-provider uploads for signed-in users.
type MediaService struct {
	signer        media.Signer
	defaultFolder string
	logger        logging.Logger
}

func NewMediaService(signer media.Signer, defaultFolder string, logger logging.Logger) *MediaService {
	return &MediaService{
		signer:        signer,
		defaultFolder: defaultFolder,
		logger:        logger.With("module", "media_service"),
	}
}

// SignUpload returns upload credentials for publicID inside folder, or inside
// the default folder when folder is empty.
func (s *MediaService) SignUpload(ctx context.Context, id auth.Identity, publicID, folder string) (*media.UploadSignature, error) {
	publicID = strings.TrimSpace(publicID)
	folder = strings.Trim(strings.TrimSpace(folder), "/")

	if publicID == "" {
		return nil, common.NewValidationError("public_id is required")
	}
	if folder == "" {
		folder = s.defaultFolder
	}
	if strings.Contains(publicID, "..") || strings.Contains(folder, "..") {
		return nil, common.NewValidationError("public_id and folder must not contain '..'")
	}

	sig, err := s.signer.Sign(ctx, media.SignRequest{PublicID: publicID, Folder: folder})
	if err != nil {
		if errors.Is(err, common.ErrMediaNotConfigured) {
			s.logger.Warn(ctx, "upload signing requested but media provider is not configured")
			return nil, err
		}
		s.logger.Error(ctx, "sign upload failed", "user_id", id.UserID, "error", err)
		return nil, fmt.Errorf("sign upload: %w", common.ErrorInternal)
	}

	return sig, nil
}
