package media

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/HazimBhatt/sharefolio/internal/common"
)

// CloudinaryConfig holds the account credentials used for signed uploads.
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// CloudinarySigner signs upload parameters the way Cloudinary's signed-upload
// API expects them.
type CloudinarySigner struct {
	cfg CloudinaryConfig
	now func() time.Time
}

func NewCloudinarySigner(cfg CloudinaryConfig) *CloudinarySigner {
	return &CloudinarySigner{cfg: cfg, now: time.Now}
}

func (s *CloudinarySigner) configured() bool {
	return s.cfg.CloudName != "" && s.cfg.APIKey != "" && s.cfg.APISecret != ""
}

func (s *CloudinarySigner) Sign(ctx context.Context, req SignRequest) (*UploadSignature, error) {
	if !s.configured() {
		return nil, common.ErrMediaNotConfigured
	}

	ts := s.now().Unix()

	params := map[string]string{
		"public_id": req.PublicID,
		"timestamp": strconv.FormatInt(ts, 10),
	}
	if req.Folder != "" {
		params["folder"] = req.Folder
	}

	return &UploadSignature{
		Signature: cloudinarySignature(params, s.cfg.APISecret),
		Timestamp: ts,
		APIKey:    s.cfg.APIKey,
		CloudName: s.cfg.CloudName,
		Folder:    req.Folder,
		PublicID:  req.PublicID,
	}, nil
}

// cloudinarySignature is sha1("k1=v1&k2=v2" + secret) over the keys in
// ascending order, hex encoded.
func cloudinarySignature(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}
