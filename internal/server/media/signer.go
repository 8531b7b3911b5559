// Package media issues short-lived credentials that let a browser upload
// portfolio assets straight to a media provider without the bytes passing
// through this server.
package media

import (
	"context"
	"time"
)

// SignRequest names the object the client wants to upload.
type SignRequest struct {
	PublicID string
	Folder   string
}

// UploadSignature is the bundle returned to the client. Provider-specific
// fields are omitted when empty.
type UploadSignature struct {
	Signature string     `json:"signature"`
	Timestamp int64      `json:"timestamp"`
	APIKey    string     `json:"apiKey,omitempty"`
	CloudName string     `json:"cloudName,omitempty"`
	Folder    string     `json:"folder"`
	PublicID  string     `json:"publicId"`
	UploadURL string     `json:"uploadUrl,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Signer produces an UploadSignature for one object.
type Signer interface {
	Sign(ctx context.Context, req SignRequest) (*UploadSignature, error)
}
