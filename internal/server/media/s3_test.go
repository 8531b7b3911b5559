package media

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/HazimBhatt/sharefolio/internal/common"
	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testS3Config() S3Config {
	return S3Config{
		AccessKey:    "admin",
		SecretKey:    "secretpassword",
		Bucket:       "sharefolio",
		Region:       "us-east-1",
		BaseEndpoint: "http://127.0.0.1:9000",
	}
}

func TestS3Presigner_Sign(t *testing.T) {
	p := NewS3Presigner(testS3Config())
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return issued }

	sig, err := p.Sign(context.Background(), SignRequest{PublicID: "avatar.png", Folder: "portfolios"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(sig.UploadURL, "http://127.0.0.1:9000/sharefolio/portfolios/avatar.png?"), sig.UploadURL)
	assert.Contains(t, sig.UploadURL, "X-Amz-Expires=900")
	assert.NotEmpty(t, sig.Signature)
	assert.Equal(t, issued.Unix(), sig.Timestamp)
	require.NotNil(t, sig.ExpiresAt)
	assert.Equal(t, issued.Add(15*time.Minute), *sig.ExpiresAt)
	assert.Equal(t, "portfolios", sig.Folder)
	assert.Equal(t, "avatar.png", sig.PublicID)
}

func TestS3Presigner_NotConfigured(t *testing.T) {
	cfg := testS3Config()
	cfg.Bucket = ""

	_, err := NewS3Presigner(cfg).Sign(context.Background(), SignRequest{PublicID: "x"})
	assert.ErrorIs(t, err, common.ErrMediaNotConfigured)
}

func TestS3Presigner_LoadConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	defer func() { loadDefaultAWSConfig = orig }()
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("boom")
	}

	_, err := NewS3Presigner(testS3Config()).Sign(context.Background(), SignRequest{PublicID: "x"})
	assert.ErrorContains(t, err, "boom")
}

func TestS3Presigner_PresignError(t *testing.T) {
	orig := presignPutObject
	defer func() { presignPutObject = orig }()
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		assert.Equal(t, "sharefolio", aws.ToString(in.Bucket))
		assert.Equal(t, "portfolios/x", aws.ToString(in.Key))
		return nil, errors.New("presign failed")
	}

	_, err := NewS3Presigner(testS3Config()).Sign(context.Background(), SignRequest{PublicID: "x", Folder: "portfolios"})
	assert.ErrorContains(t, err, "presign failed")
}
