package media

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"time"

	"github.com/HazimBhatt/sharefolio/internal/common"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// presignTTL bounds how long an upload URL stays usable.
const presignTTL = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// S3Config points at an S3-compatible bucket (AWS or MinIO).
type S3Config struct {
	AccessKey    string
	SecretKey    string
	Bucket       string
	Region       string
	BaseEndpoint string
}

// S3Presigner hands out presigned PUT URLs for <folder>/<public_id>.
type S3Presigner struct {
	cfg S3Config
	now func() time.Time
}

func NewS3Presigner(cfg S3Config) *S3Presigner {
	return &S3Presigner{cfg: cfg, now: time.Now}
}

func (p *S3Presigner) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(p.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			p.cfg.AccessKey,
			p.cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if p.cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(p.cfg.BaseEndpoint)
			// MinIO serves buckets by path, not by virtual host.
			o.UsePathStyle = true
		}
	})

	return newS3PresignClient(client), nil
}

func (p *S3Presigner) Sign(ctx context.Context, req SignRequest) (*UploadSignature, error) {
	if p.cfg.Bucket == "" || p.cfg.AccessKey == "" || p.cfg.SecretKey == "" {
		return nil, common.ErrMediaNotConfigured
	}

	pc, err := p.presignClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}

	issued := p.now()
	bucket := p.cfg.Bucket
	key := path.Join(req.Folder, req.PublicID)

	presigned, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return nil, fmt.Errorf("s3 presign: %w", err)
	}

	expires := issued.Add(presignTTL).UTC()

	return &UploadSignature{
		Signature: amzSignature(presigned.URL),
		Timestamp: issued.Unix(),
		Folder:    req.Folder,
		PublicID:  req.PublicID,
		UploadURL: presigned.URL,
		ExpiresAt: &expires,
	}, nil
}

func amzSignature(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Query().Get("X-Amz-Signature")
}
