package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	models "github.com/aDp08/web-gallery-backend/internal/media"
	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const thumbSuffix = "_thumb.jpg"

type S3Options struct {
	Bucket        string
	Region        string
	Folder        string
	PublicBaseURL string // overrides the virtual-hosted AWS URL, e.g. a CDN or MinIO
	Thumbnails    bool
}

// S3Host stores images in a bucket. The object key doubles as the media id.
type S3Host struct {
	client   *s3.Client
	uploader *manager.Uploader
	opts     S3Options
}

// NewS3Client loads the default AWS credential chain. A non-empty endpoint
// switches to path-style addressing for S3-compatible stores.
func NewS3Client(ctx context.Context, region, endpoint string) (*s3.Client, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func NewS3Host(client *s3.Client, opts S3Options) *S3Host {
	if opts.Folder == "" {
		opts.Folder = DefaultFolder
	}
	return &S3Host{client: client, uploader: manager.NewUploader(client), opts: opts}
}

func (s *S3Host) Upload(ctx context.Context, data string) (*models.Asset, error) {
	p, err := DecodePayload(data)
	if err != nil {
		return nil, err
	}
	key := s.opts.Folder + "/" + uuid.NewString() + p.Extension()
	if err := s.put(ctx, key, p.ContentType, p.Data); err != nil {
		return nil, err
	}

	if s.opts.Thumbnails && strings.HasPrefix(p.ContentType, "image/") {
		if thumb, err := generateThumbnail(p.Data); err == nil {
			_ = s.put(ctx, key+thumbSuffix, "image/jpeg", thumb)
		}
	}
	return &models.Asset{URL: s.publicURL(key), MediaID: key}, nil
}

// Destroy removes the object and its thumbnail. S3 treats deleting a missing
// key as success.
func (s *S3Host) Destroy(ctx context.Context, mediaID string) error {
	keys := []string{mediaID}
	if s.opts.Thumbnails {
		keys = append(keys, mediaID+thumbSuffix)
	}
	for _, k := range keys {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.opts.Bucket),
			Key:    aws.String(k),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *S3Host) put(ctx context.Context, key, contentType string, data []byte) error {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.opts.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	return err
}

func (s *S3Host) publicURL(key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()
	if s.opts.PublicBaseURL != "" {
		return strings.TrimRight(s.opts.PublicBaseURL, "/") + "/" + escaped
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.opts.Bucket, s.opts.Region, escaped)
}

func generateThumbnail(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	thumb := imaging.Resize(img, 320, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
