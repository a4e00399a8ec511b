package storage

import (
	"context"
	"errors"
	"strings"

	models "github.com/aDp08/web-gallery-backend/internal/media"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// CloudinaryHost stores images in a Cloudinary account.
type CloudinaryHost struct {
	cld    *cloudinary.Cloudinary
	folder string
	log    *zap.SugaredLogger
}

func NewCloudinaryHost(cloudName, apiKey, apiSecret, folder string, log *zap.SugaredLogger) (*CloudinaryHost, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	if folder == "" {
		folder = DefaultFolder
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &CloudinaryHost{cld: cld, folder: folder, log: log}, nil
}

// Upload lets Cloudinary detect the resource type. Remote URLs and data URIs
// go through untouched; bare base64 is wrapped into a data URI first.
func (h *CloudinaryHost) Upload(ctx context.Context, data string) (*models.Asset, error) {
	file := data
	if !strings.HasPrefix(data, "data:") && !strings.HasPrefix(data, "http://") && !strings.HasPrefix(data, "https://") {
		p, err := DecodePayload(data)
		if err != nil {
			return nil, err
		}
		file = p.DataURI()
	}

	res, err := h.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       h.folder,
		ResourceType: "auto",
	})
	if err != nil {
		return nil, err
	}
	if res.Error.Message != "" {
		return nil, errors.New(res.Error.Message)
	}
	return &models.Asset{URL: res.SecureURL, MediaID: res.PublicID}, nil
}

// Destroy removes an image asset. An id Cloudinary does not know is not an
// error, but it is logged: assets that auto detection stored as video or raw
// live under another resource type and stay on the host.
func (h *CloudinaryHost) Destroy(ctx context.Context, mediaID string) error {
	res, err := h.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: mediaID})
	if err != nil {
		return err
	}
	if res.Error.Message != "" {
		return errors.New(res.Error.Message)
	}
	if res.Result == "not found" {
		h.log.Warnw("media not found on host", "public_id", mediaID)
	}
	return nil
}
