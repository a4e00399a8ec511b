package service

import (
	"context"
	"errors"
	"time"

	"github.com/aDp08/web-gallery-backend/internal/events"
	models "github.com/aDp08/web-gallery-backend/internal/media"
	"github.com/aDp08/web-gallery-backend/internal/repository"
	"github.com/aDp08/web-gallery-backend/internal/storage"
	utils "github.com/aDp08/web-gallery-backend/internal/utis"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	OpHostUpload  = "media host upload"
	OpHostDestroy = "media host destroy"
	OpStoreInsert = "record store insert"
	OpStoreList   = "record store list"
	OpStoreGet    = "record store get"
	OpStoreUpdate = "record store update"
	OpStoreDelete = "record store delete"

	publishTimeout = 5 * time.Second
)

// Store is the record store the service persists image metadata in.
type Store interface {
	Insert(ctx context.Context, img *models.Image) error
	List(ctx context.Context) ([]*models.Image, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Image, error)
	Update(ctx context.Context, id primitive.ObjectID, u models.ImageUpdate) (*models.Image, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ImageService pairs every media host write with the matching record store
// write. The two are not transactional; where a later step fails after the
// host accepted a new binary, that binary is destroyed again on a best-effort
// basis.
type ImageService struct {
	store      Store
	host       storage.Host
	events     events.Publisher
	log        *zap.SugaredLogger
	maxPayload int
}

func NewImageService(store Store, host storage.Host, pub events.Publisher, log *zap.SugaredLogger, maxPayload int) *ImageService {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ImageService{store: store, host: host, events: pub, log: log, maxPayload: maxPayload}
}

// Upload hosts data under the uploads folder and records it with title.
func (s *ImageService) Upload(ctx context.Context, title *string, data string) (*models.Image, error) {
	if err := utils.ValidateImagePayload(data, s.maxPayload); err != nil {
		return nil, err
	}

	asset, err := s.host.Upload(ctx, data)
	if err != nil {
		return nil, utils.Upstream(OpHostUpload, err)
	}

	img := &models.Image{Title: title, ImageURL: asset.URL, MediaID: asset.MediaID}
	if err := s.store.Insert(ctx, img); err != nil {
		s.discard(ctx, asset.MediaID)
		return nil, utils.Upstream(OpStoreInsert, err)
	}

	s.publish(ctx, models.EventImageUploaded, img)
	return img, nil
}

// ListAll returns every record. An empty collection is reported as
// utils.ErrNoImages rather than an empty slice.
func (s *ImageService) ListAll(ctx context.Context) ([]*models.Image, error) {
	imgs, err := s.store.List(ctx)
	if err != nil {
		return nil, utils.Upstream(OpStoreList, err)
	}
	if len(imgs) == 0 {
		return nil, utils.ErrNoImages
	}
	return imgs, nil
}

// Delete destroys the hosted binary first, then the record. If the record
// delete fails the record is left pointing at a binary that no longer exists.
func (s *ImageService) Delete(ctx context.Context, id string) error {
	oid, err := utils.ParseImageID(id)
	if err != nil {
		return err
	}
	img, err := s.find(ctx, oid)
	if err != nil {
		return err
	}

	if img.MediaID != "" {
		if err := s.host.Destroy(ctx, img.MediaID); err != nil {
			return utils.Upstream(OpHostDestroy, err)
		}
	}
	if err := s.store.Delete(ctx, oid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.ErrImageNotFound
		}
		return utils.Upstream(OpStoreDelete, err)
	}

	s.publish(ctx, models.EventImageDeleted, img)
	return nil
}

// Update always replaces the title, so an omitted title clears it. A
// non-empty data replaces the hosted binary: the old one is destroyed before
// the new one is uploaded. Should the record write then fail, the new binary
// is discarded and the record keeps the already destroyed media id.
func (s *ImageService) Update(ctx context.Context, id string, title *string, data string) (*models.Image, error) {
	oid, err := utils.ParseImageID(id)
	if err != nil {
		return nil, err
	}
	if data != "" {
		if err := utils.ValidateImagePayload(data, s.maxPayload); err != nil {
			return nil, err
		}
	}
	existing, err := s.find(ctx, oid)
	if err != nil {
		return nil, err
	}

	u := models.ImageUpdate{Title: title}
	if data != "" {
		if existing.MediaID != "" {
			if err := s.host.Destroy(ctx, existing.MediaID); err != nil {
				return nil, utils.Upstream(OpHostDestroy, err)
			}
		}
		asset, err := s.host.Upload(ctx, data)
		if err != nil {
			return nil, utils.Upstream(OpHostUpload, err)
		}
		u.Asset = asset
	}

	img, err := s.store.Update(ctx, oid, u)
	if err != nil {
		if u.Asset != nil {
			s.discard(ctx, u.Asset.MediaID)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.ErrImageNotFound
		}
		return nil, utils.Upstream(OpStoreUpdate, err)
	}

	s.publish(ctx, models.EventImageUpdated, img)
	return img, nil
}

func (s *ImageService) find(ctx context.Context, oid primitive.ObjectID) (*models.Image, error) {
	img, err := s.store.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.ErrImageNotFound
		}
		return nil, utils.Upstream(OpStoreGet, err)
	}
	return img, nil
}

// discard removes a binary no record refers to.
func (s *ImageService) discard(ctx context.Context, mediaID string) {
	if err := s.host.Destroy(context.WithoutCancel(ctx), mediaID); err != nil {
		s.log.Errorw("orphaned media left on host", "public_id", mediaID, "error", err)
		return
	}
	s.log.Warnw("discarded media after failed record write", "public_id", mediaID)
}

func (s *ImageService) publish(ctx context.Context, typ string, img *models.Image) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.events.Publish(ctx, models.NewImageEvent(typ, img)); err != nil {
		s.log.Warnw("publish image event", "type", typ, "id", img.ID.Hex(), "error", err)
	}
}
