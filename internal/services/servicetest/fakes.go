// Package servicetest provides in-memory stand-ins for the record store and
// media host used by ImageService tests.
package servicetest

import (
	"context"
	"fmt"
	"sync"

	models "github.com/aDp08/web-gallery-backend/internal/media"
	"github.com/aDp08/web-gallery-backend/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store keeps records in insertion order.
type Store struct {
	mu    sync.Mutex
	order []primitive.ObjectID
	byID  map[primitive.ObjectID]models.Image
	Calls int

	InsertErr, ListErr, GetErr, UpdateErr, DeleteErr error
}

func NewStore() *Store {
	return &Store{byID: map[primitive.ObjectID]models.Image{}}
}

// Seed inserts a record directly, bypassing error injection.
func (s *Store) Seed(title, url, mediaID string) *models.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	img := models.Image{ID: primitive.NewObjectID(), Title: &title, ImageURL: url, MediaID: mediaID}
	s.byID[img.ID] = img
	s.order = append(s.order, img.ID)
	return &img
}

func (s *Store) Get(id primitive.ObjectID) (models.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.byID[id]
	return img, ok
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

func (s *Store) Insert(_ context.Context, img *models.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if s.InsertErr != nil {
		return s.InsertErr
	}
	img.ID = primitive.NewObjectID()
	s.byID[img.ID] = *img
	s.order = append(s.order, img.ID)
	return nil
}

func (s *Store) List(context.Context) ([]*models.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	out := []*models.Image{}
	for _, id := range s.order {
		if img, ok := s.byID[id]; ok {
			img := img
			out = append(out, &img)
		}
	}
	return out, nil
}

func (s *Store) GetByID(_ context.Context, id primitive.ObjectID) (*models.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	img, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &img, nil
}

func (s *Store) Update(_ context.Context, id primitive.ObjectID, u models.ImageUpdate) (*models.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if s.UpdateErr != nil {
		return nil, s.UpdateErr
	}
	img, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	img.Title = u.Title
	if u.Asset != nil {
		img.ImageURL = u.Asset.URL
		img.MediaID = u.Asset.MediaID
	}
	s.byID[id] = img
	return &img, nil
}

func (s *Store) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	if _, ok := s.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

// Host hands out sequential media ids under https://media.example.com.
type Host struct {
	mu        sync.Mutex
	next      int
	Live      map[string]string // media id -> uploaded data
	Uploads   []string
	Destroyed []string

	UploadErr, DestroyErr error
}

func NewHost() *Host {
	return &Host{Live: map[string]string{}}
}

// Put registers an existing binary so it can be destroyed later.
func (h *Host) Put(mediaID, data string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Live[mediaID] = data
}

func (h *Host) Calls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.Uploads) + len(h.Destroyed)
}

func (h *Host) Upload(_ context.Context, data string) (*models.Asset, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Uploads = append(h.Uploads, data)
	if h.UploadErr != nil {
		return nil, h.UploadErr
	}
	h.next++
	id := fmt.Sprintf("uploads/img%d", h.next)
	h.Live[id] = data
	return &models.Asset{URL: "https://media.example.com/" + id + ".jpg", MediaID: id}, nil
}

func (h *Host) Destroy(_ context.Context, mediaID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Destroyed = append(h.Destroyed, mediaID)
	if h.DestroyErr != nil {
		return h.DestroyErr
	}
	delete(h.Live, mediaID)
	return nil
}
