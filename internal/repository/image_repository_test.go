package repository

import (
	"context"
	"testing"

	models "github.com/aDp08/web-gallery-backend/internal/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func ns(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func imageDoc(id primitive.ObjectID, title, url, mediaID string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "title", Value: title},
		{Key: "imageurl", Value: url},
		{Key: "public_id", Value: mediaID},
	}
}

func TestImageRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("insert assigns id", func(mt *mtest.T) {
		repo := NewImageRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		title := "cat"
		img := &models.Image{Title: &title, ImageURL: "https://res.example.com/cat.jpg", MediaID: "uploads/cat"}
		require.NoError(mt, repo.Insert(ctx, img))
		assert.False(mt, img.ID.IsZero())
	})

	mt.Run("insert write error", func(mt *mtest.T) {
		repo := NewImageRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "duplicate key error",
		}))

		err := repo.Insert(ctx, &models.Image{})
		assert.Error(mt, err)
	})

	mt.Run("list returns records", func(mt *mtest.T) {
		repo := NewImageRepo(mt.Coll)
		a, b := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch,
			imageDoc(a, "a", "https://h/a", "uploads/a"),
			imageDoc(b, "b", "https://h/b", "uploads/b"),
		))

		out, err := repo.List(ctx)
		require.NoError(mt, err)
		require.Len(mt, out, 2)
		assert.Equal(mt, a, out[0].ID)
		assert.Equal(mt, "uploads/b", out[1].MediaID)
		assert.Equal(mt, "b", *out[1].Title)
	})

	mt.Run("list empty", func(mt *mtest.T) {
		repo := NewImageRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))

		out, err := repo.List(ctx)
		require.NoError(mt, err)
		assert.Empty(mt, out)
	})

	mt.Run("get by id", func(mt *mtest.T) {
		repo := NewImageRepo(mt.Coll)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch,
			imageDoc(id, "dog", "https://h/dog", "uploads/dog"),
		))

		img, err := repo.GetByID(ctx, id)
		require.NoError(mt, err)
		assert.Equal(mt, "https://h/dog", img.ImageURL)
	})

	mt.Run("get by id missing", func(mt *mtest.T) {
		repo := NewImageRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))

		_, err := repo.GetByID(ctx, primitive.NewObjectID())
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("update returns new document", func(mt *mtest.T) {
		repo := NewImageRepo(mt.Coll)
		id := primitive.NewObjectID()
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: imageDoc(id, "new", "https://h/new", "uploads/new")},
		})

		title := "new"
		img, err := repo.Update(ctx, id, models.ImageUpdate{
			Title: &title,
			Asset: &models.Asset{URL: "https://h/new", MediaID: "uploads/new"},
		})
		require.NoError(mt, err)
		assert.Equal(mt, "uploads/new", img.MediaID)
	})

	mt.Run("update missing", func(mt *mtest.T) {
		repo := NewImageRepo(mt.Coll)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})

		_, err := repo.Update(ctx, primitive.NewObjectID(), models.ImageUpdate{})
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("delete", func(mt *mtest.T) {
		repo := NewImageRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		assert.NoError(mt, repo.Delete(ctx, primitive.NewObjectID()))
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		repo := NewImageRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		assert.ErrorIs(mt, repo.Delete(ctx, primitive.NewObjectID()), ErrNotFound)
	})
}
