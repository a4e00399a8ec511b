package repository

import (
	"context"
	"errors"

	models "github.com/aDp08/web-gallery-backend/internal/media"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("not found")

type ImageRepo struct {
	col *mongo.Collection
}

func NewImageRepo(col *mongo.Collection) *ImageRepo {
	return &ImageRepo{col: col}
}

// Insert stores img and sets img.ID to the identifier the driver assigned.
func (r *ImageRepo) Insert(ctx context.Context, img *models.Image) error {
	res, err := r.col.InsertOne(ctx, img)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		img.ID = oid
	}
	return nil
}

// List returns every record in the collection's natural order.
func (r *ImageRepo) List(ctx context.Context) ([]*models.Image, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []*models.Image{}
	for cur.Next(ctx) {
		var img models.Image
		if err := cur.Decode(&img); err != nil {
			return nil, err
		}
		out = append(out, &img)
	}
	return out, cur.Err()
}

func (r *ImageRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Image, error) {
	var img models.Image
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&img); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &img, nil
}

// Update writes the title (even when nil) and, if present, the new asset,
// returning the record as stored after the write.
func (r *ImageRepo) Update(ctx context.Context, id primitive.ObjectID, u models.ImageUpdate) (*models.Image, error) {
	set := bson.M{"title": u.Title}
	if u.Asset != nil {
		set["imageurl"] = u.Asset.URL
		set["public_id"] = u.Asset.MediaID
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var img models.Image
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&img)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &img, nil
}

func (r *ImageRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
