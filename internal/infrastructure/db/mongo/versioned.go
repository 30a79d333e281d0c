package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// versionedCollection implements the compare-and-swap primitives shared by
// blogs, posts and comments. Every document carries an integer _id and a
// version field.
type versionedCollection struct {
	col      *mongo.Collection
	notFound error
}

func (v versionedCollection) findOne(ctx context.Context, id int64, out any) error {
	err := v.col.FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return v.notFound
	}
	return err
}

func (v versionedCollection) currentVersion(ctx context.Context, id int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc struct {
		Version int64 `bson:"version"`
	}
	opts := options.FindOne().SetProjection(bson.M{"version": 1})
	err := v.col.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, v.notFound
	}
	if err != nil {
		return 0, fmt.Errorf("read version: %w", err)
	}
	return doc.Version, nil
}

// updateIfVersion applies set when the stored version equals expected and
// returns the advanced version.
func (v versionedCollection) updateIfVersion(ctx context.Context, id, expected int64, set bson.M) (int64, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"version": 1})

	var doc struct {
		Version int64 `bson:"version"`
	}
	err := v.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "version": expected},
		bson.M{"$set": set, "$inc": bson.M{"version": int64(1)}},
		opts,
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("conditional update: %w", err)
	}
	return doc.Version, true, nil
}

// deleteIfVersion removes the document when the stored version equals
// expected. ctx may be a session context.
func (v versionedCollection) deleteIfVersion(ctx context.Context, id, expected int64) (bool, error) {
	res, err := v.col.DeleteOne(ctx, bson.M{"_id": id, "version": expected})
	if err != nil {
		return false, fmt.Errorf("conditional delete: %w", err)
	}
	return res.DeletedCount == 1, nil
}
