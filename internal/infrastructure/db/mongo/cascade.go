package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// deletePostsWhere removes the posts matching filter together with their
// comments. Call it inside a transaction.
func deletePostsWhere(ctx context.Context, db *mongo.Database, filter bson.M) error {
	posts := db.Collection(collectionPosts)

	cur, err := posts.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return fmt.Errorf("find posts: %w", err)
	}
	var ids []struct {
		ID int64 `bson:"_id"`
	}
	if err := cur.All(ctx, &ids); err != nil {
		return fmt.Errorf("decode post ids: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	postIDs := make([]int64, len(ids))
	for i, doc := range ids {
		postIDs[i] = doc.ID
	}
	if _, err := db.Collection(collectionComments).DeleteMany(ctx, bson.M{"post_id": bson.M{"$in": postIDs}}); err != nil {
		return fmt.Errorf("delete comments: %w", err)
	}
	if _, err := posts.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": postIDs}}); err != nil {
		return fmt.Errorf("delete posts: %w", err)
	}
	return nil
}

// deleteBlogsWhere removes the blogs matching filter with their posts and
// comments. Call it inside a transaction.
func deleteBlogsWhere(ctx context.Context, db *mongo.Database, filter bson.M) error {
	blogs := db.Collection(collectionBlogs)

	cur, err := blogs.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return fmt.Errorf("find blogs: %w", err)
	}
	var ids []struct {
		ID int64 `bson:"_id"`
	}
	if err := cur.All(ctx, &ids); err != nil {
		return fmt.Errorf("decode blog ids: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	blogIDs := make([]int64, len(ids))
	for i, doc := range ids {
		blogIDs[i] = doc.ID
	}
	if err := deletePostsWhere(ctx, db, bson.M{"blog_id": bson.M{"$in": blogIDs}}); err != nil {
		return err
	}
	if _, err := blogs.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": blogIDs}}); err != nil {
		return fmt.Errorf("delete blogs: %w", err)
	}
	return nil
}

// attachToParent bumps a counter on the parent document inside the caller's
// transaction. A concurrent cascade delete of the same parent then fails with
// a write conflict instead of leaving the new child orphaned.
func attachToParent(ctx context.Context, col *mongo.Collection, id any, notFound error) error {
	res, err := col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"children": int64(1)}})
	if err != nil {
		return fmt.Errorf("attach to %s: %w", col.Name(), err)
	}
	if res.MatchedCount == 0 {
		return notFound
	}
	return nil
}
