package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/storefront/internal/domain/entity"
	"github.com/oksasatya/storefront/internal/domain/repository"
)

// CartRepository keeps cart lines embedded in the user document under cartItem.
type CartRepository struct {
	collection *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{collection: db.Collection(usersCollection)}
}

var cartProjection = options.FindOneAndUpdate().
	SetReturnDocument(options.After).
	SetProjection(bson.M{"cartItem": 1})

func (r *CartRepository) userExists(ctx context.Context, userID string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": userID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count user: %w", err)
	}
	return n > 0, nil
}

func (r *CartRepository) Lines(ctx context.Context, userID string) ([]entity.CartLine, error) {
	var doc userDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}, options.FindOne().SetProjection(bson.M{"cartItem": 1})).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}
	return toLines(doc.CartItem), nil
}

// Append pushes the line only when no line for the product exists, in one update.
func (r *CartRepository) Append(ctx context.Context, userID string, line entity.CartLine) error {
	filter := bson.M{
		"_id":                userID,
		"cartItem.productId": bson.M{"$ne": line.ProductID},
	}
	update := bson.M{
		"$push": bson.M{"cartItem": toLineDocument(line)},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("push cart line: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	ok, err := r.userExists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrNotFound
	}
	return repository.ErrAlreadyInCart
}

func (r *CartRepository) Remove(ctx context.Context, userID, productID string) ([]entity.CartLine, error) {
	update := bson.M{
		"$pull": bson.M{"cartItem": bson.M{"productId": productID}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	var doc userDocument
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": userID}, update, cartProjection).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("pull cart line: %w", err)
	}
	return toLines(doc.CartItem), nil
}

// SetQuantity uses the positional operator so only the matched line changes.
func (r *CartRepository) SetQuantity(ctx context.Context, userID, productID string, quantity int) ([]entity.CartLine, error) {
	filter := bson.M{"_id": userID, "cartItem.productId": productID}
	update := bson.M{"$set": bson.M{
		"cartItem.$.quantity": quantity,
		"updatedAt":           time.Now().UTC(),
	}}
	var doc userDocument
	err := r.collection.FindOneAndUpdate(ctx, filter, update, cartProjection).Decode(&doc)
	if err == nil {
		return toLines(doc.CartItem), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("set cart quantity: %w", err)
	}
	ok, err := r.userExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, repository.ErrNotFound
	}
	return nil, repository.ErrNotInCart
}

var _ repository.CartRepository = (*CartRepository)(nil)
