package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hoanghieund/sale-project-sub002/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrItemNotFound = errors.New("item not found in cart")
)

// cartTTL removes carts untouched for this long.
const cartTTL = 90 * 24 * time.Hour

// MongoRepository stores one document per user in the "carts" collection.
type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		collection: db.Collection("carts"),
	}
}

func (m *MongoRepository) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart

	err := m.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return &cart, nil
}

func (m *MongoRepository) UpsertCart(ctx context.Context, cart *domain.Cart) error {
	now := time.Now().UTC()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now

	filter := bson.M{"user_id": cart.UserID}
	update := bson.M{"$set": bson.M{
		"user_id":    cart.UserID,
		"items":      cart.Items,
		"created_at": cart.CreatedAt,
		"updated_at": cart.UpdatedAt,
	}}

	_, err := m.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert cart: %w", err)
	}

	return nil
}

// AddItem inserts the item or, when the product is already in the cart,
// overwrites its quantity and shop. The cart document is created on first
// use. Both paths are single atomic updates, so concurrent first adds for a
// user cannot race on the unique user_id index.
func (m *MongoRepository) AddItem(ctx context.Context, userID string, item domain.CartItem) error {
	now := time.Now().UTC()
	item.AddedAt = now

	// A concurrent insert of the same cart shows up as a duplicate key;
	// by then the document exists and the next attempt updates it.
	const attempts = 3
	var err error
	for i := 0; i < attempts; i++ {
		err = m.addItemOnce(ctx, userID, item, now)
		if !mongo.IsDuplicateKeyError(err) {
			return err
		}
	}
	return fmt.Errorf("failed to add item: %w", err)
}

func (m *MongoRepository) addItemOnce(ctx context.Context, userID string, item domain.CartItem, now time.Time) error {
	res, err := m.collection.UpdateOne(ctx,
		bson.M{"user_id": userID, "items.product_id": item.ProductID},
		bson.M{"$set": bson.M{
			"items.$.quantity": item.Quantity,
			"items.$.shop_id":  item.ShopID,
			"items.$.added_at": now,
			"updated_at":       now,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update existing item: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	_, err = m.collection.UpdateOne(ctx,
		bson.M{"user_id": userID, "items.product_id": bson.M{"$ne": item.ProductID}},
		bson.M{
			"$push":        bson.M{"items": item},
			"$set":         bson.M{"updated_at": now},
			"$setOnInsert": bson.M{"created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return err
		}
		return fmt.Errorf("failed to add new item: %w", err)
	}
	return nil
}

func (m *MongoRepository) UpdateItemQuantity(ctx context.Context, userID string, productID int64, quantity int) error {
	filter := bson.M{
		"user_id":          userID,
		"items.product_id": productID,
	}
	update := bson.M{
		"$set": bson.M{
			"items.$[elem].quantity": quantity,
			"updated_at":             time.Now().UTC(),
		},
	}
	arrayFilters := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"elem.product_id": productID}},
	})

	result, err := m.collection.UpdateOne(ctx, filter, update, arrayFilters)
	if err != nil {
		return fmt.Errorf("failed to update item quantity: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (m *MongoRepository) RemoveItem(ctx context.Context, userID string, productID int64) error {
	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$pull": bson.M{"items": bson.M{"product_id": productID}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to remove item: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrCartNotFound
	}
	return nil
}

func (m *MongoRepository) DeleteCart(ctx context.Context, userID string) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrCartNotFound
	}
	return nil
}

func (m *MongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(cartTTL.Seconds())),
		},
	}

	if _, err := m.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
