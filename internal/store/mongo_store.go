package store

import (
	"context"
	"errors"
	"fmt"

	perrors "github.com/abgdnv/inventory/internal/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	productsCollection = "products"
	nameIndex          = "name_unique"
)

var _ ProductStore = (*MongoStore)(nil)

// productDocument is the BSON shape of a product in the products collection.
type productDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Inventory int64              `bson:"inventory"`
}

func (d productDocument) toProduct() *Product {
	return &Product{ID: d.ID.Hex(), Name: d.Name, Inventory: d.Inventory}
}

// MongoStore implements ProductStore on a MongoDB collection.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore creates a ProductStore backed by the products collection of db.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(productsCollection)}
}

// EnsureIndexes creates the unique index on name that makes Create an atomic insert-if-absent.
func (m *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := m.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(nameIndex),
	})
	if err != nil {
		return unavailable("create products name index", err)
	}
	return nil
}

// FindAll retrieves all products in natural order.
func (m *MongoStore) FindAll(ctx context.Context) ([]Product, error) {
	cursor, err := m.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, unavailable("find all products", err)
	}
	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, unavailable("decode products", err)
	}
	products := make([]Product, len(docs))
	for i, doc := range docs {
		products[i] = *doc.toProduct()
	}
	return products, nil
}

// FindByID retrieves a product by its hex ObjectID.
func (m *MongoStore) FindByID(ctx context.Context, id string) (*Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("malformed product ID %q: %w", id, perrors.ErrProductNotFound)
	}
	return m.findOne(ctx, bson.D{{Key: "_id", Value: oid}}, "find product by ID")
}

// FindByName retrieves a product by its exact name.
func (m *MongoStore) FindByName(ctx context.Context, name string) (*Product, error) {
	return m.findOne(ctx, bson.D{{Key: "name", Value: name}}, "find product by name")
}

func (m *MongoStore) findOne(ctx context.Context, filter bson.D, op string) (*Product, error) {
	var doc productDocument
	if err := m.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, unavailable(op, err)
	}
	return doc.toProduct(), nil
}

// Create inserts a new product. The unique name index rejects duplicates.
func (m *MongoStore) Create(ctx context.Context, name string, inventory int64) (*Product, error) {
	doc := productDocument{Name: name, Inventory: inventory}
	res, err := m.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, perrors.ErrProductExists
		}
		return nil, unavailable("create product", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("unexpected inserted ID type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.toProduct(), nil
}

// UpdateInventory sets the inventory field and returns the document after the update.
func (m *MongoStore) UpdateInventory(ctx context.Context, id string, inventory int64) (*Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("malformed product ID %q: %w", id, perrors.ErrProductNotFound)
	}
	var doc productDocument
	err = m.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "inventory", Value: inventory}}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, unavailable("update product inventory", err)
	}
	return doc.toProduct(), nil
}

// Ping checks the connection to the primary.
func (m *MongoStore) Ping(ctx context.Context) error {
	if err := m.coll.Database().Client().Ping(ctx, readpref.Primary()); err != nil {
		return unavailable("ping MongoDB", err)
	}
	return nil
}
