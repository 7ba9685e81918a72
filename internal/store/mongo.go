package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"elbuensabor/internal/logging"
	"elbuensabor/internal/models"
)

// MongoOrders is the production order store backed by the orders collection.
type MongoOrders struct {
	db *mongo.Database
}

func NewMongoOrders(db *mongo.Database) *MongoOrders {
	return &MongoOrders{db: db}
}

func (s *MongoOrders) collection() *mongo.Collection {
	return s.db.Collection("orders")
}

func (s *MongoOrders) Insert(ctx context.Context, order *models.Order) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := s.collection().InsertOne(ctx, order)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = id
	}
	return nil
}

func (s *MongoOrders) GetByID(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var order models.Order
	err := s.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (s *MongoOrders) ListSince(ctx context.Context, branch string, since time.Time) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if branch != "" {
		filter["branch"] = branch
	}
	if !since.IsZero() {
		filter["createdAt"] = bson.M{"$gte": since}
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := s.collection().Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *MongoOrders) UpdateStatus(ctx context.Context, id primitive.ObjectID, newStatus string) (models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":    newStatus,
		"updatedAt": time.Now(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.Order
	err := s.collection().FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (s *MongoOrders) ApplyPaymentUpdate(ctx context.Context, reference string, upd PaymentUpdate) (models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":             upd.Status,
		"paymentStatus":      upd.PaymentStatus,
		"transactionId":      upd.TransactionID,
		"updatedAt":          upd.ProcessedAt,
		"webhookProcessedAt": upd.ProcessedAt,
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.Order
	err := s.collection().FindOneAndUpdate(ctx, bson.M{"wompiReference": reference}, update, opts).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (s *MongoOrders) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := s.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Watch opens a change stream on the orders collection and re-queries the
// filtered list on every event, pushing full snapshots. The consumer is
// expected to be cheap enough to re-render from each snapshot.
func (s *MongoOrders) Watch(ctx context.Context, branch string) (<-chan []models.Order, error) {
	stream, err := s.collection().Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return nil, err
	}

	out := make(chan []models.Order, 1)
	log := logging.New("store")

	snapshot := func() {
		orders, err := s.ListSince(ctx, branch, time.Time{})
		if err != nil {
			log.Error("watch snapshot", "error", err)
			return
		}
		select {
		case out <- orders:
		case <-ctx.Done():
		}
	}

	go func() {
		defer close(out)
		defer stream.Close(context.Background())

		snapshot()
		for stream.Next(ctx) {
			snapshot()
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			log.Error("change stream closed", "error", err)
		}
	}()

	return out, nil
}
