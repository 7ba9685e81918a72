package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"elbuensabor/internal/logging"
)

func EnsureMenuIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log := logging.New("database")
	indexes := db.Collection("menu").Indexes()

	nameIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetName("name_index"),
	}

	_, err := indexes.CreateOne(ctx, nameIndex)
	if err != nil {
		log.Error("menu name index", "error", err)
		return err
	}
	log.Info("menu name_index created")
	return nil
}

func EnsureCustomerIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log := logging.New("database")
	indexes := db.Collection("customers").Indexes()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	_, err := indexes.CreateOne(ctx, emailIndex)
	if err != nil {
		log.Error("customer email index", "error", err)
		return err
	}
	log.Info("customer email_unique created")
	return nil
}

// EnsureOrderIndexes creates the listing index (branch + createdAt desc)
// and a unique partial index on the payment reference card orders carry.
func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log := logging.New("database")
	indexes := db.Collection("orders").Indexes()

	listIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "branch", Value: 1},
			{Key: "createdAt", Value: -1},
		},
		Options: options.Index().SetName("branch_createdAt_index"),
	}

	referenceIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "wompiReference", Value: 1}},
		Options: options.Index().
			SetName("wompiReference_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"wompiReference": bson.M{"$exists": true},
			}),
	}

	_, err := indexes.CreateMany(ctx, []mongo.IndexModel{listIndex, referenceIndex})
	if err != nil {
		log.Error("order indexes", "error", err)
		return err
	}
	log.Info("order indexes created")
	return nil
}
