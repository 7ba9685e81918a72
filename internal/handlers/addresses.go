package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"elbuensabor/internal/models"
)

type addressRequest struct {
	Title     string `json:"title" binding:"required"`
	Detail    string `json:"detail" binding:"required"`
	Note      string `json:"note"`
	IsDefault bool   `json:"isDefault"`
}

func contextCustomerID(c *gin.Context) (primitive.ObjectID, bool) {
	id, ok := c.MustGet("customerId").(primitive.ObjectID)
	return id, ok
}

func GetAddresses(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /me/addresses"
		defer handlePanic(c, route)

		customerID, ok := contextCustomerID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var customer models.Customer
		err := db.Collection("customers").FindOne(ctx, bson.M{"_id": customerID}).Decode(&customer)
		if err != nil {
			respondWithError(c, http.StatusNotFound, route, "customer not found")
			return
		}

		if customer.Addresses == nil {
			customer.Addresses = []models.Address{}
		}
		c.JSON(http.StatusOK, customer.Addresses)
	}
}

func CreateAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /me/addresses"
		defer handlePanic(c, route)

		customerID, ok := contextCustomerID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		address := models.Address{
			ID:        uuid.NewString(),
			Title:     strings.TrimSpace(req.Title),
			Detail:    strings.TrimSpace(req.Detail),
			Note:      strings.TrimSpace(req.Note),
			IsDefault: req.IsDefault,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if req.IsDefault {
			if err := clearDefaultAddress(ctx, db, customerID); err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
		}

		res, err := db.Collection("customers").UpdateOne(ctx,
			bson.M{"_id": customerID},
			bson.M{
				"$push": bson.M{"addresses": address},
				"$set":  bson.M{"updatedAt": time.Now()},
			},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "customer not found")
			return
		}

		c.JSON(http.StatusCreated, address)
	}
}

func UpdateAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /me/addresses/:id"
		defer handlePanic(c, route)

		customerID, ok := contextCustomerID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}
		addressID := c.Param("id")

		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if req.IsDefault {
			if err := clearDefaultAddress(ctx, db, customerID); err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
		}

		res, err := db.Collection("customers").UpdateOne(ctx,
			bson.M{"_id": customerID, "addresses.id": addressID},
			bson.M{"$set": bson.M{
				"addresses.$.title":     strings.TrimSpace(req.Title),
				"addresses.$.detail":    strings.TrimSpace(req.Detail),
				"addresses.$.note":      strings.TrimSpace(req.Note),
				"addresses.$.isDefault": req.IsDefault,
				"updatedAt":             time.Now(),
			}},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "address not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "address updated"})
	}
}

func DeleteAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /me/addresses/:id"
		defer handlePanic(c, route)

		customerID, ok := contextCustomerID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}
		addressID := c.Param("id")

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("customers").UpdateOne(ctx,
			bson.M{"_id": customerID},
			bson.M{
				"$pull": bson.M{"addresses": bson.M{"id": addressID}},
				"$set":  bson.M{"updatedAt": time.Now()},
			},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.ModifiedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "address not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "address deleted"})
	}
}

func clearDefaultAddress(ctx context.Context, db *mongo.Database, customerID primitive.ObjectID) error {
	_, err := db.Collection("customers").UpdateOne(ctx,
		bson.M{"_id": customerID},
		bson.M{"$set": bson.M{"addresses.$[].isDefault": false}},
	)
	return err
}
