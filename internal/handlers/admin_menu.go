package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"elbuensabor/internal/logging"
	"elbuensabor/internal/models"
)

type createMenuItemRequest struct {
	Name         string   `json:"name" binding:"required"`
	Price        int64    `json:"price" binding:"required"`
	PromoEnabled bool     `json:"promoEnabled"`
	PromoPrice   int64    `json:"promoPrice"`
	Category     []string `json:"category"`
	Description  string   `json:"description"`
	ImagePath    string   `json:"imagePath"`
	Available    *bool    `json:"available"`
}

type updateMenuItemRequest struct {
	Name         *string   `json:"name"`
	Price        *int64    `json:"price"`
	PromoEnabled *bool     `json:"promoEnabled"`
	PromoPrice   *int64    `json:"promoPrice"`
	Category     *[]string `json:"category"`
	Description  *string   `json:"description"`
	ImagePath    *string   `json:"imagePath"`
	Available    *bool     `json:"available"`
}

// GetAllMenuItems lists everything that is not soft-deleted, including
// items currently unavailable, for the admin console.
func GetAllMenuItems(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/menu"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		findOptions := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := db.Collection("menu").Find(ctx, bson.M{"isDeleted": bson.M{"$ne": true}}, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		items, err := decodeMenuItems(ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, items)
	}
}

func CreateMenuItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/menu"
		defer handlePanic(c, route)

		var req createMenuItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if req.Price <= 0 {
			respondWithError(c, http.StatusBadRequest, route, "price must be greater than 0")
			return
		}
		if err := validatePromoFields(req.Price, req.PromoEnabled, req.PromoPrice, req.PromoPrice > 0); err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		available := true
		if req.Available != nil {
			available = *req.Available
		}

		item := models.MenuItem{
			Name:         strings.TrimSpace(req.Name),
			Price:        req.Price,
			PromoEnabled: req.PromoEnabled,
			PromoPrice:   req.PromoPrice,
			Category:     models.StringList(req.Category),
			Description:  strings.TrimSpace(req.Description),
			ImagePath:    strings.TrimSpace(req.ImagePath),
			Available:    available,
			CreatedAt:    time.Now(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("menu").InsertOne(ctx, item)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			item.ID = id
		}

		logging.From(c).Info("menu item created", "id", item.ID.Hex(), "name", item.Name)
		c.JSON(http.StatusCreated, item)
	}
}

func UpdateMenuItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/menu/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req updateMenuItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var existing models.MenuItem
		err = db.Collection("menu").FindOne(ctx, bson.M{
			"_id":       id,
			"isDeleted": bson.M{"$ne": true},
		}).Decode(&existing)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "menu item not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		promo, err := resolvePromoUpdate(existing.Price, existing.PromoEnabled, existing.PromoPrice, promoUpdateInput{
			Price:        req.Price,
			PromoEnabled: req.PromoEnabled,
			PromoPrice:   req.PromoPrice,
		})
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		set := bson.M{}
		if req.Name != nil {
			set["name"] = strings.TrimSpace(*req.Name)
		}
		if req.Price != nil {
			set["price"] = promo.Price
		}
		if promo.SetPromoEnabled {
			set["promoEnabled"] = promo.PromoEnabled
		}
		if promo.SetPromoPrice {
			set["promoPrice"] = promo.PromoPrice
		}
		if req.Category != nil {
			set["category"] = models.StringList(*req.Category)
		}
		if req.Description != nil {
			set["description"] = strings.TrimSpace(*req.Description)
		}
		if req.ImagePath != nil {
			set["imagePath"] = strings.TrimSpace(*req.ImagePath)
		}
		if req.Available != nil {
			set["available"] = *req.Available
		}

		if len(set) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "no fields to update")
			return
		}

		res := db.Collection("menu").FindOneAndUpdate(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		)

		var updated models.MenuItem
		if err := res.Decode(&updated); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		updated.IsOnPromo = isItemOnPromo(updated.Price, updated.PromoEnabled, updated.PromoPrice)

		c.JSON(http.StatusOK, updated)
	}
}

// DeleteMenuItem soft-deletes so past orders keep resolving their items.
func DeleteMenuItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/menu/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		now := time.Now()
		res, err := db.Collection("menu").UpdateOne(
			ctx,
			bson.M{"_id": id, "isDeleted": bson.M{"$ne": true}},
			bson.M{"$set": bson.M{"isDeleted": true, "deletedAt": now, "available": false}},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "menu item not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "menu item deleted"})
	}
}
