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

func decodeMenuItems(ctx context.Context, cursor *mongo.Cursor) ([]models.MenuItem, error) {
	items := []models.MenuItem{}
	for cursor.Next(ctx) {
		var item models.MenuItem
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		item.IsOnPromo = isItemOnPromo(item.Price, item.PromoEnabled, item.PromoPrice)
		items = append(items, item)
	}
	return items, cursor.Err()
}

// GetMenu serves the customer-facing menu. Pagination is optional; without
// page+limit the whole menu comes back.
func GetMenu(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /menu"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		filter := bson.M{
			"available": bson.M{"$ne": false},
			"isDeleted": bson.M{"$ne": true},
		}

		if category := strings.TrimSpace(c.Query("category")); category != "" {
			filter["category"] = bson.M{"$in": []string{category}}
		}
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			filter["name"] = bson.M{"$regex": search, "$options": "i"}
		}

		findOptions := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		pageStr := c.Query("page")
		limitStr := c.Query("limit")
		if pageStr != "" && limitStr != "" {
			page, limit, err := parsePaginationParams(pageStr, limitStr)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid pagination params")
				return
			}
			findOptions.
				SetSkip((page - 1) * limit).
				SetLimit(limit)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("menu").Find(ctx, filter, findOptions)
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

		logging.From(c).Info("menu served", "count", len(items))
		c.JSON(http.StatusOK, items)
	}
}

func GetCategories(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /categories"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("categories").Find(ctx, bson.M{"isActive": true})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		var categories []models.Category
		if err := cursor.All(ctx, &categories); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, categories)
	}
}

// MenuPrices resolves checkout items against the menu collection.
type MenuPrices struct {
	db *mongo.Database
}

func NewMenuPrices(db *mongo.Database) *MenuPrices {
	return &MenuPrices{db: db}
}

func (p *MenuPrices) Resolve(ctx context.Context, id primitive.ObjectID) (string, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var item models.MenuItem
	err := p.db.Collection("menu").FindOne(ctx, bson.M{
		"_id":       id,
		"available": bson.M{"$ne": false},
		"isDeleted": bson.M{"$ne": true},
	}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return "", 0, errMenuItemNotFound{ID: id}
	}
	if err != nil {
		return "", 0, err
	}

	return item.Name, effectiveItemPrice(item.Price, item.PromoEnabled, item.PromoPrice), nil
}
