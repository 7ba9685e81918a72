package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"elbuensabor/internal/logging"
	"elbuensabor/internal/models"
	"elbuensabor/internal/store"
)

/* =========================
   REQUEST DTOs
========================= */

type createOrderItemRequest struct {
	MenuItemID string `json:"menuItemId"`
	Name       string `json:"name"`
	Price      int64  `json:"price"`
	Quantity   int    `json:"quantity" binding:"required"`
}

type createOrderRequest struct {
	CustomerName  string                   `json:"customerName" binding:"required"`
	Contact       string                   `json:"contact" binding:"required"`
	Address       string                   `json:"address"`
	DeliveryType  string                   `json:"deliveryType" binding:"required"`
	Branch        string                   `json:"branch"`
	PaymentMethod string                   `json:"paymentMethod" binding:"required"`
	Items         []createOrderItemRequest `json:"items" binding:"required"`
}

// PriceResolver maps a menu item id to its current name and effective unit
// price. Items sent without an id keep the client-provided values.
type PriceResolver interface {
	Resolve(ctx context.Context, id primitive.ObjectID) (string, int64, error)
}

type errMenuItemNotFound struct {
	ID primitive.ObjectID
}

func (e errMenuItemNotFound) Error() string {
	return "menu item not found"
}

/* =========================
   CREATE ORDER
========================= */

func CreateOrder(orders store.Orders, prices PriceResolver, jwtSecret string, deliveryFee int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"
		defer handlePanic(c, route)

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		customerID, err := customerIDFromHeader(c.GetHeader("Authorization"), jwtSecret)
		if err != nil {
			logging.From(c).Warn("token validation failed", "route", route, "error", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		order, err := buildOrderFromRequest(req, deliveryFee, time.Now())
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}
		order.CustomerID = customerID

		// Re-resolve prices for items that reference the menu; the stored
		// total always comes from server-side prices.
		if prices != nil {
			var subtotal int64
			for i := range order.Items {
				if order.Items[i].MenuItemID.IsZero() {
					subtotal += order.Items[i].Price * int64(order.Items[i].Quantity)
					continue
				}
				name, price, err := prices.Resolve(c.Request.Context(), order.Items[i].MenuItemID)
				if err != nil {
					var notFound errMenuItemNotFound
					if errors.As(err, &notFound) {
						c.JSON(http.StatusBadRequest, gin.H{
							"error":      "menu item not found",
							"menuItemId": notFound.ID.Hex(),
						})
						return
					}
					respondWithError(c, http.StatusInternalServerError, route, "db error")
					return
				}
				order.Items[i].Name = name
				order.Items[i].Price = price
				subtotal += price * int64(order.Items[i].Quantity)
			}
			order.TotalAmount = subtotal
			if order.DeliveryType == models.DeliveryTypeDelivery {
				order.TotalAmount += deliveryFee
			}
		}

		if order.PaymentMethod == models.PaymentMethodCard {
			order.WompiReference = uuid.NewString()
			order.PaymentStatus = models.PaymentStatusPending
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := orders.Insert(ctx, &order); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log := logging.From(c)
		if customerID != nil {
			log.Info("order created", "orderId", order.ID.Hex(), "customerId", customerID.Hex())
		} else {
			log.Info("guest order created", "orderId", order.ID.Hex())
		}

		resp := gin.H{
			"orderId":     order.ID.Hex(),
			"totalAmount": order.TotalAmount,
			"message":     "order created",
		}
		if order.WompiReference != "" {
			resp["wompiReference"] = order.WompiReference
		}
		c.JSON(http.StatusCreated, resp)
	}
}

/* =========================
   GET ORDER (tracking)
========================= */

func GetOrder(orders store.Orders) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		order, err := orders.GetByID(c.Request.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

/* =========================
   BUILD ORDER
========================= */

func buildOrderFromRequest(req createOrderRequest, deliveryFee int64, now time.Time) (models.Order, error) {
	if len(req.Items) == 0 {
		return models.Order{}, errors.New("at least one item is required")
	}

	if req.DeliveryType != models.DeliveryTypeDelivery && req.DeliveryType != models.DeliveryTypePickup {
		return models.Order{}, errors.New("invalid delivery type")
	}

	if req.DeliveryType == models.DeliveryTypeDelivery && strings.TrimSpace(req.Address) == "" {
		return models.Order{}, errors.New("address is required for delivery")
	}

	if !models.ValidBranch(req.Branch) {
		return models.Order{}, errors.New("invalid branch")
	}

	if req.PaymentMethod != models.PaymentMethodCash && req.PaymentMethod != models.PaymentMethodCard {
		return models.Order{}, errors.New("invalid payment method")
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	var subtotal int64

	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return models.Order{}, errors.New("quantity must be greater than zero")
		}
		if item.Price < 0 {
			return models.Order{}, errors.New("price must not be negative")
		}

		var menuItemID primitive.ObjectID
		if strings.TrimSpace(item.MenuItemID) != "" {
			parsed, err := primitive.ObjectIDFromHex(item.MenuItemID)
			if err != nil {
				return models.Order{}, errors.New("invalid menuItemId")
			}
			menuItemID = parsed
		} else if strings.TrimSpace(item.Name) == "" {
			return models.Order{}, errors.New("item name is required")
		}

		items = append(items, models.OrderItem{
			MenuItemID: menuItemID,
			Name:       strings.TrimSpace(item.Name),
			Price:      item.Price,
			Quantity:   item.Quantity,
		})
		subtotal += item.Price * int64(item.Quantity)
	}

	total := subtotal
	if req.DeliveryType == models.DeliveryTypeDelivery {
		total += deliveryFee
	}

	order := models.Order{
		CustomerName:  strings.TrimSpace(req.CustomerName),
		Contact:       strings.TrimSpace(req.Contact),
		Address:       strings.TrimSpace(req.Address),
		DeliveryType:  req.DeliveryType,
		Branch:        req.Branch,
		Items:         items,
		TotalAmount:   total,
		PaymentMethod: req.PaymentMethod,
		Status:        models.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	return order, nil
}

func customerIDFromHeader(header, secret string) (*primitive.ObjectID, error) {
	raw := strings.TrimSpace(header)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, errors.New("invalid token format")
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	idValue, ok := claims["customerId"].(string)
	if !ok || strings.TrimSpace(idValue) == "" {
		return nil, errors.New("customerId claim missing")
	}

	customerID, err := primitive.ObjectIDFromHex(idValue)
	if err != nil {
		return nil, errors.New("invalid customerId")
	}

	return &customerID, nil
}
