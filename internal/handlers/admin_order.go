package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"elbuensabor/internal/logging"
	"elbuensabor/internal/models"
	"elbuensabor/internal/store"
)

// ListOrders serves the kitchen console list: branch and status filters,
// newest first, optional pagination.
func ListOrders(orders store.Orders) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/orders"
		defer handlePanic(c, route)

		branch := strings.TrimSpace(c.Query("branch"))
		if !models.ValidBranch(branch) {
			respondWithError(c, http.StatusBadRequest, route, "invalid branch")
			return
		}

		status := strings.TrimSpace(c.Query("status"))
		if status != "" && !models.ValidStatus(status) {
			respondWithError(c, http.StatusBadRequest, route, "invalid status")
			return
		}

		list, err := orders.ListSince(c.Request.Context(), branch, time.Time{})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if status != "" {
			filtered := list[:0]
			for _, o := range list {
				if o.Status == status {
					filtered = append(filtered, o)
				}
			}
			list = filtered
		}

		total := len(list)
		pageStr := c.Query("page")
		limitStr := c.Query("limit")
		if pageStr != "" && limitStr != "" {
			page, limit, err := parsePaginationParams(pageStr, limitStr)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid pagination params")
				return
			}
			from := (page - 1) * limit
			if from > int64(len(list)) {
				from = int64(len(list))
			}
			to := from + limit
			if to > int64(len(list)) {
				to = int64(len(list))
			}
			list = list[from:to]

			c.JSON(http.StatusOK, gin.H{
				"data": list,
				"pagination": gin.H{
					"page":  page,
					"limit": limit,
					"total": total,
				},
			})
			return
		}

		c.JSON(http.StatusOK, list)
	}
}

// StreamOrders pushes a full order snapshot to the console whenever the
// underlying list changes, as server-sent events.
func StreamOrders(orders store.Orders) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/orders/stream"
		defer handlePanic(c, route)

		branch := strings.TrimSpace(c.Query("branch"))
		if !models.ValidBranch(branch) {
			respondWithError(c, http.StatusBadRequest, route, "invalid branch")
			return
		}

		snapshots, err := orders.Watch(c.Request.Context(), branch)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "subscription unavailable")
			return
		}

		logging.From(c).Info("order stream opened", "branch", branch)

		c.Stream(func(w io.Writer) bool {
			snapshot, ok := <-snapshots
			if !ok {
				return false
			}
			c.SSEvent("orders", snapshot)
			return true
		})
	}
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus applies a kitchen status transition. Invalid moves
// (e.g. delivered back to pending) are rejected before touching the store.
func UpdateOrderStatus(orders store.Orders) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/api/orders/:id/status"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if !models.ValidStatus(req.Status) {
			respondWithError(c, http.StatusBadRequest, route, "invalid status")
			return
		}

		current, err := orders.GetByID(c.Request.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if !models.CanTransition(current.Status, req.Status) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "invalid status transition",
				"from":  current.Status,
				"to":    req.Status,
			})
			return
		}

		updated, err := orders.UpdateStatus(c.Request.Context(), id, req.Status)
		if errors.Is(err, store.ErrNotFound) {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		logging.From(c).Info("order status updated",
			"orderId", id.Hex(), "from", current.Status, "to", updated.Status)
		c.JSON(http.StatusOK, updated)
	}
}

func DeleteOrder(orders store.Orders) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/orders/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		err = orders.Delete(c.Request.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
	}
}
