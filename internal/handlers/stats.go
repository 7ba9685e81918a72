package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"elbuensabor/internal/analytics"
	"elbuensabor/internal/models"
	"elbuensabor/internal/store"
)

func statsBranch(c *gin.Context) (string, bool) {
	branch := strings.TrimSpace(c.Query("branch"))
	if !models.ValidBranch(branch) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid branch"})
		return "", false
	}
	return branch, true
}

// DailyStats recomputes today's figures from a fresh snapshot on every call.
func DailyStats(orders store.Orders, loc *time.Location) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/stats/daily"
		defer handlePanic(c, route)

		branch, ok := statsBranch(c)
		if !ok {
			return
		}

		topN := 3
		if raw := c.Query("top"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				respondWithError(c, http.StatusBadRequest, route, "invalid top param")
				return
			}
			topN = parsed
		}

		now := time.Now().In(loc)
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

		snapshot, err := orders.ListSince(c.Request.Context(), branch, dayStart)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, analytics.Daily(snapshot, now, branch, topN))
	}
}

func WeeklyStats(orders store.Orders, loc *time.Location) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/stats/weekly"
		defer handlePanic(c, route)

		branch, ok := statsBranch(c)
		if !ok {
			return
		}

		now := time.Now().In(loc)
		// Two windows: the current 7 days and the 7 before them.
		snapshot, err := orders.ListSince(c.Request.Context(), branch, now.AddDate(0, 0, -14))
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, analytics.Weekly(snapshot, now, branch))
	}
}

func MonthlyStats(orders store.Orders, loc *time.Location, goalTarget int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/stats/monthly"
		defer handlePanic(c, route)

		branch, ok := statsBranch(c)
		if !ok {
			return
		}

		now := time.Now().In(loc)
		prevMonthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, -1, 0)

		snapshot, err := orders.ListSince(c.Request.Context(), branch, prevMonthStart)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, analytics.Monthly(snapshot, now, branch, goalTarget))
	}
}
