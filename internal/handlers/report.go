package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"elbuensabor/internal/report"
	"elbuensabor/internal/store"
)

// DailyReport exports today's orders for one branch. mode=download streams
// the CSV back as an attachment; mode=save (the default) hands the report to
// the configured deliverer and reports the outcome.
func DailyReport(orders store.Orders, deliverer report.Deliverer, loc *time.Location) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/reports/daily"
		defer handlePanic(c, route)

		branch, ok := statsBranch(c)
		if !ok {
			return
		}

		now := time.Now().In(loc)
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

		snapshot, err := orders.ListSince(c.Request.Context(), branch, dayStart)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		note := c.Query("note")

		if c.DefaultQuery("mode", "save") == "download" {
			payload, filename := report.BuildDaily(snapshot, now, branch, note)
			c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
			c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(payload.CSV))
			return
		}

		result := report.Export(deliverer, snapshot, now, branch, note)
		status := http.StatusOK
		if !result.Success {
			status = http.StatusBadGateway
		}
		c.JSON(status, result)
	}
}
