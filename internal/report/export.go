package report

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"elbuensabor/internal/models"
)

// Payload is what a Deliverer receives: the CSV document plus the short
// human-readable summary that accompanies it.
type Payload struct {
	CSV     string `json:"csv"`
	Summary string `json:"summary"`
}

// Result is the exporter's outcome. Delivery failures land here instead of
// propagating; the exporter never panics past its boundary.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

var csvHeader = []string{
	"ID", "Cliente", "Teléfono", "Dirección", "Items",
	"Total", "Método Pago", "Estado", "Sucursal", "Fecha",
}

func sameDay(t, anchor time.Time) bool {
	y1, m1, d1 := t.In(anchor.Location()).Date()
	y2, m2, d2 := anchor.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func formatItems(items []models.OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%s x%d", item.Name, item.Quantity))
	}
	return strings.Join(parts, "; ")
}

// BuildDaily renders today's orders (same calendar day as now, in now's
// location) into a CSV plus summary. Branch filtering is the caller's job;
// branchLabel is display-only. The summary's revenue figure is gross over
// every order of the day, while the daily stats revenue is delivered-only;
// the two figures intentionally differ (bookings vs. realized).
func BuildDaily(orders []models.Order, now time.Time, branchLabel, note string) (Payload, string) {
	var todays []models.Order
	for _, o := range orders {
		if o.CreatedAt.IsZero() || !sameDay(o.CreatedAt, now) {
			continue
		}
		todays = append(todays, o)
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	_ = w.Write(csvHeader)

	var gross int64
	delivered := 0
	for _, o := range todays {
		gross += o.TotalAmount
		if o.Status == models.StatusDelivered {
			delivered++
		}
		_ = w.Write([]string{
			o.ID.Hex(),
			o.CustomerName,
			o.Contact,
			o.Address,
			formatItems(o.Items),
			strconv.FormatInt(o.TotalAmount, 10),
			o.PaymentMethod,
			o.Status,
			o.Branch,
			o.CreatedAt.In(now.Location()).Format("02/01/2006 15:04"),
		})
	}
	w.Flush()

	label := branchLabel
	if label == "" {
		label = "Todas"
	}

	var summary strings.Builder
	fmt.Fprintf(&summary, "Reporte diario - %s\n", now.Format("02/01/2006"))
	fmt.Fprintf(&summary, "Sucursal: %s\n", label)
	if strings.TrimSpace(note) != "" {
		fmt.Fprintf(&summary, "Nota: %s\n", strings.TrimSpace(note))
	}
	fmt.Fprintf(&summary, "Ventas del día: $%d\n", gross)
	fmt.Fprintf(&summary, "Pedidos entregados: %d\n", delivered)
	fmt.Fprintf(&summary, "Pedidos totales: %d\n", len(todays))

	filename := fmt.Sprintf("reporte-%s-%s.csv",
		strings.ToLower(label), now.Format("2006-01-02"))

	return Payload{CSV: sb.String(), Summary: summary.String()}, filename
}

// Export builds the daily report and hands it to the deliverer. Any failure,
// including a panicking deliverer, comes back as {Success: false}.
func Export(d Deliverer, orders []models.Order, now time.Time, branchLabel, note string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Result{Error: fmt.Sprint(r)}
		}
	}()

	payload, filename := BuildDaily(orders, now, branchLabel, note)
	if err := d.Deliver(payload, filename); err != nil {
		return Result{Error: err.Error()}
	}
	return Result{Success: true}
}
