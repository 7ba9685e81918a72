package store

import (
	"context"
	"time"

	"elbuensabor/internal/models"
)

// SeedDemoOrders loads a small, recognizable data set into a memory store so
// the console and the stats endpoints have something to show when the
// service runs without a database.
func SeedDemoOrders(s *MemoryOrders, now time.Time) {
	today := func(hour, min int) time.Time {
		return time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, now.Location())
	}

	demo := []models.Order{
		{
			CustomerName:  "Carlos Pérez",
			Contact:       "3001234567",
			Address:       "Calle 45 #12-30, Apto 201",
			DeliveryType:  models.DeliveryTypeDelivery,
			Branch:        models.BranchNorte,
			PaymentMethod: models.PaymentMethodCash,
			Status:        models.StatusDelivered,
			Items: []models.OrderItem{
				{Name: "Empanada de Pollo", Price: 2500, Quantity: 3},
				{Name: "Coca Cola", Price: 3500, Quantity: 1},
			},
			TotalAmount: 14000,
			CreatedAt:   today(12, 15),
		},
		{
			CustomerName:   "Luisa Gómez",
			Contact:        "3109876543",
			DeliveryType:   models.DeliveryTypePickup,
			Branch:         models.BranchNorte,
			PaymentMethod:  models.PaymentMethodCard,
			PaymentStatus:  models.PaymentStatusPending,
			Status:         models.StatusPending,
			WompiReference: "demo-ref-luisa",
			Items: []models.OrderItem{
				{Name: "Empanada de Carne", Price: 2500, Quantity: 6},
			},
			TotalAmount: 15000,
			CreatedAt:   today(12, 40),
		},
		{
			CustomerName:  "Andrés Rojas",
			Contact:       "3015550099",
			Address:       "Carrera 7 #89-21",
			DeliveryType:  models.DeliveryTypeDelivery,
			Branch:        models.BranchSur,
			PaymentMethod: models.PaymentMethodCash,
			Status:        models.StatusPreparing,
			Items: []models.OrderItem{
				{Name: "Empanada de Pollo", Price: 2500, Quantity: 2},
				{Name: "Jugo de Lulo", Price: 4000, Quantity: 2},
			},
			TotalAmount: 16000,
			CreatedAt:   today(13, 5),
		},
		{
			CustomerName:  "María Fernanda",
			Contact:       "3204443322",
			DeliveryType:  models.DeliveryTypePickup,
			Branch:        models.BranchSur,
			PaymentMethod: models.PaymentMethodCash,
			Status:        models.StatusDelivered,
			Items: []models.OrderItem{
				{Name: "Empanada de Queso", Price: 2200, Quantity: 4},
			},
			TotalAmount: 8800,
			CreatedAt:   now.AddDate(0, 0, -1),
		},
		{
			CustomerName:  "Jorge Valencia",
			Contact:       "3188887766",
			Address:       "Av. Caracas #33-10",
			DeliveryType:  models.DeliveryTypeDelivery,
			Branch:        models.BranchNorte,
			PaymentMethod: models.PaymentMethodCash,
			Status:        models.StatusDelivered,
			Items: []models.OrderItem{
				{Name: "Combo Familiar", Price: 28000, Quantity: 1},
			},
			TotalAmount: 31000,
			CreatedAt:   now.AddDate(0, 0, -9),
		},
	}

	ctx := context.Background()
	for i := range demo {
		_ = s.Insert(ctx, &demo[i])
	}
}
