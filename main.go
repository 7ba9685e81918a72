package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"

	"elbuensabor/internal/config"
	"elbuensabor/internal/database"
	"elbuensabor/internal/handlers"
	"elbuensabor/internal/logging"
	"elbuensabor/internal/middleware"
	"elbuensabor/internal/payments"
	"elbuensabor/internal/report"
	"elbuensabor/internal/store"
)

func main() {
	config.Load()
	logger := logging.Init("elbuensabor", config.AppEnv.LogFile)

	var (
		db     *mongo.Database
		orders store.Orders
		prices handlers.PriceResolver
	)

	if config.AppEnv.MongoURI == "" {
		// Demo mode: no database, seeded in-memory orders only.
		mem := store.NewMemoryOrders()
		store.SeedDemoOrders(mem, time.Now().In(config.AppEnv.Timezone))
		orders = mem
		logger.Warn("MONGO_URI not set, running in demo mode with seeded in-memory orders")
	} else {
		client, err := database.Connect(config.AppEnv.MongoURI)
		if err != nil {
			log.Fatal(err)
		}
		db = client.Database(config.AppEnv.DBName)
		logger.Info("MongoDB connected", "db", db.Name())

		if err := database.EnsureMenuIndexes(db); err != nil {
			logger.Warn("menu index warning", "error", err)
		}
		if err := database.EnsureCustomerIndexes(db); err != nil {
			logger.Warn("customer index warning", "error", err)
		}
		if err := database.EnsureOrderIndexes(db); err != nil {
			logger.Warn("order index warning", "error", err)
		}

		orders = store.NewMongoOrders(db)
		prices = handlers.NewMenuPrices(db)
	}

	deliverer := report.FileDeliverer{Dir: config.AppEnv.ReportDir}
	webhook := payments.NewWebhook(orders, config.AppEnv.WompiEventsSecret)

	r := gin.Default()
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/orders", handlers.CreateOrder(orders, prices, config.AppEnv.JWTSecret, config.AppEnv.DeliveryFee))
	r.GET("/orders/:id", handlers.GetOrder(orders))
	r.Any("/webhook", webhook.Handle())

	if db != nil {
		r.GET("/menu", handlers.GetMenu(db))
		r.GET("/categories", handlers.GetCategories(db))

		r.POST("/auth/register", handlers.Register(
			db,
			config.AppEnv.JWTSecret,
			config.AppEnv.AccessTokenTTL,
			config.AppEnv.RefreshTokenTTL,
		))
		r.POST("/auth/login", handlers.Login(
			db,
			config.AppEnv.JWTSecret,
			config.AppEnv.AccessTokenTTL,
			config.AppEnv.RefreshTokenTTL,
		))
		r.POST("/auth/refresh", handlers.Refresh(
			db,
			config.AppEnv.JWTSecret,
			config.AppEnv.AccessTokenTTL,
			config.AppEnv.RefreshTokenTTL,
		))
		r.POST("/auth/logout", handlers.Logout(db))
		r.GET("/auth/me", middleware.CustomerAuth(config.AppEnv.JWTSecret), handlers.GetMe(db))

		r.POST("/admin/login", handlers.AdminLogin(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL))

		me := r.Group("/me")
		me.Use(middleware.CustomerAuth(config.AppEnv.JWTSecret))
		{
			me.GET("/addresses", handlers.GetAddresses(db))
			me.POST("/addresses", handlers.CreateAddress(db))
			me.PUT("/addresses/:id", handlers.UpdateAddress(db))
			me.DELETE("/addresses/:id", handlers.DeleteAddress(db))
		}
	}

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		admin.GET("/me", func(c *gin.Context) {
			c.JSON(200, gin.H{"ok": true})
		})

		admin.GET("/orders", handlers.ListOrders(orders))
		admin.GET("/orders/stream", handlers.StreamOrders(orders))
		admin.PATCH("/orders/:id/status", handlers.UpdateOrderStatus(orders))
		admin.DELETE("/orders/:id", handlers.DeleteOrder(orders))

		admin.GET("/stats/daily", handlers.DailyStats(orders, config.AppEnv.Timezone))
		admin.GET("/stats/weekly", handlers.WeeklyStats(orders, config.AppEnv.Timezone))
		admin.GET("/stats/monthly", handlers.MonthlyStats(orders, config.AppEnv.Timezone, config.AppEnv.MonthlyGoal))

		admin.GET("/reports/daily", handlers.DailyReport(orders, deliverer, config.AppEnv.Timezone))

		if db != nil {
			admin.GET("/menu", handlers.GetAllMenuItems(db))
			admin.POST("/menu", handlers.CreateMenuItem(db))
			admin.PUT("/menu/:id", handlers.UpdateMenuItem(db))
			admin.DELETE("/menu/:id", handlers.DeleteMenuItem(db))

			admin.GET("/categories", handlers.GetAllCategories(db))
			admin.POST("/categories", handlers.CreateCategory(db))
			admin.PUT("/categories/:id", handlers.UpdateCategory(db))
			admin.DELETE("/categories/:id", handlers.DeleteCategory(db))
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
