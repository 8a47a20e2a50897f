package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/tripdesk/tripdesk-backend/internal/database"
	"github.com/tripdesk/tripdesk-backend/internal/handlers"
	"github.com/tripdesk/tripdesk-backend/internal/middleware"
	"github.com/tripdesk/tripdesk-backend/internal/services"
	"github.com/tripdesk/tripdesk-backend/internal/store"
	"github.com/tripdesk/tripdesk-backend/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := services.InitRedis(); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	// Firebase is optional - push fan-out degrades to websocket/redis only
	if err := services.InitFirebase(); err != nil {
		log.Printf("Firebase initialization warning: %v", err)
	}

	if err := services.InitStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	hub := services.NewHub()
	go hub.Run()

	bookings := store.NewBookingStore(db)
	notifier := services.NewPushNotifier(db, hub)
	tripRequests := services.NewTripRequestService(bookings, utils.NewFareEstimator(), notifier)
	tripResponses := services.NewTripResponseService(bookings)

	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	r.Static("/uploads", "/app/uploads")

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
		}

		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocketHandler(hub))

		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			vehicles := protected.Group("/vehicles")
			{
				vehicles.POST("", handlers.RegisterVehicle(db))
				vehicles.GET("", handlers.GetVehicles(db))
				vehicles.GET("/:id", handlers.GetVehicle(db))
				vehicles.DELETE("/:id", handlers.DeleteVehicle(db))
				vehicles.POST("/:id/documents", handlers.UploadVehicleDocument(db))
			}

			bookingsGroup := protected.Group("/bookings")
			{
				bookingsGroup.POST("", handlers.CreateBooking(tripRequests))
				bookingsGroup.GET("", handlers.GetMyBookings(tripRequests))
				bookingsGroup.GET("/:bookingId", handlers.GetBooking(tripRequests))
				bookingsGroup.POST("/:bookingId/confirm", handlers.ConfirmBooking(tripRequests))
			}

			driver := protected.Group("/driver")
			{
				driver.GET("/trips/open", handlers.GetOpenTrips(tripResponses))
				driver.GET("/trips", handlers.GetDriverTrips(tripResponses))
				driver.POST("/trips/:bookingId/accept", handlers.AcceptTrip(tripResponses, db, hub))
				driver.POST("/trips/:bookingId/deny", handlers.DenyTrip(tripResponses))
			}

			notifications := protected.Group("/notifications")
			{
				notifications.POST("/register-token", handlers.RegisterFCMToken(db))
				notifications.DELETE("/remove-token", handlers.RemoveFCMToken(db))
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
