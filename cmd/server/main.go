package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"    // loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/113992-Menzi-Facundo/MundoPirata/internal/config"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/database"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/handler"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/middleware"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/payment"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/queue"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/repository"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/router"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/service"
)

func main() {
	// .env is optional; in production configuration comes from the
	// environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables response caching and
	// rate limiting but the API keeps working.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, cache and rate limiting disabled")
	}

	// Repositories.
	users := repository.NewUserRepo(db)
	locations := repository.NewLocationRepo(db)
	tickets := repository.NewTicketRepo(db)
	orders := repository.NewOrderRepo(db)
	donations := repository.NewDonationRepo(db)
	destinations := repository.NewDestinationRepo(db)
	news := repository.NewNewsRepo(db)
	newsTypes := repository.NewNewsTypeRepo(db)
	calendar := repository.NewCalendarRepo(db)
	eventTypes := repository.NewEventTypeRepo(db)
	mapLocations := repository.NewMapLocationRepo(db)

	// Notification pipeline: handlers publish, the consumer drains the
	// queue into the notification log.
	publisher := queue.NewPublisher()
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	// Services.
	gateway := payment.NewClient(cfg.MPBaseURL, cfg.MPAccessToken)
	orderSvc := service.NewOrderService(orders, users, tickets, publisher)
	donationSvc := service.NewDonationService(donations, users, publisher)
	destinationSvc := service.NewDestinationService(destinations, donations)
	eventSvc := service.NewEventService(tickets, calendar, nil)
	checkoutSvc := service.NewCheckoutService(gateway, donationSvc, tickets, users, publisher, cfg.FrontBaseURL)

	h := router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, users, publisher),
		Users:        handler.NewUserHandler(users, publisher),
		Tickets:      handler.NewTicketHandler(tickets, locations, eventSvc),
		Orders:       handler.NewOrderHandler(orderSvc),
		Donations:    handler.NewDonationHandler(donationSvc),
		Destinations: handler.NewDestinationHandler(destinationSvc),
		Checkout:     handler.NewCheckoutHandler(checkoutSvc),
		News:         handler.NewNewsHandler(news, newsTypes),
		Calendar:     handler.NewCalendarHandler(calendar, eventTypes),
		Map:          handler.NewMapHandler(mapLocations),
	}

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	var cache echo.MiddlewareFunc
	if rdb != nil {
		cache = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	}

	router.RegisterRoutes(e)
	router.RegisterPublic(e, h, cache)
	router.RegisterAuth(e, h, cfg.JWTSecret)
	router.RegisterAdmin(e, h, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
