package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/olegsm/cinema-tickets/internal/config"
	"github.com/olegsm/cinema-tickets/internal/database"
	"github.com/olegsm/cinema-tickets/internal/handler"
	"github.com/olegsm/cinema-tickets/internal/middleware"
	"github.com/olegsm/cinema-tickets/internal/queue"
	"github.com/olegsm/cinema-tickets/internal/repository"
	"github.com/olegsm/cinema-tickets/internal/router"
	"github.com/olegsm/cinema-tickets/internal/service"
	"github.com/olegsm/cinema-tickets/internal/view"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.Bootstrap(ctx, db); err != nil {
		cancel()
		log.Fatalf("bootstrap schema: %v", err)
	}
	cancel()

	userRepo := repository.NewUserRepo(db)
	ticketRepo := repository.NewTicketRepo(db)
	showRepo := repository.NewShowRepo(db, ticketRepo)

	userSvc := service.NewUserService(userRepo, cfg.BcryptCost)
	showSvc := service.NewShowService(showRepo)
	ticketSvc := service.NewTicketService(ticketRepo, showSvc, queue.PublishTicketBooked)

	renderer, err := view.New()
	if err != nil {
		log.Fatalf("parse templates: %v", err)
	}

	e := echo.New()
	e.Renderer = renderer
	e.HideBanner = true

	session := middleware.Session(cfg.JWTSecret, userSvc)
	rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), config.NewRedisClient())

	router.RegisterRoutes(e)
	router.RegisterPages(e,
		handler.NewAuthHandler(cfg, userSvc),
		handler.NewShowHandler(showSvc, ticketSvc),
		session, rateLimit)
	router.RegisterAdminAPI(e, handler.NewAdminShowHandler(showSvc, ticketSvc), cfg.JWTSecret)

	// Booking events land in logs/booking.log; the consumer reconnects on
	// its own and never takes the server down.
	go func() {
		if err := queue.StartTicketConsumer(); err != nil {
			log.Printf("ticket consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
