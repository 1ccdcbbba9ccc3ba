package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "mouthpiece-market/internal/adapter/http"
	appmw "mouthpiece-market/internal/adapter/middleware"
	"mouthpiece-market/internal/adapter/repository/mysql"
	"mouthpiece-market/internal/config"
	"mouthpiece-market/internal/domain/listing"
	"mouthpiece-market/internal/domain/loan"
	"mouthpiece-market/internal/domain/notification"
	"mouthpiece-market/internal/domain/user"
	"mouthpiece-market/internal/infrastructure/cache"
	"mouthpiece-market/internal/infrastructure/db"
	listinguc "mouthpiece-market/internal/usecase/listing"
	loanuc "mouthpiece-market/internal/usecase/loan"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal(err)
	}
	if err := gdb.AutoMigrate(&user.User{}, &listing.Listing{}, &loan.Loan{}, &notification.Notification{}); err != nil {
		log.Fatal(err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}

	loanRepo := mysql.NewLoanRepository(gdb)
	listingRepo := mysql.NewListingRepository(gdb)
	userRepo := mysql.NewUserRepository(gdb)
	notifRepo := mysql.NewNotificationRepository(gdb)
	guow := mysql.NewGormUoW(gdb)

	loanUC := loanuc.NewUsecase(loanRepo, listingRepo, userRepo, guow, notifRepo)
	listingUC := listinguc.NewUsecase(listingRepo, guow)

	h := httpadp.NewHandler()
	loanH := httpadp.NewLoanHandler(loanUC)
	listingH := httpadp.NewListingHandler(listingUC)
	notifH := httpadp.NewNotificationHandler(notifRepo)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	idemp := appmw.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	e.GET("/health", h.Health)

	loans := e.Group("/loans")
	loans.POST("", loanH.CreateLoan, idemp)
	loans.GET("/incoming", loanH.Incoming)
	loans.GET("/outgoing", loanH.Outgoing)
	loans.GET("/current", loanH.Current)
	loans.GET("/history", loanH.History)
	loans.GET("/stats", loanH.Stats)
	loans.GET("/:loan_id", loanH.GetLoan)
	loans.POST("/:loan_id/approve", loanH.ApproveLoan, idemp)
	loans.POST("/:loan_id/refuse", loanH.RefuseLoan, idemp)
	loans.POST("/:loan_id/cancel", loanH.CancelLoan, idemp)
	loans.POST("/:loan_id/return", loanH.ReturnLoan, idemp)
	loans.PATCH("/:loan_id", loanH.UpdateLoan, idemp)

	e.GET("/notifications", notifH.List)
	e.POST("/notifications/:notification_id/read", notifH.MarkRead)

	e.DELETE("/listings/:listing_id", listingH.DeleteListing, idemp)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
