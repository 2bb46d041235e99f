package main

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/veloracart/ecommerce-api/config"
	adminControllers "github.com/veloracart/ecommerce-api/controllers/admin"
	"github.com/veloracart/ecommerce-api/guestcart"
	"github.com/veloracart/ecommerce-api/mailer"
	"github.com/veloracart/ecommerce-api/models"
	"github.com/veloracart/ecommerce-api/payment"
	"github.com/veloracart/ecommerce-api/ratelimit"
	"github.com/veloracart/ecommerce-api/routes"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}

	initLogger(cfg.AppEnv)
	defer zap.S().Sync()

	db := initDatabase(cfg)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Product{},
		&models.Category{},
		&models.Collection{},
		&models.Cart{},
		&models.CartItem{},
		&models.GuestUser{},
		&models.GuestCart{},
		&models.GuestCartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderNote{},
		&models.AuthToken{},
		&models.Wishlist{},
		&models.WishlistItem{},
		&models.StockReservation{},
	); err != nil {
		zap.S().Fatalf("auto-migrate failed: %v", err)
	}

	deps := routes.Deps{
		DB:        db,
		Config:    cfg,
		Limiter:   ratelimit.New(ratelimit.NewMemoryStore(), ratelimit.DefaultConfig()),
		GuestCart: guestcart.New(guestcart.NewGormStorage(db)),
		Gateway: payment.NewClient(payment.Config{
			StoreID: cfg.PaymentStoreID,
			AuthKey: cfg.PaymentAuthKey,
			APIURL:  cfg.PaymentAPIURL,
			Mode:    cfg.PaymentMode,
		}),
		Mailer: mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom, cfg.AppBaseURL),
	}

	sched := startJobs(db)
	defer sched.Stop()

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, deps)

	zap.S().Infof("server listening on port %d", cfg.Port)
	if err := r.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		zap.S().Fatalf("server stopped: %v", err)
	}
}

func initLogger(appEnv string) {
	var logger *zap.Logger
	var err error
	if appEnv == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(fmt.Sprintf("logger: %v", err))
	}
	zap.ReplaceGlobals(logger)
}

func initDatabase(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		zap.S().Fatalf("database connection failed: %v", err)
	}
	return db
}

// startJobs schedules background housekeeping: expired auth tokens and
// guest carts hourly, expired stock reservations every five minutes.
func startJobs(db *gorm.DB) *cron.Cron {
	sched := cron.New()

	if _, err := sched.AddFunc("@every 1h", func() {
		now := time.Now()

		if err := db.Where("expires_at < ?", now).Delete(&models.AuthToken{}).Error; err != nil {
			zap.S().Errorw("auth token sweep failed", "err", err)
		}

		var expired []models.GuestUser
		if err := db.Where("expires_at < ?", now).Find(&expired).Error; err != nil {
			zap.S().Errorw("guest user sweep failed", "err", err)
			return
		}
		for _, guest := range expired {
			err := db.Transaction(func(tx *gorm.DB) error {
				var cart models.GuestCart
				if err := tx.Where("guest_id = ?", guest.ID).First(&cart).Error; err == nil {
					if err := tx.Where("cart_id = ?", cart.CartID).Delete(&models.GuestCartItem{}).Error; err != nil {
						return err
					}
					if err := tx.Delete(&cart).Error; err != nil {
						return err
					}
				}
				return tx.Delete(&guest).Error
			})
			if err != nil {
				zap.S().Errorw("guest cart sweep failed", "guest_id", guest.ID, "err", err)
			}
		}
	}); err != nil {
		zap.S().Errorf("schedule token sweep: %v", err)
	}

	if _, err := sched.AddFunc("@every 5m", func() {
		released, cancelled, err := adminControllers.ReleaseExpiredReservations(db, time.Now())
		if err != nil {
			zap.S().Errorw("reservation sweep failed", "err", err)
			return
		}
		if released > 0 || cancelled > 0 {
			zap.S().Infow("reservation sweep completed",
				"released", released, "cancelled_orders", cancelled)
		}
	}); err != nil {
		zap.S().Errorf("schedule reservation sweep: %v", err)
	}

	sched.Start()
	return sched
}
