package routes

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/ola-fintech/microcredit/internal/admin"
	"github.com/ola-fintech/microcredit/internal/config"
	"github.com/ola-fintech/microcredit/internal/credit"
	"github.com/ola-fintech/microcredit/internal/message"
	"github.com/ola-fintech/microcredit/internal/middleware"
	"github.com/ola-fintech/microcredit/internal/notification"
	"github.com/ola-fintech/microcredit/internal/otp"
	"github.com/ola-fintech/microcredit/internal/user"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes. Without a
// database the repositories fall back to in-memory stores, which is only
// allowed in development.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	RegisterHealthRoutes(app, d)

	var (
		userRepo    user.Repository
		creditRepo  credit.Repository
		otpRepo     otp.Repository
		messageRepo message.Repository
	)
	if d.DB != nil {
		userRepo = user.NewPostgresRepository(d.DB)
		creditRepo = credit.NewPostgresRepository(d.DB)
		otpRepo = otp.NewPostgresRepository(d.DB)
		messageRepo = message.NewPostgresRepository(d.DB)
	} else {
		userRepo = user.NewMemoryRepository()
		creditRepo = credit.NewMemoryRepository()
		otpRepo = otp.NewMemoryRepository()
		messageRepo = message.NewMemoryRepository()
	}

	var gateway notification.Gateway
	if d.Cfg.SMSGatewayURL != "" {
		gateway = notification.NewProviderGateway(d.Cfg)
	} else {
		gateway = notification.NewLoggerGateway(d.Logger)
	}

	mailer := notification.NewDecisionMailer(userRepo, messageRepo, gateway, d.Logger)

	userHandler := user.NewHandler(user.NewService(userRepo))
	creditHandler := credit.NewHandler(credit.NewService(creditRepo, mailer))
	otpHandler := otp.NewHandler(otp.NewService(otpRepo, userRepo, messageRepo, gateway, d.Logger))
	adminHandler := admin.NewHandler(admin.NewService(userRepo, creditRepo, messageRepo))

	api := app.Group("/api/v1")

	RegisterUserRoutes(api, userHandler)
	RegisterOTPRoutes(api, otpHandler, d.Cache, d.Cfg.OTPSendsPerMin)
	RegisterCreditRoutes(api, creditHandler, d)

	adminGuard := middleware.AdminAuth(d.Cfg, userRepo)
	RegisterAdminRoutes(api.Group("/admin", adminGuard), adminHandler, creditHandler)

	return nil
}
