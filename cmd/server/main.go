// @title           Mojaz Law Office API
// @version         1.0
// @description     Back office for a small law firm: clients, cases, invoices, reminders, time tracking and generated contracts.
// @contact.name    Aldo Rifki Putra
// @contact.email   aldoetobex@gmail.com
// @BasePath        /api
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
// @description     Format: Bearer <token>
package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/aldoetobex/mojaz-backend/internal/auth"
	"github.com/aldoetobex/mojaz-backend/internal/cases"
	"github.com/aldoetobex/mojaz-backend/internal/clients"
	"github.com/aldoetobex/mojaz-backend/internal/config"
	"github.com/aldoetobex/mojaz-backend/internal/contracts"
	"github.com/aldoetobex/mojaz-backend/internal/dashboard"
	"github.com/aldoetobex/mojaz-backend/internal/invoices"
	"github.com/aldoetobex/mojaz-backend/internal/reminders"
	"github.com/aldoetobex/mojaz-backend/internal/storage"
	"github.com/aldoetobex/mojaz-backend/internal/store"
	"github.com/aldoetobex/mojaz-backend/internal/timeentries"
	"github.com/aldoetobex/mojaz-backend/pkg/database"
	"github.com/aldoetobex/mojaz-backend/pkg/logging"

	// Docs
	_ "github.com/aldoetobex/mojaz-backend/docs"
	fiberSwagger "github.com/gofiber/swagger"
)

func gateway(cfg *config.Config) (store.Gateway, error) {
	if cfg.Backend == config.BackendPostgres {
		db, err := database.Open(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return storage.NewPostgres(db)
	}
	return storage.NewJSONFile(cfg.DataFile), nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config:", err)
	}
	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatal("logger:", err)
	}
	defer logger.Sync()

	gw, err := gateway(cfg)
	if err != nil {
		zap.S().Fatalw("storage unavailable", "backend", cfg.Backend, "error", err)
	}
	st, err := store.Open(gw)
	if err != nil {
		zap.S().Fatalw("dataset could not be loaded", "backend", cfg.Backend, "error", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: auth.ErrorHandler,
		BodyLimit:    8 * 1024 * 1024, // signature and stamp images
	})

	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })
	app.Get("/swagger/*", fiberSwagger.HandlerDefault)

	api := app.Group("/api")

	// Auth
	authH := auth.NewHandler(st, cfg.JWTSecret, cfg.Seeds)
	api.Post("/signup", authH.Signup)
	api.Post("/login", authH.Login)

	priv := api.Group("", auth.RequireAuth(cfg.JWTSecret))
	priv.Get("/me", authH.Me)

	// Clients
	clientH := clients.NewHandler(st)
	priv.Get("/clients", clientH.List)
	priv.Post("/clients", clientH.Create)
	priv.Get("/clients/:id", clientH.Get)
	priv.Put("/clients/:id", clientH.Update)
	priv.Delete("/clients/:id", clientH.Delete)

	// Cases
	caseH := cases.NewHandler(st)
	priv.Get("/cases", caseH.List)
	priv.Post("/cases", caseH.Create)
	priv.Get("/cases/:id", caseH.Get)
	priv.Put("/cases/:id", caseH.Update)
	priv.Delete("/cases/:id", caseH.Delete)
	priv.Post("/cases/:id/activity", caseH.AddActivity)

	// Invoices
	invH := invoices.NewHandler(st)
	priv.Get("/invoices", invH.List)
	priv.Post("/invoices", invH.Create)
	priv.Get("/invoices/:id", invH.Get)
	priv.Put("/invoices/:id", invH.Update)
	priv.Delete("/invoices/:id", invH.Delete)
	priv.Post("/invoices/:id/paid", invH.SetPaid)

	// Reminders
	remH := reminders.NewHandler(st)
	priv.Get("/reminders", remH.List)
	priv.Post("/reminders", remH.Create)
	priv.Get("/reminders/:id", remH.Get)
	priv.Put("/reminders/:id", remH.Update)
	priv.Delete("/reminders/:id", remH.Delete)
	priv.Post("/reminders/:id/complete", remH.Complete)

	// Time tracking
	teH := timeentries.NewHandler(st)
	priv.Get("/time-entries", teH.List)
	priv.Post("/time-entries", teH.Create)
	priv.Get("/time-entries/:id", teH.Get)
	priv.Put("/time-entries/:id", teH.Update)
	priv.Delete("/time-entries/:id", teH.Delete)

	// Contracts
	mailer := contracts.NewMailer(cfg.SendGrid, cfg.MailName, cfg.MailFrom)
	if !mailer.Enabled() {
		zap.S().Infow("SENDGRID_API_KEY not set, contract e-mail disabled")
	}
	conH := contracts.NewHandler(contracts.PDFBuilder{FontPath: cfg.FontPath}, mailer)
	priv.Get("/contracts/types", conH.Types)
	priv.Post("/contracts/render", conH.Render)
	priv.Post("/contracts/pdf", conH.PDF)
	priv.Post("/contracts/share", conH.Share)

	// Dashboard
	priv.Get("/dashboard", dashboard.NewHandler(st).Get)

	zap.S().Infow("server starting", "port", cfg.Port, "backend", cfg.Backend, "env", cfg.Env)
	if err := app.Listen(":" + cfg.Port); err != nil {
		zap.S().Fatalw("server stopped", "error", err)
	}
}
