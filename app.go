package main

import (
	"context"
	"fmt"
	"strings"

	"coursefront/apiclient"
	"coursefront/config"
	adminController "coursefront/controllers/admin"
	authController "coursefront/controllers/auth"
	courseController "coursefront/controllers/course"
	profileController "coursefront/controllers/profile"
	"coursefront/database"
	"coursefront/logger"
	"coursefront/middleware"
	adminRoutes "coursefront/routers/adminRoutes"
	authRoutes "coursefront/routers/authRoutes"
	courseRoutes "coursefront/routers/courseRoutes"
	profileRoutes "coursefront/routers/profileRoutes"
	"coursefront/services"
	"coursefront/session"
	"coursefront/store"
	"coursefront/utils"
	"coursefront/views"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// openStore picks where browser state lives: a SQL table, redis keys or,
// for local runs, process memory.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch strings.ToLower(cfg.StoreDriver) {
	case "", "gorm":
		db, err := database.Connect(cfg)
		if err != nil {
			return nil, err
		}
		return store.NewGormStore(db), nil
	case "redis":
		return store.NewRedisStore(ctx, cfg.RedisAddr, cfg.SessionTTL)
	case "memory":
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}
}

// newApp wires services, middleware and routes. The panel cache is returned
// so the housekeeper can purge it.
func newApp(cfg *config.Config, st store.Store, log *logger.Logger) (*fiber.App, *services.PanelCache, error) {
	renderer, err := utils.NewCertificateRenderer(cfg.CertificateLocale, cfg.CertificateIssuer)
	if err != nil {
		return nil, nil, fmt.Errorf("certificate renderer: %w", err)
	}
	var mailer services.CertificateMailer
	if m := utils.NewCertificateMailer(cfg, log); m != nil {
		mailer = m
	}

	manager := session.NewManager(apiclient.NewHTTP(cfg.APIBaseURL, cfg.APITimeout), st, log)
	panels := services.NewPanelCache()

	courses := services.NewCourseService(services.NewEnrollmentFlow(cfg.MessagingURL, log))
	certificates := services.NewCertificateDialog(renderer, mailer, log)
	feedback := services.NewFeedbackForm(log)
	profiles := services.NewProfileService(log)

	app := fiber.New(fiber.Config{
		AppName:               "coursefront",
		Views:                 views.New(cfg.MediaBaseURL),
		ErrorHandler:          middleware.ErrorHandler(log),
		BodyLimit:             utils.MaxUploadSize + 1<<20,
		DisableStartupMessage: cfg.IsProduction(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(log))
	app.Use("/static", filesystem.New(filesystem.Config{Root: views.Static()}))
	app.Use(middleware.BrowserSession(middleware.SessionConfig{
		Secret:  []byte(cfg.SessionSecret),
		TTL:     cfg.SessionTTL,
		Secure:  cfg.CookieSecure,
		Manager: manager,
		Log:     log,
	}))

	courseRoutes.SetupCourseRoutes(app, courseController.New(courses, certificates, feedback, log))
	authRoutes.SetupAuthRoutes(app, authController.New(panels, log))
	profileRoutes.SetupProfileRoutes(app, profileController.New(profiles, log))
	adminRoutes.SetupAdminRoutes(app, adminController.New(services.NewVideoPanel(panels), log))

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not found")
	})
	return app, panels, nil
}
