package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/shopspring/decimal"

	applog "shopkeep/internal/log"
)

const (
	msgSomethingWrong = "Something went wrong. Please try again."
	msgTooMany        = "Too many requests. Please wait a minute."
)

type AppConfig struct {
	TemplatesDir string
	// Reload re-parses templates on every render.
	Reload bool
	// RateLimit is requests per minute per client; 0 means 120.
	RateLimit int
}

// NewApp builds the fiber app with middleware and every route.
func NewApp(cfg AppConfig, d *Deps) *fiber.App {
	engine := html.New(cfg.TemplatesDir, ".html")
	engine.Reload(cfg.Reload)
	engine.AddFunc("money", func(v decimal.Decimal) string { return v.StringFixed(2) })
	engine.AddFunc("when", func(t time.Time) string { return t.Local().Format("Jan 2, 2006 15:04") })

	app := fiber.New(fiber.Config{
		Views:        engine,
		ViewsLayout:  "layouts/main",
		ErrorHandler: ErrorHandler,
		BodyLimit:    1 << 20, // 1 MiB
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())

	rate := cfg.RateLimit
	if rate <= 0 {
		rate = 120
	}
	app.Use(limiter.New(limiter.Config{
		Max:        rate,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return p == "/healthz" || p == "/metrics"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.SendStatus(fiber.StatusTooManyRequests)
		},
	}))

	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		ContextKey:     "csrf",
		// JSON clients and health checks are not form posts
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return strings.HasPrefix(p, "/api/") || p == "/healthz" || p == "/metrics"
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"reason": err.Error()})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	// ---------- Probes ----------
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/metrics", adaptor.HTTPHandler(d.Metrics.Handler()))

	// ---------- Pages ----------
	app.Get("/", d.InventoryHandler.Home)
	app.Post("/items", d.InventoryHandler.Add)
	app.Post("/items/:id/sell", d.InventoryHandler.Sell)
	app.Post("/items/:id/delete", d.InventoryHandler.Delete)
	app.Get("/reports", d.ReportHandler.Reports)

	trendsLimiter := limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|trends"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.trends.hit", nil)
			if strings.HasPrefix(c.Path(), "/api/") {
				return jsonErrors(c, fiber.StatusTooManyRequests, map[string][]string{"_server": {msgTooMany}})
			}
			c.Status(fiber.StatusTooManyRequests)
			return render(c, "notfound", fiber.Map{"Message": msgTooMany})
		},
	})
	app.Post("/reports/trends", trendsLimiter, d.ReportHandler.Trends)

	// ---------- API ----------
	app.Get("/api/item-image", d.ImageHandler.Get)

	api := app.Group("/api/v1")
	api.Get("/items", d.APIHandler.ListItems)
	api.Post("/items", d.APIHandler.CreateItem)
	api.Get("/items/:id", d.APIHandler.GetItem)
	api.Delete("/items/:id", d.APIHandler.DeleteItem)
	api.Post("/items/:id/sell", d.APIHandler.Sell)
	api.Get("/sales", d.APIHandler.ListSales)
	api.Get("/report", d.APIHandler.Report)
	api.Post("/trends", trendsLimiter, d.APIHandler.Trends)

	return app
}

// ErrorHandler logs unexpected failures and shows a friendly message. Error
// text never reaches the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	}

	msg := msgSomethingWrong
	switch {
	case status == fiber.StatusNotFound:
		msg = "Page not found"
	case status == fiber.StatusRequestEntityTooLarge:
		msg = "Request too large."
	case status >= fiber.StatusInternalServerError:
		applog.Error(c, "server.error", err, nil)
	default:
		applog.Warn(c, "request.rejected", map[string]any{"status": status})
	}

	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(status).JSON(fiber.Map{"errors": fiber.Map{"_server": []string{msg}}})
	}
	if rerr := c.Status(status).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(status).SendString(msg)
	}
	return nil
}
