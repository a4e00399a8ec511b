package api

import (
	"embed"
	"time"

	"github.com/aDp08/web-gallery-backend/internal/handlers"
	"github.com/aDp08/web-gallery-backend/internal/metrics"
	"github.com/aDp08/web-gallery-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gopkg.in/yaml.v3"
)

//go:embed docs/openapi.yaml
var docsFS embed.FS

const rootPage = `<a href="/api-docs">Server Methodologies</a>`

const swaggerPage = `<!DOCTYPE html>
<html>
<head>
<title>Image uploader API</title>
<link rel="stylesheet" href="https://cdnjs.cloudflare.com/ajax/libs/swagger-ui/5.17.14/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://cdnjs.cloudflare.com/ajax/libs/swagger-ui/5.17.14/swagger-ui-bundle.js"></script>
<script>SwaggerUIBundle({url: "/api-docs/openapi.json", dom_id: "#swagger-ui"});</script>
</body>
</html>`

type Options struct {
	BodyLimit    int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	StaticDir    string
	RequestLog   bool
	Metrics      *metrics.Metrics
	RateLimiter  *middleware.RateLimiter
}

// NewServer assembles the HTTP surface: the image API under /api plus the
// root page, docs, health, metrics and static assets.
func NewServer(h *handlers.Handler, opts Options) (*fiber.App, error) {
	spec, err := loadOpenAPI()
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    opts.BodyLimit,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	if opts.RequestLog {
		app.Use(logger.New(logger.Config{Format: "${method} ${path} ${status} - ${latency}\n"}))
	}
	if opts.Metrics != nil {
		app.Use(opts.Metrics.Middleware())
		app.Get("/metrics", opts.Metrics.Handler())
	}

	app.Get("/", func(c *fiber.Ctx) error {
		c.Type("html")
		return c.SendString(rootPage)
	})
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/api-docs", func(c *fiber.Ctx) error {
		c.Type("html")
		return c.SendString(swaggerPage)
	})
	app.Get("/api-docs/openapi.json", func(c *fiber.Ctx) error { return c.JSON(spec) })

	api := app.Group("/api")
	if opts.RateLimiter != nil {
		api.Use(opts.RateLimiter.ByIP())
	}
	api.Post("/upload", h.Upload)
	api.Get("/allImages", h.ListAll)
	api.Delete("/image/:id", h.Delete)
	api.Put("/image/:id", h.Update)

	if opts.StaticDir != "" {
		app.Static("/", opts.StaticDir)
	}
	return app, nil
}

func loadOpenAPI() (map[string]interface{}, error) {
	b, err := docsFS.ReadFile("docs/openapi.yaml")
	if err != nil {
		return nil, err
	}
	var spec map[string]interface{}
	if err := yaml.Unmarshal(b, &spec); err != nil {
		return nil, err
	}
	return spec, nil
}
