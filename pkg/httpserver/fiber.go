package httpserver

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type Options struct {
	AppName string
	// Timeouts in seconds; zero leaves fiber's default.
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
	// ErrorHandler maps handler errors to responses. Nil uses fiber's default.
	ErrorHandler fiber.ErrorHandler
	// Ready reports readiness for /manage/ready. Nil means always ready.
	Ready func(c *fiber.Ctx) bool
}

func InitFiberServer(opts Options) *fiber.App {
	cfg := fiber.Config{
		AppName:      opts.AppName,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		BodyLimit:    1 * 1024 * 1024,
		ReadTimeout:  seconds(opts.ReadTimeout),
		WriteTimeout: seconds(opts.WriteTimeout),
		IdleTimeout:  seconds(opts.IdleTimeout),
	}
	if opts.ErrorHandler != nil {
		cfg.ErrorHandler = opts.ErrorHandler
	}
	s := fiber.New(cfg)

	s.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	s.Use(cors.New())

	hc := healthcheck.Config{
		LivenessEndpoint:  "/manage/health",
		ReadinessEndpoint: "/manage/ready",
	}
	if opts.Ready != nil {
		hc.ReadinessProbe = opts.Ready
	}
	s.Use(healthcheck.New(hc))

	return s
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
