package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"

	"weather-widget/config"
	v1 "weather-widget/internal/controllers/http/v1"
	"weather-widget/internal/repositories"
	"weather-widget/internal/scheduler"
	"weather-widget/internal/services/auth"
	"weather-widget/internal/services/cityimage"
	"weather-widget/internal/services/weather"
	"weather-widget/internal/services/widget"
	"weather-widget/internal/storage"
	"weather-widget/pkg/httpserver"
	"weather-widget/pkg/logger"
	"weather-widget/pkg/observe"
)

// @title Weather Widget API
// @version 1.0.0
// @description Per-user weather widget backend: aggregated forecasts plus a permanent AI-generated illustration per city.

// @contact.name Weather Widget Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @tag.name Auth
// @tag.description Registration, login and logout
// @tag.name Users
// @tag.description Profile, city and widget data
func main() {
	ctx, cancel := context.WithCancel(context.Background())

	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cnf, err := config.NewConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	writers := []io.Writer{os.Stdout}
	var hook *observe.SentryHook
	if cnf.Sentry.DSN != "" {
		hook = observe.NewSentryHook(cnf.App.Env, cnf.App.Name, cnf.Sentry.Debug, cnf.Sentry.DSN)
		writers = append(writers, hook)
	}
	l := logger.NewZapLogger(logger.Options{
		AppName: cnf.App.Name,
		AppEnv:  cnf.App.Env,
		Level:   cnf.Log.Level,
	}, writers...)
	if hook != nil {
		hook.SetLogger(l)
	}

	store, err := storage.Open(cnf.Storage)
	if err != nil {
		l.Fatal("cannot open storage", map[string]any{"err": err, "driver": cnf.Storage.Driver})
	}

	weatherRepo, err := repositories.InitWeatherRepository(cnf, l)
	if err != nil {
		l.Fatal("cannot init weather repository", map[string]any{"err": err})
	}
	generator, err := repositories.InitImageGenerator(cnf, l)
	if err != nil {
		l.Fatal("cannot init image generator", map[string]any{"err": err})
	}
	artifacts := repositories.NewArtifactStore(afero.NewOsFs(), cnf.Image, l)

	weatherService := weather.NewWeatherService(weatherRepo, cnf.Weather.Locale, l)
	imageCache := cityimage.NewCache(store, generator, artifacts, cityimage.Options{
		GenerationTimeout: time.Duration(cnf.Image.GenerationTimeout) * time.Second,
		PublicBaseURL:     cnf.App.PublicBaseURL,
	}, l)
	assembler := widget.NewAssembler(weatherService, imageCache, l)

	authService, err := auth.NewService(store, store, cnf.JWTSecret(), time.Duration(cnf.Auth.TokenTTLHours)*time.Hour, l)
	if err != nil {
		l.Fatal("cannot init auth service", map[string]any{"err": err})
	}

	var ready atomic.Bool
	app := httpserver.InitFiberServer(httpserver.Options{
		AppName:      cnf.App.Name,
		ReadTimeout:  cnf.Server.ReadTimeout,
		WriteTimeout: cnf.Server.WriteTimeout,
		IdleTimeout:  cnf.Server.IdleTimeout,
		ErrorHandler: v1.NewErrorHandler(l),
		Ready:        func(*fiber.Ctx) bool { return ready.Load() },
	})

	v1.NewRouter(
		app,
		weatherService,
		assembler,
		authService,
		v1.StaticDir{Prefix: cnf.Image.URLPath, Root: artifacts.Dir()},
		l,
	)

	var sched *scheduler.Scheduler
	if cnf.Scheduler.Enabled {
		sched = scheduler.New(authService, weatherService, imageCache, scheduler.Options{
			PurgeInterval: time.Duration(cnf.Scheduler.PurgeIntervalMinutes) * time.Minute,
			WarmInterval:  time.Duration(cnf.Scheduler.WarmIntervalMinutes) * time.Minute,
			WarmCities:    cnf.Scheduler.WarmCities,
		}, l)
		if err := sched.Start(); err != nil {
			l.Fatal("cannot start scheduler", map[string]any{"err": err})
		}
	}

	go func() {
		if err := app.Listen(":" + cnf.Server.Port); err != nil {
			l.Fatal("cannot run the server", map[string]any{"err": err})
		}
	}()
	ready.Store(true)

	l.Info("application started successfully", map[string]any{
		"port":    cnf.Server.Port,
		"storage": cnf.Storage.Driver,
		"weather": weatherRepo.Name(),
		"image":   generator.Name(),
	})

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer func() {
		l.Warning("stopping application services")
		ready.Store(false)
		signal.Stop(sigCh)
		close(sigCh)

		if sched != nil {
			sched.Stop()
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = app.ShutdownWithContext(shutdownCtx)
		if err := store.Close(); err != nil {
			l.Error(err, map[string]any{"stage": "shutdown"})
		}
		if hook != nil {
			hook.Flush()
		}
		_ = l.Stop()
		cancel()
	}()

	select {
	case <-sigCh:
		fmt.Println("received shutdown signal")
	case <-ctx.Done():
		fmt.Println("context cancelled")
	}
}
