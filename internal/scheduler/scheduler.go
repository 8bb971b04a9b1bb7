// Package scheduler runs the periodic maintenance jobs: purging expired
// entries from the token blacklist and warming the image cache for a
// configured list of cities.
package scheduler

import (
	"context"
	"strings"
	"time"

	"github.com/go-co-op/gocron"
	"golang.org/x/sync/errgroup"

	"weather-widget/internal/models"
	"weather-widget/pkg/logger"
)

const (
	jobTimeout       = 5 * time.Minute
	warmConcurrency  = 2
	defaultPurgeMins = 60
	defaultWarmMins  = 360
)

type TokenPurger interface {
	PurgeRevoked(ctx context.Context) (int, error)
}

type WeatherProvider interface {
	GetWeather(ctx context.Context, city string) (*models.CurrentConditions, error)
}

type ImageCache interface {
	GetOrCreate(ctx context.Context, city string, weather *models.CurrentConditions) (*models.CityImage, error)
}

type Options struct {
	PurgeInterval time.Duration
	WarmInterval  time.Duration
	WarmCities    []string
}

type Scheduler struct {
	scheduler *gocron.Scheduler
	purger    TokenPurger
	weather   WeatherProvider
	images    ImageCache
	opts      Options
	l         *logger.Logger
}

func New(purger TokenPurger, weather WeatherProvider, images ImageCache, opts Options, l *logger.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		purger:    purger,
		weather:   weather,
		images:    images,
		opts:      opts,
		l:         l,
	}
}

// Start registers the jobs and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	purgeMins := minutes(s.opts.PurgeInterval, defaultPurgeMins)
	if _, err := s.scheduler.Every(purgeMins).Minutes().SingletonMode().Tag("purge-revoked").Do(s.runWithTimeout(s.RunPurge)); err != nil {
		return err
	}

	cities := s.warmCities()
	if len(cities) == 0 {
		s.l.Info("scheduler: no warm cities configured")
	} else {
		warmMins := minutes(s.opts.WarmInterval, defaultWarmMins)
		if _, err := s.scheduler.Every(warmMins).Minutes().SingletonMode().Tag("warm-cities").Do(s.runWithTimeout(s.RunWarm)); err != nil {
			return err
		}
	}

	s.scheduler.StartAsync()
	s.l.Info("scheduler started", map[string]any{"jobs": len(s.scheduler.Jobs()), "warm_cities": cities})
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// RunPurge drops blacklist entries whose tokens have expired.
func (s *Scheduler) RunPurge(ctx context.Context) {
	n, err := s.purger.PurgeRevoked(ctx)
	if err != nil {
		s.l.Error(err, map[string]any{"job": "purge-revoked"})
		return
	}
	if n > 0 {
		s.l.Info("scheduler: purged revoked tokens", map[string]any{"count": n})
	}
}

// RunWarm makes sure every configured city has its permanent image. Cities
// that already have one only cost a store lookup and a weather fetch.
func (s *Scheduler) RunWarm(ctx context.Context) {
	cities := s.warmCities()
	s.l.Debug("scheduler: warming city images", map[string]any{"cities": cities})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(warmConcurrency)
	for _, city := range cities {
		city := city
		g.Go(func() error {
			weather, err := s.weather.GetWeather(gctx, city)
			if err != nil {
				s.l.Warning("scheduler: warm weather fetch failed", map[string]any{"city": city, "err": err})
				return nil
			}
			if _, err := s.images.GetOrCreate(gctx, city, weather); err != nil {
				s.l.Error(err, map[string]any{"job": "warm-cities", "city": city})
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (s *Scheduler) runWithTimeout(job func(context.Context)) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		job(ctx)
	}
}

func (s *Scheduler) warmCities() []string {
	seen := make(map[string]bool, len(s.opts.WarmCities))
	out := make([]string, 0, len(s.opts.WarmCities))
	for _, c := range s.opts.WarmCities {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func minutes(d time.Duration, fallback int) int {
	m := int(d.Minutes())
	if m <= 0 {
		return fallback
	}
	return m
}
