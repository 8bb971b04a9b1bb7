// Package cityimage keeps one permanent generated illustration per city.
package cityimage

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"weather-widget/internal/models"
	"weather-widget/internal/repositories"
	"weather-widget/internal/services/prompt"
	"weather-widget/internal/storage"
	"weather-widget/pkg/logger"
)

const defaultGenerationTimeout = 90 * time.Second

// ArtifactWriter persists generated bytes and can undo it.
type ArtifactWriter interface {
	Save(city string, img models.GeneratedImage) (repositories.Artifact, error)
	Delete(art repositories.Artifact) error
}

type Options struct {
	// Template is the prompt template; empty means prompt.CityscapeTemplate.
	Template          string
	GenerationTimeout time.Duration
	PublicBaseURL     string
}

// Cache returns the stored image for a city or creates it exactly once.
// Records are never refreshed.
type Cache struct {
	store     storage.CityImageStore
	gen       repositories.ImageGenerator
	artifacts ArtifactWriter
	urls      URLRewriter
	template  string
	timeout   time.Duration
	now       func() time.Time
	group     singleflight.Group
	l         *logger.Logger
}

func NewCache(
	store storage.CityImageStore,
	gen repositories.ImageGenerator,
	artifacts ArtifactWriter,
	opts Options,
	l *logger.Logger,
) *Cache {
	if opts.Template == "" {
		opts.Template = prompt.CityscapeTemplate
	}
	if opts.GenerationTimeout <= 0 {
		opts.GenerationTimeout = defaultGenerationTimeout
	}

	return &Cache{
		store:     store,
		gen:       gen,
		artifacts: artifacts,
		urls:      NewURLRewriter(opts.PublicBaseURL),
		template:  opts.Template,
		timeout:   opts.GenerationTimeout,
		now:       time.Now,
		l:         l,
	}
}

// GetOrCreate returns the record for city, generating it on first use from
// weather. Concurrent callers for the same city share one generation; a
// caller whose ctx ends stops waiting but the generation runs to completion.
func (c *Cache) GetOrCreate(ctx context.Context, city string, weather *models.CurrentConditions) (*models.CityImage, error) {
	if city == "" {
		return nil, errors.Wrap(models.ErrInvalidInput, "city is required")
	}

	rec, err := c.store.FindByCity(ctx, city)
	if err == nil {
		c.l.Debug("city image cache hit", map[string]any{"city": city})
		return c.present(rec), nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, errors.Wrapf(err, "find image for %q", city)
	}

	ch := c.group.DoChan(city, func() (any, error) {
		return c.create(context.WithoutCancel(ctx), city, weather)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return c.present(res.Val.(*models.CityImage)), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) create(ctx context.Context, city string, weather *models.CurrentConditions) (*models.CityImage, error) {
	// another caller may have finished between the lookup and the flight
	if rec, err := c.store.FindByCity(ctx, city); err == nil {
		return rec, nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, errors.Wrapf(err, "find image for %q", city)
	}

	text := prompt.BuildPrompt(c.template, weatherContext(city, weather))

	c.l.Info("generating city image", map[string]any{"city": city, "generator": c.gen.Name()})

	genCtx, cancel := context.WithTimeout(ctx, c.timeout)
	img, err := c.gen.Generate(genCtx, text)
	cancel()
	if err != nil {
		c.l.Error(err, map[string]any{"city": city, "stage": "generate"})
		if errors.Is(err, models.ErrGeneration) {
			return nil, err
		}
		return nil, errors.Wrapf(models.ErrGeneration, "%s: %v", city, err)
	}

	art, err := c.artifacts.Save(city, img)
	if err != nil {
		c.l.Error(err, map[string]any{"city": city, "stage": "save artifact"})
		return nil, err
	}

	rec := &models.CityImage{
		ID:          uuid.NewString(),
		City:        city,
		ImageURL:    art.URL,
		WeatherData: weather,
		CreatedAt:   c.now().UTC(),
	}

	created, err := c.store.CreateUnique(ctx, rec)
	switch {
	case err == nil:
		c.l.Info("city image created", map[string]any{"city": city, "url": rec.ImageURL})
		return created, nil
	case errors.Is(err, models.ErrConflict):
		c.discard(art, city)
		c.l.Info("city image created concurrently, using stored record", map[string]any{"city": city})
		existing, findErr := c.store.FindByCity(ctx, city)
		if findErr != nil {
			return nil, errors.Wrapf(findErr, "re-read image for %q", city)
		}
		return existing, nil
	default:
		c.discard(art, city)
		return nil, errors.Wrapf(err, "store image for %q", city)
	}
}

func (c *Cache) discard(art repositories.Artifact, city string) {
	if err := c.artifacts.Delete(art); err != nil {
		c.l.Warning("failed to remove orphaned artifact", map[string]any{"city": city, "file": art.Name, "err": err})
	}
}

// present applies the public URL rewrite to a copy of rec.
func (c *Cache) present(rec *models.CityImage) *models.CityImage {
	out := *rec
	out.ImageURL = c.urls.Rewrite(rec.ImageURL)
	return &out
}

func weatherContext(city string, w *models.CurrentConditions) prompt.WeatherContext {
	wc := prompt.WeatherContext{City: city}
	if w != nil {
		// prefer the geocoded name over the raw key
		if name := strings.TrimSpace(w.City); name != "" {
			wc.City = name
		}
		wc.Condition = w.Condition
		wc.Temp = w.Temp
		wc.Date = w.Date
	}
	return wc
}
