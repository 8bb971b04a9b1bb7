package repositories

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"weather-widget/config"
	"weather-widget/internal/models"
	"weather-widget/pkg/logger"
)

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Artifact is a stored generated image.
type Artifact struct {
	// Name is the file name under the storage dir; empty for hosted images.
	Name string
	URL  string
}

// ArtifactStore writes generated image bytes under a directory that is
// served statically and mints their public URLs.
type ArtifactStore struct {
	fs      afero.Fs
	dir     string
	baseURL string
	urlPath string
	l       *logger.Logger
}

func NewArtifactStore(fs afero.Fs, cfg config.ImageConfig, l *logger.Logger) *ArtifactStore {
	urlPath := "/" + strings.Trim(cfg.URLPath, "/")
	return &ArtifactStore{
		fs:      fs,
		dir:     cfg.StorageDir,
		baseURL: strings.TrimRight(cfg.ServeBaseURL, "/"),
		urlPath: urlPath,
		l:       l,
	}
}

// SafeCityName lowercases the city and replaces every non-alphanumeric
// character with an underscore.
func SafeCityName(city string) string {
	return strings.ToLower(unsafeFileChars.ReplaceAllString(city, "_"))
}

// Save persists the image. Images the generator already hosts are returned
// by URL without touching the filesystem.
func (a *ArtifactStore) Save(city string, img models.GeneratedImage) (Artifact, error) {
	if len(img.Data) == 0 {
		if img.URL != "" {
			return Artifact{URL: img.URL}, nil
		}
		return Artifact{}, errors.Wrap(models.ErrGeneration, "empty image")
	}

	if err := a.fs.MkdirAll(a.dir, 0o755); err != nil {
		return Artifact{}, errors.Wrapf(models.ErrStore, "create %s: %v", a.dir, err)
	}

	name := SafeCityName(city) + "_" + uuid.NewString() + extensionFor(img.MIMEType)
	if err := afero.WriteFile(a.fs, filepath.Join(a.dir, name), img.Data, 0o644); err != nil {
		return Artifact{}, errors.Wrapf(models.ErrStore, "write %s: %v", name, err)
	}

	a.l.Debug("image artifact written", map[string]any{"city": city, "file": name, "bytes": len(img.Data)})

	return Artifact{Name: name, URL: a.baseURL + path.Join(a.urlPath, name)}, nil
}

// Delete removes a previously saved artifact. Hosted images are a no-op.
func (a *ArtifactStore) Delete(art Artifact) error {
	if art.Name == "" {
		return nil
	}
	if err := a.fs.Remove(filepath.Join(a.dir, art.Name)); err != nil {
		return errors.Wrapf(models.ErrStore, "remove %s: %v", art.Name, err)
	}
	return nil
}

// Dir is the directory served under the URL path.
func (a *ArtifactStore) Dir() string { return a.dir }

func extensionFor(mime string) string {
	switch mime {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
