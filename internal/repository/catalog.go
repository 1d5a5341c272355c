package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/placename-quiz-bot/internal/domain/entities"
)

// MinCatalogSize is the smallest catalog a question can be built from.
const MinCatalogSize = entities.ChoiceCount

const maxCatalogBytes = 16 << 20

// ErrDataUnavailable wraps every transport, parse and validation failure of a catalog load.
var ErrDataUnavailable = errors.New("catalog data unavailable")

// CatalogLoader fetches language catalogs from a URL or a local path.
// Every call goes to the source; responses are never cached.
type CatalogLoader struct {
	client *http.Client
	logger *zap.Logger
}

// NewCatalogLoader creates a CatalogLoader. A nil client uses one with the given timeout.
func NewCatalogLoader(client *http.Client, timeout time.Duration, logger *zap.Logger) *CatalogLoader {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &CatalogLoader{
		client: client,
		logger: logger,
	}
}

// CatalogSource returns the resource identifier of a language catalog.
// base is either an http(s) URL prefix or a directory.
func CatalogSource(base string, lang entities.Language) string {
	if isRemote(base) {
		return strings.TrimRight(base, "/") + "/" + lang.DataFile
	}
	return strings.TrimRight(base, "/") + string(os.PathSeparator) + lang.DataFile
}

// Load reads and validates the catalog at source.
func (l *CatalogLoader) Load(ctx context.Context, source string) ([]entities.Place, error) {
	start := time.Now()
	l.logger.Debug("loading catalog", zap.String("source", source))

	data, err := l.read(ctx, source)
	if err != nil {
		l.logger.Warn("catalog fetch failed", zap.String("source", source), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}

	places, err := parseCatalog(data)
	if err != nil {
		l.logger.Warn("catalog rejected", zap.String("source", source), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}

	l.logger.Info("catalog loaded",
		zap.String("source", source),
		zap.Int("places", len(places)),
		zap.Duration("took", time.Since(start)),
	)

	return places, nil
}

func (l *CatalogLoader) read(ctx context.Context, source string) ([]byte, error) {
	if !isRemote(source) {
		return os.ReadFile(strings.TrimPrefix(source, "file://"))
	}

	u, err := url.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse source url: %w", err)
	}
	q := u.Query()
	q.Set("_ts", strconv.FormatInt(time.Now().UnixNano(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache, no-store")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, source)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}

func parseCatalog(data []byte) ([]entities.Place, error) {
	var places []entities.Place
	if err := json.Unmarshal(data, &places); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog JSON: %w", err)
	}
	if places == nil {
		return nil, errors.New("catalog is not an array")
	}

	if len(places) < MinCatalogSize {
		return nil, fmt.Errorf("expected at least %d places, got %d", MinCatalogSize, len(places))
	}

	seen := make(map[string]struct{}, len(places))
	for i, p := range places {
		if strings.TrimSpace(p.ID) == "" {
			return nil, fmt.Errorf("place %d: empty id", i)
		}
		if strings.TrimSpace(p.PrimaryAnswer) == "" {
			return nil, fmt.Errorf("place %q: empty primary_answer", p.ID)
		}
		if p.Importance != nil && !p.Importance.Valid() {
			return nil, fmt.Errorf("place %q: importance out of range: %d", p.ID, *p.Importance)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("duplicate place id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
	}

	return places, nil
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
