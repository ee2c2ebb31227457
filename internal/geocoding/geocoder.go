// Package geocoding resolves listing addresses to coordinates through a
// Nominatim-compatible search endpoint, with an on-disk cache.
package geocoding

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"dealscout/config"
	"dealscout/internal/models"

	"github.com/sirupsen/logrus"
)

const cacheFileName = "geocode_cache.json"

// ErrNoResults is returned when the search endpoint finds no match
var ErrNoResults = errors.New("no geocoding results")

type Geocoder struct {
	logger       *logrus.Logger
	baseURL      string
	countryCodes string
	delay        time.Duration
	cacheFile    string
	cache        map[string][]float64
	cacheLock    sync.RWMutex
	client       *http.Client
}

func NewGeocoder(cfg *config.Config, logger *logrus.Logger) *Geocoder {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	if err := os.MkdirAll(cfg.Geocoding.CacheDir, 0755); err != nil {
		logger.WithError(err).Warn("Could not create geocode cache directory")
	}

	g := &Geocoder{
		logger:       logger,
		baseURL:      cfg.Geocoding.URL,
		countryCodes: cfg.Geocoding.CountryCodes,
		delay:        cfg.Geocoding.RequestDelay,
		cacheFile:    filepath.Join(cfg.Geocoding.CacheDir, cacheFileName),
		cache:        make(map[string][]float64),
		client:       &http.Client{Timeout: 10 * time.Second},
	}
	g.loadCache()

	return g
}

func (g *Geocoder) loadCache() {
	data, err := os.ReadFile(g.cacheFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			g.logger.Warnf("Could not load geocode cache: %v", err)
		}
		return
	}

	if err := json.Unmarshal(data, &g.cache); err != nil {
		g.logger.Errorf("Failed to parse geocode cache: %v", err)
		return
	}

	g.logger.Infof("Loaded %d cached addresses", len(g.cache))
}

// SaveCache writes the cache to disk
func (g *Geocoder) SaveCache() error {
	g.cacheLock.RLock()
	data, err := json.Marshal(g.cache)
	g.cacheLock.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal geocode cache: %w", err)
	}

	if err := os.WriteFile(g.cacheFile, data, 0644); err != nil {
		return fmt.Errorf("failed to save geocode cache: %w", err)
	}
	return nil
}

func cacheKey(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}

type nominatimResponse []struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode returns the latitude and longitude of a free-text address
func (g *Geocoder) Geocode(address string) (float64, float64, error) {
	key := cacheKey(address)

	g.cacheLock.RLock()
	coords, ok := g.cache[key]
	g.cacheLock.RUnlock()
	if ok {
		if len(coords) != 2 {
			return 0, 0, fmt.Errorf("invalid cached coordinates for %q", address)
		}
		g.logger.WithField("address", address).Debug("Found coordinates in cache")
		return coords[0], coords[1], nil
	}

	// Nominatim allows one request per second
	if g.delay > 0 {
		time.Sleep(g.delay)
	}

	params := url.Values{
		"q":      []string{address},
		"format": []string{"json"},
		"limit":  []string{"1"},
	}
	if g.countryCodes != "" {
		params.Set("countrycodes", g.countryCodes)
	}

	req, err := http.NewRequest(http.MethodGet, g.baseURL, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.URL.RawQuery = params.Encode()
	req.Header.Set("User-Agent", "dealscout/1.0")

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("geocoding request failed: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read response: %w", err)
	}

	var result nominatimResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, 0, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(result) == 0 {
		return 0, 0, fmt.Errorf("%w: %s", ErrNoResults, address)
	}

	lat, err := strconv.ParseFloat(result[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude %q: %w", result[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(result[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude %q: %w", result[0].Lon, err)
	}

	g.logger.WithFields(logrus.Fields{
		"address":   address,
		"latitude":  lat,
		"longitude": lon,
	}).Info("Geocoded address")

	g.cacheLock.Lock()
	g.cache[key] = []float64{lat, lon}
	g.cacheLock.Unlock()

	return lat, lon, nil
}

// FillCoordinates geocodes every listing that has an address but no usable
// coordinates, updating the slice in place. Lookup failures are logged and
// leave the listing unchanged. It returns the number of listings filled.
func (g *Geocoder) FillCoordinates(listings []models.Listing) int {
	filled := 0
	for i := range listings {
		l := &listings[i]
		if l.Address == "" || l.Subject().HasCoordinates() {
			continue
		}

		lat, lon, err := g.Geocode(l.Address)
		if err != nil {
			g.logger.WithError(err).WithField("listing_id", l.ListingID).Warn("Failed to geocode listing")
			continue
		}
		l.Latitude = &lat
		l.Longitude = &lon
		filled++
	}

	if filled > 0 {
		if err := g.SaveCache(); err != nil {
			g.logger.WithError(err).Error("Failed to save geocode cache")
		}
	}
	return filled
}
