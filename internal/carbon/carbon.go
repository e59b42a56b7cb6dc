// Package carbon looks up live grid carbon intensity from Electricity Maps.
package carbon

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/schema"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// RequestTimeout bounds a single carbon intensity lookup.
const RequestTimeout = 5 * time.Second

const latestPath = "/v3/carbon-intensity/latest"

// defaultZone is used for regions without a zone of their own.
const defaultZone = "US"

var zones = map[string]string{
	"usa":           "US",
	"us":            "US",
	"north_america": "US",
	"europe":        "DE",
	"asia":          "IN-WB",
	"world":         "US",
}

// Zone maps a region to an Electricity Maps zone.
func Zone(region schema.Region) string {
	if z, ok := zones[strings.ToLower(string(region))]; ok {
		return z
	}
	return defaultZone
}

// intensityResponse is the part of the latest carbon intensity payload we read.
type intensityResponse struct {
	Zone            string  `json:"zone"`
	CarbonIntensity float64 `json:"carbonIntensity"`
}

// Client fetches live emission factors and caches them per zone.
type Client struct {
	client *resty.Client
	cache  *cache.Cache
	token  string
	logger logrus.FieldLogger
}

var _ contract.EmissionFactorSource = &Client{} // Compile-time check

// Config holds client configuration.
type Config struct {
	BaseURL string
	Token   string
	TTL     time.Duration
	Logger  logrus.FieldLogger
}

// NewClient creates a carbon intensity client.
func NewClient(cfg Config) *Client {
	if cfg.TTL <= 0 {
		cfg.TTL = contract.DefaultCarbonTTL
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = contract.DefaultCarbonURL
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(RequestTimeout).
		SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		client.SetHeader("auth-token", cfg.Token)
	}

	return &Client{
		client: client,
		cache:  cache.New(cfg.TTL, cfg.TTL*2),
		token:  cfg.Token,
		logger: cfg.Logger,
	}
}

// Factor returns the live carbon intensity of a region in g/kWh. It reports
// false, so that callers use the static factor, when no token is configured,
// the request fails, or the intensity is not positive.
func (c *Client) Factor(ctx context.Context, region schema.Region) (float64, bool) {
	if c.token == "" {
		return 0, false
	}
	zone := Zone(region)
	if v, found := c.cache.Get(zone); found {
		return v.(float64), true
	}

	intensity, err := c.fetch(ctx, zone)
	if err != nil {
		c.logger.WithError(err).WithField("zone", zone).Warn("Using static emission factor")
		return 0, false
	}
	c.cache.Set(zone, intensity, cache.DefaultExpiration)
	return intensity, true
}

func (c *Client) fetch(ctx context.Context, zone string) (float64, error) {
	var result intensityResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("zone", zone).
		SetResult(&result).
		Get(latestPath)
	if err != nil {
		return 0, fmt.Errorf("failed to get carbon intensity: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("carbon intensity API returned %d: %s", resp.StatusCode(), resp.String())
	}
	if result.CarbonIntensity <= 0 {
		return 0, fmt.Errorf("carbon intensity API returned no positive intensity for %s", zone)
	}
	return result.CarbonIntensity, nil
}
