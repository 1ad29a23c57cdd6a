package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"flightchat/metrics"
)

// ─── Errors ───────────────────────────────────────────────────────────────────

var (
	// ErrInvalidQuery means the caller left out a required field. No request
	// was sent.
	ErrInvalidQuery = errors.New("invalid flight query")
	// ErrAirportNotFound means the provider answered but had no match.
	ErrAirportNotFound = errors.New("airport not found")
	// ErrProviderUnavailable covers transport failures, non-2xx statuses and
	// responses that do not have the expected shape.
	ErrProviderUnavailable = errors.New("provider unavailable")
)

// ─── Types ────────────────────────────────────────────────────────────────────

type AirportRecord struct {
	Code     string `json:"code"`
	EntityID string `json:"entityId"`
	Country  string `json:"country"`
	Name     string `json:"name"`
}

type AirportPair struct {
	Origin      AirportRecord `json:"origin"`
	Destination AirportRecord `json:"destination"`
}

// Defaults applied to optional FlightQuery fields.
const (
	DefaultCurrency    = "USD"
	DefaultMarket      = "en-US"
	DefaultCountryCode = "US"

	cabinClass = "economy"
	adults     = "1"
)

type FlightQuery struct {
	OriginCode          string
	DestinationCode     string
	OriginEntityID      string
	DestinationEntityID string
	Date                string
	Currency            string
	Market              string
	CountryCode         string
}

// Validate checks the fields the provider cannot do without.
func (q FlightQuery) Validate() error {
	if q.OriginCode == "" || q.DestinationCode == "" || q.Date == "" ||
		q.OriginEntityID == "" || q.DestinationEntityID == "" {
		return fmt.Errorf("%w: origin, destination, entity ids and date are required", ErrInvalidQuery)
	}
	return nil
}

func (q FlightQuery) withDefaults() FlightQuery {
	if q.Currency == "" {
		q.Currency = DefaultCurrency
	}
	if q.Market == "" {
		q.Market = DefaultMarket
	}
	if q.CountryCode == "" {
		q.CountryCode = DefaultCountryCode
	}
	return q
}

// ─── Client ───────────────────────────────────────────────────────────────────

const providerName = "skyscrapper"

type SkyScrapperConfig struct {
	BaseURL string
	APIKey  string
	APIHost string
	Locale  string
	Timeout time.Duration
}

// SkyScrapper talks to the Sky Scrapper flight-data API on RapidAPI.
type SkyScrapper struct {
	baseURL    string
	apiKey     string
	apiHost    string
	locale     string
	httpClient *http.Client
	metrics    *metrics.Metrics
	log        *slog.Logger
}

func NewSkyScrapper(cfg SkyScrapperConfig, m *metrics.Metrics, log *slog.Logger) *SkyScrapper {
	locale := cfg.Locale
	if locale == "" {
		locale = DefaultMarket
	}
	return &SkyScrapper{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		apiHost:    cfg.APIHost,
		locale:     locale,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		metrics:    m,
		log:        log,
	}
}

func (c *SkyScrapper) doRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", c.apiHost)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrProviderUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrProviderUnavailable, resp.StatusCode, truncate(body, 200))
	}
	return body, nil
}

// ─── Airport Search ───────────────────────────────────────────────────────────

type airportSearchResponse struct {
	Data []struct {
		SkyID        *string `json:"skyId"`
		EntityID     *string `json:"entityId"`
		Presentation *struct {
			Title    *string `json:"title"`
			Subtitle *string `json:"subtitle"`
		} `json:"presentation"`
	} `json:"data"`
}

// SearchAirport looks a city up and keeps the provider's first match.
func (c *SkyScrapper) SearchAirport(ctx context.Context, city string) (AirportRecord, error) {
	started := time.Now()
	c.log.DebugContext(ctx, "Fetching airport code", slog.String("city", city))

	record, err := c.searchAirport(ctx, city)

	outcome := metrics.OutcomeOK
	switch {
	case errors.Is(err, ErrAirportNotFound):
		outcome = metrics.OutcomeNotFound
	case err != nil:
		outcome = metrics.OutcomeError
	}
	c.metrics.ObserveProvider(providerName, "searchAirport", outcome, started)

	if err != nil {
		c.log.WarnContext(ctx, "Airport lookup failed", slog.String("city", city), slog.Any("error", err))
		return AirportRecord{}, err
	}
	return record, nil
}

func (c *SkyScrapper) searchAirport(ctx context.Context, city string) (AirportRecord, error) {
	params := url.Values{}
	params.Set("query", city)
	params.Set("locale", c.locale)

	body, err := c.doRequest(ctx, "/api/v1/flights/searchAirport", params)
	if err != nil {
		return AirportRecord{}, err
	}

	var result airportSearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return AirportRecord{}, fmt.Errorf("%w: decoding airport search: %v", ErrProviderUnavailable, err)
	}
	if len(result.Data) == 0 {
		return AirportRecord{}, fmt.Errorf("%w: %q", ErrAirportNotFound, city)
	}

	first := result.Data[0]
	p := first.Presentation
	if p == nil || p.Title == nil || p.Subtitle == nil {
		return AirportRecord{}, fmt.Errorf("%w: airport result for %q has no presentation", ErrProviderUnavailable, city)
	}

	return AirportRecord{
		Code:     valueOr(first.SkyID, "N/A"),
		EntityID: valueOr(first.EntityID, "N/A"),
		Country:  *p.Subtitle,
		Name:     *p.Title,
	}, nil
}

// ResolveAirports looks both cities up, one after the other. Both must
// resolve; the first failure is returned.
func (c *SkyScrapper) ResolveAirports(ctx context.Context, departureCity, destinationCity string) (AirportPair, error) {
	origin, err := c.SearchAirport(ctx, departureCity)
	if err != nil {
		return AirportPair{}, fmt.Errorf("resolving departure: %w", err)
	}
	destination, err := c.SearchAirport(ctx, destinationCity)
	if err != nil {
		return AirportPair{}, fmt.Errorf("resolving destination: %w", err)
	}
	return AirportPair{Origin: origin, Destination: destination}, nil
}

// ─── Flight Search ────────────────────────────────────────────────────────────

// SearchFlights forwards q to the provider and returns its JSON untouched.
func (c *SkyScrapper) SearchFlights(ctx context.Context, q FlightQuery) (json.RawMessage, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	q = q.withDefaults()

	params := url.Values{}
	params.Set("originSkyId", q.OriginCode)
	params.Set("destinationSkyId", q.DestinationCode)
	params.Set("originEntityId", q.OriginEntityID)
	params.Set("destinationEntityId", q.DestinationEntityID)
	params.Set("date", q.Date)
	params.Set("currency", q.Currency)
	params.Set("market", q.Market)
	params.Set("countryCode", q.CountryCode)
	params.Set("cabinClass", cabinClass)
	params.Set("adults", adults)

	started := time.Now()
	body, err := c.doRequest(ctx, "/api/v1/flights/searchFlights", params)
	if err == nil && !json.Valid(body) {
		err = fmt.Errorf("%w: flight search returned invalid JSON", ErrProviderUnavailable)
	}

	if err != nil {
		c.metrics.ObserveProvider(providerName, "searchFlights", metrics.OutcomeError, started)
		c.log.WarnContext(ctx, "Flight search failed",
			slog.String("origin", q.OriginCode),
			slog.String("destination", q.DestinationCode),
			slog.Any("error", err),
		)
		return nil, err
	}

	c.metrics.ObserveProvider(providerName, "searchFlights", metrics.OutcomeOK, started)
	return json.RawMessage(body), nil
}

// ─── Helpers ──────────────────────────────────────────────────────────────────

func valueOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
