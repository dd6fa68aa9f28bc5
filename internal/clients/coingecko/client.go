// Package coingecko provides a client for the CoinGecko API
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/vortexhq/vortex/internal/common"
	"github.com/vortexhq/vortex/internal/interfaces"
	"github.com/vortexhq/vortex/internal/models"
)

const (
	DefaultBaseURL    = "https://api.coingecko.com/api/v3"
	DefaultTimeout    = 30 * time.Second
	DefaultRateLimit  = 5 // requests per second; the free tier is strict
	DefaultVsCurrency = "usd"
	DefaultPerPage    = 30
)

// Client implements the MarketDataClient interface
type Client struct {
	baseURL    string
	vsCurrency string
	perPage    int
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithDefaults sets the default quote currency and page size
func WithDefaults(vsCurrency string, perPage int) ClientOption {
	return func(c *Client) {
		if vsCurrency != "" {
			c.vsCurrency = vsCurrency
		}
		if perPage > 0 {
			c.perPage = perPage
		}
	}
}

// NewClient creates a new CoinGecko client. The public API is
// unauthenticated; only client-side rate limiting applies.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		vsCurrency: DefaultVsCurrency,
		perPage:    DefaultPerPage,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("CoinGecko API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", c.baseURL+path).Msg("CoinGecko API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// marketCoinResponse mirrors one entry of /coins/markets
type marketCoinResponse struct {
	ID                       string  `json:"id"`
	Name                     string  `json:"name"`
	Symbol                   string  `json:"symbol"`
	Image                    string  `json:"image"`
	CurrentPrice             float64 `json:"current_price"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
}

// GetMarkets retrieves the top coins ordered by market cap
func (c *Client) GetMarkets(ctx context.Context, opts ...interfaces.MarketOption) ([]models.MarketCoin, error) {
	params := &interfaces.MarketParams{
		VsCurrency: c.vsCurrency,
		PerPage:    c.perPage,
		Page:       1,
	}
	for _, opt := range opts {
		opt(params)
	}

	urlParams := url.Values{}
	urlParams.Set("vs_currency", params.VsCurrency)
	urlParams.Set("order", "market_cap_desc")
	urlParams.Set("per_page", strconv.Itoa(params.PerPage))
	urlParams.Set("page", strconv.Itoa(params.Page))
	urlParams.Set("sparkline", "false")

	var coins []marketCoinResponse
	if err := c.get(ctx, "/coins/markets", urlParams, &coins); err != nil {
		return nil, err
	}

	result := make([]models.MarketCoin, len(coins))
	for i, coin := range coins {
		result[i] = models.MarketCoin{
			ID:                       coin.ID,
			Name:                     coin.Name,
			Symbol:                   coin.Symbol,
			Image:                    coin.Image,
			CurrentPrice:             coin.CurrentPrice,
			PriceChangePercentage24h: coin.PriceChangePercentage24h,
		}
	}
	return result, nil
}

// coinDetailResponse mirrors the nested /coins/{id} payload
type coinDetailResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Image  struct {
		Large string `json:"large"`
	} `json:"image"`
	Description struct {
		En string `json:"en"`
	} `json:"description"`
	MarketData struct {
		CurrentPrice map[string]float64 `json:"current_price"`
		MarketCap    map[string]float64 `json:"market_cap"`
		TotalVolume  map[string]float64 `json:"total_volume"`
	} `json:"market_data"`
}

// GetCoinDetail retrieves extended data for a single coin
func (c *Client) GetCoinDetail(ctx context.Context, coinID string) (*models.CoinDetail, error) {
	urlParams := url.Values{}
	urlParams.Set("localization", "false")
	urlParams.Set("tickers", "false")
	urlParams.Set("community_data", "false")
	urlParams.Set("developer_data", "false")

	var detail coinDetailResponse
	if err := c.get(ctx, "/coins/"+url.PathEscape(coinID), urlParams, &detail); err != nil {
		return nil, err
	}

	return &models.CoinDetail{
		ID:           detail.ID,
		Name:         detail.Name,
		Symbol:       detail.Symbol,
		Image:        detail.Image.Large,
		CurrentPrice: detail.MarketData.CurrentPrice[c.vsCurrency],
		MarketCap:    detail.MarketData.MarketCap[c.vsCurrency],
		TotalVolume:  detail.MarketData.TotalVolume[c.vsCurrency],
		Description:  detail.Description.En,
		FetchedAt:    time.Now(),
	}, nil
}

// Compile-time check
var _ interfaces.MarketDataClient = (*Client)(nil)
