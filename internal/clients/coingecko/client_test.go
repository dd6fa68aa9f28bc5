package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vortexhq/vortex/internal/interfaces"
)

func TestGetMarkets(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/coins/markets", r.URL.Path)
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":"bitcoin","name":"Bitcoin","symbol":"btc","image":"https://img/btc.png","current_price":60123.45,"price_change_percentage_24h":-1.2},
			{"id":"ethereum","name":"Ethereum","symbol":"eth","image":"https://img/eth.png","current_price":3001.5,"price_change_percentage_24h":2.8}
		]`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	coins, err := client.GetMarkets(context.Background())
	require.NoError(t, err)
	require.Len(t, coins, 2)

	assert.Equal(t, "bitcoin", coins[0].ID)
	assert.Equal(t, 60123.45, coins[0].CurrentPrice)
	assert.Equal(t, -1.2, coins[0].PriceChangePercentage24h)
	assert.Equal(t, "eth", coins[1].Symbol)

	assert.Contains(t, gotQuery, "vs_currency=usd")
	assert.Contains(t, gotQuery, "order=market_cap_desc")
	assert.Contains(t, gotQuery, "per_page=30")
	assert.Contains(t, gotQuery, "page=1")
	assert.Contains(t, gotQuery, "sparkline=false")
}

func TestGetMarketsOptionsOverride(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "aud", r.URL.Query().Get("vs_currency"))
		assert.Equal(t, "10", r.URL.Query().Get("per_page"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	coins, err := client.GetMarkets(context.Background(),
		interfaces.WithVsCurrency("aud"), interfaces.WithPerPage(10), interfaces.WithPage(2))
	require.NoError(t, err)
	assert.Empty(t, coins)
}

func TestGetMarketsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"status":{"error_message":"rate limited"}}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	_, err := client.GetMarkets(context.Background())
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok, "expected *APIError, got %T", err)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "/coins/markets", apiErr.Endpoint)
}

func TestGetCoinDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/coins/bitcoin", r.URL.Path)
		assert.Equal(t, "false", r.URL.Query().Get("localization"))
		w.Write([]byte(`{
			"id":"bitcoin","name":"Bitcoin","symbol":"btc",
			"image":{"large":"https://img/btc-large.png"},
			"description":{"en":"The first cryptocurrency."},
			"market_data":{
				"current_price":{"usd":60123.45,"aud":92000},
				"market_cap":{"usd":1180000000000},
				"total_volume":{"usd":35000000000}
			}
		}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	detail, err := client.GetCoinDetail(context.Background(), "bitcoin")
	require.NoError(t, err)
	assert.Equal(t, "bitcoin", detail.ID)
	assert.Equal(t, "https://img/btc-large.png", detail.Image)
	assert.Equal(t, 60123.45, detail.CurrentPrice)
	assert.Equal(t, 1.18e12, detail.MarketCap)
	assert.Equal(t, 3.5e10, detail.TotalVolume)
	assert.Equal(t, "The first cryptocurrency.", detail.Description)
	assert.False(t, detail.FetchedAt.IsZero())
}

func TestGetCoinDetailNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"coin not found"}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	_, err := client.GetCoinDetail(context.Background(), "no-such-coin")
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}
