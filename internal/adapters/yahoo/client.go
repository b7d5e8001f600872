package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"argus/pkg/errors"
	"argus/pkg/logger"
)

// Client fetches quotes and daily history from the Yahoo Finance chart API.
// Callers pass symbols already translated to Yahoo's format; see the market
// data service for the broker-suffix normalization rules.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

// Config contains provider configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// NewClient creates a new Yahoo Finance client
func NewClient(cfg Config, log *logger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://query1.finance.yahoo.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		log: log.With("component", "yahoo_client"),
	}
}

// chartResponse mirrors the subset of the v8 chart payload we consume
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				FiftyTwoWeekHigh   float64 `json:"fiftyTwoWeekHigh"`
				FiftyTwoWeekLow    float64 `json:"fiftyTwoWeekLow"`
			} `json:"meta"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Quote returns the latest market price for a symbol
func (c *Client) Quote(ctx context.Context, symbol string) (float64, error) {
	resp, err := c.chart(ctx, symbol, "1d", "1d")
	if err != nil {
		return 0, err
	}

	price := resp.Chart.Result[0].Meta.RegularMarketPrice
	if price == 0 {
		// Fall back to the last daily close when the meta quote is missing
		closes := collectCloses(resp)
		if len(closes) == 0 {
			return 0, errors.Wrapf(errors.ErrPriceUnavailable, "no quote for %s", symbol)
		}
		price = closes[len(closes)-1]
	}

	return price, nil
}

// Closes returns up to a month of closing prices for a symbol at the given
// interval (e.g. "1d"). Null buckets from the API are dropped.
func (c *Client) Closes(ctx context.Context, symbol, interval string) ([]float64, error) {
	resp, err := c.chart(ctx, symbol, "1mo", interval)
	if err != nil {
		return nil, err
	}

	closes := collectCloses(resp)
	if len(closes) == 0 {
		return nil, errors.Wrapf(errors.ErrPriceUnavailable, "no close history for %s", symbol)
	}

	return closes, nil
}

// WeekRange52 returns the 52-week high and low for a symbol
func (c *Client) WeekRange52(ctx context.Context, symbol string) (high, low float64, err error) {
	resp, err := c.chart(ctx, symbol, "1d", "1d")
	if err != nil {
		return 0, 0, err
	}

	meta := resp.Chart.Result[0].Meta
	if meta.FiftyTwoWeekHigh == 0 || meta.FiftyTwoWeekLow == 0 {
		return 0, 0, errors.Wrapf(errors.ErrPriceUnavailable, "no 52-week range for %s", symbol)
	}

	return meta.FiftyTwoWeekHigh, meta.FiftyTwoWeekLow, nil
}

func (c *Client) chart(ctx context.Context, symbol, dataRange, interval string) (*chartResponse, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=%s",
		c.baseURL, url.PathEscape(symbol), url.QueryEscape(dataRange), url.QueryEscape(interval))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build chart request")
	}
	req.Header.Set("User-Agent", "argus/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrUnavailable, "chart request for %s: %v", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(errors.ErrUnavailable, "chart request for %s: status %d", symbol, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read chart response")
	}

	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.Wrap(err, "decode chart response")
	}

	if parsed.Chart.Error != nil {
		return nil, errors.Wrapf(errors.ErrPriceUnavailable, "%s: %s", symbol, parsed.Chart.Error.Description)
	}
	if len(parsed.Chart.Result) == 0 {
		return nil, errors.Wrapf(errors.ErrPriceUnavailable, "empty chart result for %s", symbol)
	}

	return &parsed, nil
}

func collectCloses(resp *chartResponse) []float64 {
	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil
	}

	var closes []float64
	for _, c := range result.Indicators.Quote[0].Close {
		if c != nil {
			closes = append(closes, *c)
		}
	}
	return closes
}
