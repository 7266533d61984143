package eastmoney

import (
	"context"
	"net/http"
	"time"

	"ashare-data/pkg/market"
)

func init() {
	market.RegisterProvider("eastmoney", func(name string, cfg *market.ProviderConfig) (market.Provider, error) {
		opts := []Option{}
		if cfg.BaseURL != "" {
			opts = append(opts, WithBaseURL(cfg.BaseURL))
		}
		if cfg.HTTPTimeout > 0 {
			opts = append(opts, WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}))
		}
		if cfg.MaxRetries > 0 {
			opts = append(opts, WithMaxRetries(cfg.MaxRetries))
		}
		return &ProviderImpl{client: NewClient(opts...)}, nil
	})
}

// ProviderImpl adapts the Eastmoney client to the market.Provider
// interface.
type ProviderImpl struct {
	client *Client
}

// NewProvider wraps an existing client as a market.Provider.
func NewProvider(client *Client) *ProviderImpl {
	if client == nil {
		client = NewClient()
	}
	return &ProviderImpl{client: client}
}

// History implements market.Provider.
func (p *ProviderImpl) History(ctx context.Context, symbol string, start, end time.Time) ([]market.Bar, error) {
	return p.client.DailyHistory(ctx, symbol, start, end)
}
