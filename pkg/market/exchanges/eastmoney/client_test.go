package eastmoney

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func sampleResponse(klines []string) klineResponse {
	return klineResponse{
		RC: 0,
		Data: &klineData{
			Code:   "600519",
			Market: 1,
			Name:   "贵州茅台",
			Klines: klines,
		},
	}
}

func newKlineServer(t *testing.T, klines []string) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, klinePath, r.URL.Path)
		require.Equal(t, "101", r.URL.Query().Get("klt"))
		require.Equal(t, "2", r.URL.Query().Get("fqt"))
		require.NoError(t, json.NewEncoder(w).Encode(sampleResponse(klines)))
	}))
	client := NewClient(WithBaseURL(server.URL), WithMaxRetries(0))
	return server, client
}

func TestDailyHistoryDecodesLocalizedRows(t *testing.T) {
	// Upstream order is date, open, close, high, low, volume, amount.
	server, client := newKlineServer(t, []string{
		"2024-01-02,1690.00,1685.01,1702.99,1680.00,28731,4853619200.00",
		"2024-01-03,1685.00,1694.00,1696.88,1677.50,21098,3562800128.00",
	})
	defer server.Close()

	bars, err := client.DailyHistory(context.Background(), "600519", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, bars, 2)

	first := bars[0]
	require.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), first.Date)
	require.InDelta(t, 1690.00, first.Open, 1e-9)
	require.InDelta(t, 1685.01, first.Close, 1e-9)
	require.InDelta(t, 1702.99, first.High, 1e-9)
	require.InDelta(t, 1680.00, first.Low, 1e-9)
	require.Equal(t, int64(28731), first.Volume)
}

func TestDailyHistoryEmptyKlines(t *testing.T) {
	server, client := newKlineServer(t, nil)
	defer server.Close()

	bars, err := client.DailyHistory(context.Background(), "600519", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Empty(t, bars)
}

func TestDailyHistoryUnknownSymbol(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"rc":0,"data":null}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithMaxRetries(0))
	_, err := client.DailyHistory(context.Background(), "999999", time.Time{}, time.Time{})
	require.ErrorIs(t, err, ErrSymbolNotFound)
}

func TestDailyHistoryDateBounds(t *testing.T) {
	var gotBeg, gotEnd string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBeg = r.URL.Query().Get("beg")
		gotEnd = r.URL.Query().Get("end")
		require.NoError(t, json.NewEncoder(w).Encode(sampleResponse(nil)))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithMaxRetries(0))
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	_, err := client.DailyHistory(context.Background(), "600519", start, end)
	require.NoError(t, err)
	require.Equal(t, "20200101", gotBeg)
	require.Equal(t, "20240630", gotEnd)
}

func TestDoRequestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(sampleResponse([]string{
			"2024-01-02,10.0,10.5,10.8,9.9,1000,10500.0",
		}))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithMaxRetries(2))
	bars, err := client.DailyHistory(context.Background(), "000001", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, bars, 1)
	require.Equal(t, int32(3), calls.Load())
}

func TestDailyHistoryMalformedRow(t *testing.T) {
	server, client := newKlineServer(t, []string{"garbage"})
	defer server.Close()

	_, err := client.DailyHistory(context.Background(), "600519", time.Time{}, time.Time{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "malformed kline row")
}

func TestSecIDFor(t *testing.T) {
	require.Equal(t, "1.600519", secIDFor("600519"))
	require.Equal(t, "0.300750", secIDFor("300750"))
	require.Equal(t, "0.000001", secIDFor("000001"))
	require.Equal(t, "1.510300", secIDFor("510300"))
}
