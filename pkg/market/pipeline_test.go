package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOrchestratorIsolatesFailures(t *testing.T) {
	symbols := []string{"600519", "300750", "601899", "000001", "000002", "000003"}
	provider := &symbolProvider{
		bars: map[string][]Bar{},
		errs: map[string]error{"000002": errors.New("provider down")},
	}
	for _, s := range symbols {
		if s != "000002" {
			provider.bars[s] = testBars(40, 100)
		}
	}

	sink := newMemorySink(len(symbols))
	orchestrator := NewOrchestrator(OrchestratorConfig{Symbols: symbols, Workers: 3},
		NewFetcher(provider, 2), sink)

	done := make(chan struct{})
	var summary Summary
	var results []Result
	go func() {
		summary, results = orchestrator.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("orchestrator did not join")
	}

	require.Equal(t, len(symbols), len(results))
	require.Equal(t, 5, summary.Succeeded)
	require.Equal(t, 1, summary.Failed)
	require.Equal(t, 0, summary.Empty)

	written := sink.collect()
	require.Len(t, written, 5)
	for _, series := range written {
		require.NotEqual(t, "000002", series.Symbol)
		require.NotEmpty(t, series.Bars)
	}
}

func TestOrchestratorReportsEmptySymbols(t *testing.T) {
	provider := &symbolProvider{bars: map[string][]Bar{
		"600519": testBars(40, 100),
		"999999": nil, // provider has no rows for this code
	}}
	sink := newMemorySink(2)
	orchestrator := NewOrchestrator(OrchestratorConfig{Symbols: []string{"600519", "999999"}},
		NewFetcher(provider, 3), sink)

	summary, results := orchestrator.Run(context.Background())
	require.Equal(t, 1, summary.Succeeded)
	require.Equal(t, 1, summary.Empty)
	require.Equal(t, 0, summary.Failed)

	byStatus := map[Status]string{}
	for _, res := range results {
		byStatus[res.Status] = res.Symbol
	}
	require.Equal(t, "999999", byStatus[StatusEmpty])
	require.Equal(t, "600519", byStatus[StatusOK])
}

func TestOrchestratorRecoversPanickingSink(t *testing.T) {
	provider := &symbolProvider{bars: map[string][]Bar{
		"600519": testBars(40, 100),
		"300750": testBars(40, 200),
	}}
	good := newMemorySink(2)
	panicky := SinkFunc(func(_ context.Context, series EnrichedSeries) error {
		if series.Symbol == "300750" {
			panic("sink exploded")
		}
		return good.WriteSeries(context.Background(), series)
	})

	orchestrator := NewOrchestrator(OrchestratorConfig{Symbols: []string{"600519", "300750"}},
		NewFetcher(provider, 3), panicky)

	summary, _ := orchestrator.Run(context.Background())
	require.Equal(t, 1, summary.Succeeded)
	require.Equal(t, 1, summary.Failed)

	written := good.collect()
	require.Len(t, written, 1)
	require.Equal(t, "600519", written[0].Symbol)
}

func TestOrchestratorSinkErrorFailsOnlyThatSymbol(t *testing.T) {
	provider := &symbolProvider{bars: map[string][]Bar{
		"600519": testBars(40, 100),
		"300750": testBars(40, 200),
	}}
	sink := SinkFunc(func(_ context.Context, series EnrichedSeries) error {
		if series.Symbol == "600519" {
			return errors.New("disk full")
		}
		return nil
	})

	orchestrator := NewOrchestrator(OrchestratorConfig{Symbols: []string{"600519", "300750"}},
		NewFetcher(provider, 3), sink)

	summary, results := orchestrator.Run(context.Background())
	require.Equal(t, 1, summary.Succeeded)
	require.Equal(t, 1, summary.Failed)
	for _, res := range results {
		if res.Symbol == "600519" {
			require.ErrorContains(t, res.Err, "disk full")
		}
	}
}

func TestSummaryString(t *testing.T) {
	s := Summary{Succeeded: 3, Empty: 1, Failed: 2}
	require.Equal(t, "3 succeeded, 1 empty, 2 failed", s.String())
}
