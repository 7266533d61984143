package market

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
)

// DefaultWorkers is the fixed size of the batch worker pool.
const DefaultWorkers = 5

// Status classifies how one symbol's pipeline ended.
type Status string

const (
	StatusOK     Status = "ok"
	StatusEmpty  Status = "empty"
	StatusFailed Status = "failed"
)

// Result is the per-symbol outcome collected by the orchestrator. It
// replaces cross-goroutine exceptions with a plain value: either the
// row count of the produced series or a structured error.
type Result struct {
	Symbol string
	Status Status
	Rows   int
	Err    error
}

// Summary aggregates a batch run.
type Summary struct {
	Succeeded int
	Empty     int
	Failed    int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d succeeded, %d empty, %d failed", s.Succeeded, s.Empty, s.Failed)
}

// OrchestratorConfig carries everything a batch run needs. It is passed
// in at construction; the orchestrator keeps no ambient state.
type OrchestratorConfig struct {
	Symbols []string
	Workers int

	// Start/End bound the fetched history; zero values mean the full
	// available range.
	Start time.Time
	End   time.Time
}

// Orchestrator fans one fetch→clean→enrich→sink pipeline per symbol
// onto a fixed-size worker pool and joins all of them.
type Orchestrator struct {
	cfg     OrchestratorConfig
	fetcher *Fetcher
	sinks   []Sink
}

// NewOrchestrator wires a batch orchestrator. Worker counts below 1
// fall back to the default pool size of 5.
func NewOrchestrator(cfg OrchestratorConfig, fetcher *Fetcher, sinks ...Sink) *Orchestrator {
	if cfg.Workers < 1 {
		cfg.Workers = DefaultWorkers
	}
	return &Orchestrator{cfg: cfg, fetcher: fetcher, sinks: sinks}
}

// Run executes every symbol's pipeline and blocks until all of them
// finish. A failure anywhere in one symbol's pipeline is contained in
// that symbol's Result and never cancels or corrupts sibling work.
// Results arrive in completion order, not input order.
func (o *Orchestrator) Run(ctx context.Context) (Summary, []Result) {
	jobs := make(chan string)
	results := make(chan Result)

	var wg sync.WaitGroup
	for i := 0; i < o.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				results <- o.runOne(ctx, symbol)
			}
		}()
	}

	go func() {
		for _, symbol := range o.cfg.Symbols {
			jobs <- symbol
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	var summary Summary
	collected := make([]Result, 0, len(o.cfg.Symbols))
	for res := range results {
		switch res.Status {
		case StatusOK:
			summary.Succeeded++
			logx.WithContext(ctx).Infof("pipeline %s: done, %d rows", res.Symbol, res.Rows)
		case StatusEmpty:
			summary.Empty++
			logx.WithContext(ctx).Slowf("pipeline %s: no usable data", res.Symbol)
		case StatusFailed:
			summary.Failed++
			logx.WithContext(ctx).Errorf("pipeline %s: %v", res.Symbol, res.Err)
		}
		collected = append(collected, res)
	}
	return summary, collected
}

// runOne executes a single symbol's pipeline. Panics anywhere inside it
// are recovered here, at the orchestration boundary, and converted into
// a failed Result.
func (o *Orchestrator) runOne(ctx context.Context, symbol string) (res Result) {
	res = Result{Symbol: symbol}
	defer func() {
		if r := recover(); r != nil {
			res.Status = StatusFailed
			res.Err = fmt.Errorf("pipeline %s panicked: %v", symbol, r)
		}
	}()

	logx.WithContext(ctx).Infof("pipeline %s: processing", symbol)

	outcome := o.fetcher.FetchRange(ctx, symbol, o.cfg.Start, o.cfg.End)
	if outcome.Err != nil {
		res.Status = StatusFailed
		res.Err = outcome.Err
		return res
	}

	cleaned, ok := Clean(outcome)
	if !ok {
		res.Status = StatusEmpty
		return res
	}

	enriched := Enrich(cleaned)
	if enriched.Empty() {
		res.Status = StatusEmpty
		return res
	}

	for _, sink := range o.sinks {
		if err := sink.WriteSeries(ctx, enriched); err != nil {
			res.Status = StatusFailed
			res.Err = fmt.Errorf("sink %s: %w", symbol, err)
			return res
		}
	}

	res.Status = StatusOK
	res.Rows = len(enriched.Bars)
	return res
}
