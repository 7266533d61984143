package dashboard

import (
	_ "embed"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/rest"
	"github.com/zeromicro/go-zero/rest/httpx"

	"ashare-data/internal/svc"
)

//go:embed static/index.html
var indexPage []byte

const defaultLookback = 365 * 24 * time.Hour

// RegisterHandlers mounts the dashboard routes.
func RegisterHandlers(server *rest.Server, svcCtx *svc.ServiceContext) {
	repo := NewRepo(svcCtx)

	server.AddRoutes([]rest.Route{
		{
			Method:  http.MethodGet,
			Path:    "/",
			Handler: indexHandler,
		},
		{
			Method:  http.MethodGet,
			Path:    "/api/history",
			Handler: historyHandler(repo),
		},
	})
}

func indexHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexPage)
}

// historyHandler recomputes the full figure for every parameter change:
// symbol text, date range, and the indicator toggle set.
func historyHandler(repo *Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		query := r.URL.Query()

		symbol := strings.TrimSpace(query.Get("symbol"))
		if symbol == "" {
			httpx.ErrorCtx(ctx, w, fmt.Errorf("symbol is required"))
			return
		}

		end := time.Now()
		start := end.Add(-defaultLookback)
		var err error
		if raw := query.Get("start"); raw != "" {
			if start, err = time.Parse("2006-01-02", raw); err != nil {
				httpx.ErrorCtx(ctx, w, fmt.Errorf("invalid start date %q", raw))
				return
			}
		}
		if raw := query.Get("end"); raw != "" {
			if end, err = time.Parse("2006-01-02", raw); err != nil {
				httpx.ErrorCtx(ctx, w, fmt.Errorf("invalid end date %q", raw))
				return
			}
		}
		if end.Before(start) {
			httpx.ErrorCtx(ctx, w, fmt.Errorf("end date precedes start date"))
			return
		}

		indicators := parseIndicators(query.Get("indicators"))

		series, err := repo.History(ctx, symbol, start, end)
		if err != nil {
			httpx.ErrorCtx(ctx, w, err)
			return
		}

		httpx.OkJsonCtx(ctx, w, buildResponse(series, indicators))
	}
}

// parseIndicators reads the comma-joined toggle set; unknown names are
// ignored. The default matches the original dashboard: MACD only.
func parseIndicators(raw string) map[string]bool {
	toggles := map[string]bool{}
	if strings.TrimSpace(raw) == "" {
		toggles["MACD"] = true
		return toggles
	}
	for _, name := range strings.Split(raw, ",") {
		switch strings.ToUpper(strings.TrimSpace(name)) {
		case "MACD":
			toggles["MACD"] = true
		case "RSI":
			toggles["RSI"] = true
		case "BOLL":
			toggles["BOLL"] = true
		}
	}
	return toggles
}
