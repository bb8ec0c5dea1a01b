// Package api exposes the reconciled swarm view to dashboard frontends.
package api

import (
	"net/url"

	"driftwatch/internal/domain/models"
	"driftwatch/internal/handler/ws"
	"driftwatch/internal/service/analytics"
	"driftwatch/internal/state"
	"driftwatch/internal/usecase"
	xhttp "driftwatch/pkg/http"
	"driftwatch/pkg/logger"
	"driftwatch/pkg/util"

	"github.com/labstack/echo/v4"
)

// DashboardHandler serves store snapshots, derived analytics and the
// command endpoints over Echo. All reads are taken from the store at
// request time; nothing is cached between requests.
type DashboardHandler struct {
	log        *logger.Logger
	store      *state.Store
	reconciler *usecase.Reconciler
	commander  *usecase.Commander
	hub        *ws.Hub

	swarmURL        string
	targetStocksPct float64
}

// NewDashboardHandler creates the dashboard handler. hub may be nil, in
// which case the /ws relay route is not registered.
func NewDashboardHandler(
	log *logger.Logger,
	store *state.Store,
	reconciler *usecase.Reconciler,
	commander *usecase.Commander,
	hub *ws.Hub,
	swarmURL string,
	targetStocksPct float64,
) *DashboardHandler {
	return &DashboardHandler{
		log:             log,
		store:           store,
		reconciler:      reconciler,
		commander:       commander,
		hub:             hub,
		swarmURL:        swarmURL,
		targetStocksPct: targetStocksPct,
	}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	g := e.Group("/api")
	g.GET("/state", h.State)
	g.GET("/connection", h.Connection)
	g.GET("/pheromones", h.Pheromones)
	g.GET("/pheromones/:name/history", h.History)
	g.GET("/portfolio", h.Portfolio)
	g.GET("/agents", h.Agents)
	g.GET("/events", h.Events)
	g.GET("/trades", h.Trades)
	g.GET("/analytics/drift", h.Drift)
	g.GET("/analytics/sparkline", h.Sparkline)
	g.GET("/analytics/gauge", h.Gauge)
	g.POST("/allocation", h.SetAllocation)
	g.POST("/reset", h.Reset)
	g.POST("/refresh", h.Refresh)

	if h.hub != nil {
		e.GET("/ws", func(c echo.Context) error {
			h.hub.ServeWS(c.Response(), c.Request())
			return nil
		})
	}
}

func (h *DashboardHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status":    "ok",
		"connected": h.reconciler.IsConnected(),
	})
}

// State returns the full store snapshot plus backend connectivity.
func (h *DashboardHandler) State(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"connected": h.reconciler.IsConnected(),
		"state":     h.store.Snapshot(),
	})
}

func (h *DashboardHandler) Connection(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"connected": h.reconciler.IsConnected(),
		"url":       h.swarmURL,
	})
}

func (h *DashboardHandler) Pheromones(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.store.Pheromones())
}

// History returns one pheromone's intensity window, oldest first.
func (h *DashboardHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	// Pheromone names contain spaces, so the path segment arrives escaped.
	if name, err := url.PathUnescape(req.Name); err == nil {
		req.Name = name
	}

	hist := h.store.History(req.Name)
	if hist == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no history for pheromone %q", req.Name))
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"name":    req.Name,
		"history": hist,
	})
}

func (h *DashboardHandler) Portfolio(c echo.Context) error {
	pf, ok := h.store.Portfolio()
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no portfolio received yet"))
	}
	return xhttp.SuccessResponse(c, pf)
}

// Agents returns every agent with its resolved activity: backend
// metrics when present, pheromone fallback otherwise.
func (h *DashboardHandler) Agents(c echo.Context) error {
	resolved := analytics.ResolveActivity(analytics.DefaultRoster, h.store.Agents(), h.store.Pheromones())
	return xhttp.ListResponse(c, resolved, int64(len(resolved)))
}

func (h *DashboardHandler) Events(c echo.Context) error {
	events := h.store.Events()
	return xhttp.ListResponse(c, events, int64(len(events)))
}

// Trades returns the trade log, optionally bounded to a time range.
// Range ends are inclusive; limit keeps the most recent entries.
func (h *DashboardHandler) Trades(c echo.Context) error {
	req := &models.TradesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	from, hasFrom := util.ParseTime(req.From)
	to, hasTo := util.ParseTime(req.To)

	all := h.store.Trades()
	trades := make([]models.TradeLogEntry, 0, len(all))
	for _, tr := range all {
		if hasFrom || hasTo {
			ts, ok := util.ParseTime(tr.Timestamp)
			if !ok {
				continue
			}
			if hasFrom && ts.Before(from) {
				continue
			}
			if hasTo && ts.After(to) {
				continue
			}
		}
		trades = append(trades, tr)
	}
	if len(trades) > req.Limit {
		trades = trades[len(trades)-req.Limit:]
	}
	return xhttp.ListResponse(c, trades, int64(len(trades)))
}

// Drift classifies how far the current allocation sits from target.
// The target defaults from configuration when the query omits it.
func (h *DashboardHandler) Drift(c echo.Context) error {
	req := &models.DriftRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	pf, ok := h.store.Portfolio()
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no portfolio received yet"))
	}
	return xhttp.SuccessResponse(c, analytics.NewDriftStatus(pf.StocksPct, h.target(req.TargetStocks)))
}

// Sparkline maps a pheromone's history window onto screen coordinates.
func (h *DashboardHandler) Sparkline(c echo.Context) error {
	req := &models.SparklineRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	series := h.store.History(req.Name)
	if series == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no history for pheromone %q", req.Name))
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"name":   req.Name,
		"width":  req.Width,
		"height": req.Height,
		"points": analytics.SparklinePoints(series, req.Width, req.Height),
	})
}

// Gauge lays out the allocation ring for the current portfolio.
func (h *DashboardHandler) Gauge(c echo.Context) error {
	req := &models.GaugeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	pf, ok := h.store.Portfolio()
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no portfolio received yet"))
	}
	return xhttp.SuccessResponse(c, analytics.Gauge(pf.StocksPct, pf.BondsPct, h.target(req.TargetStocks), req.Radius))
}

// SetAllocation forwards a retarget command upstream. The response only
// reports whether the frame left; state changes arrive as pushed frames.
func (h *DashboardHandler) SetAllocation(c echo.Context) error {
	req := &models.AllocationRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	sent := h.commander.SetAllocation(req.StocksPct, req.BondsPct)
	if !sent {
		h.log.Debug("allocation command dropped, backend disconnected")
	}
	return xhttp.AcceptedResponse(c, map[string]interface{}{"sent": sent})
}

func (h *DashboardHandler) Reset(c echo.Context) error {
	return xhttp.AcceptedResponse(c, map[string]interface{}{"sent": h.commander.Reset()})
}

// Refresh asks the backend to push a fresh full status.
func (h *DashboardHandler) Refresh(c echo.Context) error {
	return xhttp.AcceptedResponse(c, map[string]interface{}{"sent": h.commander.RequestStatus()})
}

func (h *DashboardHandler) target(override *float64) float64 {
	if override != nil {
		return *override
	}
	return h.targetStocksPct
}
