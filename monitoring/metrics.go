package monitoring

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tradeOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_trades_total",
			Help: "Total buy/sell operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	authAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total authentication attempts by outcome",
		},
		[]string{"kind", "outcome"},
	)

	availableTickets = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tickets_available_total",
			Help: "Currently unowned tickets per category",
		},
		[]string{"category_id"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "request_duration_seconds",
			Help:    "Handler latency",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"route"},
	)
)

// TrackTrade records a buy/sell outcome: success, rejected, or
// inconsistent (budget step failed after the ticket step).
func TrackTrade(operation, outcome string) {
	tradeOperations.WithLabelValues(operation, outcome).Inc()
}

// TrackAuth records a login/token-check outcome per account kind.
func TrackAuth(kind, outcome string) {
	authAttempts.WithLabelValues(kind, outcome).Inc()
}

// TrackRequest records handler latency for a route.
func TrackRequest(route string, duration time.Duration) {
	requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RouteLabel picks a bounded label for the latency histogram: the
// matched route pattern (placeholders intact, so record ids never
// become label values), falling back to the method when no route
// matched.
func RouteLabel(pattern, method string) string {
	if pattern != "" {
		return pattern
	}
	return method
}

// Monitor periodically samples inventory levels from storage.
type Monitor struct {
	app core.App
}

func NewMonitor(app core.App) *Monitor {
	return &Monitor{app: app}
}

// Run samples until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.collectInventory(ctx)
		}
	}
}

func (m *Monitor) collectInventory(ctx context.Context) {
	var rows []dbx.NullStringMap
	err := m.app.DB().NewQuery(
		"SELECT category, COUNT(*) AS free FROM tickets WHERE owner = '' OR owner IS NULL GROUP BY category",
	).WithContext(ctx).All(&rows)
	if err != nil {
		slog.Error("inventory metrics collection failed", "error", err)
		return
	}

	availableTickets.Reset()
	for _, row := range rows {
		categoryID := row["category"].String
		if categoryID == "" {
			continue
		}
		if free, err := strconv.Atoi(row["free"].String); err == nil {
			availableTickets.WithLabelValues(categoryID).Set(float64(free))
		}
	}
}
