package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"equipment-logbook/internal/lending"
)

var (
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// LogEntries mirrors the latest snapshot, by status.
	LogEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "logbook_entries",
			Help: "Log entries in the latest snapshot by status",
		},
		[]string{"status"},
	)

	OverdueItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "logbook_overdue_items",
		Help: "Borrowed entries whose return date has passed",
	})

	EquipmentTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "logbook_equipment_total",
		Help: "Items in the equipment catalog",
	})

	Mutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logbook_mutations_total",
			Help: "Confirmed logbook mutations by operation and result",
		},
		[]string{"op", "result"},
	)

	NotificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "logbook_notification_failures_total",
		Help: "Request notifications that could not be delivered",
	})
)

// ObserveDashboard publishes the aggregate of the latest snapshot.
func ObserveDashboard(d lending.Dashboard) {
	LogEntries.WithLabelValues(string(lending.StatusBorrowed)).Set(float64(d.ItemsOnLoan))
	LogEntries.WithLabelValues(string(lending.StatusPending)).Set(float64(d.PendingRequests))
	OverdueItems.Set(float64(d.OverdueItems))
	EquipmentTotal.Set(float64(d.TotalEquipment))
}

// RecordMutation counts one mutation; err == nil counts as "ok".
func RecordMutation(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	Mutations.WithLabelValues(op, result).Inc()
}

// Middleware records duration and count per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "/metrics" {
			return
		}
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
