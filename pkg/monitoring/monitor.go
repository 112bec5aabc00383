package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 15, 30},
		},
		[]string{"method", "endpoint"},
	)

	QuizAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_attempts_total",
			Help: "Scored quiz submissions by result",
		},
		[]string{"result"},
	)

	QuizGenerationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_generation_failures_total",
			Help: "Quiz generation failures by reason",
		},
		[]string{"reason"},
	)

	CooldownBlocks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_cooldown_blocks_total",
			Help: "Quiz starts rejected by the cooldown window",
		},
	)

	RewardsGranted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rewards_granted_total",
			Help: "Rewards written to the ledger",
		},
	)

	RewardMinutesGranted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reward_minutes_granted_total",
			Help: "Reward minutes written to the ledger by this process",
		},
	)

	RewardLedgerMinutes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "reward_ledger_minutes",
			Help: "Sum of all reward minutes in the ledger",
		},
	)

	DegradedReads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_degraded_reads_total",
			Help: "Read operations that fell back to a safe default after a storage error",
		},
		[]string{"operation"},
	)

	RateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Requests rejected by a rate limiter",
		},
		[]string{"scope"},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			QuizAttempts,
			QuizGenerationFailures,
			CooldownBlocks,
			RewardsGranted,
			RewardMinutesGranted,
			RewardLedgerMinutes,
			DegradedReads,
			RateLimited,
		)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
