package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wenews_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wenews_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	RewardClaimsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wenews_reward_claims_total",
			Help: "Total number of reward claims",
		},
		[]string{"source", "status"},
	)

	LevelUpsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wenews_level_ups_total",
			Help: "Total number of user level ups",
		},
	)

	WithdrawalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wenews_withdrawals_total",
			Help: "Total number of withdrawal requests by status",
		},
		[]string{"status"},
	)

	InvestmentPurchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wenews_investment_purchases_total",
			Help: "Total number of investment plan purchases",
		},
		[]string{"plan"},
	)

	ActiveInvestments = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "wenews_active_investments",
			Help: "Number of active investments",
		},
		[]string{"plan"},
	)

	NotificationsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wenews_notifications_sent_total",
			Help: "Total number of notifications dispatched",
		},
		[]string{"type", "status"},
	)

	NotificationQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wenews_notification_queue_length",
			Help: "Current length of the notification queue",
		},
	)

	WalletBalance = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "wenews_wallet_balance",
			Help: "Current wallet balance in currency units",
		},
		[]string{"user_id"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordRewardClaim(source, status string) {
	RewardClaimsTotal.WithLabelValues(source, status).Inc()
}

func RecordLevelUp() {
	LevelUpsTotal.Inc()
}

func RecordWithdrawal(status string) {
	WithdrawalsTotal.WithLabelValues(status).Inc()
}

func RecordInvestmentPurchase(plan string) {
	InvestmentPurchasesTotal.WithLabelValues(plan).Inc()
}

func RecordNotification(notifType, status string) {
	NotificationsSentTotal.WithLabelValues(notifType, status).Inc()
}
