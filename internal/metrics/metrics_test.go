package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	// Сбрасываем метрики перед тестом
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("GET", "/api/wallet/balance", "200", 0.5)

	count := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/wallet/balance", "200"))
	assert.Equal(t, float64(1), count)
}

func TestRecordHTTPRequestMultiple(t *testing.T) {
	HTTPRequestsTotal.Reset()

	RecordHTTPRequest("POST", "/api/auth/login", "200", 0.1)
	RecordHTTPRequest("POST", "/api/auth/login", "200", 0.2)
	RecordHTTPRequest("POST", "/api/auth/login", "401", 0.05)

	successCount := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/api/auth/login", "200"))
	failCount := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/api/auth/login", "401"))

	assert.Equal(t, float64(2), successCount)
	assert.Equal(t, float64(1), failCount)
}

func TestRecordRewardClaim(t *testing.T) {
	RewardClaimsTotal.Reset()

	RecordRewardClaim("daily_login", "success")
	RecordRewardClaim("daily_login", "already_claimed")
	RecordRewardClaim("label", "success")

	success := testutil.ToFloat64(RewardClaimsTotal.WithLabelValues("daily_login", "success"))
	dup := testutil.ToFloat64(RewardClaimsTotal.WithLabelValues("daily_login", "already_claimed"))
	label := testutil.ToFloat64(RewardClaimsTotal.WithLabelValues("label", "success"))

	assert.Equal(t, float64(1), success)
	assert.Equal(t, float64(1), dup)
	assert.Equal(t, float64(1), label)
}

func TestRecordLevelUp(t *testing.T) {
	// Создаем новый счетчик для теста
	testCounter := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wenews_level_ups_total_test",
			Help: "Total number of user level ups",
		},
	)

	oldCounter := LevelUpsTotal
	LevelUpsTotal = testCounter
	defer func() { LevelUpsTotal = oldCounter }()

	RecordLevelUp()
	RecordLevelUp()

	count := testutil.ToFloat64(testCounter)
	assert.Equal(t, float64(2), count)
}

func TestRecordWithdrawal(t *testing.T) {
	WithdrawalsTotal.Reset()

	RecordWithdrawal("pending")
	RecordWithdrawal("approved")
	RecordWithdrawal("approved")

	pending := testutil.ToFloat64(WithdrawalsTotal.WithLabelValues("pending"))
	approved := testutil.ToFloat64(WithdrawalsTotal.WithLabelValues("approved"))

	assert.Equal(t, float64(1), pending)
	assert.Equal(t, float64(2), approved)
}

func TestRecordInvestmentPurchase(t *testing.T) {
	InvestmentPurchasesTotal.Reset()

	RecordInvestmentPurchase("gold")
	RecordInvestmentPurchase("gold")
	RecordInvestmentPurchase("bass")

	gold := testutil.ToFloat64(InvestmentPurchasesTotal.WithLabelValues("gold"))
	bass := testutil.ToFloat64(InvestmentPurchasesTotal.WithLabelValues("bass"))

	assert.Equal(t, float64(2), gold)
	assert.Equal(t, float64(1), bass)
}

func TestRecordNotification(t *testing.T) {
	NotificationsSentTotal.Reset()

	RecordNotification("earnings", "success")
	RecordNotification("earnings", "failed")
	RecordNotification("withdrawal", "success")

	sent := testutil.ToFloat64(NotificationsSentTotal.WithLabelValues("earnings", "success"))
	failed := testutil.ToFloat64(NotificationsSentTotal.WithLabelValues("earnings", "failed"))
	withdrawal := testutil.ToFloat64(NotificationsSentTotal.WithLabelValues("withdrawal", "success"))

	assert.Equal(t, float64(1), sent)
	assert.Equal(t, float64(1), failed)
	assert.Equal(t, float64(1), withdrawal)
}

func TestNotificationQueueLength(t *testing.T) {
	NotificationQueueLength.Set(10)
	assert.Equal(t, float64(10), testutil.ToFloat64(NotificationQueueLength))

	NotificationQueueLength.Set(0)
	assert.Equal(t, float64(0), testutil.ToFloat64(NotificationQueueLength))
}

func TestWalletBalance(t *testing.T) {
	WalletBalance.Reset()

	WalletBalance.WithLabelValues("42").Set(5000)
	assert.Equal(t, float64(5000), testutil.ToFloat64(WalletBalance.WithLabelValues("42")))

	// Обновляем баланс
	WalletBalance.WithLabelValues("42").Set(7500)
	assert.Equal(t, float64(7500), testutil.ToFloat64(WalletBalance.WithLabelValues("42")))
}

func TestActiveInvestments(t *testing.T) {
	ActiveInvestments.Reset()

	ActiveInvestments.WithLabelValues("silver").Set(100)
	ActiveInvestments.WithLabelValues("diamond").Set(50)

	assert.Equal(t, float64(100), testutil.ToFloat64(ActiveInvestments.WithLabelValues("silver")))
	assert.Equal(t, float64(50), testutil.ToFloat64(ActiveInvestments.WithLabelValues("diamond")))
}
