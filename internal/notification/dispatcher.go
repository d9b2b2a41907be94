package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sahu-SuMiT/WeNews/internal/logger"
	"github.com/sahu-SuMiT/WeNews/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey       = "notifications"
	failedQueueKey = "notifications:failed"
	maxTries       = 3
)

type Job struct {
	UserID  int       `json:"user_id"`
	Type    Type      `json:"type"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Data    Payload   `json:"data,omitempty"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

// Dispatcher decouples the request path from notification persistence.
// Producers LPush jobs onto a redis list; the worker BRPops them, writes
// the row and marks it sent. A job that fails three times lands on the
// failed list for manual inspection.
type Dispatcher struct {
	redis *redis.Client
	repo  Repository
}

func NewDispatcher(redisAddr string, repo Repository) *Dispatcher {
	return &Dispatcher{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
		repo: repo,
	}
}

// Enqueue queues a notification for delivery. Failures are returned, not
// fatal: callers on reward paths log and move on.
func (d *Dispatcher) Enqueue(ctx context.Context, userID int, notifType Type, title, message string, data Payload) error {
	job := Job{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
		Data:    data,
		Tries:   0,
		Created: time.Now(),
	}

	payload, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal notification job: %v", err)
		return err
	}

	if err := d.redis.LPush(ctx, queueKey, payload).Err(); err != nil {
		logger.Errorf("Failed to queue notification for user %d: %v", userID, err)
		return err
	}

	logger.Infof("Notification queued: %s for user %d", title, userID)
	return nil
}

func (d *Dispatcher) Start(ctx context.Context) {
	logger.Info("Notification dispatcher started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification dispatcher stopped")
			return
		default:
			d.processNext(ctx)
		}
	}
}

func (d *Dispatcher) processNext(ctx context.Context) {
	result, err := d.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad notification data: %v", err)
		return
	}

	job.Tries++
	if err := d.deliver(ctx, job); err != nil {
		logger.Errorf("Failed to deliver notification for user %d: %v", job.UserID, err)
		metrics.RecordNotification(string(job.Type), "error")

		if job.Tries < maxTries {
			time.Sleep(5 * time.Second)
			payload, _ := json.Marshal(job)
			d.redis.LPush(context.Background(), queueKey, payload)
			logger.Infof("Retrying notification for user %d (attempt %d)", job.UserID, job.Tries+1)
		} else {
			logger.Errorf("Notification for user %d failed after %d attempts", job.UserID, maxTries)
			d.saveFailed(job, err)
		}
		return
	}

	metrics.RecordNotification(string(job.Type), "delivered")
}

func (d *Dispatcher) deliver(ctx context.Context, job Job) error {
	n, err := d.repo.Create(ctx, &Notification{
		UserID:  job.UserID,
		Type:    job.Type,
		Title:   job.Title,
		Message: job.Message,
		Data:    job.Data,
	})
	if err != nil {
		return err
	}

	return d.repo.MarkSent(ctx, n.ID)
}

func (d *Dispatcher) saveFailed(job Job, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	payload, _ := json.Marshal(failed)
	d.redis.LPush(context.Background(), failedQueueKey, payload)
	logger.Errorf("Notification moved to failed queue: user %d", job.UserID)
}

// QueueLength feeds the queue-length gauge.
func (d *Dispatcher) QueueLength(ctx context.Context) int64 {
	length, _ := d.redis.LLen(ctx, queueKey).Result()
	metrics.NotificationQueueLength.Set(float64(length))
	return length
}

func (d *Dispatcher) Close() error {
	return d.redis.Close()
}

// Convenience producers for the event sources that notify.

func (d *Dispatcher) NotifyLevelUp(ctx context.Context, userID, level int) error {
	return d.Enqueue(ctx, userID, TypeReward,
		"Level Up!",
		"Congratulations, you reached a new level.",
		Payload{"level": level})
}

func (d *Dispatcher) NotifyDailyEarning(ctx context.Context, userID int, amount int64) error {
	return d.Enqueue(ctx, userID, TypeEarnings,
		"Daily Reward Credited",
		"Your daily login reward has been added to your wallet.",
		Payload{"amount": amount})
}

func (d *Dispatcher) NotifyWithdrawalDecision(ctx context.Context, userID int, status string, amount int64) error {
	return d.Enqueue(ctx, userID, TypeWithdrawal,
		"Withdrawal "+status,
		"Your withdrawal request has been "+status+".",
		Payload{"status": status, "amount": amount})
}

func (d *Dispatcher) NotifyInvestmentExpired(ctx context.Context, userID int, planName string) error {
	return d.Enqueue(ctx, userID, TypeSystem,
		"Investment Plan Expired",
		"Your "+planName+" investment plan has reached the end of its validity period.",
		Payload{"plan": planName})
}
