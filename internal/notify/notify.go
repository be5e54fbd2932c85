package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/doclink/doclink/internal/config"
	"github.com/doclink/doclink/internal/domain"
	"github.com/doclink/doclink/pkg/clients"
)

const (
	maxRetries    = 3
	retryInterval = time.Second * 1
)

var processingNotifications sync.Map

type Repo interface {
	Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	FindPending(ctx context.Context, limit uint32) ([]domain.Notification, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.NotificationStatus) error
}

type gatewayMessage struct {
	ID          string `json:"id"`
	RecipientID int    `json:"recipient_id"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	Type        string `json:"type"`
}

// Service queues notifications and delivers them to the push gateway in the
// background. Queueing is the only part callers wait on.
type Service struct {
	url            string
	repo           Repo
	client         clients.HTTPClientI
	limit          uint32
	workerPool     WorkerPoolI
	updateInterval time.Duration
}

func New(cfg *config.Config, repo Repo, client clients.HTTPClientI) *Service {
	return &Service{
		url:            cfg.NotifyAddress,
		repo:           repo,
		client:         client,
		limit:          1000,
		workerPool:     NewWorkerPool(10),
		updateInterval: time.Second * 5,
	}
}

// Notify appends a pending notification row. Delivery happens later and its
// failure never reaches the caller.
func (s *Service) Notify(ctx context.Context, recipientID int, title, message, notificationType string) error {
	_, err := s.repo.Create(ctx, &domain.Notification{
		RecipientID: recipientID,
		Title:       title,
		Message:     message,
		Type:        notificationType,
		Status:      domain.PendingNotification,
	})
	if err != nil {
		zap.L().Error("failed to queue notification", zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) Start(ctx context.Context) {
	zap.L().Info("Notification dispatcher started")
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping dispatcher")
			return
		case <-ticker.C:
			s.processPending(ctx)
		}
	}
}

func (s *Service) processPending(ctx context.Context) {
	notifications, err := s.repo.FindPending(ctx, atomic.LoadUint32(&s.limit))
	if err != nil {
		zap.L().Error("Failed to fetch pending notifications", zap.Error(err))
		return
	}

	var g errgroup.Group
	for _, notification := range notifications {
		notification := notification

		if _, loaded := processingNotifications.LoadOrStore(notification.ID, struct{}{}); loaded {
			continue
		}

		g.Go(func() error {
			err := s.workerPool.AddTask(ctx, func() error {
				defer processingNotifications.Delete(notification.ID)
				return s.deliver(ctx, notification)
			})
			if err != nil {
				processingNotifications.Delete(notification.ID)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("Error dispatching notifications", zap.Error(err))
	}
}

func (s *Service) deliver(ctx context.Context, notification domain.Notification) error {
	body, err := json.Marshal(gatewayMessage{
		ID:          notification.ID.String(),
		RecipientID: notification.RecipientID,
		Title:       notification.Title,
		Message:     notification.Message,
		Type:        notification.Type,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification %s: %w", notification.ID, err)
	}

	url := s.url + "/api/notifications"
	for attempt := 1; attempt <= maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			statusCode, _, respHeaders, err := s.client.Post(url, nil, body)
			if err != nil {
				if attempt < maxRetries {
					time.Sleep(retryInterval * time.Duration(attempt))
					continue
				}
				return s.markFailed(ctx, notification, fmt.Errorf("failed to deliver notification %s after %d retries: %w", notification.ID, maxRetries, err))
			}

			switch statusCode {
			case http.StatusTooManyRequests:
				s.waitRateLimit(notification, respHeaders, attempt)
				continue
			case http.StatusOK, http.StatusAccepted:
				return s.repo.UpdateStatus(ctx, notification.ID, domain.SentNotification)
			default:
				zap.L().Error("Unexpected status code from gateway", zap.Int("status", statusCode), zap.String("id", notification.ID.String()))
				if attempt < maxRetries {
					time.Sleep(retryInterval * time.Duration(attempt))
					continue
				}
				return s.markFailed(ctx, notification, errors.New("unexpected status code from gateway"))
			}
		}
	}
	return nil
}

func (s *Service) markFailed(ctx context.Context, notification domain.Notification, cause error) error {
	if err := s.repo.UpdateStatus(ctx, notification.ID, domain.FailedNotification); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

func (s *Service) waitRateLimit(notification domain.Notification, respHeaders http.Header, attempt int) {
	retryAfterHeader := respHeaders.Get("Retry-After")
	retryAfter := retryInterval * time.Duration(attempt)

	if retryAfterHeader != "" {
		if seconds, err := strconv.Atoi(retryAfterHeader); err == nil {
			retryAfter = time.Duration(seconds) * time.Second
		}
	}
	zap.L().Warn(
		"Rate limit detected, retrying",
		zap.String("id", notification.ID.String()),
		zap.Int("attempt", attempt),
		zap.Duration("retryAfter", retryAfter),
	)
	time.Sleep(retryAfter)
}
