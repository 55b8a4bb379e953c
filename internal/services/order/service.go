package order

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tableside/internal/logger"
	"tableside/internal/models"
)

// PersistenceError means the order was not created; the submission can be
// retried safely because no partial state remains.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist order: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Notifier receives the denormalized view of a committed order. It must
// never report failure into the order flow; delivery problems are its own
// concern to log.
type Notifier interface {
	Notify(ctx context.Context, msg *models.OrderNotification, requestID string)
}

// Service implements the order submission pipeline: validate, persist
// atomically, respond, then fan out notifications after the commit.
type Service struct {
	store    Store
	notifier Notifier
	logger   *logger.Logger

	mu            sync.Mutex
	orderCounter  int
	lastOrderDate string
}

// NewService creates a new order service. notifier may be nil when no
// notification channel is configured.
func NewService(store Store, notifier Notifier, log *logger.Logger) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		logger:   log,
	}
}

// CreateOrder validates the request, persists the order in one transaction
// and returns the generated identity. Notification fan-out runs in the
// background after the commit; its outcome never changes the result.
func (s *Service) CreateOrder(ctx context.Context, req *models.CreateOrderRequest, requestID string) (*models.CreateOrderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkMenuItems(ctx, req); err != nil {
		return nil, err
	}

	number, err := s.nextOrderNumber(ctx)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}

	orderID, createdAt, err := s.store.InsertOrder(ctx, req, number)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}

	s.logger.Info("order_created", fmt.Sprintf("Order %s committed", number), requestID, map[string]interface{}{
		"order_id":    orderID,
		"order_number": number,
		"table_label": req.TableLabel,
		"total":       req.Total,
	})

	// The order is durable from here on. Fan-out is fire-and-forget: it
	// runs on its own context so a slow or failing channel cannot block
	// or fail the response.
	if s.notifier != nil {
		msg := models.NewOrderNotification(orderID, number, createdAt, req)
		go s.notifier.Notify(context.Background(), msg, requestID)
	}

	return &models.CreateOrderResponse{
		ID:        orderID,
		Number:    number,
		Status:    string(models.StatusReceived),
		Total:     req.Total,
		CreatedAt: createdAt,
	}, nil
}

// GetOrder returns a committed order with its lines.
func (s *Service) GetOrder(ctx context.Context, number string) (*models.Order, error) {
	return s.store.GetOrderByNumber(ctx, number)
}

// HealthCheck reports whether the persistence layer is reachable.
func (s *Service) HealthCheck(ctx context.Context) bool {
	return s.store.Ping(ctx) == nil
}

// checkMenuItems rejects orders referencing items the menu does not know.
// The menu is read-only from this pipeline, so this cannot race a write.
func (s *Service) checkMenuItems(ctx context.Context, req *models.CreateOrderRequest) error {
	ids := make([]int, 0, len(req.Lines))
	for _, line := range req.Lines {
		ids = append(ids, line.MenuItemID)
	}

	missing, err := s.store.MissingMenuItems(ctx, ids)
	if err != nil {
		return &PersistenceError{Err: err}
	}
	if len(missing) > 0 {
		return &models.ValidationError{
			Field:   "lines",
			Message: fmt.Sprintf("unknown menu items: %v", missing),
		}
	}
	return nil
}

// nextOrderNumber produces TBL_YYYYMMDD_NNN with a daily counter. The
// counter is recovered from the store after a restart and reset at
// midnight UTC. The recovery query is keyed by this clock, not the
// database's, so both sides agree on which day "today" is.
func (s *Service) nextOrderNumber(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	today := now.Format("20060102")
	if s.lastOrderDate != today {
		s.orderCounter = 0
		s.lastOrderDate = today
	}

	if s.orderCounter == 0 {
		count, err := s.store.CountOrdersOnDay(ctx, now.Format("2006-01-02"))
		if err != nil {
			return "", fmt.Errorf("failed to recover order counter: %w", err)
		}
		s.orderCounter = count
	}

	s.orderCounter++
	return models.GenerateOrderNumber(now, s.orderCounter), nil
}
