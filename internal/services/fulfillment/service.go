package fulfillment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/LV27VELASCO/ApiFamaYa/internal/domain"
	pgrepo "github.com/LV27VELASCO/ApiFamaYa/internal/repo/postgres"
)

type Gateway interface {
	AddOrder(ctx context.Context, serviceCode, link string, quantity int) (string, error)
}

type LedgerStore interface {
	InsertSession(ctx context.Context, records []pgrepo.OrderRecord) error
	ExistsBySession(ctx context.Context, sessionID string) (bool, error)
}

// Service dispatches paid orders to the upstream gateway and records the
// outcome in the order ledger. It runs only behind a signature-verified
// payment confirmation.
type Service struct {
	gateway Gateway
	ledger  LedgerStore
	log     *zap.Logger
	now     func() time.Time
}

type DispatchResult struct {
	SessionID        string
	Dispatched       int
	Skipped          int
	Failed           int
	AlreadyProcessed bool
}

func NewService(gateway Gateway, ledger LedgerStore, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		gateway: gateway,
		ledger:  ledger,
		log:     log,
		now:     time.Now,
	}
}

// DispatchSession places one upstream order per payload entry, then writes
// the session's ledger rows in one transaction: the session is either fully
// recorded or not at all, and a failed write leaves it re-deliverable.
// Redelivery of an already-recorded session is a no-op. A failed gateway call
// still produces a ledger row with an empty order code; a slug outside the
// known service table produces neither a call nor a row.
func (s *Service) DispatchSession(ctx context.Context, sessionID string, orders []domain.OrderPayload) (DispatchResult, error) {
	if s.gateway == nil || s.ledger == nil {
		return DispatchResult{}, fmt.Errorf("fulfillment dependencies are not configured")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return DispatchResult{}, fmt.Errorf("session id is required")
	}

	result := DispatchResult{SessionID: sessionID}
	if len(orders) == 0 {
		return result, nil
	}

	exists, err := s.ledger.ExistsBySession(ctx, sessionID)
	if err != nil {
		return DispatchResult{}, err
	}
	if exists {
		s.log.Info("webhook redelivery ignored", zap.String("session_id", sessionID))
		result.AlreadyProcessed = true
		return result, nil
	}

	now := s.now().UTC()
	records := make([]pgrepo.OrderRecord, 0, len(orders))
	for _, order := range orders {
		code, ok := ServiceCode(order.Slug)
		if !ok {
			s.log.Warn("order slug matches no known service",
				zap.String("session_id", sessionID),
				zap.String("slug", order.Slug),
			)
			result.Skipped++
			continue
		}

		orderID, err := s.gateway.AddOrder(ctx, code, order.URL, order.Quantity)
		if err != nil {
			// Fail open: the row is still written so the sale stays
			// visible, with an empty code marking the failed dispatch.
			s.log.Warn("gateway order placement failed",
				zap.String("session_id", sessionID),
				zap.String("slug", order.Slug),
				zap.String("service_code", code),
				zap.Error(err),
			)
			orderID = ""
			result.Failed++
		} else {
			result.Dispatched++
		}

		records = append(records, pgrepo.OrderRecord{
			SessionID: sessionID,
			CodeOrder: orderID,
			Slug:      order.Slug,
			URL:       order.URL,
			Quantity:  order.Quantity,
			Price:     order.Price,
			CreatedAt: now,
		})
	}

	if err := s.ledger.InsertSession(ctx, records); err != nil {
		return DispatchResult{}, fmt.Errorf("record orders for session %s: %w", sessionID, err)
	}

	s.log.Info("session dispatched",
		zap.String("session_id", sessionID),
		zap.Int("dispatched", result.Dispatched),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)

	return result, nil
}
