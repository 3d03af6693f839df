package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/LV27VELASCO/ApiFamaYa/internal/infra/smm"
	pgrepo "github.com/LV27VELASCO/ApiFamaYa/internal/repo/postgres"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrOrderNotFound = errors.New("order not found")
)

type LedgerStore interface {
	ListBySession(ctx context.Context, sessionID string) ([]pgrepo.OrderRecord, error)
	FindByCode(ctx context.Context, codeOrder string) (pgrepo.OrderRecord, error)
}

type StatusGateway interface {
	OrderStatus(ctx context.Context, orderCode string) (smm.OrderStatus, error)
}

// ConsultResult is a stored order snapshot merged with the live upstream
// delivery state. Status fields are empty when the gateway is unreachable.
type ConsultResult struct {
	Record     pgrepo.OrderRecord
	Status     string
	Remains    string
	StartCount string
}

type Service struct {
	ledger  LedgerStore
	gateway StatusGateway
	log     *zap.Logger
}

func NewService(ledger LedgerStore, gateway StatusGateway, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		ledger:  ledger,
		gateway: gateway,
		log:     log,
	}
}

func (s *Service) BySession(ctx context.Context, sessionID string) ([]pgrepo.OrderRecord, error) {
	if s.ledger == nil {
		return nil, fmt.Errorf("order ledger is nil")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrValidation
	}

	records, err := s.ledger.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrOrderNotFound
	}

	return records, nil
}

func (s *Service) ConsultByCode(ctx context.Context, codeOrder string) (ConsultResult, error) {
	if s.ledger == nil || s.gateway == nil {
		return ConsultResult{}, fmt.Errorf("order lookup dependencies are not configured")
	}
	codeOrder = strings.TrimSpace(codeOrder)
	if codeOrder == "" {
		return ConsultResult{}, ErrValidation
	}

	record, err := s.ledger.FindByCode(ctx, codeOrder)
	if err != nil {
		if errors.Is(err, pgrepo.ErrOrderNotFound) {
			return ConsultResult{}, ErrOrderNotFound
		}
		return ConsultResult{}, err
	}

	result := ConsultResult{Record: record}

	status, err := s.gateway.OrderStatus(ctx, codeOrder)
	if err != nil {
		// The stored snapshot is still useful without live state.
		s.log.Warn("gateway status query failed",
			zap.String("code_order", codeOrder),
			zap.Error(err),
		)
		return result, nil
	}

	result.Status = status.Status
	result.Remains = status.Remains
	result.StartCount = status.StartCount

	return result, nil
}
