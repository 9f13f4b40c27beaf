package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"pos-engine/internal/cart"
	"pos-engine/internal/domain"
	"pos-engine/internal/receipt"
	receiptrepo "pos-engine/internal/repository/receipt"
)

// ErrArchiveDisabled is returned by Get when no receipt archive is configured.
var ErrArchiveDisabled = errors.New("receipt archive not configured")

const maxSaveAttempts = 3

type stateReader interface {
	State(ctx context.Context) (cart.State, error)
}

type archive interface {
	Save(ctx context.Context, r domain.Receipt) error
	GetByNumber(ctx context.Context, number string) (*domain.Receipt, error)
}

type Service struct {
	register stateReader
	archive  archive
	storeID  string
	now      func() time.Time
	logger   *zap.Logger

	mu         sync.Mutex
	lastIssued time.Time
}

// New builds a checkout service. archive may be nil, in which case receipts
// are built but not stored.
func New(register stateReader, archive archive, storeID string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		register: register,
		archive:  archive,
		storeID:  storeID,
		now:      time.Now,
		logger:   logger,
	}
}

// Checkout snapshots the current cart into a receipt. The cart itself is
// left untouched.
func (s *Service) Checkout(ctx context.Context) (domain.Receipt, error) {
	state, err := s.register.State(ctx)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("read cart: %w", err)
	}

	var rec domain.Receipt
	for attempt := 1; ; attempt++ {
		rec = receipt.Build(state, s.issueInstant(), s.storeID)
		if s.archive == nil {
			break
		}
		err := s.archive.Save(ctx, rec)
		if err == nil {
			break
		}
		// another register process may have issued the same number
		if errors.Is(err, receiptrepo.ErrDuplicate) && attempt < maxSaveAttempts {
			s.logger.Warn("receipt number taken, retrying",
				zap.String("receipt_number", rec.Header.ReceiptNumber),
				zap.Int("attempt", attempt))
			continue
		}
		return domain.Receipt{}, fmt.Errorf("archive receipt: %w", err)
	}

	s.logger.Info("checkout",
		zap.String("receipt_number", rec.Header.ReceiptNumber),
		zap.Int("lines", len(rec.Lines)),
		zap.Float64("grand_total", rec.Totals.GrandTotal),
		zap.Bool("archived", s.archive != nil))
	return rec, nil
}

// issueInstant returns the receipt time, at millisecond precision and
// strictly later than any instant this service issued before.
func (s *Service) issueInstant() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	at := s.now().UTC().Truncate(time.Millisecond)
	if !at.After(s.lastIssued) {
		at = s.lastIssued.Add(time.Millisecond)
	}
	s.lastIssued = at
	return at
}

func (s *Service) Get(ctx context.Context, number string) (*domain.Receipt, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	return s.archive.GetByNumber(ctx, number)
}
