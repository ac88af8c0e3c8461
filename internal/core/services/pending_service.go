package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hiiragi-dev/kakera-ledger/internal/core/domain"
	portssvc "github.com/hiiragi-dev/kakera-ledger/internal/core/ports/services"
	"github.com/hiiragi-dev/kakera-ledger/internal/dto"
	"github.com/hiiragi-dev/kakera-ledger/internal/middleware"
	"github.com/hiiragi-dev/kakera-ledger/internal/platform/metrics"
	"github.com/hiiragi-dev/kakera-ledger/internal/utils"
)

// PendingService is the pending-action correlator. It owns the in-memory
// pending table and the process-wide tracking flag; both are guarded by a
// single mutex because discordgo dispatches handlers on separate
// goroutines. The mutex is held across the ledger apply so that a
// duplicate confirmation signal serializes behind the first and misses.
//
// Pending entries are keyed by the ID of the triggering message, uniform
// for both kinds, so independent pendings can coexist in one channel.
type PendingService struct {
	mu       sync.Mutex
	pending  map[string]domain.PendingAction
	tracking bool

	ledger  portssvc.LedgerSvcFacade
	keyword string
	ttl     time.Duration
}

func NewPendingService(ledger portssvc.LedgerSvcFacade, confirmKeyword string, pendingTTL time.Duration) *PendingService {
	return &PendingService{
		pending:  make(map[string]domain.PendingAction),
		tracking: true, // resets to enabled on process restart
		ledger:   ledger,
		keyword:  confirmKeyword,
		ttl:      pendingTTL,
	}
}

// RegisterTrigger records a pending action under its correlation key. A new
// trigger under an existing key overwrites the prior entry outright; the
// prior one is presumed abandoned. No ledger mutation happens here: the
// trigger alone does not prove the in-game transaction completed.
func (s *PendingService) RegisterTrigger(action domain.PendingAction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.tracking {
		return false
	}

	s.pending[action.MessageID] = action
	metrics.TriggersRegistered.WithLabelValues(string(action.Kind)).Inc()
	return true
}

// ConfirmByReaction matches a confirmation reaction on a trigger message.
// A nil result with nil error is a correlation miss: no matching entry, or
// tracking disabled.
func (s *PendingService) ConfirmByReaction(ctx context.Context, messageID string, now time.Time) (*dto.ConfirmationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.tracking {
		return nil, nil
	}

	action, ok := s.pending[messageID]
	if !ok {
		return nil, nil
	}

	return s.applyLocked(ctx, action, now)
}

// ConfirmByMessage matches a gacha-bot follow-up message in a channel
// against pending entries in that channel: the text must contain the exact
// pending amount and the completion keyword. If several pendings in the
// channel match the amount, the oldest is consumed first.
func (s *PendingService) ConfirmByMessage(ctx context.Context, channelID, content string, now time.Time) (*dto.ConfirmationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.tracking {
		return nil, nil
	}

	var match *domain.PendingAction
	for _, action := range s.pending {
		if action.ChannelID != channelID {
			continue
		}
		if !utils.ConfirmationMatches(content, s.keyword, action.Amount) {
			continue
		}
		if match == nil || action.CreatedAt.Before(match.CreatedAt) {
			a := action
			match = &a
		}
	}
	if match == nil {
		return nil, nil
	}

	return s.applyLocked(ctx, *match, now)
}

// applyLocked applies a confirmed action to the ledger and deletes the
// pending entry. Deletion happens only after a successful apply: a storage
// failure leaves the entry in place so the same confirmation signal can be
// retried. Callers must hold s.mu.
func (s *PendingService) applyLocked(ctx context.Context, action domain.PendingAction, now time.Time) (*dto.ConfirmationResult, error) {
	result := &dto.ConfirmationResult{Action: action}

	switch action.Kind {
	case domain.ActionLoan:
		debt, err := s.ledger.CreateDebt(ctx, dto.CreateDebtRequest{
			BorrowerID: action.SubjectID,
			LenderID:   action.InitiatorID,
			Amount:     action.Amount,
		}, now)
		if err != nil {
			return nil, fmt.Errorf("failed to apply confirmed loan: %w", err)
		}
		result.Debt = debt
	case domain.ActionRepay:
		report, err := s.ledger.RecordRepayment(ctx, action.SubjectID, action.Amount, now)
		if err != nil {
			return nil, fmt.Errorf("failed to apply confirmed repayment: %w", err)
		}
		result.Repayment = report
	default:
		return nil, fmt.Errorf("unknown pending action kind %q", action.Kind)
	}

	delete(s.pending, action.MessageID)
	metrics.ConfirmationsApplied.WithLabelValues(string(action.Kind)).Inc()

	middleware.GetLoggerFromCtx(ctx).Info("Pending action confirmed",
		slog.String("kind", string(action.Kind)),
		slog.String("message_id", action.MessageID),
		slog.String("subject_id", action.SubjectID),
		slog.Int64("amount", action.Amount),
	)

	return result, nil
}

// SetTracking toggles the process-wide tracking flag.
func (s *PendingService) SetTracking(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracking = enabled
}

// TrackingEnabled reports the process-wide tracking flag.
func (s *PendingService) TrackingEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracking
}

// ExpireStale removes pending entries older than the retention window,
// with no ledger effect.
func (s *PendingService) ExpireStale(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, action := range s.pending {
		if now.Sub(action.CreatedAt) > s.ttl {
			delete(s.pending, key)
			removed++
		}
	}
	if removed > 0 {
		metrics.PendingExpired.Add(float64(removed))
	}
	return removed
}

// StartExpirySweep runs ExpireStale on a fixed period until ctx is
// cancelled. The sweep is pure in-memory work.
func (s *PendingService) StartExpirySweep(ctx context.Context, interval time.Duration) {
	logger := middleware.GetLoggerFromCtx(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Pending expiry sweep stopped")
			return
		case now := <-ticker.C:
			if removed := s.ExpireStale(now); removed > 0 {
				logger.Info("Expired unconfirmed pending actions", slog.Int("removed", removed))
			}
		}
	}
}
