package services

import (
	"context"
	"time"

	"github.com/hiiragi-dev/kakera-ledger/internal/core/domain"
	"github.com/hiiragi-dev/kakera-ledger/internal/dto"
)

// PendingSvcFacade is the pending-action correlator: it holds unconfirmed
// trigger actions in memory, matches confirmation signals against them, and
// applies each confirmed action to the ledger exactly once.
type PendingSvcFacade interface {
	// RegisterTrigger records a pending action under its correlation key,
	// overwriting any prior entry at the same key (last-write-wins). Returns
	// false when tracking is disabled and nothing was registered.
	RegisterTrigger(action domain.PendingAction) bool

	// ConfirmByReaction matches a checkmark reaction on a trigger message.
	// A nil result with nil error is a correlation miss.
	ConfirmByReaction(ctx context.Context, messageID string, now time.Time) (*dto.ConfirmationResult, error)

	// ConfirmByMessage matches a gacha-bot follow-up message in a channel
	// containing the exact pending amount and the completion keyword.
	// A nil result with nil error is a correlation miss.
	ConfirmByMessage(ctx context.Context, channelID, content string, now time.Time) (*dto.ConfirmationResult, error)

	// SetTracking toggles the process-wide tracking flag.
	SetTracking(enabled bool)

	// TrackingEnabled reports the process-wide tracking flag.
	TrackingEnabled() bool

	// ExpireStale removes pending entries older than the retention window,
	// with no ledger effect, and returns how many were removed.
	ExpireStale(now time.Time) int

	// StartExpirySweep runs ExpireStale on a fixed period until ctx is
	// cancelled.
	StartExpirySweep(ctx context.Context, interval time.Duration)
}
