package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"aura/internal/adapters/email"
	outboxStore "aura/internal/adapters/storage/outbox"
	domain "aura/internal/domain/outbox"
)

// OutboxProcessor drains the email outbox: it delivers pending entries
// through the configured sender and retries failures with exponential
// backoff until the attempt budget runs out.
type OutboxProcessor struct {
	store     outboxStore.Store
	sender    email.Sender
	baseDelay time.Duration
	maxDelay  time.Duration
	batchSize int
	now       func() time.Time
}

// NewOutboxProcessor creates a new outbox processor.
func NewOutboxProcessor(store outboxStore.Store, sender email.Sender) *OutboxProcessor {
	return &OutboxProcessor{
		store:     store,
		sender:    sender,
		baseDelay: 30 * time.Second,
		maxDelay:  1 * time.Hour,
		batchSize: 10,
		now:       time.Now,
	}
}

// ProcessPending delivers pending outbox entries, retrying where due.
// PRE: Context is valid
// POST: Due entries delivered or marked for retry; exhausted ones abandoned
func (p *OutboxProcessor) ProcessPending(ctx context.Context) error {
	entries, err := p.store.ListPending(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("list pending outbox entries: %w", err)
	}

	for _, entry := range entries {
		if err := p.processEntry(ctx, entry); err != nil {
			slog.Error("outbox_process_failed", "entry_id", entry.ID, "to", entry.To, "error", err.Error())
		}
	}

	return nil
}

// ProcessSingle forces a delivery attempt for one entry, ignoring the
// backoff window. Used by the admin retry endpoint; a failed entry gets
// one extra attempt beyond its budget.
// PRE: id names an existing entry
// POST: Entry attempted once; terminal state recorded
func (p *OutboxProcessor) ProcessSingle(ctx context.Context, id string) error {
	entry, err := p.store.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load outbox entry: %w", err)
	}
	if !entry.CanRetry() {
		if entry.Status != domain.StatusFailed {
			return fmt.Errorf("entry %s cannot be retried from status %q", id, entry.Status)
		}
		entry.MaxAttempts = entry.Attempts + 1
	}
	entry.LastAttemptedAt = time.Time{} // skip the backoff window
	return p.processEntry(ctx, entry)
}

// AbandonEntry marks an entry abandoned so it stops showing as failed.
// PRE: id names an existing entry
// POST: Entry is in abandoned state
func (p *OutboxProcessor) AbandonEntry(ctx context.Context, id string) error {
	entry, err := p.store.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load outbox entry: %w", err)
	}
	entry.MarkAbandoned()
	slog.Info("outbox_abandoned_manual", "entry_id", entry.ID, "to", entry.To)
	return p.store.Save(ctx, entry)
}

// processEntry delivers a single outbox entry.
func (p *OutboxProcessor) processEntry(ctx context.Context, entry domain.Entry) error {
	// Honor the backoff window since the last attempt
	if !entry.LastAttemptedAt.IsZero() {
		delay := entry.NextRetryDelay(p.baseDelay, p.maxDelay)
		if p.now().Sub(entry.LastAttemptedAt) < delay {
			return nil // Not ready to retry yet
		}
	}
	if !entry.CanRetry() {
		entry.MarkAbandoned()
		slog.Warn("outbox_abandoned", "entry_id", entry.ID, "to", entry.To, "attempts", entry.Attempts)
		return p.store.Save(ctx, entry)
	}

	entry.MarkAttempt(p.now())
	result, err := p.sender.Send(ctx, email.SendRequest{
		To:      []string{entry.To},
		Subject: entry.Subject,
		HTML:    entry.HTML,
	})
	if err != nil {
		entry.MarkFailed(err)
		slog.Warn("outbox_delivery_failed", "entry_id", entry.ID, "to", entry.To, "attempt", entry.Attempts, "error", err.Error())
		return p.store.Save(ctx, entry)
	}

	entry.MarkSuccess(result.MessageID)
	slog.Info("outbox_delivered", "entry_id", entry.ID, "to", entry.To, "message_id", result.MessageID)
	return p.store.Save(ctx, entry)
}
