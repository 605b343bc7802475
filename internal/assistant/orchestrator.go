package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nordvig/healthapp-backend/internal/models"
	"github.com/nordvig/healthapp-backend/internal/storage"
	"go.uber.org/zap"
)

// RetryPolicy bounds the run-completion poll. The total wait is at most
// MaxAttempts * Interval.
type RetryPolicy struct {
	MaxAttempts int
	Interval    time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 100, Interval: 2 * time.Second}
}

// Orchestrator drives one conversational turn against a remote thread: it
// clears stale runs, appends the user input, starts a run, polls it to
// completion and extracts the reply. It never mutates local thread records.
type Orchestrator struct {
	client Client
	store  storage.Storage
	reg    *Registry
	retry  RetryPolicy
	logger *zap.Logger

	// wait blocks for d or until ctx is done. Replaced in tests to avoid
	// real delays.
	wait func(ctx context.Context, d time.Duration) error
}

func NewOrchestrator(client Client, store storage.Storage, reg *Registry, retry RetryPolicy, logger *zap.Logger) *Orchestrator {
	if retry.MaxAttempts <= 0 {
		retry = DefaultRetryPolicy()
	}
	return &Orchestrator{
		client: client,
		store:  store,
		reg:    reg,
		retry:  retry,
		logger: logger,
		wait:   sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// SubmitTurn executes one request/response cycle on a registered thread and
// returns the assistant's reply. extraContext, when non-empty, is appended to
// the user input (e.g. a textual description of an attached image).
func (o *Orchestrator) SubmitTurn(ctx context.Context, threadID, userInput, extraContext string) (string, error) {
	o.cancelActiveRuns(ctx, threadID)

	thread, err := o.store.FindByRemoteID(ctx, threadID)
	if err != nil {
		if errors.Is(err, storage.ErrThreadNotFound) {
			return "", fmt.Errorf("%w: %s", ErrSessionNotFound, threadID)
		}
		return "", fmt.Errorf("failed to resolve session for thread %s: %w", threadID, err)
	}

	assistantID, ok := o.reg.AssistantID(Category(thread.Category))
	if !ok {
		return "", ErrAssistantNotConfigured
	}

	content := userInput
	if extraContext != "" {
		content = userInput + "\n\n" + extraContext
	}
	if err := o.client.SendMessage(ctx, threadID, models.RoleUser, content); err != nil {
		return "", err
	}
	o.logger.Debug("User input sent to thread", zap.String("thread_id", threadID))

	runID, err := o.client.CreateRun(ctx, threadID, assistantID)
	if err != nil {
		return "", err
	}
	o.logger.Info("Run created",
		zap.String("thread_id", threadID),
		zap.String("run_id", runID))

	if err := o.waitForRunCompletion(ctx, threadID, runID); err != nil {
		return "", err
	}

	messages, err := o.client.ListMessages(ctx, threadID)
	if err != nil {
		return "", err
	}

	return LatestAssistantReply(messages), nil
}

// cancelActiveRuns clears every run still blocking the thread. The remote
// system rejects a new run while one is active, so leftovers from retries or
// timed-out turns must go first. Individual cancel failures are logged and
// swallowed; a failed cancel must not abort the turn.
func (o *Orchestrator) cancelActiveRuns(ctx context.Context, threadID string) {
	runs, err := o.client.ListRuns(ctx, threadID)
	if err != nil {
		o.logger.Warn("Failed to list runs for preemption",
			zap.Error(err),
			zap.String("thread_id", threadID))
		return
	}

	for _, run := range runs {
		if run.Status.Terminal() {
			continue
		}
		if err := o.client.CancelRun(ctx, threadID, run.ID); err != nil {
			o.logger.Warn("Failed to cancel run",
				zap.Error(err),
				zap.String("thread_id", threadID),
				zap.String("run_id", run.ID),
				zap.String("status", string(run.Status)))
		}
	}
}

func (o *Orchestrator) waitForRunCompletion(ctx context.Context, threadID, runID string) error {
	for attempt := 0; attempt < o.retry.MaxAttempts; attempt++ {
		status, err := o.client.GetRunStatus(ctx, threadID, runID)
		if err != nil {
			return err
		}
		if status == models.RunStatusCompleted {
			return nil
		}
		if err := o.wait(ctx, o.retry.Interval); err != nil {
			return err
		}
	}

	o.logger.Warn("Run did not complete within retry budget",
		zap.String("thread_id", threadID),
		zap.String("run_id", runID),
		zap.Int("attempts", o.retry.MaxAttempts))
	return &TimeoutError{ThreadID: threadID, Attempts: o.retry.MaxAttempts}
}

// GetOrCreateSession returns the user's primary thread for a category,
// creating it remotely and locally when absent. On every call the assistant's
// remote configuration is pushed for the user's current locale, so a locale
// change takes effect without a separate sync step.
func (o *Orchestrator) GetOrCreateSession(ctx context.Context, userID int64, category Category) (string, bool, error) {
	locale, err := o.store.GetLocale(ctx, userID, FallbackLocale)
	if err != nil {
		return "", false, err
	}

	if profile, ok := o.reg.Profile(category, locale); ok {
		if assistantID, ok := o.reg.AssistantID(category); ok {
			if err := o.client.UpdateAssistant(ctx, assistantID, profile.Name, profile.Instructions); err != nil {
				return "", false, err
			}
		}
	}

	if existing, err := o.store.FindPrimaryByUser(ctx, userID, int(category)); err == nil {
		return existing.RemoteID, false, nil
	} else if !errors.Is(err, storage.ErrThreadNotFound) {
		return "", false, err
	}

	remoteID, err := o.client.CreateThread(ctx)
	if err != nil {
		return "", false, err
	}

	thread := &models.Thread{
		UserID:   userID,
		RemoteID: remoteID,
		Category: int(category),
	}
	winner, created, err := o.store.CreatePrimary(ctx, thread)
	if err != nil {
		return "", false, err
	}
	if !created {
		// A concurrent call created the mapping between our lookup and
		// insert. The remote API has no thread delete, so the thread we just
		// created is abandoned.
		o.logger.Warn("Lost get-or-create race, abandoning remote thread",
			zap.Int64("user_id", userID),
			zap.String("orphaned_thread_id", remoteID),
			zap.String("thread_id", winner.RemoteID))
		return winner.RemoteID, false, nil
	}

	o.logger.Info("Created session thread",
		zap.Int64("user_id", userID),
		zap.String("thread_id", remoteID),
		zap.String("locale", locale))
	return remoteID, true, nil
}

// PostInitialGreeting posts the locale-specific greeting as the opening
// message of a thread and returns it.
func (o *Orchestrator) PostInitialGreeting(ctx context.Context, threadID string, userID int64, category Category) (string, error) {
	if threadID == "" {
		return "", ErrMissingThreadID
	}

	locale, err := o.store.GetLocale(ctx, userID, FallbackLocale)
	if err != nil {
		return "", err
	}

	profile, ok := o.reg.Profile(category, locale)
	if !ok {
		return "", ErrAssistantNotConfigured
	}

	if err := o.client.SendMessage(ctx, threadID, models.RoleUser, profile.Greeting); err != nil {
		return "", err
	}
	o.logger.Info("Initial message sent to thread",
		zap.String("thread_id", threadID),
		zap.String("locale", locale))

	return profile.Greeting, nil
}
