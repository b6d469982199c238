package workers

import (
	"context"
	"log"
	"time"

	"github.com/strideapp/stride-engine/internal/core/domain"
)

type GoalRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Goal, error)
}

type CompletionRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Completion, error)
}

type SummaryRepository interface {
	UpsertBatch(ctx context.Context, rows []*domain.DailySummary) error
	Delete(ctx context.Context, ownerID, dateKey string) error
}

type SummaryJob struct {
	OwnerID       string
	DateKey       string
	OffsetMinutes int
}

// SummaryWorker keeps the daily-summary cache warm: after a completion
// change it recomputes the affected date's row in the background so the next
// timeline read finds it fresh. The read path stays correct without it (it
// recomputes lazily); the worker only narrows the staleness window.
type SummaryWorker struct {
	goals       GoalRepository
	completions CompletionRepository
	summaries   SummaryRepository
	jobs        chan SummaryJob
}

func NewSummaryWorker(goals GoalRepository, completions CompletionRepository, summaries SummaryRepository) *SummaryWorker {
	return &SummaryWorker{
		goals:       goals,
		completions: completions,
		summaries:   summaries,
		jobs:        make(chan SummaryJob, 100),
	}
}

func (w *SummaryWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Summary Worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Summary Worker shutting down...")
				return
			}
		}
	}()
}

func (w *SummaryWorker) Enqueue(ownerID, dateKey string, offsetMinutes int) {
	select {
	case w.jobs <- SummaryJob{OwnerID: ownerID, DateKey: dateKey, OffsetMinutes: offsetMinutes}:
	default:
		log.Printf("Summary Worker queue full! Dropping job for date %s", dateKey)
	}
}

func (w *SummaryWorker) processJob(ctx context.Context, job SummaryJob) {
	// Today is never cached: it can still change and reads compute it live.
	todayKey := domain.ToDateKey(time.Now().UTC(), job.OffsetMinutes)
	if job.DateKey >= todayKey {
		return
	}

	goals, err := w.goals.ListByOwner(ctx, job.OwnerID)
	if err != nil {
		log.Printf("Worker Error fetching goals for %s: %v", job.OwnerID, err)
		return
	}

	completions, err := w.completions.ListByOwner(ctx, job.OwnerID)
	if err != nil {
		log.Printf("Worker Error fetching completions for %s: %v", job.OwnerID, err)
		return
	}

	index := domain.BuildCountIndex(completions)
	summary := domain.ComputeDailySummary(job.OwnerID, job.DateKey, goals, index, job.OffsetMinutes)

	if summary == nil {
		// No goals were active that day; a stored row would be stale.
		if err := w.summaries.Delete(ctx, job.OwnerID, job.DateKey); err != nil {
			log.Printf("Worker Failed to drop summary for %s: %v", job.DateKey, err)
		}
		return
	}

	if err := w.summaries.UpsertBatch(ctx, []*domain.DailySummary{summary}); err != nil {
		log.Printf("Worker Failed to refresh summary for %s: %v", job.DateKey, err)
	}
}
