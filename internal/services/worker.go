package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/repositories"
)

// Worker drains queued resume analysis jobs. Jobs arrive either directly
// from the HTTP layer or via the poller, which picks up rows left in the
// queued state after a restart.
type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(analysisID uuid.UUID)
}

type worker struct {
	analysisRepo repositories.AnalysisRepository
	analyzer     AnalyzerService
	jobQueue     chan uuid.UUID
	concurrency  int
	pollInterval time.Duration
	wg           sync.WaitGroup
	stopChan     chan struct{}
}

func NewWorker(
	analysisRepo repositories.AnalysisRepository,
	analyzer AnalyzerService,
	concurrency int,
	pollInterval time.Duration,
) Worker {
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}
	return &worker{
		analysisRepo: analysisRepo,
		analyzer:     analyzer,
		jobQueue:     make(chan uuid.UUID, 100),
		concurrency:  concurrency,
		pollInterval: pollInterval,
		stopChan:     make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingJobs(ctx)

	log.Println("✅ Worker started successfully")
}

// Stop implements Worker.
func (w *worker) Stop() {
	log.Println("🛑 Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Worker stopped")
}

// EnqueueJob implements Worker.
func (w *worker) EnqueueJob(analysisID uuid.UUID) {
	select {
	case w.jobQueue <- analysisID:
		log.Printf("📥 Analysis job %s enqueued\n", analysisID)
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue job %s\n", analysisID)
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case analysisID := <-w.jobQueue:
			log.Printf("👷 Worker #%d processing analysis %s\n", workerID, analysisID)
			if err := w.analyzer.AnalyzeResume(ctx, analysisID); err != nil {
				log.Printf("❌ Worker #%d failed to process analysis %s: %v\n", workerID, analysisID, err)
			} else {
				log.Printf("✅ Worker #%d completed analysis %s\n", workerID, analysisID)
			}
		}
	}
}

func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			log.Println("🔄 Pending jobs poller stopped")
			return
		case <-ticker.C:
			pendingJobs, err := w.analysisRepo.FindPendingJobs(10)
			if err != nil {
				log.Printf("⚠️  Failed to fetch pending jobs: %v\n", err)
				continue
			}

			if len(pendingJobs) > 0 {
				log.Printf("📋 Found %d pending analysis jobs\n", len(pendingJobs))
			}

			for _, job := range pendingJobs {
				w.EnqueueJob(job.ID)
			}
		}
	}
}
