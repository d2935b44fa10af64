package worker

import (
	"context"
	"log"
	"time"

	"github.com/amityadav/brandlens/internal/core"
	"github.com/robfig/cron/v3"
)

// Worker runs the daily keyword scan schedule
type Worker struct {
	scanCore *core.ScanCore
	cron     *cron.Cron
}

func NewWorker(scanCore *core.ScanCore) *Worker {
	return &Worker{
		scanCore: scanCore,
		cron:     cron.New(cron.WithLocation(time.FixedZone("IST", 5*60*60+30*60))), // IST timezone
	}
}

// Start schedules the daily keyword scan at 6 AM IST
func (w *Worker) Start() {
	log.Println("[Worker] Starting daily scheduler...")

	_, err := w.cron.AddFunc("0 6 * * *", func() {
		// Run async to not block the scheduler
		go func() {
			log.Println("[Worker] Running daily keyword scan job (async)...")
			ctx := context.Background()
			if err := w.scanCore.ScanAllKeywords(ctx); err != nil {
				log.Printf("[Worker] Keyword scan job failed: %v", err)
			}
		}()
	})
	if err != nil {
		log.Printf("[Worker] Failed to schedule keyword scan job: %v", err)
		return
	}

	w.cron.Start()
	log.Println("[Worker] Scheduled daily keyword scans at 6:00 AM IST")
}

// Stop stops the scheduler
func (w *Worker) Stop() {
	w.cron.Stop()
	log.Println("[Worker] Stopped")
}
