package processor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"dealscout/config"
	"dealscout/internal/database"
	"dealscout/internal/models"
	"dealscout/internal/queue"
)

// Transactor runs fc inside a database transaction. *gorm.DB satisfies it.
type Transactor interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

// SubjectSource loads listings as analysis subjects
type SubjectSource interface {
	GetSubject(listingID string) (models.SubjectProperty, error)
}

// Analyzer evaluates one subject property
type Analyzer interface {
	Analyze(subject models.SubjectProperty, maxRadius float64, limit int) (*models.AnalysisResult, error)
}

// ErrUnsaved is returned by Run when analyzed listings could not be saved
var ErrUnsaved = errors.New("analyses not saved")

// Stats counts processed listings
type Stats struct {
	Analyzed int64
	Failed   int64
	Saved    int64
}

// Unsaved is the number of analyzed listings whose results were not saved
func (s Stats) Unsaved() int64 {
	return s.Analyzed - s.Saved
}

// BatchProcessor analyzes batches of listing ids from the queue and saves
// the results of each batch in one transaction
type BatchProcessor struct {
	db       Transactor
	subjects SubjectSource
	analyzer Analyzer
	logger   *logrus.Logger
	config   *config.Config
	queue    *queue.ListingQueue
	ctx      context.Context
	cancel   context.CancelFunc
	start    sync.Once

	analyzed atomic.Int64
	failed   atomic.Int64
	saved    atomic.Int64
}

// NewBatchProcessor creates a new batch processor instance
func NewBatchProcessor(db Transactor, subjects SubjectSource, analyzer Analyzer, queue *queue.ListingQueue, config *config.Config, logger *logrus.Logger) *BatchProcessor {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &BatchProcessor{
		db:       db,
		subjects: subjects,
		analyzer: analyzer,
		queue:    queue,
		config:   config,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start subscribes to the queue and launches the configured number of workers
func (p *BatchProcessor) Start() {
	p.start.Do(func() {
		p.queue.Subscribe(func(batch []string) error {
			return p.ProcessBatch(batch)
		})
		p.queue.Start(p.config.BatchProcessing.Workers)
	})
}

// Stop closes the queue and waits for queued batches to finish
func (p *BatchProcessor) Stop() {
	p.queue.Close()
	p.queue.Wait()
	p.cancel()
}

// Abort cancels pending retries and then stops
func (p *BatchProcessor) Abort() {
	p.cancel()
	p.Stop()
}

// Run starts the processor, queues the listing ids in batches of
// BatchSize, waits for every batch and stops. Listings that fail to load or
// analyze are only counted; results that could not be saved fail the run.
func (p *BatchProcessor) Run(ctx context.Context, listingIDs []string) error {
	p.Start()

	for _, batch := range queue.Batches(listingIDs, p.config.BatchProcessing.BatchSize) {
		if err := p.queue.PushWait(ctx, batch); err != nil {
			p.Abort()
			return fmt.Errorf("failed to queue batch: %w", err)
		}
	}
	p.Stop()

	stats := p.Stats()
	if unsaved := stats.Unsaved(); unsaved > 0 {
		return fmt.Errorf("%w: %d of %d", ErrUnsaved, unsaved, stats.Analyzed)
	}
	return nil
}

// Stats returns the counters accumulated so far
func (p *BatchProcessor) Stats() Stats {
	return Stats{
		Analyzed: p.analyzed.Load(),
		Failed:   p.failed.Load(),
		Saved:    p.saved.Load(),
	}
}

// ProcessBatch analyzes each listing and saves the results. A listing that
// cannot be loaded or analyzed is logged and skipped.
func (p *BatchProcessor) ProcessBatch(listingIDs []string) error {
	results := make([]*models.AnalysisResult, 0, len(listingIDs))
	for _, id := range listingIDs {
		result, err := p.analyze(id)
		if err != nil {
			p.failed.Add(1)
			p.logger.WithError(err).WithField("listing_id", id).Error("Failed to analyze listing")
			continue
		}
		p.analyzed.Add(1)
		results = append(results, result)
	}

	if len(results) == 0 {
		return nil
	}
	return p.saveResults(results)
}

func (p *BatchProcessor) analyze(listingID string) (*models.AnalysisResult, error) {
	subject, err := p.subjects.GetSubject(listingID)
	if err != nil {
		return nil, err
	}
	return p.analyzer.Analyze(subject, p.config.Search.MaxRadius, p.config.Search.MaxComps)
}

// saveResults writes a batch of results with transaction and retry logic
func (p *BatchProcessor) saveResults(results []*models.AnalysisResult) error {
	var err error
	for attempt := 0; attempt <= p.config.BatchProcessing.MaxRetries; attempt++ {
		if attempt > 0 {
			p.logger.Infof("Retrying batch save, attempt %d of %d", attempt, p.config.BatchProcessing.MaxRetries)
			select {
			case <-p.ctx.Done():
				return fmt.Errorf("batch save cancelled: %w", err)
			case <-time.After(time.Duration(p.config.BatchProcessing.RetryDelay) * time.Second):
			}
		}

		err = p.db.Transaction(func(tx *gorm.DB) error {
			for _, result := range results {
				if _, err := database.SaveAnalysis(tx, result); err != nil {
					return err
				}
			}
			return nil
		})

		if err == nil {
			p.saved.Add(int64(len(results)))
			p.logger.Infof("Successfully saved batch of %d analyses", len(results))
			return nil
		}

		p.logger.Errorf("Batch save failed: %v", err)
	}

	return fmt.Errorf("failed to save batch after %d attempts: %w", p.config.BatchProcessing.MaxRetries+1, err)
}
