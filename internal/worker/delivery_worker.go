package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrPoolClosed is returned by Submit once the pool has been shut down.
var ErrPoolClosed = errors.New("delivery worker pool is closed")

// Delivery action kinds retried by the pool.
const (
	KindContentWriterUpload = "content_writer_upload"
	KindContentWriterNotify = "content_writer_notify"
	KindDesignerUpload      = "designer_upload"
	KindDesignerNotify      = "designer_notify"
)

// RetryRequest asks the pool to re-attempt the listed delivery actions for a brief.
type RetryRequest struct {
	BriefID string
	Kinds   []string
}

// DeliveryService re-attempts Basecamp deliveries for a brief.
type DeliveryService interface {
	RedeliverReports(briefID string, kinds []string) error
}

// DeliveryWorkerPool retries failed Basecamp deliveries in the background.
// Requests are batched per brief and flushed by size or timeout.
type DeliveryWorkerPool struct {
	service      DeliveryService
	requestChan  chan RetryRequest
	batchSize    int
	batchTimeout time.Duration
	workerCount  int
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	shutdownOnce sync.Once

	mu     sync.RWMutex // guards closed and the channel close in Shutdown
	closed bool
}

// Config tunes the delivery worker pool.
type Config struct {
	WorkerCount  int
	BufferSize   int
	BatchSize    int
	BatchTimeout time.Duration
}

// DefaultConfig returns conservative pool settings.
func DefaultConfig() Config {
	return Config{
		WorkerCount:  2,
		BufferSize:   100,
		BatchSize:    10,
		BatchTimeout: 15 * time.Second,
	}
}

// NewDeliveryWorkerPool creates a pool delivering through the given service.
func NewDeliveryWorkerPool(service DeliveryService, config Config) *DeliveryWorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	return &DeliveryWorkerPool{
		service:      service,
		requestChan:  make(chan RetryRequest, config.BufferSize),
		batchSize:    config.BatchSize,
		batchTimeout: config.BatchTimeout,
		workerCount:  config.WorkerCount,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start launches the worker goroutines.
func (p *DeliveryWorkerPool) Start() {
	log.Info().
		Int("workers", p.workerCount).
		Int("batchSize", p.batchSize).
		Dur("batchTimeout", p.batchTimeout).
		Msg("Starting delivery worker pool")

	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

func (p *DeliveryWorkerPool) worker(id int) {
	defer p.wg.Done()

	batch := make(map[string][]string) // briefID -> pending delivery kinds
	totalKinds := 0
	var timer *time.Timer
	var timerC <-chan time.Time

	processBatch := func() {
		if len(batch) == 0 {
			return
		}

		for briefID, kinds := range batch {
			if err := p.service.RedeliverReports(briefID, kinds); err != nil {
				log.Error().
					Err(err).
					Int("workerID", id).
					Str("briefID", briefID).
					Strs("kinds", kinds).
					Msg("Failed to redeliver reports")
			} else {
				log.Debug().
					Int("workerID", id).
					Str("briefID", briefID).
					Strs("kinds", kinds).
					Msg("Redelivered reports")
			}
		}

		for k := range batch {
			delete(batch, k)
		}
		totalKinds = 0
	}

	startOrResetTimer := func() {
		if timer == nil {
			timer = time.NewTimer(p.batchTimeout)
			timerC = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(p.batchTimeout)
		timerC = timer.C
	}

	stopTimer := func() {
		if timer == nil {
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timerC = nil
	}

	for {
		select {
		case <-p.ctx.Done():
			processBatch()
			stopTimer()
			return

		case req, ok := <-p.requestChan:
			if !ok {
				processBatch()
				stopTimer()
				return
			}

			batchWasEmpty := len(batch) == 0
			batch[req.BriefID] = append(batch[req.BriefID], req.Kinds...)
			totalKinds += len(req.Kinds)

			if totalKinds >= p.batchSize {
				processBatch()
				if len(batch) == 0 {
					stopTimer()
				} else {
					startOrResetTimer()
				}
			} else if batchWasEmpty {
				startOrResetTimer()
			}

		case <-timerC:
			processBatch()
			stopTimer()
		}
	}
}

// Submit queues a redelivery request, blocking briefly when the channel is full.
// Returns ErrPoolClosed after Shutdown.
func (p *DeliveryWorkerPool) Submit(briefID string, kinds []string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	select {
	case <-p.ctx.Done():
		return context.Canceled
	case p.requestChan <- RetryRequest{BriefID: briefID, Kinds: kinds}:
		return nil
	default:
		log.Warn().
			Str("briefID", briefID).
			Strs("kinds", kinds).
			Msg("Delivery retry channel is full, blocking")

		select {
		case <-p.ctx.Done():
			return context.Canceled
		case p.requestChan <- RetryRequest{BriefID: briefID, Kinds: kinds}:
			return nil
		}
	}
}

// Shutdown drains the queue, waiting up to timeout before forcing the
// workers down.
func (p *DeliveryWorkerPool) Shutdown(timeout time.Duration) error {
	var shutdownErr error

	p.shutdownOnce.Do(func() {
		log.Info().Msg("Shutting down delivery worker pool")

		p.mu.Lock()
		p.closed = true
		close(p.requestChan)
		p.mu.Unlock()

		done := make(chan struct{})
		go func() {
			p.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			log.Info().Msg("Delivery worker pool shut down gracefully")
		case <-time.After(timeout):
			log.Warn().Msg("Delivery worker pool shutdown timeout, forcing shutdown")
			p.cancel()
			<-done
			shutdownErr = context.DeadlineExceeded
		}
	})

	return shutdownErr
}

// Stats reports queue occupancy for the stats endpoint.
func (p *DeliveryWorkerPool) Stats() PoolStats {
	return PoolStats{
		QueueSize:   len(p.requestChan),
		QueueCap:    cap(p.requestChan),
		WorkerCount: p.workerCount,
	}
}

// PoolStats is a snapshot of the pool state.
type PoolStats struct {
	QueueSize   int
	QueueCap    int
	WorkerCount int
}
