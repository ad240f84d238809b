package backtest

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/ducminhle1904/crypto-pairs-lab/internal/hedge"
	"github.com/ducminhle1904/crypto-pairs-lab/pkg/types"
)

// workerPool fans grid cells out across goroutines. Cells are independent by
// construction, so workers share nothing but the read-only pair and hedge
// ratio series; results flow back over a channel and are merged by a single
// collector.
type workerPool struct {
	workerCount int
	jobQueue    chan gridJob
	resultQueue chan CellResult
	wg          sync.WaitGroup
	ctx         context.Context
}

// gridJob is one cell of the sweep: the cell key plus the fully resolved
// configuration for it.
type gridJob struct {
	key    CellKey
	cfg    Config
	pair   types.PricePair
	series *hedge.Series
}

func newWorkerPool(ctx context.Context, workerCount, bufferSize int) *workerPool {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}

	return &workerPool{
		workerCount: workerCount,
		jobQueue:    make(chan gridJob, bufferSize),
		resultQueue: make(chan CellResult, bufferSize),
		ctx:         ctx,
	}
}

func (wp *workerPool) start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// drain closes the job queue and, once the workers have exited, the result
// queue, releasing the collector.
func (wp *workerPool) drain() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

func (wp *workerPool) submit(job gridJob) {
	wp.jobQueue <- job
}

func (wp *workerPool) results() <-chan CellResult {
	return wp.resultQueue
}

func (wp *workerPool) worker() {
	defer wp.wg.Done()

	for {
		select {
		case job, ok := <-wp.jobQueue:
			if !ok {
				return
			}

			// A cancelled sweep skips the remaining cells; finished
			// cells stay valid.
			select {
			case <-wp.ctx.Done():
				return
			default:
			}

			result := wp.processJob(job)

			select {
			case wp.resultQueue <- result:
			case <-wp.ctx.Done():
				return
			}

		case <-wp.ctx.Done():
			return
		}
	}
}

func (wp *workerPool) processJob(job gridJob) CellResult {
	start := time.Now()

	result := CellResult{Key: job.key}

	engine, err := NewEngine(job.cfg)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	result.Result, result.Err = engine.RunWithSeries(job.pair, job.series)
	result.Duration = time.Since(start)
	return result
}

// ProgressTracker reports sweep progress to whoever is watching a long
// optimization run. Safe for concurrent use.
type ProgressTracker struct {
	total     int
	completed int
	startTime time.Time
	mutex     sync.RWMutex
}

// NewProgressTracker creates a tracker for total cells.
func NewProgressTracker(total int) *ProgressTracker {
	return &ProgressTracker{
		total:     total,
		startTime: time.Now(),
	}
}

// Increment marks one more cell as finished.
func (pt *ProgressTracker) Increment() {
	pt.mutex.Lock()
	defer pt.mutex.Unlock()
	pt.completed++
}

// Progress returns completed count, total count, percent done and elapsed time.
func (pt *ProgressTracker) Progress() (int, int, float64, time.Duration) {
	pt.mutex.RLock()
	defer pt.mutex.RUnlock()

	elapsed := time.Since(pt.startTime)
	percent := 0.0
	if pt.total > 0 {
		percent = float64(pt.completed) / float64(pt.total) * 100
	}

	return pt.completed, pt.total, percent, elapsed
}

// EstimateTimeRemaining extrapolates from the average time per finished cell.
func (pt *ProgressTracker) EstimateTimeRemaining() time.Duration {
	pt.mutex.RLock()
	defer pt.mutex.RUnlock()

	if pt.completed == 0 {
		return 0
	}

	elapsed := time.Since(pt.startTime)
	avgPerCell := elapsed / time.Duration(pt.completed)
	remaining := pt.total - pt.completed

	return avgPerCell * time.Duration(remaining)
}
