package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	igerrors "shutter/pkg/errors"
	"shutter/pkg/logger"
	"shutter/pkg/models"
)

// DownloadJob represents a single download task
type DownloadJob struct {
	Index int
	Image models.PostImage
}

// DownloadResult represents the result of a download job
type DownloadResult struct {
	Job      DownloadJob
	Error    error
	Duration time.Duration
	Size     int64
}

// Success reports whether the job completed
func (r DownloadResult) Success() bool {
	return r.Error == nil
}

// MediaOpener starts streaming a remote media file
type MediaOpener interface {
	OpenMedia(ctx context.Context, url string) (io.ReadCloser, error)
}

// DestinationFunc opens the sink an image is written to. Each call must
// return an independent writer.
type DestinationFunc func(img models.PostImage) (io.WriteCloser, error)

// aborter is implemented by destinations that can discard a partial write
type aborter interface {
	Abort() error
}

// WorkerPool downloads images with a fixed number of workers
type WorkerPool struct {
	numWorkers int
	opener     MediaOpener
	onResult   func(DownloadResult)
	logger     logger.Logger
}

// NewWorkerPool creates a pool of numWorkers workers. A non-positive count
// uses one worker per CPU.
func NewWorkerPool(numWorkers int, opener MediaOpener, log logger.Logger) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	return &WorkerPool{
		numWorkers: numWorkers,
		opener:     opener,
		logger:     logger.OrNop(log),
	}
}

// OnResult registers a callback invoked once per finished job. Callbacks
// run on the collecting goroutine, never concurrently.
func (wp *WorkerPool) OnResult(fn func(DownloadResult)) {
	wp.onResult = fn
}

// NumWorkers returns the pool size
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// DownloadAll downloads every image into the writer dest returns for it.
//
// A failed image does not stop the others. The result is nil when every
// image was written, otherwise the errors.Join of one *errors.DownloadError
// per failed image, in input order.
func (wp *WorkerPool) DownloadAll(ctx context.Context, images []models.PostImage, dest DestinationFunc) error {
	if len(images) == 0 {
		return nil
	}

	jobQueue := make(chan DownloadJob, wp.numWorkers*2)
	resultQueue := make(chan DownloadResult, wp.numWorkers)

	wp.logger.DebugWithFields("starting worker pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
		"num_images":  len(images),
	})

	// The fixed worker count bounds concurrency; the group only tracks
	// goroutine lifetimes. Workers always drain the queue, so the producer
	// never blocks forever.
	var g errgroup.Group
	g.Go(func() error {
		defer close(jobQueue)
		for i, img := range images {
			jobQueue <- DownloadJob{Index: i, Image: img}
		}
		return nil
	})
	for i := 0; i < wp.numWorkers; i++ {
		i := i
		g.Go(func() error {
			wp.worker(ctx, i, jobQueue, resultQueue, dest)
			return nil
		})
	}
	go func() {
		g.Wait()
		close(resultQueue)
	}()

	failures := make([]error, len(images))
	for result := range resultQueue {
		if result.Error != nil {
			failures[result.Job.Index] = result.Error
		}
		if wp.onResult != nil {
			wp.onResult(result)
		}
	}

	wp.logger.Debug("worker pool stopped")

	return errors.Join(failures...)
}

// worker processes jobs until the queue is closed
func (wp *WorkerPool) worker(ctx context.Context, id int, jobs <-chan DownloadJob, results chan<- DownloadResult, dest DestinationFunc) {
	for job := range jobs {
		results <- wp.processJob(ctx, job, dest, id)
	}

	wp.logger.DebugWithFields("worker stopping - job queue closed", map[string]interface{}{
		"worker_id": id,
	})
}

// processJob handles a single download job
func (wp *WorkerPool) processJob(ctx context.Context, job DownloadJob, dest DestinationFunc, workerID int) DownloadResult {
	start := time.Now()
	size, err := wp.download(ctx, job.Image, dest)

	result := DownloadResult{
		Job:      job,
		Size:     size,
		Duration: time.Since(start),
	}

	if err != nil {
		result.Error = &igerrors.DownloadError{URL: job.Image.URL, Err: err}
		wp.logger.DebugWithFields("worker failed to download image", map[string]interface{}{
			"worker_id": workerID,
			"url":       job.Image.URL,
			"error":     err.Error(),
			"duration":  result.Duration,
		})
		return result
	}

	wp.logger.DebugWithFields("worker completed job", map[string]interface{}{
		"worker_id": workerID,
		"url":       job.Image.URL,
		"size":      size,
		"duration":  result.Duration,
	})

	return result
}

// download streams one image. The remote stream is opened before the
// destination so a failed fetch leaves nothing behind.
func (wp *WorkerPool) download(ctx context.Context, img models.PostImage, dest DestinationFunc) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	body, err := wp.opener.OpenMedia(ctx, img.URL)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	out, err := dest(img)
	if err != nil {
		return 0, fmt.Errorf("failed to open destination: %w", err)
	}

	n, err := io.Copy(out, body)
	if err != nil {
		discard(out)
		return n, fmt.Errorf("failed to write image data: %w", err)
	}

	if err := out.Close(); err != nil {
		return n, fmt.Errorf("failed to close destination: %w", err)
	}

	return n, nil
}

func discard(w io.WriteCloser) {
	if a, ok := w.(aborter); ok {
		a.Abort()
		return
	}
	w.Close()
}
