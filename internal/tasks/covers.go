package tasks

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/markx/internal/models"
	"github.com/desertthunder/markx/internal/shared"
	"golang.org/x/time/rate"
)

// coverJob is one row of a cover batch.
type coverJob struct {
	index int
	link  string
}

// coverBatch is the state shared by the workers of one [Engine.FetchCovers] call.
type coverBatch struct {
	category string
	total    int
	results  []models.Cell
	limiter  *rate.Limiter
	done     atomic.Int64
	logger   *log.Logger
	progress chan<- ProgressUpdate
}

// FetchCovers resolves a cover URL for every link with a fixed-width worker pool.
//
// The result has one cell per link, in the same order. Null or blank links produce a null cell
// without a request, and a failed fetch is logged and produces a null cell; the batch never aborts.
func (e *Engine) FetchCovers(ctx context.Context, category string, links []models.Cell, progress chan<- ProgressUpdate) []models.Cell {
	batch := &coverBatch{
		category: category,
		total:    len(links),
		results:  make([]models.Cell, len(links)),
		logger:   shared.WithCategory(e.logger, category),
		progress: progress,
	}
	if len(links) == 0 || e.covers == nil {
		return batch.results
	}
	if e.opts.RateLimit > 0 {
		batch.limiter = rate.NewLimiter(rate.Limit(e.opts.RateLimit), 1)
	}

	jobs := make(chan coverJob, len(links))
	for i, c := range links {
		jobs <- coverJob{index: i, link: strings.TrimSpace(c.String())}
	}
	close(jobs)

	var wg sync.WaitGroup
	for i := 0; i < min(e.opts.Workers, len(links)); i++ {
		wg.Add(1)
		go e.coverWorker(ctx, &wg, jobs, batch)
	}
	wg.Wait()

	return batch.results
}

// coverWorker fetches covers from the jobs channel. Each job writes only its own result slot.
func (e *Engine) coverWorker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan coverJob, b *coverBatch) {
	defer wg.Done()

	for job := range jobs {
		url, err := e.fetchCover(ctx, job, b)
		if err == nil {
			b.results[job.index] = models.Text(url)
		} else if job.link != "" {
			b.logger.Warn("cover fetch failed", "row", job.index+1, "link", job.link, "error", err)
		}

		step := int(b.done.Add(1))
		e.sendProgress(b.progress, coverFetchedUpdate(step, b.total, b.category, job.link, err))
	}
}

func (e *Engine) fetchCover(ctx context.Context, job coverJob, b *coverBatch) (string, error) {
	if job.link == "" {
		return "", shared.ErrEmptyCoverLink
	}
	if b.limiter != nil {
		if err := b.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}
	return e.covers.CoverURL(ctx, job.link)
}
