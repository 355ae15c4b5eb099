// Package scraper fetches listing pages and turns them into
// restaurant documents.
package scraper

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gocolly/colly/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aluiziolira/go-scrape-eats/config"
	"github.com/aluiziolira/go-scrape-eats/extract"
	"github.com/aluiziolira/go-scrape-eats/models"
	"github.com/aluiziolira/go-scrape-eats/payload"
	"github.com/aluiziolira/go-scrape-eats/pipeline"
)

// documentCacheSize bounds the per-URL document cache. Input lists are
// at most a few thousand URLs; 512 covers duplicate-heavy lists
// without holding every menu in memory.
const documentCacheSize = 512

// Scraper wraps the colly collector, the retry manager, and the
// per-URL document cache. Each input URL becomes one independent
// fetch; extraction is pure per call, so responses are processed
// concurrently without shared state beyond the result counters.
type Scraper struct {
	cfg       *config.Config
	collector *colly.Collector
	retry     *retryManager
	cache     *lru.Cache[string, *models.Restaurant]
	Metrics   *Metrics

	requestCount  int64
	errorCount    int64
	cacheHits     int64
	documentCount int64

	mu           sync.Mutex
	targets      map[string]config.Target
	failedURLs   []string
	errorsByType map[string]int

	handlersOnce sync.Once
}

// NewScraper builds a scraper instance configured from cfg.
func NewScraper(cfg *config.Config) (*Scraper, error) {
	// Revisits must be allowed: retries re-Visit the same URL.
	collector := colly.NewCollector(
		colly.Async(true),
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
	)

	collector.SetRequestTimeout(cfg.Timeout)
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	if !cfg.VerifySSL {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	collector.WithTransport(transport)

	if err := collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: cfg.Concurrency,
	}); err != nil {
		return nil, fmt.Errorf("configure rate limits: %w", err)
	}

	cache, err := lru.New[string, *models.Restaurant](documentCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create document cache: %w", err)
	}

	s := &Scraper{
		cfg:          cfg,
		collector:    collector,
		cache:        cache,
		targets:      make(map[string]config.Target),
		errorsByType: make(map[string]int),
		Metrics:      NewMetrics(),
	}
	s.retry = newRetryManager(collector, cfg, s.Metrics)
	return s, nil
}

// Run fetches every target and streams the resulting documents through
// the pipeline. A failing URL is logged, counted, and excluded from
// the output; it never aborts the run. Completion order across URLs is
// whatever the pool yields (deterministic only when concurrency is 1).
func (s *Scraper) Run(ctx context.Context, targets []config.Target, p *pipeline.Pipeline) (*models.ScrapeResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	s.retry.SetContext(ctx)
	s.configureHandlers(p)

	start := time.Now()
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			s.collector.Wait()
			s.retry.Stop()
		case <-done:
		}
	}()

	for _, target := range targets {
		s.mu.Lock()
		s.targets[target.URL] = target
		s.mu.Unlock()

		if doc, ok := s.cache.Get(target.URL); ok {
			atomic.AddInt64(&s.cacheHits, 1)
			atomic.AddInt64(&s.documentCount, 1)
			s.Metrics.IncCacheHits()
			if err := p.Process(doc); err != nil && err != pipeline.ErrPipelineClosed {
				slog.Error("pipeline process error", slog.Any("error", err))
			}
			continue
		}

		if err := s.collector.Visit(target.URL); err != nil {
			s.recordFailure(target.URL, classifyError(err, 0))
		}
	}

	// Wait must cover retries still sitting on their backoff timers,
	// not just the in-flight requests colly knows about.
	for {
		s.collector.Wait()
		if s.retry.Pending() == 0 || ctx.Err() != nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	s.retry.Stop()

	// Documents come from the scraper's own counter. The pipeline's
	// processed count is not settled until its workers drain, which
	// happens on Close, after Run has returned.
	result := &models.ScrapeResult{
		StartTime:    start,
		EndTime:      time.Now(),
		Documents:    int(atomic.LoadInt64(&s.documentCount)),
		ErrorCount:   int(atomic.LoadInt64(&s.errorCount)),
		FailedURLs:   s.snapshotFailedURLs(),
		ErrorsByType: s.snapshotErrors(),
		RetryCount:   s.retry.TotalRetries(),
		RequestCount: int(atomic.LoadInt64(&s.requestCount)),
		CacheHits:    int(atomic.LoadInt64(&s.cacheHits)),
	}

	return result, nil
}

func (s *Scraper) configureHandlers(p *pipeline.Pipeline) {
	s.handlersOnce.Do(func() {
		s.collector.OnRequest(func(r *colly.Request) {
			r.Ctx.Put("start", time.Now())
			atomic.AddInt64(&s.requestCount, 1)
			s.Metrics.IncRequest("started")
			slog.Debug("fetching", slog.String("url", r.URL.String()))
		})

		s.collector.OnResponse(func(r *colly.Response) {
			if start, ok := r.Request.Ctx.GetAny("start").(time.Time); ok {
				s.Metrics.ObserveDuration(time.Since(start))
			}

			url := r.Request.URL.String()
			obj, err := payload.Extract(r.Body)
			if err != nil {
				// The page fetched fine; retrying would refetch the
				// same markup. Skip the URL.
				s.recordFailure(url, classifyError(err, 0))
				slog.Warn("no payload in page", slog.String("url", url))
				return
			}

			doc := extract.BuildDocument(url, obj, s.scrapeMenu(url))
			s.cache.Add(url, doc)
			atomic.AddInt64(&s.documentCount, 1)
			s.Metrics.IncDocuments()

			if err := p.Process(doc); err != nil && err != pipeline.ErrPipelineClosed {
				slog.Error("pipeline process error", slog.Any("error", err))
			}
		})

		s.collector.OnError(func(r *colly.Response, err error) {
			statusCode := 0
			url := ""
			if r != nil {
				statusCode = r.StatusCode
				if r.Request != nil && r.Request.URL != nil {
					url = r.Request.URL.String()
				}
			}
			classified := classifyError(err, statusCode)

			slog.Error("request error",
				slog.String("url", url),
				slog.String("category", classified.Category),
				slog.Any("error", err),
			)

			if s.retry.Schedule(url) {
				return
			}
			s.recordFailure(url, classified)
		})
	})
}

func (s *Scraper) scrapeMenu(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if target, ok := s.targets[url]; ok {
		return target.ScrapeMenu
	}
	return s.cfg.IncludeMenu
}

func (s *Scraper) recordFailure(url string, classified *FetchError) {
	atomic.AddInt64(&s.errorCount, 1)
	s.Metrics.IncError(classified.Category)

	s.mu.Lock()
	s.errorsByType[classified.Category]++
	s.failedURLs = append(s.failedURLs, url)
	s.mu.Unlock()
}

func (s *Scraper) snapshotFailedURLs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.failedURLs))
	copy(out, s.failedURLs)
	return out
}

func (s *Scraper) snapshotErrors() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.errorsByType))
	for k, v := range s.errorsByType {
		out[k] = v
	}
	return out
}

// retryManager re-visits failed URLs after a fixed backoff, up to the
// configured attempt budget (which includes the initial request).
type retryManager struct {
	collector *colly.Collector
	cfg       *config.Config
	metrics   *Metrics
	ctx       context.Context

	mu           sync.Mutex
	attempts     map[string]int
	timers       map[string]*time.Timer
	totalRetries int
	stopped      bool

	// pending counts retries scheduled but not yet handed back to the
	// collector; it stays positive across the timer-fire gap so Run
	// does not finish between a backoff expiring and the re-visit
	// being registered.
	pending int64
}

func newRetryManager(collector *colly.Collector, cfg *config.Config, metrics *Metrics) *retryManager {
	return &retryManager{
		collector: collector,
		cfg:       cfg,
		attempts:  make(map[string]int),
		timers:    make(map[string]*time.Timer),
		metrics:   metrics,
		ctx:       context.Background(),
	}
}

// Schedule queues a retry for url. Returns false when the attempt
// budget is exhausted or the manager is stopped.
func (rm *retryManager) Schedule(url string) bool {
	if url == "" || rm.cfg.MaxAttempts <= 1 {
		return false
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.stopped {
		return false
	}
	if rm.ctx != nil && rm.ctx.Err() != nil {
		return false
	}

	retry := rm.attempts[url]
	if retry >= rm.cfg.MaxAttempts-1 {
		return false
	}

	retry++
	rm.attempts[url] = retry
	rm.totalRetries++
	rm.metrics.IncRetries()

	rm.resetTimerLocked(url)
	atomic.AddInt64(&rm.pending, 1)
	rm.timers[url] = time.AfterFunc(rm.backoff(), func() {
		rm.fireRetry(url)
	})
	return true
}

// backoff is fixed per attempt; the upstream retry policy is N
// attempts with a constant delay, not an exponential schedule.
func (rm *retryManager) backoff() time.Duration {
	if rm.cfg.Backoff <= 0 {
		return 100 * time.Millisecond
	}
	return rm.cfg.Backoff
}

func (rm *retryManager) resetTimerLocked(url string) {
	if timer, ok := rm.timers[url]; ok {
		// A successful Stop means fireRetry will never run for this
		// timer, so its pending slot must be released here.
		if timer.Stop() {
			atomic.AddInt64(&rm.pending, -1)
		}
		delete(rm.timers, url)
	}
}

func (rm *retryManager) fireRetry(url string) {
	defer atomic.AddInt64(&rm.pending, -1)

	rm.mu.Lock()
	if rm.stopped {
		rm.mu.Unlock()
		return
	}
	ctx := rm.ctx
	rm.mu.Unlock()

	if ctx != nil && ctx.Err() != nil {
		return
	}
	if err := rm.collector.Visit(url); err != nil {
		slog.Debug("retry visit failed", slog.String("url", url), slog.Any("error", err))
	}

	rm.mu.Lock()
	delete(rm.timers, url)
	rm.mu.Unlock()
}

func (rm *retryManager) Stop() {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.stopped {
		return
	}

	rm.stopped = true
	for url, timer := range rm.timers {
		if timer.Stop() {
			atomic.AddInt64(&rm.pending, -1)
		}
		delete(rm.timers, url)
	}
}

// Pending reports how many retries have been scheduled but not yet
// re-registered with the collector.
func (rm *retryManager) Pending() int {
	return int(atomic.LoadInt64(&rm.pending))
}

func (rm *retryManager) TotalRetries() int {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return rm.totalRetries
}

func (rm *retryManager) SetContext(ctx context.Context) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if ctx == nil {
		rm.ctx = context.Background()
		return
	}
	rm.ctx = ctx
}
