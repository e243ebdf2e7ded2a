package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"
	"udemy-coupons/lib/forwarding"
	"udemy-coupons/lib/scrapers/discudemy"
	"udemy-coupons/lib/textutil"

	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	MinListingPause = 500 * time.Millisecond
	MinCoursePause  = 300 * time.Millisecond
)

var (
	ErrAlreadyRunning    = errors.New("a run is already in progress")
	ErrInvalidPageRange  = errors.New("invalid page range")
	ErrUnknownEndpoint   = errors.New("endpoint is not one of the configured endpoints")
	errNoFetcherProvided = errors.New("no fetcher provided")
)

type Options struct {
	Fetcher Fetcher
	// listing site origin, defaults to discudemy.Origin
	Origin string
	// fallback chain used to resolve courses, defaults to
	// forwarding.DefaultEndpoints
	Endpoints []forwarding.Endpoint
	// pauses between listing pages and between courses, raised to
	// MinListingPause and MinCoursePause when lower
	ListingPause time.Duration
	CoursePause  time.Duration
	Observer     Observer
}

type RunConfig struct {
	PageStart int
	PageEnd   int
	// the endpoint listing pages are fetched through
	Endpoint forwarding.Endpoint
}

func (c RunConfig) Validate() error {
	if c.PageStart < 1 {
		return fmt.Errorf("%w: start page must be at least 1, got %d", ErrInvalidPageRange, c.PageStart)
	}
	if c.PageEnd < c.PageStart {
		return fmt.Errorf("%w: end page %d is before start page %d", ErrInvalidPageRange, c.PageEnd, c.PageStart)
	}
	return nil
}

// Controller runs the listing and resolution phases one request at a time.
// Start blocks for the duration of a run, Stop and State may be called from
// any goroutine.
type Controller struct {
	fetcher      Fetcher
	origin       string
	endpoints    []forwarding.Endpoint
	listingPause time.Duration
	coursePause  time.Duration
	observer     Observer
	sleep        func(time.Duration)

	cancelRequested atomic.Bool

	lock    sync.Mutex
	state   RunState
	coupons *couponSet
	// set once a checkpoint has acted on cancelRequested
	stopNoticed bool
}

func NewController(opts Options) (*Controller, error) {
	if opts.Fetcher == nil {
		return nil, errNoFetcherProvided
	}
	if opts.Origin == "" {
		opts.Origin = discudemy.Origin
	}
	if len(opts.Endpoints) == 0 {
		opts.Endpoints = forwarding.DefaultEndpoints
	}
	if opts.Observer == nil {
		opts.Observer = NopObserver{}
	}

	return &Controller{
		fetcher:      opts.Fetcher,
		origin:       opts.Origin,
		endpoints:    append([]forwarding.Endpoint(nil), opts.Endpoints...),
		listingPause: max(opts.ListingPause, MinListingPause),
		coursePause:  max(opts.CoursePause, MinCoursePause),
		observer:     opts.Observer,
		sleep:        time.Sleep,
		state:        RunState{Status: StatusIdle},
		coupons:      newCouponSet(),
	}, nil
}

// knowsEndpoint reports whether listing pages may go through e: the direct
// endpoint or one of the configured chain.
func (c *Controller) knowsEndpoint(e forwarding.Endpoint) bool {
	if e.IsDirect() {
		return true
	}
	return slices.Contains(c.endpoints, e)
}

// State returns a copy of the current run state.
func (c *Controller) State() RunState {
	c.lock.Lock()
	defer c.lock.Unlock()
	out := c.state.clone()
	out.CancelRequested = c.cancelRequested.Load()
	return out
}

// Stop asks the running pipeline to halt at its next checkpoint, the
// request in flight is left to finish.
func (c *Controller) Stop() {
	c.lock.Lock()
	running := c.state.IsRunning()
	c.lock.Unlock()
	if !running {
		return
	}
	if c.cancelRequested.CompareAndSwap(false, true) {
		slog.Info("stop requested", "run_id", c.State().RunID)
	}
}

func (c *Controller) update(fn func(s *RunState)) RunState {
	c.lock.Lock()
	defer c.lock.Unlock()
	fn(&c.state)
	return c.state.clone()
}

func (c *Controller) status(ctx context.Context, message string, severity Severity) {
	slog.DebugContext(ctx, "status", "message", message, "severity", severity.String())
	c.observer.OnStatus(message, severity)
}

func (c *Controller) progress(state RunState) {
	c.observer.OnProgress(state.Progress(), state.ProgressLabel())
}

// stopped is the cancellation checkpoint at the top of every loop iteration.
func (c *Controller) stopped(ctx context.Context) bool {
	if !c.cancelRequested.Load() {
		return false
	}
	c.lock.Lock()
	first := !c.stopNoticed
	c.stopNoticed = true
	c.lock.Unlock()
	if first {
		c.status(ctx, "Scraping stopped by user", SeverityInfo)
	}
	return true
}

// Start resets the run state and runs both phases to completion or until
// Stop is called. Cancelling ctx has the same effect as Stop, it never
// aborts a request that is already in flight.
func (c *Controller) Start(ctx context.Context, cfg RunConfig) (RunState, error) {
	err := cfg.Validate()
	if err != nil {
		return RunState{}, err
	}
	if !c.knowsEndpoint(cfg.Endpoint) {
		return RunState{}, fmt.Errorf("%w: %s", ErrUnknownEndpoint, cfg.Endpoint.Name())
	}

	runId, err := random.String(8)
	if err != nil {
		return RunState{}, err
	}

	c.lock.Lock()
	if c.state.IsRunning() {
		c.lock.Unlock()
		return RunState{}, ErrAlreadyRunning
	}
	c.coupons = newCouponSet()
	c.stopNoticed = false
	c.cancelRequested.Store(false)
	c.state = RunState{
		RunID:     runId,
		Status:    StatusRunning,
		Phase:     PhaseListing,
		PageStart: cfg.PageStart,
		PageEnd:   cfg.PageEnd,
		StartedAt: time.Now(),
	}
	c.lock.Unlock()

	stopOnCancel := context.AfterFunc(ctx, c.Stop)
	defer stopOnCancel()

	ctx, span := tracer.Start(context.WithoutCancel(ctx), "controller:Start")
	defer span.End()
	span.SetAttributes(
		attribute.String("run_id", runId),
		attribute.Int("page_start", cfg.PageStart),
		attribute.Int("page_end", cfg.PageEnd),
		attribute.String("endpoint", cfg.Endpoint.Name()),
	)

	slog.InfoContext(
		ctx, "run started",
		"run_id", runId,
		"page_start", cfg.PageStart,
		"page_end", cfg.PageEnd,
		"endpoint", cfg.Endpoint.Name(),
	)
	c.status(ctx, fmt.Sprintf("Starting scraper... Pages %d to %d", cfg.PageStart, cfg.PageEnd), SeverityInfo)

	links := c.scanListings(ctx, cfg)
	c.resolveCourses(ctx, links)

	return c.finish(ctx), nil
}

func (c *Controller) scanListings(ctx context.Context, cfg RunConfig) []string {
	ctx, span := tracer.Start(ctx, "controller:scanListings")
	defer span.End()

	var links []string
	for page := cfg.PageStart; page <= cfg.PageEnd; page++ {
		if c.stopped(ctx) {
			break
		}

		links = append(links, c.scanListing(ctx, cfg.Endpoint, page)...)

		state := c.update(func(s *RunState) {
			s.CurrentPageIndex = page - cfg.PageStart + 1
		})
		c.progress(state)

		if page < cfg.PageEnd {
			c.sleep(c.listingPause)
		}
	}

	span.SetAttributes(attribute.Int("courses", len(links)))
	return links
}

func (c *Controller) scanListing(ctx context.Context, endpoint forwarding.Endpoint, page int) []string {
	ctx, span := tracer.Start(ctx, "controller:scanListing")
	defer span.End()
	span.SetAttributes(attribute.Int("page", page))

	c.status(ctx, fmt.Sprintf("Scraping listing page %d...", page), SeverityInfo)

	html, err := c.fetcher.FetchThroughEndpoint(ctx, endpoint, discudemy.ListingURL(c.origin, page))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch listing page")
		unitFailures.Add(ctx, 1)
		slog.WarnContext(
			ctx, "failed to fetch listing page",
			"page", page,
			"endpoint", endpoint.Name(),
			"err", err,
		)
		c.status(ctx, textutil.Redact(fmt.Sprintf("Error scraping page %d: %s", page, forwarding.Reason(err))), SeverityError)
		return nil
	}

	links := discudemy.CourseLinks(html, c.origin)
	pagesScanned.Add(ctx, 1)
	c.status(ctx, fmt.Sprintf("Found %d courses on page %d", len(links), page), SeveritySuccess)
	return links
}

func (c *Controller) resolveCourses(ctx context.Context, links []string) {
	ctx, span := tracer.Start(ctx, "controller:resolveCourses")
	defer span.End()

	c.update(func(s *RunState) {
		s.Phase = PhaseResolution
		s.TotalCourseCount = len(links)
	})
	if c.stopped(ctx) {
		return
	}
	c.status(ctx, fmt.Sprintf("Found %d total courses. Extracting coupons...", len(links)), SeverityInfo)

	for i, link := range links {
		if c.stopped(ctx) {
			break
		}

		c.resolveCourse(ctx, i+1, link)

		state := c.update(func(s *RunState) {
			s.ProcessedCourseCount = i + 1
		})
		c.progress(state)

		if i < len(links)-1 {
			c.sleep(c.coursePause)
		}
	}
}

func (c *Controller) resolveCourse(ctx context.Context, index int, link string) {
	coupon, err := Resolve(ctx, c.fetcher, c.endpoints, link, c.origin)
	coursesProcessed.Add(ctx, 1)

	switch {
	case err == nil:
		if c.addCoupon(coupon) {
			couponsFound.Add(ctx, 1)
			c.observer.OnCouponDiscovered(coupon)
		}
	case errors.Is(err, ErrExtractionMiss):
		slog.InfoContext(ctx, "no coupon for course", "course", link, "err", err)
		c.status(ctx, fmt.Sprintf("No coupon found for course %d", index), SeverityInfo)
	default:
		unitFailures.Add(ctx, 1)
		slog.WarnContext(ctx, "skipped course", "course", link, "err", err)
		c.status(ctx, textutil.Redact(fmt.Sprintf("Skipped course %d: %s", index, forwarding.Reason(err))), SeverityError)
	}
}

func (c *Controller) addCoupon(coupon string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	added := c.coupons.Add(coupon)
	if added {
		c.state.Coupons = append(c.state.Coupons, coupon)
	}
	return added
}

func (c *Controller) finish(ctx context.Context) RunState {
	c.lock.Lock()
	status := StatusCompleted
	if c.stopNoticed {
		status = StatusStopped
	}
	c.state.Status = status
	c.state.Outcome = status
	c.state.FinishedAt = time.Now()
	final := c.state.clone()
	c.lock.Unlock()

	final.CancelRequested = c.cancelRequested.Load()
	count := len(final.Coupons)

	slog.InfoContext(
		ctx, "run finished",
		"run_id", final.RunID,
		"status", status.String(),
		"courses", final.TotalCourseCount,
		"processed", final.ProcessedCourseCount,
		"coupons", count,
		"elapsed", final.FinishedAt.Sub(final.StartedAt).String(),
	)

	if status == StatusCompleted {
		c.observer.OnProgress(1, "Done")
		c.status(ctx, fmt.Sprintf("Scraping complete! Found %d unique coupons.", count), SeveritySuccess)
	} else {
		c.status(ctx, fmt.Sprintf("Scraping stopped. Found %d unique coupons.", count), SeverityInfo)
	}

	c.update(func(s *RunState) {
		s.Status = StatusIdle
	})
	return final
}
