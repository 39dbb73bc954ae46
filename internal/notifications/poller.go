package notifications

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"vibeconnect/internal/identity"
	"vibeconnect/internal/models"
	"vibeconnect/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// Defaults used when PollerConfig leaves a field unset.
const (
	DefaultPollInterval = 20 * time.Second
	DefaultPollTimeout  = 10 * time.Second
)

// Resolver applies a decision to a connection request.
type Resolver interface {
	ResolveRequest(ctx context.Context, viewerID, requestID uint, decision models.ConnectionStatus) (*models.ConnectionRequest, error)
}

// Snapshot is an immutable view of the poller's list. Version increases with every change.
type Snapshot struct {
	Version       uint64
	Notifications []models.Notification
	Count         int
}

// PollerConfig tunes the polling schedule.
type PollerConfig struct {
	Interval time.Duration
	Timeout  time.Duration
}

// Poller keeps one viewer's notification list current. It runs at most one
// cycle at a time; a slow cycle delays the next tick instead of queueing it.
type Poller struct {
	viewerID uint
	source   Source
	resolver Resolver
	interval time.Duration
	timeout  time.Duration

	mu        sync.Mutex
	items     []models.Notification
	version   uint64
	clock     uint64
	inFlight  map[uint]int
	held      map[uint]models.Notification
	settled   map[uint]uint64
	listeners map[int]func(Snapshot)
	nextID    int
	started   bool
	cancelled bool
	cancel    context.CancelFunc

	kick chan struct{}
	done chan struct{}
}

// NewPoller creates a poller for viewerID. Call Start to begin polling.
func NewPoller(viewerID uint, source Source, resolver Resolver, cfg PollerConfig) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPollInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultPollTimeout
	}
	return &Poller{
		viewerID:  viewerID,
		source:    source,
		resolver:  resolver,
		interval:  cfg.Interval,
		timeout:   cfg.Timeout,
		inFlight:  make(map[uint]int),
		held:      make(map[uint]models.Notification),
		settled:   make(map[uint]uint64),
		listeners: make(map[int]func(Snapshot)),
		kick:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
}

// Start runs a cycle immediately and then one per interval until ctx ends or Cancel is called.
// Calling Start more than once has no effect.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started || p.cancelled {
		p.mu.Unlock()
		return
	}
	p.started = true
	ctx, p.cancel = context.WithCancel(ctx)
	p.mu.Unlock()

	go p.loop(ctx)
}

func (p *Poller) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.runCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.runCycle(ctx)
		case <-p.kick:
			p.runCycle(ctx)
		}
	}
}

// Cancel stops scheduling. A cycle already in progress completes but its result is discarded.
func (p *Poller) Cancel() {
	p.mu.Lock()
	if p.cancelled {
		p.mu.Unlock()
		return
	}
	p.cancelled = true
	cancel, started := p.cancel, p.started
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if !started {
		close(p.done)
	}
}

// Done is closed once the polling loop has exited.
func (p *Poller) Done() <-chan struct{} {
	return p.done
}

// Refresh asks for a cycle as soon as the loop is free. Requests made while
// one is already queued are coalesced.
func (p *Poller) Refresh() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

// Snapshot returns the current list.
func (p *Poller) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// Subscribe registers fn to receive every new snapshot and returns a function that removes it.
// fn runs on the goroutine that changed the list and must not block.
func (p *Poller) Subscribe(fn func(Snapshot)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

func (p *Poller) snapshotLocked() Snapshot {
	items := make([]models.Notification, len(p.items))
	copy(items, p.items)
	return Snapshot{Version: p.version, Notifications: items, Count: len(items)}
}

// publishLocked bumps the version and returns the snapshot plus the listeners to notify after unlocking.
func (p *Poller) publishLocked() (Snapshot, []func(Snapshot)) {
	p.version++
	fns := make([]func(Snapshot), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	return p.snapshotLocked(), fns
}

func notify(snap Snapshot, fns []func(Snapshot)) {
	for _, fn := range fns {
		fn(snap)
	}
}

func (p *Poller) runCycle(ctx context.Context) {
	p.mu.Lock()
	if p.cancelled {
		p.mu.Unlock()
		return
	}
	p.clock++
	startedAt := p.clock
	p.mu.Unlock()

	// The store call is not aborted by Cancel; it is bounded by the poll timeout instead.
	cycleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()
	cycleCtx = observability.WithCorrelationID(cycleCtx, observability.GenerateCorrelationID())
	cycleCtx = identity.WithViewer(cycleCtx, p.viewerID)

	span, cycleCtx := observability.NewSpan(cycleCtx, "Poller.cycle",
		attribute.Int64("viewer_id", int64(p.viewerID)),
	)
	defer span.End()

	fields := map[string]interface{}{"viewer_id": p.viewerID}
	observability.LogAsyncOperationStart(cycleCtx, "notification_poll", fields)
	start := time.Now()

	items, err := p.source.Refresh(cycleCtx, p.viewerID)
	observability.PollCycleDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		span.SetError(err)
		observability.PollCyclesTotal.WithLabelValues("failed").Inc()
		observability.LogAsyncOperationError(cycleCtx, "notification_poll", err, fields)
		return
	}

	if !p.apply(items, startedAt) {
		observability.PollCyclesTotal.WithLabelValues("discarded").Inc()
		return
	}
	observability.PollCyclesTotal.WithLabelValues("ok").Inc()
	fields["count"] = len(items)
	observability.LogAsyncOperationEnd(cycleCtx, "notification_poll", fields)
}

// apply replaces the list with a cycle result. Items currently being resolved,
// or resolved after the cycle began, are left out.
func (p *Poller) apply(items []models.Notification, startedAt uint64) bool {
	p.mu.Lock()
	if p.cancelled {
		p.mu.Unlock()
		return false
	}

	for id, at := range p.settled {
		if at < startedAt {
			delete(p.settled, id)
		}
	}

	kept := make([]models.Notification, 0, len(items))
	for _, n := range items {
		if _, busy := p.inFlight[n.SourceRequestID]; busy {
			continue
		}
		if _, gone := p.settled[n.SourceRequestID]; gone {
			continue
		}
		kept = append(kept, n)
	}
	p.items = kept

	snap, fns := p.publishLocked()
	p.mu.Unlock()

	notify(snap, fns)
	return true
}

// Resolve removes the notification for requestID at once and then applies
// decision through the resolver. On failure the notification is put back once
// no other Resolve for the same request is pending, except when the request was already resolved elsewhere: then a refresh is
// scheduled and models.ErrAlreadyResolved is returned.
func (p *Poller) Resolve(ctx context.Context, requestID uint, decision models.ConnectionStatus) error {
	p.mu.Lock()
	var (
		removed models.Notification
		present bool
	)
	for i, n := range p.items {
		if n.SourceRequestID == requestID {
			removed, present = n, true
			p.items = append(p.items[:i:i], p.items[i+1:]...)
			break
		}
	}
	p.inFlight[requestID]++
	if present {
		p.held[requestID] = removed
	}
	var (
		snap Snapshot
		fns  []func(Snapshot)
	)
	if present {
		snap, fns = p.publishLocked()
	}
	p.mu.Unlock()
	notify(snap, fns)

	_, err := p.resolver.ResolveRequest(ctx, p.viewerID, requestID, decision)

	p.mu.Lock()
	held, last := p.releaseLocked(requestID)
	switch {
	case err == nil:
		p.settleLocked(requestID)
		p.mu.Unlock()
		return nil

	case errors.Is(err, models.ErrAlreadyResolved):
		p.settleLocked(requestID)
		p.mu.Unlock()
		p.Refresh()
		return err

	default:
		fns = nil
		_, gone := p.settled[requestID]
		if last && held != nil && !gone && !p.cancelled {
			p.restoreLocked(*held)
			observability.OptimisticRollbacksTotal.Inc()
			snap, fns = p.publishLocked()
		}
		p.mu.Unlock()
		notify(snap, fns)
		return err
	}
}

// releaseLocked ends one Resolve call for requestID. The optimistically removed
// item is returned only to the last overlapping call.
func (p *Poller) releaseLocked(requestID uint) (*models.Notification, bool) {
	p.inFlight[requestID]--
	if p.inFlight[requestID] > 0 {
		return nil, false
	}
	delete(p.inFlight, requestID)
	n, ok := p.held[requestID]
	delete(p.held, requestID)
	if !ok {
		return nil, true
	}
	return &n, true
}

func (p *Poller) settleLocked(requestID uint) {
	p.clock++
	p.settled[requestID] = p.clock
}

// restoreLocked reinserts n at its oldest-first position.
func (p *Poller) restoreLocked(n models.Notification) {
	for _, existing := range p.items {
		if existing.SourceRequestID == n.SourceRequestID {
			return
		}
	}
	i := sort.Search(len(p.items), func(i int) bool {
		return before(n, p.items[i])
	})
	p.items = append(p.items, models.Notification{})
	copy(p.items[i+1:], p.items[i:])
	p.items[i] = n
}
