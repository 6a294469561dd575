package progress

import (
	"context"
	"sync"
	"time"

	"github.com/viant/structor/internal/clock"
)

// Delta represents a signed counter change
type Delta struct {
	Total     int
	Completed int
	Failed    int
	Cached    int
	Running   int
	Steps     int
	Branches  int
}

// Snapshot represents a read-only copy of counters
type Snapshot struct {
	Session   string
	StartedAt time.Time

	TotalFields     int
	CompletedFields int
	FailedFields    int
	CachedFields    int
	RunningFields   int

	// Steps counts finished workflow steps, Branches counts chosen explanations
	Steps    int
	Branches int
}

// Elapsed returns time since the run started
func (s Snapshot) Elapsed() time.Duration {
	return clock.Since(s.StartedAt)
}

// Progress keeps counters for one run, it is safe for concurrent use
type Progress struct {
	mux      sync.Mutex
	snapshot Snapshot
	onChange func(Snapshot)
}

// New creates a tracker
func New(session string, onChange func(Snapshot)) *Progress {
	return &Progress{
		snapshot: Snapshot{Session: session, StartedAt: clock.Now()},
		onChange: onChange,
	}
}

// Update applies delta and notifies the callback outside the lock
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}
	p.mux.Lock()
	p.snapshot.TotalFields += d.Total
	p.snapshot.CompletedFields += d.Completed
	p.snapshot.FailedFields += d.Failed
	p.snapshot.CachedFields += d.Cached
	p.snapshot.RunningFields += d.Running
	p.snapshot.Steps += d.Steps
	p.snapshot.Branches += d.Branches
	snapshot := p.snapshot
	cb := p.onChange
	p.mux.Unlock()
	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of counters
func (p *Progress) Snapshot() Snapshot {
	if p == nil {
		return Snapshot{}
	}
	p.mux.Lock()
	defer p.mux.Unlock()
	return p.snapshot
}

// OnChange replaces the change callback, nil disables it
func (p *Progress) OnChange(cb func(Snapshot)) {
	if p == nil {
		return
	}
	p.mux.Lock()
	p.onChange = cb
	p.mux.Unlock()
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithTracker embeds tracker in a derived context
func WithTracker(ctx context.Context, tracker *Progress) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, trackerKey, tracker)
}

// WithNewTracker creates a tracker and embeds it in a derived context
func WithNewTracker(ctx context.Context, session string, onChange func(Snapshot)) (context.Context, *Progress) {
	tracker := New(session, onChange)
	return WithTracker(ctx, tracker), tracker
}

// FromContext returns the tracker carried by ctx
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tracker, ok := ctx.Value(trackerKey).(*Progress)
	return tracker, ok
}

// GetSnapshot returns counters of the tracker carried by ctx
func GetSnapshot(ctx context.Context) (Snapshot, bool) {
	if tracker, ok := FromContext(ctx); ok {
		return tracker.Snapshot(), true
	}
	return Snapshot{}, false
}

// UpdateCtx applies delta to the tracker carried by ctx, if any
func UpdateCtx(ctx context.Context, d Delta) {
	if tracker, ok := FromContext(ctx); ok {
		tracker.Update(d)
	}
}
