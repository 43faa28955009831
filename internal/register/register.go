// Package register holds the guard station's in-memory application state:
// the loaded record set, the house registry, and the pending check-in draft.
// Every mutation goes through the remote store and becomes visible only via
// the reload that follows it; the register never applies an optimistic local
// delta.
package register

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/prasong/village-guard/internal/visitor"
)

// Store is the remote record store the register synchronizes against.
type Store interface {
	List(ctx context.Context) ([]*visitor.Visitor, error)
	ListHouses(ctx context.Context) ([]string, error)
	Create(ctx context.Context, d visitor.Draft, checkIn time.Time) (*visitor.Visitor, error)
	Update(ctx context.Context, v *visitor.Visitor) error
	CheckOut(ctx context.Context, id string, checkOut time.Time) (*visitor.Visitor, error)
}

// Notifier receives lifecycle alerts. Implementations must not block the
// caller on delivery outcome.
type Notifier interface {
	CheckIn(v *visitor.Visitor)
	CheckOut(v *visitor.Visitor)
}

var (
	// ErrBusy is returned when a mutating operation is already in flight.
	ErrBusy = errors.New("another operation is in progress")
	// ErrMissingHouse is returned for a check-in without a house number.
	ErrMissingHouse = errors.New("house number is required")
	// ErrMissingID is returned for a mutation without a record id.
	ErrMissingID = errors.New("record id is required")
	// ErrNotFound is returned when a record id is not in the loaded set.
	ErrNotFound = errors.New("record not found")
	// ErrUnknownHouse is returned under the strict house policy for a house
	// number absent from the registry.
	ErrUnknownHouse = errors.New("house number is not in the registry")
)

// Options configures register behavior.
type Options struct {
	// NamePlaceholder is stored for check-ins submitted without a name.
	// Defaults to visitor.DefaultNamePlaceholder.
	NamePlaceholder string
	// StrictHouses rejects house numbers absent from the registry. Off by
	// default: an unrecognized house number is accepted as free text.
	StrictHouses bool
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Register is the visitor lifecycle controller. One instance is shared by
// all server handlers; it is safe for concurrent use.
type Register struct {
	store    Store
	notifier Notifier
	opts     Options

	mu        sync.Mutex
	visitors  []*visitor.Visitor
	houses    []string
	draft     visitor.Draft
	busy      bool
	reloadSeq uint64
}

// New creates a register over the given store and notifier. A nil notifier
// disables alerts.
func New(store Store, notifier Notifier, opts Options) *Register {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if opts.NamePlaceholder == "" {
		opts.NamePlaceholder = visitor.DefaultNamePlaceholder
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Register{store: store, notifier: notifier, opts: opts}
}

type noopNotifier struct{}

func (noopNotifier) CheckIn(*visitor.Visitor)  {}
func (noopNotifier) CheckOut(*visitor.Visitor) {}

// acquire claims the busy flag gating the mutating operations.
func (r *Register) acquire() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.busy {
		return ErrBusy
	}
	r.busy = true
	return nil
}

func (r *Register) release() {
	r.mu.Lock()
	r.busy = false
	r.mu.Unlock()
}

// Reload fetches the full record set and replaces the in-memory copy,
// sorted most recent check-in first. On failure the previous set is kept.
// Reload is gated by the busy flag like the other mutating operations.
func (r *Register) Reload(ctx context.Context) error {
	if err := r.acquire(); err != nil {
		return err
	}
	defer r.release()
	return r.reload(ctx)
}

// reload performs the fetch-and-replace without touching the busy flag, so
// mutations can re-synchronize while they still hold it. A sequence counter
// guards against a slow fetch overwriting the result of a newer one.
func (r *Register) reload(ctx context.Context) error {
	r.mu.Lock()
	seq := r.reloadSeq
	r.mu.Unlock()

	list, err := r.store.List(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		return err
	}
	if r.reloadSeq != seq {
		// A newer reload already applied; this result is stale.
		return nil
	}
	visitor.SortByCheckInDesc(list)
	r.visitors = list
	r.reloadSeq++
	return nil
}

// ReloadHouses fetches the house registry, substituting the built-in
// fallback list when the store is unreachable or returns nothing, and seeds
// the draft's house number with the first entry if it is still unset.
func (r *Register) ReloadHouses(ctx context.Context) {
	houses, err := r.store.ListHouses(ctx)
	if err != nil {
		slog.Warn("house registry fetch failed; using fallback list", "error", err)
	}
	if len(houses) == 0 {
		houses = append([]string(nil), visitor.FallbackHouses...)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.houses = houses
	if r.draft.HouseNumber == "" {
		r.draft.HouseNumber = houses[0]
	}
}

// CheckIn creates a record for the draft. The submitted draft becomes the
// pending draft, so a failed attempt stays editable for retry; on success
// the draft resets to a blank template seeded with the first house number.
// The arrival notification is dispatched after the store confirms, detached
// from the caller.
func (r *Register) CheckIn(ctx context.Context, d visitor.Draft) (*visitor.Visitor, error) {
	if strings.TrimSpace(d.HouseNumber) == "" {
		return nil, ErrMissingHouse
	}
	if err := r.validateHouse(d.HouseNumber); err != nil {
		return nil, err
	}
	if err := r.acquire(); err != nil {
		return nil, err
	}
	defer r.release()

	r.mu.Lock()
	r.draft = d
	r.mu.Unlock()

	if d.Name == "" {
		d.Name = r.opts.NamePlaceholder
	}

	created, err := r.store.Create(ctx, d, r.opts.Now())
	if err != nil {
		return nil, err
	}

	go r.notifier.CheckIn(created)

	if err := r.reload(ctx); err != nil {
		slog.Warn("reload after check-in failed", "error", err)
	}

	r.mu.Lock()
	r.draft = visitor.Draft{}
	if len(r.houses) > 0 {
		r.draft.HouseNumber = r.houses[0]
	}
	r.mu.Unlock()

	return created, nil
}

// CheckOut asks the store to stamp a departure. The local record is not
// flipped optimistically; the reload after the confirmed write is what
// makes the transition visible.
func (r *Register) CheckOut(ctx context.Context, id string) (*visitor.Visitor, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	if err := r.acquire(); err != nil {
		return nil, err
	}
	defer r.release()

	updated, err := r.store.CheckOut(ctx, id, r.opts.Now())
	if err != nil {
		return nil, err
	}

	go r.notifier.CheckOut(updated)

	if err := r.reload(ctx); err != nil {
		slog.Warn("reload after check-out failed", "error", err)
	}
	return updated, nil
}

// Update pushes a full record to the store and re-synchronizes. Used both
// for field edits and for restore.
func (r *Register) Update(ctx context.Context, v *visitor.Visitor) error {
	if v.ID == "" {
		return ErrMissingID
	}
	if err := r.validateHouse(v.HouseNumber); err != nil {
		return err
	}
	if err := r.acquire(); err != nil {
		return err
	}
	defer r.release()

	if err := r.store.Update(ctx, v); err != nil {
		return err
	}
	if err := r.reload(ctx); err != nil {
		slog.Warn("reload after update failed", "error", err)
	}
	return nil
}

// Restore moves a departed record back to IN, clearing its checkout time.
// The change round-trips through the store like any other update.
func (r *Register) Restore(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}

	r.mu.Lock()
	cur := visitor.FindByID(r.visitors, id)
	r.mu.Unlock()
	if cur == nil {
		return ErrNotFound
	}

	restored := *cur
	restored.Status = visitor.StatusIn
	restored.CheckOutTime = nil
	return r.Update(ctx, &restored)
}

// validateHouse applies the strict house policy, if enabled. An empty loaded
// registry never rejects; that state means the registry itself was
// unavailable.
func (r *Register) validateHouse(house string) error {
	if !r.opts.StrictHouses || house == "" {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.houses) == 0 {
		return nil
	}
	for _, h := range r.houses {
		if h == house {
			return nil
		}
	}
	return ErrUnknownHouse
}

// Visitors returns a snapshot of the loaded record set.
func (r *Register) Visitors() []*visitor.Visitor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*visitor.Visitor(nil), r.visitors...)
}

// Houses returns a snapshot of the house registry.
func (r *Register) Houses() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.houses...)
}

// Draft returns the pending check-in draft.
func (r *Register) Draft() visitor.Draft {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.draft
}

// SetDraft replaces the pending check-in draft.
func (r *Register) SetDraft(d visitor.Draft) {
	r.mu.Lock()
	r.draft = d
	r.mu.Unlock()
}

// Find returns a copy of the record with the given id from the loaded set.
func (r *Register) Find(id string) (*visitor.Visitor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := visitor.FindByID(r.visitors, id)
	if v == nil {
		return nil, false
	}
	c := *v
	return &c, true
}

// Stats summarizes today's traffic from the loaded set.
func (r *Register) Stats() visitor.Stats {
	return visitor.Summarize(r.Visitors(), r.opts.Now())
}

// Hourly buckets today's check-ins by hour of day.
func (r *Register) Hourly() [24]int {
	return visitor.HourlyArrivals(r.Visitors(), r.opts.Now())
}

// Dashboard returns the dashboard view of the loaded set.
func (r *Register) Dashboard(filter visitor.DashboardFilter) []*visitor.Visitor {
	return visitor.Dashboard(r.Visitors(), filter, r.opts.Now())
}

// Listing returns the management-list view of the loaded set.
func (r *Register) Listing(filter visitor.ListFilter, query string) []*visitor.Visitor {
	return visitor.Listing(r.Visitors(), filter, query, r.opts.Now())
}
