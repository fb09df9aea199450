package store

import (
	"context"
	"log"
	"sort"
	"strconv"
	"sync"
	"time"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/ws"
)

// RemoteStore is the shared order table. FetchAll must keep the three-way
// outcome distinct: an error means unreachable, a nil/empty slice means the
// table is genuinely empty.
type RemoteStore interface {
	FetchAll(ctx context.Context) ([]model.Order, error)
	Create(ctx context.Context, o *model.Order) error
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error
	UpdateKitchenStatus(ctx context.Context, id string, ks model.KitchenStatus) error
	DeleteAll(ctx context.Context) error
}

// Reconciler owns the effective order set. Mutations apply to the in-memory
// view synchronously, then a remote write travels the task queue; a remote
// failure only degrades the connectivity flag, it never rolls the view back.
// A periodic Reconcile pulls the remote table and decides between three
// branches: unreachable (keep view), non-empty (remote wins), empty while the
// view has data (assume the table was wiped and re-upload the cache).
type Reconciler struct {
	remote RemoteStore
	snap   *Snapshot
	hub    *ws.Hub

	mu         sync.RWMutex
	view       []model.Order // sorted by Timestamp ascending
	connected  bool
	syncing    bool
	nextNumber int // advisory; every refresh recomputes from the view

	tasks chan func(context.Context) error
	poke  chan struct{}

	interval time.Duration
	timeout  time.Duration
	debounce time.Duration
	lastRun  time.Time
}

// New builds a Reconciler around the remote table and the local snapshot dir.
// interval is the polling period for full refreshes.
func New(remote RemoteStore, snap *Snapshot, hub *ws.Hub, interval time.Duration) *Reconciler {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Reconciler{
		remote:     remote,
		snap:       snap,
		hub:        hub,
		connected:  true,
		nextNumber: 1,
		tasks:      make(chan func(context.Context) error, 256),
		poke:       make(chan struct{}, 1),
		interval:   interval,
		timeout:    5 * time.Second,
		debounce:   500 * time.Millisecond,
	}
}

// Run drives the poll loop and the remote-write worker until ctx is done.
func (r *Reconciler) Run(ctx context.Context) {
	go r.worker(ctx)

	r.Reconcile(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Reconcile(ctx)
		case <-r.poke:
			// Pokes arrive alongside the ticker; collapse bursts so push and
			// poll never stack redundant refreshes.
			r.mu.RLock()
			recent := time.Since(r.lastRun) < r.debounce
			r.mu.RUnlock()
			if !recent {
				r.Reconcile(ctx)
			}
		}
	}
}

// Poke requests an out-of-band refresh, e.g. after a change notification.
func (r *Reconciler) Poke() {
	select {
	case r.poke <- struct{}{}:
	default:
	}
}

func (r *Reconciler) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-r.tasks:
			tctx, cancel := context.WithTimeout(ctx, r.timeout)
			err := task(tctx)
			cancel()
			r.mu.Lock()
			if err != nil {
				if r.connected {
					log.Printf("store: remote write failed, going offline: %v", err)
				}
				r.connected = false
			} else {
				r.connected = true
			}
			r.mu.Unlock()
		}
	}
}

func (r *Reconciler) enqueue(task func(context.Context) error) {
	select {
	case r.tasks <- task:
	default:
		// Best-effort writes: the next full refresh re-converges anyway.
		log.Println("store: task queue full, dropping remote write")
	}
}

// Reconcile runs one fetch-and-merge pass. Timer, pokes and tests all come
// through here; there is no other merge entry point.
func (r *Reconciler) Reconcile(ctx context.Context) {
	fctx, cancel := context.WithTimeout(ctx, r.timeout)
	fetched, err := r.remote.FetchAll(fctx)
	cancel()

	now := time.Now()

	r.mu.Lock()
	r.lastRun = now

	if err != nil {
		// Unreachable: keep whatever we have. An empty view falls back to
		// the last local snapshot so a fresh boot offline still shows data.
		if r.connected {
			log.Printf("store: fetch failed, going offline: %v", err)
		}
		r.connected = false
		if len(r.view) == 0 && r.snap != nil {
			r.view = sortOrders(r.snap.LoadOrders())
		}
		r.nextNumber = nextFromOrders(r.view, now)
		r.mu.Unlock()
		return
	}

	r.connected = true

	if len(fetched) == 0 && len(r.view) > 0 {
		// Data-loss heuristic: a reachable but empty table while we hold
		// orders reads as an external wipe. Keep showing local data and
		// re-upload it in the background.
		if !r.syncing {
			r.syncing = true
			resubmit := make([]model.Order, len(r.view))
			copy(resubmit, r.view)
			go r.restore(ctx, resubmit)
		}
		r.nextNumber = nextFromOrders(r.view, now)
		r.mu.Unlock()
		return
	}

	// Remote is authoritative; replace the view and refresh the offline copy.
	r.view = sortOrders(fetched)
	r.nextNumber = nextFromOrders(r.view, now)
	if r.snap != nil {
		r.snap.SaveOrders(r.view)
	}
	r.mu.Unlock()

	go r.hub.Publish("orders_refreshed", map[string]interface{}{"count": len(fetched)})
}

// restore re-submits every cached order as a fresh create. Individual
// failures are logged and abort the pass; the next cycle retries.
func (r *Reconciler) restore(ctx context.Context, orders []model.Order) {
	defer func() {
		r.mu.Lock()
		r.syncing = false
		r.mu.Unlock()
		go r.hub.Publish("sync_finished", nil)
	}()

	go r.hub.Publish("sync_started", map[string]interface{}{"count": len(orders)})
	log.Printf("store: remote table empty with %d cached orders, restoring", len(orders))

	for i := range orders {
		tctx, cancel := context.WithTimeout(ctx, r.timeout)
		err := r.remote.Create(tctx, &orders[i])
		cancel()
		if err != nil {
			log.Printf("store: restore aborted at order %s: %v", orders[i].ID, err)
			r.mu.Lock()
			r.connected = false
			r.mu.Unlock()
			return
		}
	}
}

// ApplyOrder inserts a freshly checked-out order into the view and schedules
// the remote create.
func (r *Reconciler) ApplyOrder(o model.Order) {
	r.mu.Lock()
	r.view = append(r.view, o)
	if o.Timestamp < maxTimestamp(r.view) {
		r.view = sortOrders(r.view)
	}
	if r.snap != nil {
		r.snap.SaveOrders(r.view)
	}
	r.mu.Unlock()

	saved := o
	r.enqueue(func(ctx context.Context) error {
		return r.remote.Create(ctx, &saved)
	})
}

// SetStatus flips an order's payment status locally and schedules the remote
// update. Returns false if the order is unknown.
func (r *Reconciler) SetStatus(id string, status model.OrderStatus) bool {
	r.mu.Lock()
	i, ok := r.find(id)
	if !ok {
		r.mu.Unlock()
		return false
	}
	r.view[i].Status = status
	if r.snap != nil {
		r.snap.SaveOrders(r.view)
	}
	r.mu.Unlock()

	r.enqueue(func(ctx context.Context) error {
		return r.remote.UpdateStatus(ctx, id, status)
	})
	return true
}

// SetKitchenStatus flips an order's kitchen status locally and schedules the
// remote update. Returns false if the order is unknown.
func (r *Reconciler) SetKitchenStatus(id string, ks model.KitchenStatus) bool {
	r.mu.Lock()
	i, ok := r.find(id)
	if !ok {
		r.mu.Unlock()
		return false
	}
	r.view[i].KitchenStatus = ks
	if r.snap != nil {
		r.snap.SaveOrders(r.view)
	}
	r.mu.Unlock()

	r.enqueue(func(ctx context.Context) error {
		return r.remote.UpdateKitchenStatus(ctx, id, ks)
	})
	return true
}

// ResetAll clears the local view and snapshot, rewinds the counter and
// schedules a best-effort remote wipe.
func (r *Reconciler) ResetAll() {
	r.mu.Lock()
	r.view = nil
	r.nextNumber = 1
	if r.snap != nil {
		r.snap.DropOrders()
	}
	r.mu.Unlock()

	r.enqueue(func(ctx context.Context) error {
		return r.remote.DeleteAll(ctx)
	})
}

// Get returns a copy of one order from the view.
func (r *Reconciler) Get(id string) (model.Order, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.find(id)
	if !ok {
		return model.Order{}, false
	}
	return r.view[i], true
}

// Orders returns a copy of the effective order set, oldest first.
func (r *Reconciler) Orders() []model.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Order, len(r.view))
	copy(out, r.view)
	return out
}

// ClaimOrderNumber hands out the next per-day display number. The recomputed
// value from the view wins unless the advisory counter has moved past it,
// which happens when checkouts land faster than remote confirmations.
func (r *Reconciler) ClaimOrderNumber(now time.Time) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := nextFromOrders(r.view, now)
	if r.nextNumber > n {
		n = r.nextNumber
	}
	r.nextNumber = n + 1
	return strconv.Itoa(n)
}

// Connected reports whether the last remote interaction succeeded.
func (r *Reconciler) Connected() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.connected
}

// Syncing reports whether a restoration pass is in flight.
func (r *Reconciler) Syncing() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.syncing
}

// find locates an order in the view by id; callers hold the lock.
func (r *Reconciler) find(id string) (int, bool) {
	for i := range r.view {
		if r.view[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

func sortOrders(orders []model.Order) []model.Order {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Timestamp < orders[j].Timestamp
	})
	return orders
}

func maxTimestamp(orders []model.Order) int64 {
	var max int64
	for i := range orders {
		if orders[i].Timestamp > max {
			max = orders[i].Timestamp
		}
	}
	return max
}

// nextFromOrders derives 1 + max(order number) over today's orders. Numbers
// restart at 1 each calendar day; unparsable numbers count as 0.
func nextFromOrders(orders []model.Order, now time.Time) int {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startMs := dayStart.UnixMilli()

	max := 0
	for i := range orders {
		if orders[i].Timestamp < startMs {
			continue
		}
		if n, err := strconv.Atoi(orders[i].OrderNumber); err == nil && n > max {
			max = n
		}
	}
	return max + 1
}
