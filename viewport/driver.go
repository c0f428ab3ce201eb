package viewport

import "sync"

// NotificationKind is the closed set of events a driver can be told about
// (spec.md §4.3 "Driver notifications"): scripts changing, scripts being
// removed, a theme swap, a resize, or a scene reset.
type NotificationKind uint8

const (
	NotifyScriptsUpdated NotificationKind = iota
	NotifyScriptsDeleted
	NotifyTheme
	NotifyResize
	NotifyResetScene
)

// Notification is one message delivered to an attached driver.
type Notification struct {
	Kind     NotificationKind
	GraphIDs []string // populated for NotifyScriptsUpdated/NotifyScriptsDeleted
	ThemeTag string    // populated for NotifyTheme
	Width    int       // populated for NotifyResize
	Height   int
	SceneID  string // populated for NotifyResetScene
}

// Driver is the contract a rendering/input backend implements against the
// ViewPort (spec.md §1 "Driver"): it reads ScriptTable/SemanticTable for
// paint and hit testing, and receives Notifications when either changes.
type Driver interface {
	// Notify delivers one coordinator notification. Implementations must
	// not block; the coordinator's fan-out already runs each driver on
	// its own goroutine, but a slow consumer still risks the bounded
	// channel's oldest-drop policy discarding its own backlog.
	Notify(n Notification)
}

// driverChannelDepth bounds the per-driver notification backlog (spec.md
// §4.3: "bounded per-driver notification channel with oldest-drop
// backpressure"). A driver that falls behind loses its oldest queued
// notifications first, never the newest, so it always catches up to
// current state rather than replaying stale history.
const driverChannelDepth = 64

// driverHandle owns one driver's bounded notification channel and the
// goroutine that drains it into Driver.Notify.
type driverHandle struct {
	id     string
	driver Driver

	mu   sync.Mutex
	ch   chan Notification
	done chan struct{}
}

func newDriverHandle(id string, d Driver) *driverHandle {
	h := &driverHandle{
		id:     id,
		driver: d,
		ch:     make(chan Notification, driverChannelDepth),
		done:   make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *driverHandle) run() {
	for {
		select {
		case n := <-h.ch:
			h.driver.Notify(n)
		case <-h.done:
			return
		}
	}
}

// send enqueues n, dropping the oldest queued notification if the channel
// is full rather than blocking the coordinator's writer (spec.md §4.3).
func (h *driverHandle) send(n Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	select {
	case h.ch <- n:
		return
	default:
	}
	select {
	case <-h.ch:
	default:
	}
	select {
	case h.ch <- n:
	default:
	}
}

func (h *driverHandle) stop() {
	close(h.done)
}

// AttachDriver registers d under id, replacing any previous driver
// attached under the same id (spec.md §4.1 "attach_driver"). The new
// driver receives a full resync via NotifyScriptsUpdated for every
// currently-live graph id so it doesn't need out-of-band bootstrapping.
func (vp *ViewPort) AttachDriver(id string, d Driver) {
	vp.driversMu.Lock()
	if old, ok := vp.drivers[id]; ok {
		old.stop()
	}
	h := newDriverHandle(id, d)
	vp.drivers[id] = h
	vp.driversMu.Unlock()

	ids := vp.ListScriptIds()
	if len(ids) > 0 {
		h.send(Notification{Kind: NotifyScriptsUpdated, GraphIDs: ids})
	}
}

// HasDrivers reports whether any driver is currently attached (spec.md §7
// "NoDriverError... when no driver is attached to receive the synthetic
// input").
func (vp *ViewPort) HasDrivers() bool {
	vp.driversMu.RLock()
	defer vp.driversMu.RUnlock()
	return len(vp.drivers) > 0
}

// DetachDriver removes and stops the driver registered under id (spec.md
// §4.1 "detach_driver"). Unknown ids are a no-op.
func (vp *ViewPort) DetachDriver(id string) {
	vp.driversMu.Lock()
	defer vp.driversMu.Unlock()
	if h, ok := vp.drivers[id]; ok {
		h.stop()
		delete(vp.drivers, id)
	}
}
