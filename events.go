package present

import "fmt"

// Event identifies a lifecycle milestone broadcast to addons.
type Event uint8

const (
	// EventSurfaceInitialized fires once per successful Initialize,
	// immediately after the base back buffer is bound and before any
	// multisample-resolve resource is created.
	EventSurfaceInitialized Event = iota

	// EventSurfaceDestroyed fires at the start of resource teardown in
	// Reset, before any resource is released.
	EventSurfaceDestroyed
)

// String returns the event name.
func (e Event) String() string {
	switch e {
	case EventSurfaceInitialized:
		return "SurfaceInitialized"
	case EventSurfaceDestroyed:
		return "SurfaceDestroyed"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(e))
	}
}

// EventBus delivers lifecycle events to registered addons. Registration
// and dispatch ordering are the bus implementation's concern; this
// package only guarantees when Notify is called relative to resource
// allocation and release.
type EventBus interface {
	Notify(event Event, sc *Swapchain)
}

// NopBus is an EventBus that drops all events. Used when no addons are
// loaded.
type NopBus struct{}

// Notify implements EventBus.
func (NopBus) Notify(Event, *Swapchain) {}

// MultiBus fans out every event to each bus in order. A nil entry is
// skipped.
type MultiBus []EventBus

// Notify implements EventBus.
func (m MultiBus) Notify(event Event, sc *Swapchain) {
	for _, b := range m {
		if b != nil {
			b.Notify(event, sc)
		}
	}
}
