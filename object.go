package present

import (
	"errors"
	"log/slog"
)

// ErrAttachmentLeak is returned by [Object.Close] when the attachment
// store is not empty. Every attacher is responsible for detaching its
// data (SetAttachment with nil) before the wrapped object is destroyed;
// a non-empty store at teardown is a caller bug, not an environmental
// condition.
var ErrAttachmentLeak = errors.New("present: attachments not detached before close")

// Capability tags a facet of an [Object]. Facets are separate concerns
// (a native-identity accessor, a resource view, a device reference)
// assembled at construction and looked up by tag, instead of being
// composed through embedding.
type Capability string

// Capabilities declared by this package. Backends and addons may define
// their own tags; uniqueness is by convention (prefix with the package
// name).
const (
	// CapabilitySwapchain resolves to the *Swapchain owning the object.
	CapabilitySwapchain Capability = "present.swapchain"

	// CapabilityDevice resolves to the Device the object was created on.
	CapabilityDevice Capability = "present.device"
)

// attachmentEntry is one GUID-keyed slot in an Object's store.
// The store never owns value; lifetime is the attacher's responsibility.
type attachmentEntry struct {
	key   Key
	value any
}

// Object gives a tracked native graphics resource a uniform identity, a
// set of capability facets, and a generic GUID-keyed attachment store.
//
// An Object owns exactly one native handle; copying the wrapper would
// create two independent attachment stores for one underlying resource,
// so Objects are only ever used through pointers returned by [NewObject].
//
// The attachment store is unsynchronized. Callers attaching or detaching
// data from multiple goroutines must serialize externally.
type Object struct {
	handle uint64
	facets map[Capability]any

	// Linear GUID-keyed store. A handful of addons per object is the
	// expected scale; linear scan beats a map there.
	entries []attachmentEntry

	closed bool
	log    *slog.Logger
}

// NewObject wraps the given native handle. The facet set is fixed at
// construction; pass nil when the object exposes no capabilities.
// A nil logger falls back to the package logger.
func NewObject(handle uint64, facets map[Capability]any, log *slog.Logger) *Object {
	if log == nil {
		log = Logger()
	}
	return &Object{handle: handle, facets: facets, log: log}
}

// NativeIdentity returns a stable numeric representation of the wrapped
// handle, usable as an opaque cross-boundary identifier.
func (o *Object) NativeIdentity() uint64 {
	return o.handle
}

// Facet returns the facet registered under the given capability tag.
func (o *Object) Facet(c Capability) (any, bool) {
	v, ok := o.facets[c]
	return v, ok
}

// Attachment returns the data stored under key, or false if the key was
// never set or has been detached.
func (o *Object) Attachment(key Key) (any, bool) {
	for i := range o.entries {
		if o.entries[i].key == key {
			return o.entries[i].value, true
		}
	}
	return nil, false
}

// SetAttachment stores value under key. Setting a nil value detaches the
// key; there is no separate remove operation. Setting a nil value for a
// key that was never attached is a no-op. The store keeps at most one
// entry per key.
func (o *Object) SetAttachment(key Key, value any) {
	for i := range o.entries {
		if o.entries[i].key != key {
			continue
		}
		if value == nil {
			o.entries = append(o.entries[:i], o.entries[i+1:]...)
		} else {
			o.entries[i].value = value
		}
		return
	}

	if value != nil {
		o.entries = append(o.entries, attachmentEntry{key: key, value: value})
	}
}

// AttachmentCount returns the number of live entries in the store.
func (o *Object) AttachmentCount() int {
	return len(o.entries)
}

// Close tears the wrapper down. The attachment store must be empty: a
// non-empty store means some extension never detached its data, and
// Close reports that as ErrAttachmentLeak after logging the leaked keys.
// The entries are dropped either way. Close is idempotent.
func (o *Object) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true

	if len(o.entries) == 0 {
		return nil
	}

	keys := make([]string, len(o.entries))
	for i := range o.entries {
		keys[i] = o.entries[i].key.String()
	}
	o.log.Warn("present: attachment leak at object teardown",
		"handle", o.handle,
		"count", len(o.entries),
		"keys", keys)
	o.entries = nil
	return ErrAttachmentLeak
}
