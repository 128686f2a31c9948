// Package present manages the lifetime of presentation-surface resources
// and provides an extensible object model for overlay injection.
//
// # Overview
//
// present sits between a windowing system's frame-presentation mechanism
// and a set of third-party observers (addons). It owns a surface's back
// buffers, performs multisample resolution when required, brackets the
// host's overlay rendering with a save/restore of the pipeline state, and
// lets unrelated extensions attach opaque data to any wrapped native
// resource without modifying that resource's definition.
//
// # Quick Start
//
//	sc, err := present.NewSwapchain(present.Config{
//	    Device:  dev,     // a backend Device, e.g. backend/wgpu
//	    Surface: surf,    // the native surface being presented
//	    Hooks:   overlay, // the overlay runtime
//	})
//	if err != nil {
//	    // misconfigured: nil device or surface
//	}
//	if err := sc.Initialize(); err != nil {
//	    // surface not usable; retry on the next resize
//	}
//	for running {
//	    // host renders its frame ...
//	    sc.Present()
//	}
//	sc.Close()
//
// # Architecture
//
// The library is organized into:
//   - Public API: Swapchain, Object, Key, Device, EventBus, RuntimeHooks
//   - Backends: backend/wgpu (gogpu/wgpu implementation of the Device,
//     NativeSurface and StateCapture contracts)
//   - Addons: addon/capture (frame screenshot addon)
//
// # Lifecycle
//
// Initialize, Reset and Present must be called serially from the thread
// that owns the associated device context. Reset is always safe to call,
// including on a never-initialized swapchain; a resize is Reset followed
// by Initialize. Present while uninitialized silently skips the frame.
package present

// Version information
const (
	// Version is the current version of the library
	Version = "0.2.0"
)
