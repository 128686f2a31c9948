package present

import (
	"errors"
	"fmt"
	"log/slog"
)

// Swapchain lifecycle errors. Initialize failures leave the instance
// uninitialized; whatever resources were acquired before the failure are
// reclaimed by the next Reset, not rolled back by Initialize itself.
var (
	// ErrNilDevice is returned by NewSwapchain without a Device.
	ErrNilDevice = errors.New("present: device is required")

	// ErrNilSurface is returned by NewSwapchain without a NativeSurface.
	ErrNilSurface = errors.New("present: native surface is required")

	// ErrDescriptorQuery wraps a failure to read the surface descriptor.
	ErrDescriptorQuery = errors.New("present: surface descriptor unavailable")

	// ErrBackBufferAcquire wraps a failure to acquire the back buffer.
	ErrBackBufferAcquire = errors.New("present: back buffer unavailable")

	// ErrResolveTargetCreate wraps a failed resolve target allocation.
	ErrResolveTargetCreate = errors.New("present: resolve target creation failed")

	// ErrRenderTargetViewCreate wraps a failed render-target view
	// creation over the multisampled back buffer.
	ErrRenderTargetViewCreate = errors.New("present: back buffer render target view creation failed")

	// ErrShaderViewCreate wraps a failed shader view creation over the
	// resolve target.
	ErrShaderViewCreate = errors.New("present: resolve shader view creation failed")

	// ErrSurfaceRejected is returned when the runtime hook declines the
	// surface (OnSurfaceReady returned false).
	ErrSurfaceRejected = errors.New("present: runtime rejected surface")
)

// Config assembles the collaborators of a Swapchain. Device and Surface
// are required; every other field defaults to a no-op implementation.
type Config struct {
	// Device creates resources and issues the resolve blit.
	Device Device

	// Surface is the native presentation surface being managed.
	Surface NativeSurface

	// Capture saves and restores the host pipeline state around the
	// overlay render insertion point. Defaults to a no-op capture for
	// backends without mutable global state.
	Capture StateCapture

	// Bus receives surface lifecycle events. Defaults to NopBus.
	Bus EventBus

	// Hooks is the overlay runtime. Defaults to NopHooks.
	Hooks RuntimeHooks

	// Logger overrides the package logger for this swapchain.
	Logger *slog.Logger
}

// Swapchain drives the resource lifecycle of one presentation surface:
// Initialize on creation and resize, Present once per frame, Reset
// before destruction or before re-Initialize on resize, Close at the
// end of life.
//
// Initialize, Reset and Present must be invoked serially from the thread
// that owns the associated device context; the Swapchain performs no
// internal locking.
type Swapchain struct {
	*Object

	device  Device
	surface NativeSurface
	capture StateCapture
	bus     EventBus
	hooks   RuntimeHooks
	log     *slog.Logger

	res resourceSet

	width   uint32
	height  uint32
	format  TextureFormat
	adapter AdapterInfo

	initialized bool
}

// NewSwapchain wraps a native surface. The returned Swapchain is
// uninitialized; call Initialize once the surface is ready.
func NewSwapchain(cfg Config) (*Swapchain, error) {
	if cfg.Device == nil {
		return nil, ErrNilDevice
	}
	if cfg.Surface == nil {
		return nil, ErrNilSurface
	}
	if cfg.Capture == nil {
		cfg.Capture = nopStateCapture{}
	}
	if cfg.Bus == nil {
		cfg.Bus = NopBus{}
	}
	if cfg.Hooks == nil {
		cfg.Hooks = NopHooks{}
	}
	if cfg.Logger == nil {
		cfg.Logger = Logger()
	}

	sc := &Swapchain{
		device:  cfg.Device,
		surface: cfg.Surface,
		capture: cfg.Capture,
		bus:     cfg.Bus,
		hooks:   cfg.Hooks,
		log:     cfg.Logger,
	}
	sc.Object = NewObject(cfg.Surface.Identity(), map[Capability]any{
		CapabilitySwapchain: sc,
		CapabilityDevice:    cfg.Device,
	}, cfg.Logger)
	return sc, nil
}

// Initialize acquires the surface's resources and hands the surface to
// the overlay runtime. On failure the swapchain stays uninitialized;
// resources acquired before the failure are left for Reset to reclaim.
// The caller decides whether to retry, typically on the next resize or
// device-lost recovery event.
func (sc *Swapchain) Initialize() error {
	desc, err := sc.surface.Descriptor()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDescriptorQuery, err)
	}

	backBuffer, err := sc.surface.AcquireBackBuffer()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBackBufferAcquire, err)
	}
	sc.res.backBuffer = backBuffer

	// Addons see the surface as soon as the back buffer is bound and
	// before any resolve resource exists.
	sc.bus.Notify(EventSurfaceInitialized, sc)

	if desc.SampleCount > 1 {
		resolved, err := sc.device.CreateTexture2D(TextureDesc{
			Label:       "present_resolve",
			Width:       desc.Width,
			Height:      desc.Height,
			Format:      desc.Format,
			SampleCount: 1,
		})
		if err != nil {
			sc.log.Error("present: failed to create back buffer resolve texture", "error", err)
			return fmt.Errorf("%w: %w", ErrResolveTargetCreate, err)
		}
		sc.res.resolved = resolved

		rtv, err := sc.device.CreateRenderTargetView(backBuffer)
		if err != nil {
			sc.log.Error("present: failed to create back buffer render target view", "error", err)
			return fmt.Errorf("%w: %w", ErrRenderTargetViewCreate, err)
		}
		sc.res.resolvedRTV = rtv

		srv, err := sc.device.CreateShaderView(resolved)
		if err != nil {
			sc.log.Error("present: failed to create resolve shader view", "error", err)
			return fmt.Errorf("%w: %w", ErrShaderViewCreate, err)
		}
		sc.res.resolvedSRV = srv
	} else {
		// Single-sample: the resolve target aliases the back buffer.
		sc.res.resolved = backBuffer
	}

	sc.width = desc.Width
	sc.height = desc.Height
	sc.format = desc.Format

	if info, err := sc.surface.AdapterInfo(); err == nil {
		sc.adapter = info
		sc.log.Info("present: running on", "adapter", info.Description,
			"vendor", info.VendorID, "device", info.DeviceID)
	} else {
		sc.log.Debug("present: adapter metadata unavailable", "error", err)
	}

	if !sc.hooks.OnSurfaceReady(desc.Window) {
		return ErrSurfaceRejected
	}

	sc.initialized = true
	sc.log.Debug("present: surface initialized",
		"width", sc.width, "height", sc.height,
		"format", sc.format, "samples", desc.SampleCount)
	return nil
}

// Reset tears the surface's resources down. It is always safe to call:
// on a never-initialized swapchain, after a failed Initialize (where it
// reclaims whatever was partially created), and repeatedly.
func (sc *Swapchain) Reset() {
	// Dependent subsystems drop their references before the resources
	// disappear.
	sc.hooks.OnSurfaceTornDown()
	sc.bus.Notify(EventSurfaceDestroyed, sc)

	sc.res.releaseAll()
	sc.initialized = false
}

// Present runs the per-frame sequence around the host's own present:
// capture the host pipeline state, resolve the multisampled back buffer,
// run the overlay render hook, blit the overlaid image back, restore the
// host state. While uninitialized (for example inside a resize window)
// the frame is silently skipped.
//
// Native failures inside the sequence are not individually checked;
// presentation must not stall the host frame.
func (sc *Swapchain) Present() {
	if !sc.initialized {
		return
	}

	sc.capture.Capture()
	defer sc.capture.ApplyAndRelease()

	if sc.res.msaa() {
		sc.device.ResolveTexture(sc.res.resolved, sc.res.backBuffer, sc.format)
	}

	sc.hooks.OnFramePresent()

	if sc.res.msaa() {
		sc.device.DrawResolveBlit(ResolveBlit{
			Target:      sc.res.resolvedRTV,
			Source:      sc.res.resolvedSRV,
			Assets:      sc.device.ResolveAssets(),
			Viewport:    Viewport{Width: sc.width, Height: sc.height},
			VertexCount: ResolveBlitVertexCount,
		})
	}
}

// BackBuffer returns the base back buffer. index must be 0: this package
// models a single back buffer slot, and any other index is a caller bug.
func (sc *Swapchain) BackBuffer(index uint32) Resource {
	if index != 0 {
		panic(fmt.Sprintf("present: back buffer index %d out of range (single-buffer model)", index))
	}
	return sc.res.backBuffer
}

// BackBufferResolved returns the single-sample resolve target, which is
// the back buffer itself when multisampling is off. index must be 0.
func (sc *Swapchain) BackBufferResolved(index uint32) Resource {
	if index != 0 {
		panic(fmt.Sprintf("present: back buffer index %d out of range (single-buffer model)", index))
	}
	return sc.res.resolved
}

// Initialized reports whether the swapchain currently owns live surface
// resources and will present frames.
func (sc *Swapchain) Initialized() bool { return sc.initialized }

// Width returns the surface width recorded at Initialize.
func (sc *Swapchain) Width() uint32 { return sc.width }

// Height returns the surface height recorded at Initialize.
func (sc *Swapchain) Height() uint32 { return sc.height }

// Format returns the surface format recorded at Initialize.
func (sc *Swapchain) Format() TextureFormat { return sc.format }

// Adapter returns the best-effort adapter metadata captured at
// Initialize. Zero-valued when the query failed.
func (sc *Swapchain) Adapter() AdapterInfo { return sc.adapter }

// Device returns the device collaborator this swapchain was built on.
func (sc *Swapchain) Device() Device { return sc.device }

// Close performs the final teardown: a last Reset followed by the
// wrapper leak check. The swapchain must not be used afterwards.
func (sc *Swapchain) Close() error {
	sc.Reset()
	return sc.Object.Close()
}
