//go:build webgpu

package webgpu

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/gogpu/present"
	"github.com/gogpu/present/backend"
)

// ErrLibraryNotFound is returned when the wgpu-native shared library
// cannot be loaded.
var ErrLibraryNotFound = errors.New("webgpu: wgpu-native library not found")

// rendererID identifies the wgpu-native FFI device path in adapter
// metadata.
const rendererID = 0x0002_0001

// init registers the webgpu backend on package import.
func init() {
	backend.Register(backend.BackendWebGPU, func() backend.PresentBackend {
		return NewBackend()
	})
}

// Backend is a presentation backend using go-webgpu/webgpu.
//
// The backend manages GPU resources including instance, adapter,
// device, and queue via wgpu-native FFI bindings.
type Backend struct {
	mu sync.RWMutex

	// GPU resources (go-webgpu/webgpu)
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	info present.AdapterInfo

	initialized bool
}

// NewBackend creates a new webgpu presentation backend.
// The backend must be initialized with Init() before use.
func NewBackend() *Backend {
	return &Backend{}
}

// Name returns the backend identifier.
func (b *Backend) Name() string {
	return backend.BackendWebGPU
}

// Init initializes the backend by creating GPU resources.
// This includes initializing wgpu-native, creating an instance,
// requesting an adapter, creating a device, and getting the command
// queue.
//
// Returns an error if GPU initialization fails.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}

	if err := wgpu.Init(); err != nil {
		return fmt.Errorf("%w: %w", ErrLibraryNotFound, err)
	}

	instance, err := wgpu.CreateInstance(nil)
	if err != nil {
		return fmt.Errorf("instance creation failed: %w", err)
	}
	b.instance = instance

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		b.instance.Release()
		b.instance = nil
		return fmt.Errorf("%w: %w", backend.ErrNoGPU, err)
	}
	b.adapter = adapter

	b.info = b.adapterInfo()
	present.Logger().Info("webgpu: adapter selected",
		"description", b.info.Description,
		"vendor", fmt.Sprintf("%#04x", b.info.VendorID),
		"device", fmt.Sprintf("%#04x", b.info.DeviceID))

	device, err := adapter.RequestDevice(nil)
	if err != nil {
		b.adapter.Release()
		b.adapter = nil
		b.instance.Release()
		b.instance = nil
		return fmt.Errorf("device creation failed: %w", err)
	}
	b.device = device

	queue := device.GetQueue()
	if queue == nil {
		b.device.Release()
		b.device = nil
		b.adapter.Release()
		b.adapter = nil
		b.instance.Release()
		b.instance = nil
		return fmt.Errorf("queue retrieval failed")
	}
	b.queue = queue

	b.initialized = true
	present.Logger().Debug("webgpu: backend initialized")

	return nil
}

// Close releases all backend resources.
// The backend should not be used after Close is called.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}

	// Release resources in reverse order of creation
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}

	b.info = present.AdapterInfo{}
	b.initialized = false

	present.Logger().Debug("webgpu: backend closed")
}

// Device returns nil: device operations run on the pure Go wgpu
// backend. This backend provides adapter bring-up and metadata.
func (b *Backend) Device() present.Device {
	return nil
}

// CreateSurface is not implemented for the FFI backend.
func (b *Backend) CreateSurface(present.SwapchainDescriptor) (present.NativeSurface, error) {
	return nil, fmt.Errorf("webgpu: surfaces are served by the wgpu backend")
}

// Capture returns a pass-through bracket; wgpu-native render passes are
// self-contained.
func (b *Backend) Capture() present.StateCapture {
	return nopCapture{}
}

type nopCapture struct{}

func (nopCapture) Capture()         {}
func (nopCapture) ApplyAndRelease() {}

// AdapterInfo reports the selected adapter, including PCI identifiers.
// Returns a zero value if the backend is not initialized.
func (b *Backend) AdapterInfo() present.AdapterInfo {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.info
}

// adapterInfo fetches metadata from the live adapter. Callers must hold
// b.mu.
func (b *Backend) adapterInfo() present.AdapterInfo {
	if b.adapter == nil {
		return present.AdapterInfo{}
	}

	info, err := b.adapter.GetInfo()
	if err != nil {
		return present.AdapterInfo{RendererID: rendererID}
	}

	desc := info.Description
	if desc == "" {
		desc = info.Device
	}
	return present.AdapterInfo{
		VendorID:    info.VendorID,
		DeviceID:    info.DeviceID,
		Description: desc,
		RendererID:  rendererID,
	}
}

// IsInitialized returns true if the backend has been initialized.
func (b *Backend) IsInitialized() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.initialized
}
