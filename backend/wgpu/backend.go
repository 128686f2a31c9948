package wgpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/present"
	"github.com/gogpu/present/backend"
)

// rendererID identifies the pure Go HAL device path in adapter metadata.
// The high half encodes the backend family, the low half the revision.
const rendererID = 0x0001_0001

// init registers the wgpu backend on package import.
func init() {
	backend.Register(backend.BackendWGPU, func() backend.PresentBackend {
		return NewBackend()
	})
}

// Backend is a presentation backend on the gogpu/wgpu HAL.
//
// The backend manages the HAL instance, adapter, device, and queue, plus
// the shared resolve-copy assets all surfaces use. It must be initialized
// with Init() before use.
type Backend struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	adapterName string
	deviceType  gputypes.DeviceType

	dev *Device

	initialized bool
}

// NewBackend creates a new wgpu presentation backend.
// The backend must be initialized with Init() before use.
func NewBackend() *Backend {
	return &Backend{}
}

// Name returns the backend identifier.
func (b *Backend) Name() string {
	return backend.BackendWGPU
}

// Init initializes the backend by creating GPU resources.
// This opens a HAL instance, selects an adapter (discrete or integrated
// GPUs preferred), opens a device, and compiles the resolve-copy shader.
//
// Returns an error if no GPU is available or shader compilation fails.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}

	halBackend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("%w: vulkan backend not compiled in", backend.ErrNoGPU)
	}

	instance, err := halBackend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	b.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		b.teardownLocked()
		return fmt.Errorf("%w: no adapters enumerated", backend.ErrNoGPU)
	}

	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	b.adapterName = selected.Info.Name
	b.deviceType = selected.Info.DeviceType

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		b.teardownLocked()
		return fmt.Errorf("open device: %w", err)
	}
	b.device = openDev.Device
	b.queue = openDev.Queue

	dev, err := newDevice(b.device, b.queue)
	if err != nil {
		b.teardownLocked()
		return fmt.Errorf("create presentation device: %w", err)
	}
	b.dev = dev

	b.initialized = true
	present.Logger().Debug("wgpu: backend initialized", "adapter", b.adapterName)

	return nil
}

// teardownLocked releases GPU resources. Callers must hold b.mu.
func (b *Backend) teardownLocked() {
	if b.dev != nil {
		b.dev.destroy()
		b.dev = nil
	}
	if b.device != nil {
		b.device.Destroy()
		b.device = nil
	}
	if b.instance != nil {
		b.instance.Destroy()
		b.instance = nil
	}
	b.queue = nil
	b.adapterName = ""
	b.deviceType = 0
}

// Close releases all backend resources.
// The backend should not be used after Close is called.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}

	b.teardownLocked()
	b.initialized = false

	present.Logger().Debug("wgpu: backend closed")
}

// Device returns the presentation device.
// Returns nil if the backend is not initialized.
func (b *Backend) Device() present.Device {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.initialized {
		return nil
	}
	return b.dev
}

// CreateSurface creates an offscreen surface with the given descriptor.
// The surface allocates its back buffer on first acquisition.
func (b *Backend) CreateSurface(desc present.SwapchainDescriptor) (present.NativeSurface, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return nil, backend.ErrNotInitialized
	}
	return newSurface(b, desc)
}

// Capture returns a state capture bracket for this backend.
//
// HAL command encoding carries no persistent pipeline state between
// passes, so the bracket only tracks nesting and flags unbalanced
// releases.
func (b *Backend) Capture() present.StateCapture {
	return &stateCapture{}
}

// AdapterName returns the selected adapter name.
// Returns an empty string if the backend is not initialized.
func (b *Backend) AdapterName() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.adapterName
}

// IsInitialized returns true if the backend has been initialized.
func (b *Backend) IsInitialized() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.initialized
}
