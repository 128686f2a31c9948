package backend

import (
	"errors"

	"github.com/gogpu/present"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")

	// ErrNoGPU is returned when no usable GPU adapter is found.
	ErrNoGPU = errors.New("backend: no GPU adapter available")
)

// Backend names.
const (
	// BackendWGPU is the name of the pure Go GPU backend (gogpu/wgpu HAL).
	BackendWGPU = "wgpu"

	// BackendWebGPU is the name of the FFI GPU backend (go-webgpu/webgpu).
	BackendWebGPU = "webgpu"
)

// PresentBackend is the interface for presentation backends.
// It abstracts the GPU API behind the swapchain lifecycle, allowing the
// library to drive different device implementations (pure Go wgpu HAL,
// wgpu-native FFI, test doubles).
//
// Backends must be registered via Register() and are selected via
// Get() or Default().
type PresentBackend interface {
	// Name returns the backend identifier (e.g., "wgpu", "webgpu").
	Name() string

	// Init initializes the backend.
	// This should be called before any other operations.
	Init() error

	// Close releases all backend resources.
	// The backend should not be used after Close is called.
	Close()

	// Device returns the presentation device for this backend.
	// Returns nil if the backend is not initialized or the backend
	// does not implement device operations.
	Device() present.Device

	// CreateSurface creates a native surface the swapchain binds to.
	// The descriptor carries the requested extent, format, and sample
	// count; the surface reports them back through its Descriptor method.
	CreateSurface(desc present.SwapchainDescriptor) (present.NativeSurface, error)

	// Capture returns a state capture bracket for this backend.
	Capture() present.StateCapture
}
