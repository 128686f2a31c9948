package host

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/present"
	"github.com/gogpu/present/backend"
)

var (
	// ErrNilProvider is returned when a nil DeviceProvider is passed.
	ErrNilProvider = errors.New("host: nil DeviceProvider")

	// ErrNilDevice is returned when no presentation device is supplied.
	ErrNilDevice = errors.New("host: nil presentation device")
)

// rendererID distinguishes host-context adapter metadata.
const rendererID = 0x0003_0001

// AdapterDescriber is optionally implemented by a provider's adapter.
// gpucontext.Adapter itself is a marker interface; hosts that can
// report hardware identity implement this on their adapter value.
type AdapterDescriber interface {
	AdapterInfo() (vendorID, deviceID uint32, description string)
}

// Backend serves presentation from a GPU context the host application
// owns. Unlike the wgpu backend it never creates or destroys a device;
// it borrows the provider's context and the supplied presentation
// device, which must wrap the same underlying HAL context.
//
// Backends of this kind are constructed per provider, so they are not
// in the package backend registry.
type Backend struct {
	provider gpucontext.DeviceProvider
	dev      present.Device

	initialized bool
}

// New returns a backend borrowing the host's GPU context. dev serves
// the presentation device operations over the same context.
func New(provider gpucontext.DeviceProvider, dev present.Device) (*Backend, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	if dev == nil {
		return nil, ErrNilDevice
	}
	return &Backend{provider: provider, dev: dev}, nil
}

// Name implements backend.PresentBackend.
func (b *Backend) Name() string { return "host" }

// Init implements backend.PresentBackend. It verifies the provider has
// a live device; it creates nothing.
func (b *Backend) Init() error {
	if b.provider.Device() == nil {
		return fmt.Errorf("%w: provider has no device", backend.ErrNoGPU)
	}
	b.initialized = true
	return nil
}

// Close implements backend.PresentBackend. The host owns the context,
// so nothing is released.
func (b *Backend) Close() {
	b.initialized = false
}

// Device implements backend.PresentBackend.
func (b *Backend) Device() present.Device {
	if !b.initialized {
		return nil
	}
	return b.dev
}

// Capture implements backend.PresentBackend.
func (b *Backend) Capture() present.StateCapture { return nopCapture{} }

// Flush blocks until the host device has finished pending GPU work.
// Call between Present and buffer reuse when the host needs a hard
// sync point.
func (b *Backend) Flush() {
	if dev := b.provider.Device(); dev != nil {
		dev.Poll(true)
	}
}

// CreateSurface implements backend.PresentBackend. A zero Format in the
// descriptor takes the host's surface format.
func (b *Backend) CreateSurface(desc present.SwapchainDescriptor) (present.NativeSurface, error) {
	if !b.initialized {
		return nil, backend.ErrNotInitialized
	}
	if desc.Width == 0 || desc.Height == 0 {
		return nil, fmt.Errorf("host: surface needs a nonzero extent, have %dx%d", desc.Width, desc.Height)
	}
	if desc.Format == present.TextureFormatUnknown {
		desc.Format = fromContextFormat(b.provider.SurfaceFormat())
	}
	if desc.SampleCount == 0 {
		desc.SampleCount = 1
	}

	id := uint64(desc.Window)
	if id == 0 {
		id = surfaceSeq.Add(1)
	}
	return &surface{backend: b, desc: desc, id: id}, nil
}

var surfaceSeq atomic.Uint64

// surface is a presentation surface whose back buffer lives on the
// host's device.
type surface struct {
	backend *Backend
	desc    present.SwapchainDescriptor
	id      uint64
}

func (s *surface) Identity() uint64 { return s.id }

func (s *surface) Descriptor() (present.SwapchainDescriptor, error) { return s.desc, nil }

func (s *surface) AcquireBackBuffer() (present.Resource, error) {
	return s.backend.dev.CreateTexture2D(present.TextureDesc{
		Label:       "present_backbuffer",
		Width:       s.desc.Width,
		Height:      s.desc.Height,
		Format:      s.desc.Format,
		SampleCount: s.desc.SampleCount,
	})
}

// AdapterInfo reports what the host's adapter exposes. Providers whose
// adapter does not implement [AdapterDescriber] get identity-free
// metadata, which is not an error.
func (s *surface) AdapterInfo() (present.AdapterInfo, error) {
	info := present.AdapterInfo{RendererID: rendererID}
	if d, ok := s.backend.provider.Adapter().(AdapterDescriber); ok {
		info.VendorID, info.DeviceID, info.Description = d.AdapterInfo()
	}
	return info, nil
}

// fromContextFormat maps the host's surface format to a presentation
// format. Formats outside the presentation set fall back to BGRA8.
func fromContextFormat(f gputypes.TextureFormat) present.TextureFormat {
	switch f {
	case gputypes.TextureFormatRGBA8Unorm:
		return present.TextureFormatRGBA8
	case gputypes.TextureFormatBGRA8Unorm:
		return present.TextureFormatBGRA8
	case gputypes.TextureFormatRGB10A2Unorm:
		return present.TextureFormatRGB10A2
	case gputypes.TextureFormatRGBA16Float:
		return present.TextureFormatRGBA16Float
	default:
		return present.TextureFormatBGRA8
	}
}

type nopCapture struct{}

func (nopCapture) Capture()         {}
func (nopCapture) ApplyAndRelease() {}
