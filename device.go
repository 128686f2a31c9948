package present

import "fmt"

// TextureFormat identifies the pixel format of a presentation surface.
// The set covers the formats swapchains are created with in practice;
// backends map them onto their native format enums.
type TextureFormat uint8

const (
	// TextureFormatUnknown is the zero value.
	TextureFormatUnknown TextureFormat = iota

	// TextureFormatRGBA8 is 8 bits per channel RGBA.
	TextureFormatRGBA8

	// TextureFormatBGRA8 is 8 bits per channel BGRA, the common surface
	// presentation format.
	TextureFormatBGRA8

	// TextureFormatRGB10A2 is 10-bit color with a 2-bit alpha channel.
	TextureFormatRGB10A2

	// TextureFormatRGBA16Float is 16-bit floating point per channel,
	// used for HDR surfaces.
	TextureFormatRGBA16Float
)

// String returns a human-readable name for the format.
func (f TextureFormat) String() string {
	switch f {
	case TextureFormatRGBA8:
		return "RGBA8"
	case TextureFormatBGRA8:
		return "BGRA8"
	case TextureFormatRGB10A2:
		return "RGB10A2"
	case TextureFormatRGBA16Float:
		return "RGBA16F"
	case TextureFormatUnknown:
		return "Unknown"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(f))
	}
}

// BytesPerPixel returns the number of bytes per pixel for the format.
func (f TextureFormat) BytesPerPixel() int {
	switch f {
	case TextureFormatRGBA16Float:
		return 8
	default:
		return 4
	}
}

// SwapchainDescriptor describes a presentation surface at one point in
// time. It is read once from the native surface at Initialize time; a
// resize produces a new descriptor on the next Initialize.
type SwapchainDescriptor struct {
	// Width and Height are the back buffer dimensions in pixels.
	Width  uint32
	Height uint32

	// Format is the back buffer pixel format.
	Format TextureFormat

	// SampleCount is the multisample count. 1 means no multisampling;
	// a higher count requires a resolve before overlay rendering.
	SampleCount uint32

	// Window identifies the presentation target window.
	Window uintptr
}

// TextureDesc describes a 2D texture allocation request.
type TextureDesc struct {
	// Label is an optional debug name.
	Label string

	// Width and Height are the texture dimensions in pixels.
	Width  uint32
	Height uint32

	// Format is the pixel format.
	Format TextureFormat

	// SampleCount is the per-pixel sample count; 1 for single-sample.
	SampleCount uint32
}

// Resource is a backend texture or buffer owned through this package.
// Release must tolerate being called on an already-released resource.
type Resource interface {
	// Identity returns the opaque numeric identity of the native object.
	Identity() uint64

	// Release frees the native object. Idempotent.
	Release()
}

// View is a backend render-target or shader-resource view over a
// Resource. Same identity and release contract as Resource.
type View interface {
	Identity() uint64
	Release()
}

// ResolveAssets are the shader pair and sampler used for the full-screen
// resolve blit. They are created once per device, shared read-only by
// every swapchain bound to that device, never mutated after creation,
// and live as long as the device does.
type ResolveAssets struct {
	// VertexShader produces the full-screen triangle procedurally from
	// the vertex index; no input layout or vertex buffers are bound.
	VertexShader uint64

	// PixelShader samples the resolved image.
	PixelShader uint64

	// Sampler is the filtering sampler bound with the source view.
	Sampler uint64
}

// Viewport is the output region of the resolve blit.
type Viewport struct {
	X, Y          int32
	Width, Height uint32
}

// ResolveBlitVertexCount is the vertex count of the fixed full-screen
// pass: a single triangle covering the viewport.
const ResolveBlitVertexCount = 3

// ResolveBlit carries every parameter of the fixed full-screen pass that
// copies the resolved single-sample image back into the multisampled
// back buffer: default blend and depth-stencil state, default rasterizer
// state, triangle-list topology, no vertex input, one draw of exactly
// [ResolveBlitVertexCount] vertices.
type ResolveBlit struct {
	// Target is the render-target view over the multisampled back buffer.
	Target View

	// Source is the shader view over the resolved single-sample image.
	Source View

	// Assets are the device's shared resolve shader pair and sampler.
	Assets *ResolveAssets

	// Viewport matches the swapchain dimensions recorded at Initialize.
	Viewport Viewport

	// VertexCount is always ResolveBlitVertexCount; carried explicitly
	// so backends and tests need no out-of-band knowledge.
	VertexCount uint32
}

// Device is the resource-creation and draw-issuance collaborator. One
// Device serves any number of swapchains; its shared resolve assets may
// be read concurrently without synchronization.
type Device interface {
	// CreateTexture2D allocates a 2D texture.
	CreateTexture2D(desc TextureDesc) (Resource, error)

	// CreateRenderTargetView creates a render-target view over resource.
	CreateRenderTargetView(resource Resource) (View, error)

	// CreateShaderView creates a shader-readable view over resource.
	CreateShaderView(resource Resource) (View, error)

	// ResolveAssets returns the device's shared resolve blit assets.
	ResolveAssets() *ResolveAssets

	// ResolveTexture resolves the multisampled src into the
	// single-sample dst using the given format. Best-effort: failures
	// are not reported, presentation must not stall the host frame.
	ResolveTexture(dst, src Resource, format TextureFormat)

	// DrawResolveBlit issues the fixed full-screen pass described by
	// blit. Best-effort, like ResolveTexture.
	DrawResolveBlit(blit ResolveBlit)
}

// StateCapture saves and restores the host application's pipeline state
// around the overlay render insertion point. Capture and ApplyAndRelease
// are strictly paired; the capture is released by ApplyAndRelease.
type StateCapture interface {
	Capture()
	ApplyAndRelease()
}

// nopStateCapture is used when the backend has no mutable global
// pipeline state to save.
type nopStateCapture struct{}

func (nopStateCapture) Capture()         {}
func (nopStateCapture) ApplyAndRelease() {}

// AdapterInfo is best-effort metadata about the GPU driving a surface.
// Absence of any field is not an error.
type AdapterInfo struct {
	// VendorID and DeviceID identify the hardware.
	VendorID uint32
	DeviceID uint32

	// Description is the driver-reported adapter name.
	Description string

	// RendererID encodes the backend API revision or feature level.
	RendererID uint32
}

// NativeSurface is the query boundary to the native presentation
// surface. Descriptor and AcquireBackBuffer failures are fatal to
// Initialize; AdapterInfo failures are not.
type NativeSurface interface {
	// Identity returns the opaque numeric identity of the native
	// surface object; it becomes the wrapping Object's identity.
	Identity() uint64

	// Descriptor reads the surface's current descriptor.
	Descriptor() (SwapchainDescriptor, error)

	// AcquireBackBuffer acquires the base back buffer resource.
	// Ownership transfers to the caller; it is released exactly once.
	AcquireBackBuffer() (Resource, error)

	// AdapterInfo queries adapter metadata. Best-effort.
	AdapterInfo() (AdapterInfo, error)
}
