package present

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// recorder collects the ordered calls every fake collaborator makes, so
// tests can assert the exact present and initialize sequencing.
type recorder struct {
	calls []string
}

func (r *recorder) add(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

type fakeResource struct {
	id       uint64
	released int
}

func (f *fakeResource) Identity() uint64 { return f.id }
func (f *fakeResource) Release()         { f.released++ }

type fakeView struct {
	id       uint64
	over     Resource
	released int
}

func (f *fakeView) Identity() uint64 { return f.id }
func (f *fakeView) Release()         { f.released++ }

type fakeDevice struct {
	rec    *recorder
	assets ResolveAssets

	nextID uint64

	failTexture error
	failRTV     error
	failSRV     error

	textures []*fakeResource
	views    []*fakeView
}

func newFakeDevice(rec *recorder) *fakeDevice {
	return &fakeDevice{rec: rec, nextID: 100, assets: ResolveAssets{
		VertexShader: 1, PixelShader: 2, Sampler: 3,
	}}
}

func (d *fakeDevice) CreateTexture2D(desc TextureDesc) (Resource, error) {
	d.rec.add("device.CreateTexture2D %dx%d %s samples=%d", desc.Width, desc.Height, desc.Format, desc.SampleCount)
	if d.failTexture != nil {
		return nil, d.failTexture
	}
	d.nextID++
	r := &fakeResource{id: d.nextID}
	d.textures = append(d.textures, r)
	return r, nil
}

func (d *fakeDevice) CreateRenderTargetView(resource Resource) (View, error) {
	d.rec.add("device.CreateRenderTargetView over=%d", resource.Identity())
	if d.failRTV != nil {
		return nil, d.failRTV
	}
	d.nextID++
	v := &fakeView{id: d.nextID, over: resource}
	d.views = append(d.views, v)
	return v, nil
}

func (d *fakeDevice) CreateShaderView(resource Resource) (View, error) {
	d.rec.add("device.CreateShaderView over=%d", resource.Identity())
	if d.failSRV != nil {
		return nil, d.failSRV
	}
	d.nextID++
	v := &fakeView{id: d.nextID, over: resource}
	d.views = append(d.views, v)
	return v, nil
}

func (d *fakeDevice) ResolveAssets() *ResolveAssets { return &d.assets }

func (d *fakeDevice) ResolveTexture(dst, src Resource, format TextureFormat) {
	d.rec.add("device.ResolveTexture dst=%d src=%d format=%s", dst.Identity(), src.Identity(), format)
}

func (d *fakeDevice) DrawResolveBlit(blit ResolveBlit) {
	d.rec.add("device.DrawResolveBlit target=%d source=%d verts=%d viewport=%d,%d,%dx%d",
		blit.Target.Identity(), blit.Source.Identity(), blit.VertexCount,
		blit.Viewport.X, blit.Viewport.Y, blit.Viewport.Width, blit.Viewport.Height)
}

type fakeSurface struct {
	rec *recorder

	desc    SwapchainDescriptor
	descErr error

	backBuffer *fakeResource
	acquireErr error

	info    AdapterInfo
	infoErr error
}

func (s *fakeSurface) Identity() uint64 { return 0x50 }

func (s *fakeSurface) Descriptor() (SwapchainDescriptor, error) {
	s.rec.add("surface.Descriptor")
	return s.desc, s.descErr
}

func (s *fakeSurface) AcquireBackBuffer() (Resource, error) {
	s.rec.add("surface.AcquireBackBuffer")
	if s.acquireErr != nil {
		return nil, s.acquireErr
	}
	return s.backBuffer, nil
}

func (s *fakeSurface) AdapterInfo() (AdapterInfo, error) {
	return s.info, s.infoErr
}

type fakeCapture struct{ rec *recorder }

func (c *fakeCapture) Capture()         { c.rec.add("capture.Capture") }
func (c *fakeCapture) ApplyAndRelease() { c.rec.add("capture.ApplyAndRelease") }

type fakeBus struct{ rec *recorder }

func (b *fakeBus) Notify(e Event, sc *Swapchain) { b.rec.add("bus.%s", e) }

type fakeHooks struct {
	rec      *recorder
	rejected bool
}

func (h *fakeHooks) OnSurfaceReady(window uintptr) bool {
	h.rec.add("hooks.OnSurfaceReady window=%#x", window)
	return !h.rejected
}
func (h *fakeHooks) OnSurfaceTornDown() { h.rec.add("hooks.OnSurfaceTornDown") }
func (h *fakeHooks) OnFramePresent()    { h.rec.add("hooks.OnFramePresent") }

// harness wires a swapchain with recording fakes.
type harness struct {
	rec     *recorder
	device  *fakeDevice
	surface *fakeSurface
	capture *fakeCapture
	bus     *fakeBus
	hooks   *fakeHooks
	sc      *Swapchain
}

func newHarness(t *testing.T, desc SwapchainDescriptor) *harness {
	t.Helper()

	rec := &recorder{}
	h := &harness{
		rec:     rec,
		device:  newFakeDevice(rec),
		surface: &fakeSurface{rec: rec, desc: desc, backBuffer: &fakeResource{id: 10}},
		capture: &fakeCapture{rec: rec},
		bus:     &fakeBus{rec: rec},
		hooks:   &fakeHooks{rec: rec},
	}

	sc, err := NewSwapchain(Config{
		Device:  h.device,
		Surface: h.surface,
		Capture: h.capture,
		Bus:     h.bus,
		Hooks:   h.hooks,
	})
	if err != nil {
		t.Fatalf("NewSwapchain() = %v", err)
	}
	h.sc = sc
	return h
}

func singleSampleDesc() SwapchainDescriptor {
	return SwapchainDescriptor{
		Width: 800, Height: 600,
		Format:      TextureFormatBGRA8,
		SampleCount: 1,
		Window:      0x1234,
	}
}

func msaaDesc() SwapchainDescriptor {
	d := singleSampleDesc()
	d.SampleCount = 4
	return d
}

func TestNewSwapchainValidation(t *testing.T) {
	rec := &recorder{}
	dev := newFakeDevice(rec)
	surf := &fakeSurface{rec: rec}

	if _, err := NewSwapchain(Config{Surface: surf}); !errors.Is(err, ErrNilDevice) {
		t.Errorf("NewSwapchain without device = %v, want ErrNilDevice", err)
	}
	if _, err := NewSwapchain(Config{Device: dev}); !errors.Is(err, ErrNilSurface) {
		t.Errorf("NewSwapchain without surface = %v, want ErrNilSurface", err)
	}
}

func TestInitializeSingleSampleAliasesBackBuffer(t *testing.T) {
	h := newHarness(t, singleSampleDesc())

	if err := h.sc.Initialize(); err != nil {
		t.Fatalf("Initialize() = %v", err)
	}

	if got, want := h.sc.BackBuffer(0), h.sc.BackBufferResolved(0); got != want {
		t.Error("single-sample: resolve target should alias the back buffer")
	}
	if len(h.device.textures) != 0 {
		t.Errorf("single-sample: %d textures allocated, want 0", len(h.device.textures))
	}
	if len(h.device.views) != 0 {
		t.Errorf("single-sample: %d views created, want 0", len(h.device.views))
	}
	if !h.sc.Initialized() {
		t.Error("Initialized() = false after successful Initialize")
	}
	if h.sc.Width() != 800 || h.sc.Height() != 600 || h.sc.Format() != TextureFormatBGRA8 {
		t.Errorf("recorded descriptor = %dx%d %s, want 800x600 BGRA8",
			h.sc.Width(), h.sc.Height(), h.sc.Format())
	}
}

func TestInitializeMSAACreatesResolveResources(t *testing.T) {
	h := newHarness(t, msaaDesc())

	if err := h.sc.Initialize(); err != nil {
		t.Fatalf("Initialize() = %v", err)
	}

	if h.sc.BackBuffer(0) == h.sc.BackBufferResolved(0) {
		t.Error("MSAA: resolve target must be a distinct allocation")
	}
	if len(h.device.textures) != 1 {
		t.Fatalf("MSAA: %d resolve textures allocated, want exactly 1", len(h.device.textures))
	}
	if len(h.device.views) != 2 {
		t.Fatalf("MSAA: %d views created, want exactly 2", len(h.device.views))
	}

	// RTV is over the multisampled back buffer, SRV over the resolve target.
	if h.device.views[0].over != h.sc.BackBuffer(0) {
		t.Error("render-target view not created over the base back buffer")
	}
	if h.device.views[1].over != h.sc.BackBufferResolved(0) {
		t.Error("shader view not created over the resolve target")
	}
}

func TestInitializeNotifiesBusBeforeResolveAllocation(t *testing.T) {
	h := newHarness(t, msaaDesc())

	if err := h.sc.Initialize(); err != nil {
		t.Fatalf("Initialize() = %v", err)
	}

	want := []string{
		"surface.Descriptor",
		"surface.AcquireBackBuffer",
		"bus.SurfaceInitialized",
		"device.CreateTexture2D 800x600 BGRA8 samples=1",
		"device.CreateRenderTargetView over=10",
		"device.CreateShaderView over=101",
		"hooks.OnSurfaceReady window=0x1234",
	}
	if diff := cmp.Diff(want, h.rec.calls); diff != "" {
		t.Errorf("initialize sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestInitializeDescriptorFailure(t *testing.T) {
	h := newHarness(t, singleSampleDesc())
	h.surface.descErr = errors.New("device lost")

	err := h.sc.Initialize()
	if !errors.Is(err, ErrDescriptorQuery) {
		t.Fatalf("Initialize() = %v, want ErrDescriptorQuery", err)
	}
	if h.sc.Initialized() {
		t.Error("swapchain initialized after descriptor failure")
	}

	// The failure precedes acquisition; nothing to reclaim.
	want := []string{"surface.Descriptor"}
	if diff := cmp.Diff(want, h.rec.calls); diff != "" {
		t.Errorf("call sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestInitializeBackBufferFailure(t *testing.T) {
	h := newHarness(t, singleSampleDesc())
	h.surface.acquireErr = errors.New("buffer busy")

	err := h.sc.Initialize()
	if !errors.Is(err, ErrBackBufferAcquire) {
		t.Fatalf("Initialize() = %v, want ErrBackBufferAcquire", err)
	}
	if h.sc.Initialized() {
		t.Error("swapchain initialized after back buffer failure")
	}
}

// TestInitializeResolveFailureLeavesBackBufferForReset checks that a
// resolve-target allocation failure fails Initialize without rolling
// back the already-acquired back buffer, and that the following Reset
// reclaims it cleanly.
func TestInitializeResolveFailureLeavesBackBufferForReset(t *testing.T) {
	h := newHarness(t, msaaDesc())
	h.device.failTexture = errors.New("out of memory")

	err := h.sc.Initialize()
	if !errors.Is(err, ErrResolveTargetCreate) {
		t.Fatalf("Initialize() = %v, want ErrResolveTargetCreate", err)
	}
	if h.sc.Initialized() {
		t.Error("swapchain initialized after resolve allocation failure")
	}

	// Back buffer stays acquired: no rollback inside Initialize.
	if h.surface.backBuffer.released != 0 {
		t.Errorf("back buffer released %d times during failed Initialize, want 0",
			h.surface.backBuffer.released)
	}

	h.sc.Reset()

	if h.surface.backBuffer.released != 1 {
		t.Errorf("back buffer released %d times after Reset, want exactly 1",
			h.surface.backBuffer.released)
	}
}

func TestInitializeViewFailures(t *testing.T) {
	t.Run("render target view", func(t *testing.T) {
		h := newHarness(t, msaaDesc())
		h.device.failRTV = errors.New("bad format")
		if err := h.sc.Initialize(); !errors.Is(err, ErrRenderTargetViewCreate) {
			t.Errorf("Initialize() = %v, want ErrRenderTargetViewCreate", err)
		}
	})
	t.Run("shader view", func(t *testing.T) {
		h := newHarness(t, msaaDesc())
		h.device.failSRV = errors.New("bad format")
		if err := h.sc.Initialize(); !errors.Is(err, ErrShaderViewCreate) {
			t.Errorf("Initialize() = %v, want ErrShaderViewCreate", err)
		}
	})
}

func TestInitializeSurfaceRejected(t *testing.T) {
	h := newHarness(t, singleSampleDesc())
	h.hooks.rejected = true

	if err := h.sc.Initialize(); !errors.Is(err, ErrSurfaceRejected) {
		t.Fatalf("Initialize() = %v, want ErrSurfaceRejected", err)
	}
	if h.sc.Initialized() {
		t.Error("swapchain initialized although the runtime rejected the surface")
	}
}

func TestInitializeAdapterInfoBestEffort(t *testing.T) {
	t.Run("available", func(t *testing.T) {
		h := newHarness(t, singleSampleDesc())
		h.surface.info = AdapterInfo{VendorID: 0x10de, DeviceID: 0x2206, Description: "Test GPU"}

		if err := h.sc.Initialize(); err != nil {
			t.Fatalf("Initialize() = %v", err)
		}
		if got := h.sc.Adapter(); got != h.surface.info {
			t.Errorf("Adapter() = %+v, want %+v", got, h.surface.info)
		}
	})
	t.Run("unavailable", func(t *testing.T) {
		h := newHarness(t, singleSampleDesc())
		h.surface.infoErr = errors.New("no adapter")

		if err := h.sc.Initialize(); err != nil {
			t.Fatalf("Initialize() = %v, adapter metadata must not be fatal", err)
		}
		if got := h.sc.Adapter(); got != (AdapterInfo{}) {
			t.Errorf("Adapter() = %+v, want zero value", got)
		}
	})
}

// TestPresentSingleSample checks a single-sample present: one
// render-hook invocation, no resolve and no blit, capture paired with
// restore.
func TestPresentSingleSample(t *testing.T) {
	h := newHarness(t, singleSampleDesc())
	if err := h.sc.Initialize(); err != nil {
		t.Fatalf("Initialize() = %v", err)
	}
	h.rec.calls = nil

	h.sc.Present()

	want := []string{
		"capture.Capture",
		"hooks.OnFramePresent",
		"capture.ApplyAndRelease",
	}
	if diff := cmp.Diff(want, h.rec.calls); diff != "" {
		t.Errorf("present sequence mismatch (-want +got):\n%s", diff)
	}
}

// TestPresentMSAAOrder checks the exact multisampled present order:
// capture, resolve, render hook, blit of exactly three vertices with
// the recorded viewport, restore.
func TestPresentMSAAOrder(t *testing.T) {
	h := newHarness(t, msaaDesc())
	if err := h.sc.Initialize(); err != nil {
		t.Fatalf("Initialize() = %v", err)
	}
	h.rec.calls = nil

	h.sc.Present()

	want := []string{
		"capture.Capture",
		"device.ResolveTexture dst=101 src=10 format=BGRA8",
		"hooks.OnFramePresent",
		"device.DrawResolveBlit target=102 source=103 verts=3 viewport=0,0,800x600",
		"capture.ApplyAndRelease",
	}
	if diff := cmp.Diff(want, h.rec.calls); diff != "" {
		t.Errorf("present sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestPresentUninitializedIsSilentSkip(t *testing.T) {
	h := newHarness(t, singleSampleDesc())

	h.sc.Present()

	if len(h.rec.calls) != 0 {
		t.Errorf("Present on uninitialized swapchain made calls: %v", h.rec.calls)
	}
}

func TestPresentAfterResetIsSilentSkip(t *testing.T) {
	h := newHarness(t, singleSampleDesc())
	if err := h.sc.Initialize(); err != nil {
		t.Fatalf("Initialize() = %v", err)
	}
	h.sc.Reset()
	h.rec.calls = nil

	h.sc.Present()

	if len(h.rec.calls) != 0 {
		t.Errorf("Present after Reset made calls: %v", h.rec.calls)
	}
}

func TestResetReleasesEverythingOnce(t *testing.T) {
	h := newHarness(t, msaaDesc())
	if err := h.sc.Initialize(); err != nil {
		t.Fatalf("Initialize() = %v", err)
	}

	resolve := h.device.textures[0]
	rtv, srv := h.device.views[0], h.device.views[1]

	h.sc.Reset()

	if h.surface.backBuffer.released != 1 {
		t.Errorf("back buffer released %d times, want 1", h.surface.backBuffer.released)
	}
	if resolve.released != 1 {
		t.Errorf("resolve target released %d times, want 1", resolve.released)
	}
	if rtv.released != 1 || srv.released != 1 {
		t.Errorf("views released %d/%d times, want 1/1", rtv.released, srv.released)
	}
}

func TestResetSingleSampleReleasesAliasOnce(t *testing.T) {
	h := newHarness(t, singleSampleDesc())
	if err := h.sc.Initialize(); err != nil {
		t.Fatalf("Initialize() = %v", err)
	}

	h.sc.Reset()

	// The aliased resolve target must not double-release the buffer.
	if h.surface.backBuffer.released != 1 {
		t.Errorf("aliased back buffer released %d times, want exactly 1",
			h.surface.backBuffer.released)
	}
}

func TestResetIdempotent(t *testing.T) {
	h := newHarness(t, msaaDesc())
	if err := h.sc.Initialize(); err != nil {
		t.Fatalf("Initialize() = %v", err)
	}

	h.sc.Reset()
	h.sc.Reset()

	if h.surface.backBuffer.released != 1 {
		t.Errorf("back buffer released %d times after double Reset, want 1",
			h.surface.backBuffer.released)
	}
	if h.sc.BackBuffer(0) != nil || h.sc.BackBufferResolved(0) != nil {
		t.Error("resource fields not empty after Reset")
	}
}

func TestResetOnNeverInitialized(t *testing.T) {
	h := newHarness(t, singleSampleDesc())

	h.sc.Reset()

	want := []string{
		"hooks.OnSurfaceTornDown",
		"bus.SurfaceDestroyed",
	}
	if diff := cmp.Diff(want, h.rec.calls); diff != "" {
		t.Errorf("reset sequence mismatch (-want +got):\n%s", diff)
	}
}

// TestResetOrderTeardownBeforeRelease asserts the teardown hook and the
// destroy notification fire while the resources are still alive.
func TestResetOrderTeardownBeforeRelease(t *testing.T) {
	h := newHarness(t, singleSampleDesc())
	if err := h.sc.Initialize(); err != nil {
		t.Fatalf("Initialize() = %v", err)
	}
	h.rec.calls = nil

	h.sc.Reset()

	want := []string{
		"hooks.OnSurfaceTornDown",
		"bus.SurfaceDestroyed",
	}
	if diff := cmp.Diff(want, h.rec.calls); diff != "" {
		t.Errorf("reset sequence mismatch (-want +got):\n%s", diff)
	}
	if h.surface.backBuffer.released != 1 {
		t.Errorf("back buffer released %d times, want 1", h.surface.backBuffer.released)
	}
}

func TestResizeCycle(t *testing.T) {
	h := newHarness(t, msaaDesc())
	if err := h.sc.Initialize(); err != nil {
		t.Fatalf("Initialize() = %v", err)
	}

	// Resize: reset, then re-initialize against the new descriptor.
	h.sc.Reset()
	h.surface.desc.Width, h.surface.desc.Height = 1920, 1080
	h.surface.backBuffer = &fakeResource{id: 20}

	if err := h.sc.Initialize(); err != nil {
		t.Fatalf("re-Initialize() = %v", err)
	}
	if h.sc.Width() != 1920 || h.sc.Height() != 1080 {
		t.Errorf("recorded size = %dx%d after resize, want 1920x1080", h.sc.Width(), h.sc.Height())
	}
	if !h.sc.Initialized() {
		t.Error("swapchain not initialized after resize cycle")
	}
}

func TestBackBufferIndexPanics(t *testing.T) {
	h := newHarness(t, singleSampleDesc())

	for _, fn := range []func(){
		func() { h.sc.BackBuffer(1) },
		func() { h.sc.BackBufferResolved(2) },
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Error("non-zero back buffer index did not panic")
				}
			}()
			fn()
		}()
	}
}

func TestSwapchainFacets(t *testing.T) {
	h := newHarness(t, singleSampleDesc())

	got, ok := h.sc.Facet(CapabilitySwapchain)
	if !ok || got != h.sc {
		t.Error("CapabilitySwapchain facet does not resolve to the swapchain")
	}
	dev, ok := h.sc.Facet(CapabilityDevice)
	if !ok || dev != Device(h.device) {
		t.Error("CapabilityDevice facet does not resolve to the device")
	}
}

func TestCloseRunsFinalResetAndLeakCheck(t *testing.T) {
	h := newHarness(t, singleSampleDesc())
	if err := h.sc.Initialize(); err != nil {
		t.Fatalf("Initialize() = %v", err)
	}

	if err := h.sc.Close(); err != nil {
		t.Errorf("Close() = %v, want nil", err)
	}
	if h.surface.backBuffer.released != 1 {
		t.Errorf("back buffer released %d times after Close, want 1", h.surface.backBuffer.released)
	}
}

func TestCloseReportsAttachmentLeak(t *testing.T) {
	h := newHarness(t, singleSampleDesc())
	if err := h.sc.Initialize(); err != nil {
		t.Fatalf("Initialize() = %v", err)
	}

	h.sc.SetAttachment(testKeyA, "addon state left behind")

	if err := h.sc.Close(); !errors.Is(err, ErrAttachmentLeak) {
		t.Errorf("Close() = %v, want ErrAttachmentLeak", err)
	}
}
