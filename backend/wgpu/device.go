package wgpu

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/present"
)

// submitTimeout bounds how long a resolve or copy submission may take
// before the frame is abandoned.
const submitTimeout = 5 * time.Second

// nativeHandle reports the underlying API object handle for identity
// tracking. Objects that do not expose a handle report zero.
func nativeHandle(v any) uint64 {
	if h, ok := v.(interface{ NativeHandle() uintptr }); ok {
		return uint64(h.NativeHandle())
	}
	return 0
}

// texture wraps a HAL texture as a presentation resource.
type texture struct {
	dev  *Device
	tex  hal.Texture
	desc present.TextureDesc
}

// Identity returns the native texture handle.
func (t *texture) Identity() uint64 { return nativeHandle(t.tex) }

// Release destroys the HAL texture.
func (t *texture) Release() {
	if t.tex != nil {
		t.dev.hal.DestroyTexture(t.tex)
		t.tex = nil
	}
}

// textureView wraps a HAL texture view as a presentation view.
type textureView struct {
	dev  *Device
	view hal.TextureView
	tex  *texture
}

// Identity returns the native view handle.
func (v *textureView) Identity() uint64 { return nativeHandle(v.view) }

// Release destroys the HAL texture view.
func (v *textureView) Release() {
	if v.view != nil {
		v.dev.hal.DestroyTextureView(v.view)
		v.view = nil
	}
}

// Device implements the presentation device on a HAL device and queue.
type Device struct {
	hal   hal.Device
	queue hal.Queue

	assets *blitAssets
}

// newDevice wraps a HAL device and compiles the shared resolve-copy
// assets.
func newDevice(device hal.Device, queue hal.Queue) (*Device, error) {
	assets, err := newBlitAssets(device)
	if err != nil {
		return nil, err
	}
	return &Device{hal: device, queue: queue, assets: assets}, nil
}

// destroy releases the shared assets. Textures and views are owned by
// the swapchain and released through their Release methods.
func (d *Device) destroy() {
	if d.assets != nil {
		d.assets.destroy(d.hal)
		d.assets = nil
	}
}

// CreateTexture2D allocates a 2D texture.
//
// Multisampled textures are render attachments only; single-sample
// textures additionally allow shader binding and copy-out so resolve
// targets can feed the copy pass and frame capture.
func (d *Device) CreateTexture2D(desc present.TextureDesc) (present.Resource, error) {
	usage := gputypes.TextureUsageRenderAttachment
	if desc.SampleCount <= 1 {
		usage |= gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopySrc
	}

	samples := desc.SampleCount
	if samples == 0 {
		samples = 1
	}

	tex, err := d.hal.CreateTexture(&hal.TextureDescriptor{
		Label:         desc.Label,
		Size:          hal.Extent3D{Width: desc.Width, Height: desc.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   samples,
		Dimension:     gputypes.TextureDimension2D,
		Format:        toWGPUFormat(desc.Format),
		Usage:         usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create texture %q: %w", desc.Label, err)
	}

	norm := desc
	norm.SampleCount = samples
	return &texture{dev: d, tex: tex, desc: norm}, nil
}

// CreateRenderTargetView creates a render-attachment view over the
// resource.
func (d *Device) CreateRenderTargetView(resource present.Resource) (present.View, error) {
	return d.createView(resource, "_rtv")
}

// CreateShaderView creates a shader-binding view over the resource.
func (d *Device) CreateShaderView(resource present.Resource) (present.View, error) {
	return d.createView(resource, "_srv")
}

func (d *Device) createView(resource present.Resource, suffix string) (present.View, error) {
	tex, ok := resource.(*texture)
	if !ok {
		return nil, fmt.Errorf("create view: resource is not a wgpu texture")
	}

	view, err := d.hal.CreateTextureView(tex.tex, &hal.TextureViewDescriptor{
		Label:         tex.desc.Label + suffix,
		Format:        toWGPUFormat(tex.desc.Format),
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("create view over %q: %w", tex.desc.Label, err)
	}
	return &textureView{dev: d, view: view, tex: tex}, nil
}

// ResolveAssets returns the handles of the shared resolve-copy objects.
func (d *Device) ResolveAssets() *present.ResolveAssets {
	if d.assets == nil {
		return &present.ResolveAssets{}
	}
	return &present.ResolveAssets{
		VertexShader: nativeHandle(d.assets.shader),
		PixelShader:  nativeHandle(d.assets.shader),
		Sampler:      nativeHandle(d.assets.sampler),
	}
}

// ResolveTexture resolves a multisampled source into a single-sample
// destination via the render pass resolve attachment. Failures are
// logged and drop the frame's resolve; presentation continues.
func (d *Device) ResolveTexture(dst, src present.Resource, format present.TextureFormat) {
	dstTex, ok := dst.(*texture)
	if !ok {
		present.Logger().Error("wgpu: resolve destination is not a wgpu texture")
		return
	}
	srcTex, ok := src.(*texture)
	if !ok {
		present.Logger().Error("wgpu: resolve source is not a wgpu texture")
		return
	}

	srcView, err := d.createView(srcTex, "_resolve_src")
	if err != nil {
		present.Logger().Error("wgpu: resolve pass", "err", err)
		return
	}
	defer srcView.Release()

	dstView, err := d.createView(dstTex, "_resolve_dst")
	if err != nil {
		present.Logger().Error("wgpu: resolve pass", "err", err)
		return
	}
	defer dstView.Release()

	encoder, err := d.hal.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "present_resolve_encoder",
	})
	if err != nil {
		present.Logger().Error("wgpu: resolve pass", "err", err)
		return
	}
	if err := encoder.BeginEncoding("present_resolve"); err != nil {
		present.Logger().Error("wgpu: resolve pass", "err", err)
		return
	}

	// Loading the existing samples and storing through ResolveTarget is
	// the whole pass; no draws are recorded.
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "present_resolve_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:          srcView.(*textureView).view,
				ResolveTarget: dstView.(*textureView).view,
				LoadOp:        gputypes.LoadOpLoad,
				StoreOp:       gputypes.StoreOpStore,
			},
		},
	})
	rp.End()

	if err := d.submitAndWait(encoder); err != nil {
		present.Logger().Error("wgpu: resolve submit", "err", err)
	}
}

// submitAndWait finalizes the encoder, submits it with a fence, and
// blocks until the GPU signals completion.
func (d *Device) submitAndWait(encoder hal.CommandEncoder) error {
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer d.hal.FreeCommandBuffer(cmdBuf)

	fence, err := d.hal.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer d.hal.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := d.hal.Wait(fence, 1, submitTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}
	return nil
}
