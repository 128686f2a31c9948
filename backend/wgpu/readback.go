package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/present"
)

// ReadbackResolved copies a single-sample texture to CPU memory through
// a staging buffer. The returned bytes are tightly packed rows in the
// texture's native channel order.
//
// Multisampled resources cannot be read back directly; resolve first.
func (d *Device) ReadbackResolved(resource present.Resource, width, height uint32, format present.TextureFormat) ([]byte, error) {
	tex, ok := resource.(*texture)
	if !ok {
		return nil, fmt.Errorf("readback: resource is not a wgpu texture")
	}
	if tex.desc.SampleCount > 1 {
		return nil, fmt.Errorf("readback: resource is multisampled")
	}

	bpp := uint32(format.BytesPerPixel()) //nolint:gosec // bytes per pixel is a small constant
	pixelBufSize := uint64(width) * uint64(height) * uint64(bpp)

	encoder, err := d.hal.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "present_readback_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("present_readback"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	// The texture was last written as a render attachment; copying out
	// needs an explicit transition on Vulkan. This is a no-op on Metal,
	// GLES, software, and noop backends.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: tex.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	stagingBuf, err := d.hal.CreateBuffer(&hal.BufferDescriptor{
		Label: "present_readback_staging",
		Size:  pixelBufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer d.hal.DestroyBuffer(stagingBuf)

	encoder.CopyTextureToBuffer(tex.tex, stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: width * bpp, RowsPerImage: height},
		TextureBase:  hal.ImageCopyTexture{Texture: tex.tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
	}})

	if err := d.submitAndWait(encoder); err != nil {
		return nil, err
	}

	readback := make([]byte, pixelBufSize)
	if err := d.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}
	return readback, nil
}
