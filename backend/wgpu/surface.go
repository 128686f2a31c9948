package wgpu

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/present"
)

// surfaceSeq hands out identities for surfaces without a window handle.
var surfaceSeq atomic.Uint64

// Surface is an offscreen native surface. It allocates its back buffer
// from the presentation device on acquisition, sized and sampled per
// the descriptor it was created with.
type Surface struct {
	backend *Backend
	desc    present.SwapchainDescriptor
	id      uint64
}

// newSurface validates the descriptor and binds the surface to the
// backend's device.
func newSurface(b *Backend, desc present.SwapchainDescriptor) (*Surface, error) {
	if desc.Width == 0 || desc.Height == 0 {
		return nil, fmt.Errorf("surface extent %dx%d is empty", desc.Width, desc.Height)
	}
	if desc.Format == present.TextureFormatUnknown {
		desc.Format = present.TextureFormatBGRA8
	}
	if desc.SampleCount == 0 {
		desc.SampleCount = 1
	}

	id := uint64(desc.Window)
	if id == 0 {
		id = surfaceSeq.Add(1)
	}

	return &Surface{backend: b, desc: desc, id: id}, nil
}

// Identity returns the window handle, or a process-unique id for
// windowless surfaces.
func (s *Surface) Identity() uint64 { return s.id }

// Descriptor reports the surface configuration.
func (s *Surface) Descriptor() (present.SwapchainDescriptor, error) {
	return s.desc, nil
}

// AcquireBackBuffer allocates the surface back buffer. The buffer
// carries the surface's sample count; the swapchain owns the returned
// resource and releases it on Reset.
func (s *Surface) AcquireBackBuffer() (present.Resource, error) {
	s.backend.mu.Lock()
	dev := s.backend.dev
	s.backend.mu.Unlock()
	if dev == nil {
		return nil, fmt.Errorf("acquire back buffer: backend closed")
	}

	return dev.CreateTexture2D(present.TextureDesc{
		Label:       "present_backbuffer",
		Width:       s.desc.Width,
		Height:      s.desc.Height,
		Format:      s.desc.Format,
		SampleCount: s.desc.SampleCount,
	})
}

// AdapterInfo reports the selected adapter. The HAL exposes the adapter
// name but no PCI identifiers, so those stay zero.
func (s *Surface) AdapterInfo() (present.AdapterInfo, error) {
	name := s.backend.AdapterName()
	if name == "" {
		return present.AdapterInfo{}, fmt.Errorf("adapter info: backend not initialized")
	}
	return present.AdapterInfo{
		Description: name,
		RendererID:  rendererID,
	}, nil
}
