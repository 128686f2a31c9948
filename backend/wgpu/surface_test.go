package wgpu

import (
	"testing"

	"github.com/gogpu/present"
)

func TestNewSurfaceRejectsEmptyExtent(t *testing.T) {
	b := NewBackend()
	if _, err := newSurface(b, present.SwapchainDescriptor{Width: 0, Height: 600}); err == nil {
		t.Error("newSurface accepted a zero-width descriptor")
	}
	if _, err := newSurface(b, present.SwapchainDescriptor{Width: 800, Height: 0}); err == nil {
		t.Error("newSurface accepted a zero-height descriptor")
	}
}

func TestNewSurfaceAppliesDefaults(t *testing.T) {
	b := NewBackend()
	s, err := newSurface(b, present.SwapchainDescriptor{Width: 800, Height: 600})
	if err != nil {
		t.Fatalf("newSurface() = %v", err)
	}

	desc, err := s.Descriptor()
	if err != nil {
		t.Fatalf("Descriptor() = %v", err)
	}
	if desc.Format != present.TextureFormatBGRA8 {
		t.Errorf("default format = %s, want BGRA8", desc.Format)
	}
	if desc.SampleCount != 1 {
		t.Errorf("default sample count = %d, want 1", desc.SampleCount)
	}
}

func TestSurfaceIdentity(t *testing.T) {
	b := NewBackend()

	windowed, err := newSurface(b, present.SwapchainDescriptor{Width: 1, Height: 1, Window: 0xbeef})
	if err != nil {
		t.Fatalf("newSurface() = %v", err)
	}
	if windowed.Identity() != 0xbeef {
		t.Errorf("Identity() = %#x, want the window handle", windowed.Identity())
	}

	// Windowless surfaces get distinct process-unique identities.
	a, _ := newSurface(b, present.SwapchainDescriptor{Width: 1, Height: 1})
	c, _ := newSurface(b, present.SwapchainDescriptor{Width: 1, Height: 1})
	if a.Identity() == 0 || a.Identity() == c.Identity() {
		t.Errorf("windowless identities = %d, %d, want distinct non-zero", a.Identity(), c.Identity())
	}
}

func TestCreateSurfaceRequiresInit(t *testing.T) {
	b := NewBackend()
	if _, err := b.CreateSurface(present.SwapchainDescriptor{Width: 1, Height: 1}); err == nil {
		t.Error("CreateSurface on uninitialized backend should fail")
	}
}
