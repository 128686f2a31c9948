// Package capture is a frame-capture addon: it saves presented frames
// to disk as BMP images. A Recorder listens on the swapchain event bus
// to track the live surface, keeps its bookkeeping in the surface's
// attachment store, and writes the next frame after each Arm call from
// inside the per-frame hook.
package capture

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/image/bmp"

	"github.com/gogpu/present"
)

// stateKey identifies the per-surface capture record in the attachment
// store.
var stateKey = present.MustParseKey("8c9f2a41-5e0d-4b7a-9f3c-d1a6428e07b5")

// Readback is the optional device extension the Recorder needs. Devices
// that cannot hand pixel data back to the CPU simply never capture.
type Readback interface {
	// ReadbackResolved returns the texture contents as tightly packed
	// rows in the format's native channel order.
	ReadbackResolved(resource present.Resource, width, height uint32, format present.TextureFormat) ([]byte, error)
}

// State is the capture record attached to each live surface.
type State struct {
	// Frames is the number of images written from this surface.
	Frames uint64

	// LastPath is the most recently written image file.
	LastPath string
}

// Recorder saves frames from the surface it is wired to. It implements
// both [present.EventBus], to learn which surface is current, and
// [present.RuntimeHooks], to run at the frame insertion point; pass the
// same Recorder as Bus and Hooks in [present.Config].
type Recorder struct {
	dir string

	// Next receives the hook calls after the Recorder's own work, so a
	// Recorder can sit in front of another runtime. Nil means accept
	// every surface and render nothing.
	Next present.RuntimeHooks

	mu    sync.Mutex
	sc    *present.Swapchain
	armed bool
	seq   uint64
}

// New returns a Recorder that writes images into dir. The directory is
// created on the first capture.
func New(dir string) *Recorder {
	return &Recorder{dir: dir}
}

// Arm requests that the next presented frame be written to disk.
func (r *Recorder) Arm() {
	r.mu.Lock()
	r.armed = true
	r.mu.Unlock()
}

// StateOf returns the capture record attached to sc, if any.
func StateOf(sc *present.Swapchain) (*State, bool) {
	v, ok := sc.Attachment(stateKey)
	if !ok {
		return nil, false
	}
	st, ok := v.(*State)
	return st, ok
}

// Notify implements [present.EventBus].
func (r *Recorder) Notify(event present.Event, sc *present.Swapchain) {
	switch event {
	case present.EventSurfaceInitialized:
		sc.SetAttachment(stateKey, &State{})
		r.mu.Lock()
		r.sc = sc
		r.mu.Unlock()
	case present.EventSurfaceDestroyed:
		sc.SetAttachment(stateKey, nil)
		r.mu.Lock()
		if r.sc == sc {
			r.sc = nil
		}
		r.mu.Unlock()
	}
}

// OnSurfaceReady implements [present.RuntimeHooks].
func (r *Recorder) OnSurfaceReady(window uintptr) bool {
	if r.Next != nil {
		return r.Next.OnSurfaceReady(window)
	}
	return true
}

// OnSurfaceTornDown implements [present.RuntimeHooks].
func (r *Recorder) OnSurfaceTornDown() {
	if r.Next != nil {
		r.Next.OnSurfaceTornDown()
	}
}

// OnFramePresent implements [present.RuntimeHooks]. This runs after the
// multisample resolve, so the resolved back buffer holds the finished
// frame.
func (r *Recorder) OnFramePresent() {
	r.mu.Lock()
	sc := r.sc
	armed := r.armed
	r.armed = false
	r.mu.Unlock()

	if armed && sc != nil {
		if err := r.capture(sc); err != nil {
			present.Logger().Error("capture: frame save failed", "error", err)
		}
	}
	if r.Next != nil {
		r.Next.OnFramePresent()
	}
}

func (r *Recorder) capture(sc *present.Swapchain) error {
	dev, ok := sc.Device().(Readback)
	if !ok {
		return fmt.Errorf("device %T has no readback support", sc.Device())
	}

	pixels, err := dev.ReadbackResolved(sc.BackBufferResolved(0), sc.Width(), sc.Height(), sc.Format())
	if err != nil {
		return err
	}
	img, err := decodeImage(pixels, sc.Width(), sc.Height(), sc.Format())
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.seq++
	seq := r.seq
	r.mu.Unlock()

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(r.dir, fmt.Sprintf("frame_%04d.bmp", seq))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := bmp.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	if st, ok := StateOf(sc); ok {
		st.Frames++
		st.LastPath = path
	}
	present.Logger().Info("capture: frame saved", "path", path)
	return nil
}

// decodeImage converts raw back buffer bytes into an image. Alpha is
// forced opaque: presentation back buffers carry whatever the
// application left in the alpha channel.
func decodeImage(pixels []byte, width, height uint32, format present.TextureFormat) (image.Image, error) {
	switch format {
	case present.TextureFormatRGBA8, present.TextureFormatBGRA8:
	default:
		return nil, fmt.Errorf("unsupported capture format %s", format)
	}
	if want := int(width) * int(height) * 4; len(pixels) != want {
		return nil, fmt.Errorf("pixel data is %d bytes, want %d", len(pixels), want)
	}

	img := image.NewNRGBA(image.Rect(0, 0, int(width), int(height)))
	for i := 0; i+3 < len(pixels); i += 4 {
		r, g, b := pixels[i], pixels[i+1], pixels[i+2]
		if format == present.TextureFormatBGRA8 {
			r, b = b, r
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = 0xFF
	}
	return img, nil
}
