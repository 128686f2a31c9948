package wgpu

import (
	"sync"

	"github.com/gogpu/present"
)

// stateCapture brackets addon work during presentation.
//
// HAL command encoding is pass-scoped: pipeline, bind group, and vertex
// state die with the pass encoder, so there is no device state to
// snapshot. The bracket tracks nesting depth and flags a release with
// no matching capture, which would indicate a broken hook sequence.
type stateCapture struct {
	mu    sync.Mutex
	depth int
}

// Capture opens a bracket.
func (c *stateCapture) Capture() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.depth++
}

// ApplyAndRelease closes the innermost bracket.
func (c *stateCapture) ApplyAndRelease() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.depth == 0 {
		present.Logger().Warn("wgpu: state restore without matching capture")
		return
	}
	c.depth--
}

// Depth reports the current bracket nesting. Used in tests.
func (c *stateCapture) Depth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.depth
}
