package present

// RuntimeHooks is the generic runtime base this package's lifecycle
// delegates into after (or before) its own bookkeeping. The overlay
// runtime implements it: OnFramePresent is where effect and overlay
// rendering happens, between the multisample resolve and the blit back.
type RuntimeHooks interface {
	// OnSurfaceReady is called at the end of a successful resource
	// acquisition with the presentation target window. Its result is
	// the overall result of Initialize.
	OnSurfaceReady(window uintptr) bool

	// OnSurfaceTornDown is called first during Reset, so dependent
	// subsystems drop their references before resources disappear.
	OnSurfaceTornDown()

	// OnFramePresent is the custom render insertion point, called once
	// per presented frame with the host pipeline state captured.
	OnFramePresent()
}

// NopHooks is a RuntimeHooks that accepts every surface and renders
// nothing.
type NopHooks struct{}

// OnSurfaceReady implements RuntimeHooks.
func (NopHooks) OnSurfaceReady(uintptr) bool { return true }

// OnSurfaceTornDown implements RuntimeHooks.
func (NopHooks) OnSurfaceTornDown() {}

// OnFramePresent implements RuntimeHooks.
func (NopHooks) OnFramePresent() {}
