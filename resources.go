package present

// resourceSet holds the owned and aliased GPU resources of one
// presentation surface. When the surface is single-sample, resolved
// aliases backBuffer (same Resource, no separate allocation) and both
// views stay nil.
type resourceSet struct {
	backBuffer Resource
	resolved   Resource

	// Views exist only while multisampling is active.
	resolvedRTV View // render-target view over the multisampled back buffer
	resolvedSRV View // shader view over the resolved image
}

// msaa reports whether the resolve target is a distinct allocation.
func (r *resourceSet) msaa() bool {
	return r.resolved != nil && r.resolved != r.backBuffer
}

// releaseAll releases every field, in no particular order, and tolerates
// fields that were never allocated or were already released. The aliased
// resolve target is only released once, through the back buffer.
func (r *resourceSet) releaseAll() {
	if r.resolved != nil && r.resolved != r.backBuffer {
		r.resolved.Release()
	}
	r.resolved = nil

	if r.backBuffer != nil {
		r.backBuffer.Release()
		r.backBuffer = nil
	}

	if r.resolvedRTV != nil {
		r.resolvedRTV.Release()
		r.resolvedRTV = nil
	}
	if r.resolvedSRV != nil {
		r.resolvedSRV.Release()
		r.resolvedSRV = nil
	}
}
