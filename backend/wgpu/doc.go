// Package wgpu implements the presentation device on the gogpu/wgpu
// Pure Go WebGPU HAL.
//
// The backend opens a HAL instance, selects an adapter (discrete GPUs
// preferred), and exposes the device operations the swapchain lifecycle
// needs: offscreen texture allocation, render target and shader resource
// views, multisample resolve, and the fullscreen-triangle copy used to
// feed the resolved image back into the swap surface.
//
// # Resolve path
//
// Multisample resolve uses the render pass ResolveTarget attachment, so
// the hardware resolves samples without a separate shader dispatch. The
// copy back into the surface runs a three-vertex fullscreen triangle
// whose WGSL is compiled to SPIR-V through gogpu/naga at backend init.
//
// # Usage
//
//	import _ "github.com/gogpu/present/backend/wgpu"
//
//	b, err := backend.InitDefault()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
package wgpu
