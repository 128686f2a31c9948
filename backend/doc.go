// Package backend provides a pluggable presentation backend abstraction.
//
// The backend package allows the present library to drive multiple GPU
// device implementations through one interface. A backend supplies the
// device, native surface, and state capture collaborators that a
// present.Swapchain is configured with.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime:
//
//	import _ "github.com/gogpu/present/backend/wgpu"
//
// # Backend Selection
//
// Use Default() to get the best available backend, or Get() to request
// a specific backend by name:
//
//	b, err := backend.InitDefault()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
//	surface, err := b.CreateSurface(present.SwapchainDescriptor{
//		Width: 800, Height: 600,
//		Format:      present.TextureFormatBGRA8,
//		SampleCount: 4,
//	})
//
// # Available Backends
//
//   - "wgpu": pure Go WebGPU HAL via gogpu/wgpu (Vulkan, Metal, DX12)
//   - "webgpu": wgpu-native FFI via go-webgpu/webgpu (requires the native
//     library; built with the "webgpu" tag)
package backend
