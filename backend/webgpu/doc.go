// Package webgpu provides a presentation backend using go-webgpu/webgpu.
//
// The webgpu backend uses wgpu-native FFI bindings for direct access to
// the same implementation browsers ship. It requires the wgpu-native
// shared library at runtime and is only compiled with the "webgpu"
// build tag:
//
//	go build -tags webgpu ./...
//
// The backend currently brings up the instance, adapter, device, and
// queue and reports full adapter metadata (PCI vendor and device ids,
// driver description). Device operations run on the pure Go wgpu
// backend; this backend serves hosts that need wgpu-native adapter
// selection and identification.
package webgpu
