// Package host adapts a host-owned GPU context to the presentation
// backend interface. Applications built on the gogpu ecosystem already
// hold a device through gpucontext.DeviceProvider; this backend borrows
// that context instead of creating its own, so presentation shares the
// host's device, queue, and surface format.
//
// The host keeps ownership: Close releases nothing, and device
// operations are served by a presentation device the host supplies,
// typically the wgpu backend's device over the same HAL context.
package host
