// Package wgpu provides the GPU submission backend built on
// github.com/gogpu/wgpu. Shaders are written in WGSL, compiled to
// SPIR-V through github.com/gogpu/naga, and executed through the HAL
// layer.
//
// Import it for side effects to make it selectable:
//
//	import _ "github.com/gogpu/blit/backend/wgpu"
//
// The backend creates its own Vulkan device by default. Applications
// that already own a GPU device (through gogpu) can share it via
// SetDeviceProvider, avoiding a second instance.
package wgpu
