package wgpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/sprite.wgsl
var spriteShaderWGSL string

//go:embed shaders/geometry.wgsl
var geometryShaderWGSL string

// compileShader compiles WGSL source to SPIR-V and wraps it in a HAL
// shader module.
func compileShader(device hal.Device, label, source string) (hal.ShaderModule, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("wgpu: compile %s: %w", label, err)
	}

	// SPIR-V is little-endian 32-bit words.
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: label,
		Source: hal.ShaderSource{
			SPIRV: spirvCode,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create shader module %s: %w", label, err)
	}
	return module, nil
}
