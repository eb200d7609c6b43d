package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// quadVertexStride is the byte stride of the unit-quad corner stream:
// one vec2<f32> per vertex.
const quadVertexStride = 8

// instanceStride is the byte stride of the per-instance stream.
// Layout per instance:
//
//	t_col0  (vec2<f32>) =  8 bytes (location 1)
//	t_col1  (vec2<f32>) =  8 bytes (location 2)
//	t_col2  (vec2<f32>) =  8 bytes (location 3)
//	uv_rect (vec4<f32>) = 16 bytes (location 4)
//	tint    (vec4<f32>) = 16 bytes (location 5)
//
// Total = 56 bytes.
const instanceStride = 56

// geometryVertexStride is the byte stride of the custom-geometry
// stream: position vec2 + uv vec2 + color vec4 = 32 bytes.
const geometryVertexStride = 32

// uniformSize is the byte size of the shared uniform buffer: one
// mat4x4<f32> view-projection matrix.
const uniformSize = 64

// pipelines holds the shared GPU objects of the sprite and geometry
// render pipelines. Both pipelines use the same bind group layout
// (uniform + atlas texture + sampler), so per-page bind groups are
// interchangeable between them.
type pipelines struct {
	device hal.Device

	quadShader hal.ShaderModule
	geomShader hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	sampler    hal.Sampler

	quad hal.RenderPipeline
	geom hal.RenderPipeline
}

// alphaBlend is straight-alpha compositing: the renderer hands over
// straight-alpha tints and textures.
func alphaBlend() gputypes.BlendState {
	return gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorSrcAlpha,
			DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
			Operation: gputypes.BlendOperationAdd,
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorOne,
			DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
			Operation: gputypes.BlendOperationAdd,
		},
	}
}

// create builds both render pipelines. sampleCount selects the MSAA
// sample count of the render target the pipelines draw into.
func (p *pipelines) create(device hal.Device, sampleCount uint32) error {
	p.device = device

	quadShader, err := compileShader(device, "blit_sprite_shader", spriteShaderWGSL)
	if err != nil {
		return err
	}
	p.quadShader = quadShader

	geomShader, err := compileShader(device, "blit_geometry_shader", geometryShaderWGSL)
	if err != nil {
		return err
	}
	p.geomShader = geomShader

	// Bind group layout:
	//   Binding 0: Uniforms (view-projection, vertex stage)
	//   Binding 1: atlas page texture (fragment)
	//   Binding 2: sampler (fragment)
	bindLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "blit_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create bind group layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "blit_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	sampler, err := device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "blit_atlas_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create sampler: %w", err)
	}
	p.sampler = sampler

	blend := alphaBlend()

	quad, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "blit_quad_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.quadShader,
			EntryPoint: "vs_main",
			Buffers:    quadVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.quadShader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    gputypes.TextureFormatRGBA8Unorm,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: sampleCount,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create quad pipeline: %w", err)
	}
	p.quad = quad

	geom, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "blit_geometry_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.geomShader,
			EntryPoint: "vs_main",
			Buffers:    geometryVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.geomShader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    gputypes.TextureFormatRGBA8Unorm,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: sampleCount,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create geometry pipeline: %w", err)
	}
	p.geom = geom

	return nil
}

// destroy releases all pipeline resources in reverse creation order.
// Safe to call on a partially created set.
func (p *pipelines) destroy() {
	if p.device == nil {
		return
	}
	if p.geom != nil {
		p.device.DestroyRenderPipeline(p.geom)
		p.geom = nil
	}
	if p.quad != nil {
		p.device.DestroyRenderPipeline(p.quad)
		p.quad = nil
	}
	if p.sampler != nil {
		p.device.DestroySampler(p.sampler)
		p.sampler = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.geomShader != nil {
		p.device.DestroyShaderModule(p.geomShader)
		p.geomShader = nil
	}
	if p.quadShader != nil {
		p.device.DestroyShaderModule(p.quadShader)
		p.quadShader = nil
	}
	p.device = nil
}

// quadVertexLayout returns the two vertex buffers of the sprite
// pipeline: slot 0 streams the unit-quad corner per vertex, slot 1
// streams transform, UV rectangle, and tint per instance. Matches
// VertexInput in sprite.wgsl.
func quadVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: quadVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // corner
			},
		},
		{
			ArrayStride: instanceStride,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 1},  // t_col0
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 2},  // t_col1
				{Format: gputypes.VertexFormatFloat32x2, Offset: 16, ShaderLocation: 3}, // t_col2
				{Format: gputypes.VertexFormatFloat32x4, Offset: 24, ShaderLocation: 4}, // uv_rect
				{Format: gputypes.VertexFormatFloat32x4, Offset: 40, ShaderLocation: 5}, // tint
			},
		},
	}
}

// geometryVertexLayout returns the single vertex buffer of the
// custom-geometry pipeline. Matches VertexInput in geometry.wgsl.
func geometryVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: geometryVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},  // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},  // uv
				{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2}, // color
			},
		},
	}
}
