package wgpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/present"
)

//go:embed shaders/blit.wgsl
var blitShaderWGSL string

// pipelineKey caches one blit pipeline per target format and sample
// count combination.
type pipelineKey struct {
	format  gputypes.TextureFormat
	samples uint32
}

// blitAssets holds the shared resolve-copy objects: the compiled copy
// shader, the sampler addons observe through ResolveAssets, and the
// pipeline cache.
type blitAssets struct {
	shader     hal.ShaderModule
	sampler    hal.Sampler
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipelines  map[pipelineKey]hal.RenderPipeline

	// Compiled SPIR-V (cached for verification).
	spirvCode []uint32
}

// newBlitAssets compiles the copy shader and creates the layout objects
// every blit pipeline shares.
func newBlitAssets(device hal.Device) (*blitAssets, error) {
	if blitShaderWGSL == "" {
		return nil, fmt.Errorf("blit shader source is empty")
	}

	// Compile WGSL to SPIR-V.
	spirvBytes, err := naga.Compile(blitShaderWGSL)
	if err != nil {
		return nil, fmt.Errorf("compile blit shader: %w", err)
	}

	a := &blitAssets{pipelines: make(map[pipelineKey]hal.RenderPipeline)}

	a.spirvCode = make([]uint32, len(spirvBytes)/4)
	for i := range a.spirvCode {
		a.spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	shader, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: "present_blit_shader",
		Source: hal.ShaderSource{
			SPIRV: a.spirvCode,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create blit shader module: %w", err)
	}
	a.shader = shader

	bindLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "present_blit_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
		},
	})
	if err != nil {
		a.destroy(device)
		return nil, fmt.Errorf("create blit bind layout: %w", err)
	}
	a.bindLayout = bindLayout

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "present_blit_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{a.bindLayout},
	})
	if err != nil {
		a.destroy(device)
		return nil, fmt.Errorf("create blit pipeline layout: %w", err)
	}
	a.pipeLayout = pipeLayout

	// The copy shader addresses texels directly; the sampler exists so
	// addons that key off the resolve assets see the full triple.
	sampler, err := device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "present_blit_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		a.destroy(device)
		return nil, fmt.Errorf("create blit sampler: %w", err)
	}
	a.sampler = sampler

	return a, nil
}

// ensurePipeline returns the blit pipeline for the given target format
// and sample count, creating and caching it on first use.
func (a *blitAssets) ensurePipeline(device hal.Device, format gputypes.TextureFormat, samples uint32) (hal.RenderPipeline, error) {
	if samples == 0 {
		samples = 1
	}
	key := pipelineKey{format: format, samples: samples}
	if p, ok := a.pipelines[key]; ok {
		return p, nil
	}

	pipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "present_blit_pipeline",
		Layout: a.pipeLayout,
		Vertex: hal.VertexState{
			Module:     a.shader,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     a.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: samples,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create blit pipeline: %w", err)
	}
	a.pipelines[key] = pipeline
	return pipeline, nil
}

// destroy releases all blit assets in reverse creation order.
func (a *blitAssets) destroy(device hal.Device) {
	for key, p := range a.pipelines {
		device.DestroyRenderPipeline(p)
		delete(a.pipelines, key)
	}
	if a.sampler != nil {
		device.DestroySampler(a.sampler)
		a.sampler = nil
	}
	if a.pipeLayout != nil {
		device.DestroyPipelineLayout(a.pipeLayout)
		a.pipeLayout = nil
	}
	if a.bindLayout != nil {
		device.DestroyBindGroupLayout(a.bindLayout)
		a.bindLayout = nil
	}
	if a.shader != nil {
		device.DestroyShaderModule(a.shader)
		a.shader = nil
	}
}

// DrawResolveBlit copies the resolved image back into the swap surface
// with a three-vertex fullscreen triangle. The pass target is exactly
// the recorded viewport extent, so the triangle covers it without an
// explicit viewport set. Failures are logged and drop the copy;
// presentation continues.
func (d *Device) DrawResolveBlit(blit present.ResolveBlit) {
	target, ok := blit.Target.(*textureView)
	if !ok {
		present.Logger().Error("wgpu: blit target is not a wgpu view")
		return
	}
	source, ok := blit.Source.(*textureView)
	if !ok {
		present.Logger().Error("wgpu: blit source is not a wgpu view")
		return
	}

	pipeline, err := d.assets.ensurePipeline(d.hal,
		toWGPUFormat(target.tex.desc.Format), target.tex.desc.SampleCount)
	if err != nil {
		present.Logger().Error("wgpu: blit pass", "err", err)
		return
	}

	bindGroup, err := d.hal.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "present_blit_bind",
		Layout: d.assets.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{
				TextureView: uintptr(nativeHandle(source.view)),
			}},
		},
	})
	if err != nil {
		present.Logger().Error("wgpu: blit bind group", "err", err)
		return
	}
	defer d.hal.DestroyBindGroup(bindGroup)

	encoder, err := d.hal.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "present_blit_encoder",
	})
	if err != nil {
		present.Logger().Error("wgpu: blit pass", "err", err)
		return
	}
	if err := encoder.BeginEncoding("present_blit"); err != nil {
		present.Logger().Error("wgpu: blit pass", "err", err)
		return
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "present_blit_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       target.view,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
			},
		},
	})
	rp.SetPipeline(pipeline)
	rp.SetBindGroup(0, bindGroup, nil)

	verts := blit.VertexCount
	if verts == 0 {
		verts = present.ResolveBlitVertexCount
	}
	rp.Draw(verts, 1, 0, 0)
	rp.End()

	if err := d.submitAndWait(encoder); err != nil {
		present.Logger().Error("wgpu: blit submit", "err", err)
	}
}
