package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/gg"
)

// blitShader draws one fullscreen triangle sampling the uploaded frame texture.
const blitShader = `
@group(0) @binding(0) var frameTexture: texture_2d<f32>;
@group(0) @binding(1) var frameSampler: sampler;

struct VertexOut {
	@builtin(position) position: vec4<f32>,
	@location(0) uv: vec2<f32>,
};

@vertex
fn vs_main(@builtin(vertex_index) index: u32) -> VertexOut {
	var corners = array<vec2<f32>, 3>(
		vec2<f32>(-1.0, -1.0),
		vec2<f32>(3.0, -1.0),
		vec2<f32>(-1.0, 3.0),
	);
	let p = corners[index];
	var out: VertexOut;
	out.position = vec4<f32>(p, 0.0, 1.0);
	out.uv = vec2<f32>((p.x + 1.0) * 0.5, (1.0 - p.y) * 0.5);
	return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
	return textureSample(frameTexture, frameSampler, in.uv);
}
`

// wgpuPresenter uploads each composited frame into a texture and blits it to a window surface.
type wgpuPresenter struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat wgpu.TextureFormat
	alphaMode     wgpu.CompositeAlphaMode
	presentMode   wgpu.PresentMode

	pipeline        *wgpu.RenderPipeline
	bindGroupLayout *wgpu.BindGroupLayout
	sampler         *wgpu.Sampler

	// Recreated on every Configure
	frameTexture *wgpu.Texture
	frameView    *wgpu.TextureView
	bindGroup    *wgpu.BindGroup

	width, height int
}

var _ Presenter = &wgpuPresenter{}

func newWGPUPresenter(source SurfaceSource, forceFallbackAdapter bool, mode PresentMode) (*wgpuPresenter, error) {
	runtime.LockOSThread()
	p := &wgpuPresenter{
		mu:       &sync.Mutex{},
		instance: wgpu.CreateInstance(nil),
	}
	p.presentMode = toWGPUPresentMode(mode)
	p.surface = p.instance.CreateSurface(source.SurfaceDescriptor())

	a, err := p.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    p.surface,
	})
	if err != nil {
		p.release()
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	p.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Presenter Device",
	})
	if err != nil {
		p.release()
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	p.device = d
	p.queue = d.GetQueue()

	capabilities := p.surface.GetCapabilities(p.adapter)
	if len(capabilities.Formats) == 0 || len(capabilities.AlphaModes) == 0 {
		p.release()
		return nil, errors.New("surface reports no usable formats")
	}
	p.surfaceFormat = capabilities.Formats[0]
	p.alphaMode = capabilities.AlphaModes[0]

	if err := p.createPipeline(); err != nil {
		p.release()
		return nil, err
	}
	return p, nil
}

func (p *wgpuPresenter) createPipeline() error {
	module, err := p.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Frame Blit Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: blitShader},
	})
	if err != nil {
		return fmt.Errorf("failed to create blit shader: %w", err)
	}
	defer module.Release()

	textureEntry := wgpu.BindGroupLayoutEntry{Binding: 0, Visibility: wgpu.ShaderStageFragment}
	textureEntry.Texture.SampleType = wgpu.TextureSampleTypeFloat
	textureEntry.Texture.ViewDimension = wgpu.TextureViewDimension2D
	samplerEntry := wgpu.BindGroupLayoutEntry{Binding: 1, Visibility: wgpu.ShaderStageFragment}
	samplerEntry.Sampler.Type = wgpu.SamplerBindingTypeFiltering

	p.bindGroupLayout, err = p.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Frame Blit Layout",
		Entries: []wgpu.BindGroupLayoutEntry{textureEntry, samplerEntry},
	})
	if err != nil {
		return fmt.Errorf("failed to create blit bind group layout: %w", err)
	}

	layout, err := p.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Frame Blit",
		BindGroupLayouts: []*wgpu.BindGroupLayout{p.bindGroupLayout},
	})
	if err != nil {
		return fmt.Errorf("failed to create blit pipeline layout: %w", err)
	}
	defer layout.Release()

	p.pipeline, err = p.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Frame Blit Render Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    p.surfaceFormat,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create blit pipeline: %w", err)
	}

	p.sampler, err = p.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Frame Blit Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to create blit sampler: %w", err)
	}
	return nil
}

func (p *wgpuPresenter) Configure(width, height int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.surface.Configure(p.adapter, p.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      p.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: p.presentMode,
		AlphaMode:   p.alphaMode,
	})

	p.releaseFrameTexture()

	tex, err := p.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     "Frame Texture",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return fmt.Errorf("failed to create frame texture: %w", err)
	}
	p.frameTexture = tex

	p.frameView, err = tex.CreateView(nil)
	if err != nil {
		return fmt.Errorf("failed to create frame texture view: %w", err)
	}

	p.bindGroup, err = p.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Frame Blit Bind Group",
		Layout: p.bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: p.frameView},
			{Binding: 1, Sampler: p.sampler},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create frame bind group: %w", err)
	}

	p.width, p.height = width, height
	return nil
}

func (p *wgpuPresenter) Present(frame *gg.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bindGroup == nil {
		return errors.New("presenter not configured")
	}
	pm := frame.ResizeTarget()
	if pm.Width() != p.width || pm.Height() != p.height {
		return fmt.Errorf("frame is %dx%d, surface is %dx%d", pm.Width(), pm.Height(), p.width, p.height)
	}

	p.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  p.frameTexture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		pm.Data(),
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(p.width) * 4,
			RowsPerImage: uint32(p.height),
		},
		&wgpu.Extent3D{
			Width:              uint32(p.width),
			Height:             uint32(p.height),
			DepthOrArrayLayers: 1,
		},
	)

	surfaceTexture, err := p.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("failed to acquire surface texture: %w", err)
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("failed to create surface view: %w", err)
	}
	defer view.Release()

	encoder, err := p.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("failed to create command encoder: %w", err)
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{A: 1},
		}},
	})
	pass.SetPipeline(p.pipeline)
	pass.SetBindGroup(0, p.bindGroup, nil)
	pass.Draw(3, 1, 0, 0)
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("failed to finish command encoder: %w", err)
	}
	defer commandBuffer.Release()

	p.queue.Submit(commandBuffer)
	p.surface.Present()
	return nil
}

// SetPresentMode takes effect on the next Configure.
func (p *wgpuPresenter) SetPresentMode(mode PresentMode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.presentMode = toWGPUPresentMode(mode)
}

func (p *wgpuPresenter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.release()
	return nil
}

func (p *wgpuPresenter) releaseFrameTexture() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.frameView != nil {
		p.frameView.Release()
		p.frameView = nil
	}
	if p.frameTexture != nil {
		p.frameTexture.Release()
		p.frameTexture = nil
	}
}

// release frees every GPU handle in reverse creation order.
func (p *wgpuPresenter) release() {
	p.releaseFrameTexture()
	if p.sampler != nil {
		p.sampler.Release()
		p.sampler = nil
	}
	if p.pipeline != nil {
		p.pipeline.Release()
		p.pipeline = nil
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
	if p.queue != nil {
		p.queue.Release()
		p.queue = nil
	}
	if p.device != nil {
		p.device.Release()
		p.device = nil
	}
	if p.adapter != nil {
		p.adapter.Release()
		p.adapter = nil
	}
	if p.surface != nil {
		p.surface.Release()
		p.surface = nil
	}
	if p.instance != nil {
		p.instance.Release()
		p.instance = nil
	}
}

func toWGPUPresentMode(mode PresentMode) wgpu.PresentMode {
	switch mode {
	case PresentModeVSync:
		return wgpu.PresentModeFifo
	case PresentModeUncapped:
		fallthrough
	default:
		return wgpu.PresentModeImmediate
	}
}
