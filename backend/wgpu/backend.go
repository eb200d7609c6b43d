package wgpu

import (
	"context"
	"encoding/binary"
	"fmt"
	"image"
	"math"
	"sync"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/blit"
	"github.com/gogpu/blit/atlas"
)

func init() {
	blit.RegisterBackend(blit.BackendWGPU, func() blit.Backend {
		return New()
	})
}

// textureSlots is the page count one draw call may reference. The
// backend binds one page per draw and splits instance runs internally,
// so it can honor the WebGPU baseline without binding arrays.
const textureSlots = 16

// gpuTimeout bounds the wait for frame completion.
const gpuTimeout = 5 * time.Second

// pageTexture is the device-resident copy of one atlas page.
type pageTexture struct {
	tex  hal.Texture
	view hal.TextureView
	size uint32
}

// renderTarget holds the offscreen textures a frame is drawn into.
// With MSAA the pass renders to msaa and resolves into color.
type renderTarget struct {
	width, height uint32
	colorTex      hal.Texture
	colorView     hal.TextureView
	msaaTex       hal.Texture
	msaaView      hal.TextureView
}

// Backend submits batches through gogpu/wgpu. It owns a standalone
// Vulkan device unless one is shared via SetDeviceProvider.
//
// All methods are safe for concurrent use; Submit serializes frames.
type Backend struct {
	mu sync.Mutex

	initialized    bool
	externalDevice bool

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	info     *GPUInfo
	limits   gputypes.Limits

	sampleCount uint32

	pipe   *pipelines
	pages  map[atlas.PageID]*pageTexture
	target renderTarget

	// Static geometry shared by every quad draw.
	cornerBuf hal.Buffer
	indexBuf  hal.Buffer
}

// New creates an uninitialized backend. Init (or the renderer) must be
// called before use.
func New() *Backend {
	return &Backend{
		sampleCount: 1,
		limits:      gputypes.DefaultLimits(),
		pages:       make(map[atlas.PageID]*pageTexture),
	}
}

// Name returns the backend identifier.
func (b *Backend) Name() string { return blit.BackendWGPU }

// Init creates the GPU device unless one was provided via
// SetDeviceProvider. Calling Init on an initialized backend is a
// no-op.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}

	if b.device == nil {
		instance, device, queue, info, err := openDevice()
		if err != nil {
			return err
		}
		b.instance = instance
		b.device = device
		b.queue = queue
		b.info = info
	}

	b.initialized = true
	return nil
}

// SetDeviceProvider switches the backend to a shared GPU device. The
// provider must also implement HalDevice() any and HalQueue() any
// returning hal.Device and hal.Queue, the convention gogpu providers
// follow. Own resources created by a prior Init are released.
func (b *Backend) SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return ErrBadProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("%w: HalDevice is not hal.Device", ErrBadProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("%w: HalQueue is not hal.Queue", ErrBadProvider)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.releaseDeviceResources()
	if !b.externalDevice && b.device != nil {
		b.device.Destroy()
	}
	if b.instance != nil {
		b.instance.Destroy()
		b.instance = nil
	}

	b.device = device
	b.queue = queue
	b.externalDevice = true
	blit.Logger().Debug("wgpu: switched to shared GPU device")
	return nil
}

// SetSampleCount sets the MSAA sample count for the render target.
// Takes effect before the first frame; pipelines are built lazily.
func (b *Backend) SetSampleCount(n uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n == 0 {
		n = 1
	}
	b.sampleCount = n
}

// Info returns the selected adapter description, or nil with a shared
// device.
func (b *Backend) Info() *GPUInfo {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.info
}

// TextureSlotLimit returns the page count one batch may reference.
func (b *Backend) TextureSlotLimit() uint32 { return textureSlots }

// MaxAtlasPageDimension returns the device's 2D texture size limit.
func (b *Backend) MaxAtlasPageDimension() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.limits.MaxTextureDimension2D
}

// Target returns the texture the last frame was rendered into, for
// presentation or readback by the embedding application.
func (b *Backend) Target() hal.Texture {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.target.colorTex
}

// UploadPage copies the dirty region of an atlas page to its device
// texture, creating the texture on first upload.
func (b *Backend) UploadPage(id atlas.PageID, pixels *image.RGBA, dirty image.Rectangle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return ErrNotInitialized
	}
	dirty = dirty.Intersect(pixels.Bounds())
	if dirty.Empty() {
		return nil
	}

	pt, err := b.ensurePageTexture(id, pixels.Bounds())
	if err != nil {
		return err
	}

	// Tightly pack the dirty rows; WriteTexture wants no page stride.
	w, h := dirty.Dx(), dirty.Dy()
	data := make([]byte, w*h*4)
	for row := 0; row < h; row++ {
		off := pixels.PixOffset(dirty.Min.X, dirty.Min.Y+row)
		copy(data[row*w*4:(row+1)*w*4], pixels.Pix[off:off+w*4])
	}

	//nolint:gosec // dirty is clamped to the page bounds
	b.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  pt.tex,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: uint32(dirty.Min.X), Y: uint32(dirty.Min.Y)},
			Aspect:   gputypes.TextureAspectAll,
		},
		data,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(w * 4),
			RowsPerImage: uint32(h),
		},
		&hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
	)
	return nil
}

func (b *Backend) ensurePageTexture(id atlas.PageID, bounds image.Rectangle) (*pageTexture, error) {
	if pt, ok := b.pages[id]; ok {
		return pt, nil
	}

	size := uint32(bounds.Dx()) //nolint:gosec // page size is validated at config time
	tex, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label:         fmt.Sprintf("blit_page_%d", id),
		Size:          hal.Extent3D{Width: size, Height: size, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create page texture %d: %w", id, err)
	}

	view, err := b.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         fmt.Sprintf("blit_page_%d_view", id),
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		b.device.DestroyTexture(tex)
		return nil, fmt.Errorf("wgpu: create page view %d: %w", id, err)
	}

	pt := &pageTexture{tex: tex, view: view, size: size}
	b.pages[id] = pt
	return pt, nil
}

// frameDraw is one recorded draw call of the current frame.
type frameDraw struct {
	pipeline  hal.RenderPipeline
	bindGroup hal.BindGroup

	// Quad draws: instanced over the shared corner stream.
	instBuf       hal.Buffer
	instanceCount uint32
	firstInstance uint32

	// Geometry draws: dedicated vertex and index buffers.
	vertBuf    hal.Buffer
	idxBuf     hal.Buffer
	indexCount uint32
}

// Submit renders the batch list into the offscreen target in order.
// The frame is synchronous: Submit returns after the GPU signals the
// frame fence.
func (b *Backend) Submit(ctx context.Context, batches []blit.Batch, camera blit.Camera) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return ErrNotInitialized
	}

	if b.pipe == nil {
		pipe := &pipelines{}
		if err := pipe.create(b.device, b.sampleCount); err != nil {
			pipe.destroy()
			return err
		}
		b.pipe = pipe
	}

	w := uint32(max(1, int(camera.Viewport.X))) //nolint:gosec // clamped to >= 1
	h := uint32(max(1, int(camera.Viewport.Y))) //nolint:gosec // clamped to >= 1
	if err := b.ensureTarget(w, h); err != nil {
		return err
	}
	if err := b.ensureStaticBuffers(); err != nil {
		return err
	}

	uniformBuf, err := b.createAndUploadBuffer("blit_uniform",
		matrixBytes(viewProjection(camera)),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	defer b.device.DestroyBuffer(uniformBuf)

	// Bind groups are per page and shared across draws of the frame.
	bindGroups := make(map[atlas.PageID]hal.BindGroup)
	defer func() {
		for _, bg := range bindGroups {
			b.device.DestroyBindGroup(bg)
		}
	}()
	frameBufs := make([]hal.Buffer, 0, len(batches))
	defer func() {
		for _, buf := range frameBufs {
			b.device.DestroyBuffer(buf)
		}
	}()

	var draws []frameDraw
	for i := range batches {
		batch := &batches[i]
		switch batch.Kind {
		case blit.BatchQuads:
			ds, bufs, err := b.buildQuadDraws(batch, uniformBuf, bindGroups)
			if err != nil {
				return err
			}
			frameBufs = append(frameBufs, bufs...)
			draws = append(draws, ds...)

		case blit.BatchGeometry:
			d, bufs, err := b.buildGeometryDraw(batch, uniformBuf, bindGroups)
			if err != nil {
				return err
			}
			frameBufs = append(frameBufs, bufs...)
			draws = append(draws, d)

		case blit.BatchExternal:
			// Opaque units are rendered by their collaborator against the
			// same target; nothing to encode here.
			blit.Logger().Debug("wgpu: skipping external unit", "layer", batch.Layer)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return b.encodeAndSubmit(draws)
}

// buildQuadDraws uploads the batch's instance data and splits it into
// one draw per run of instances sampling the same page. Runs keep the
// batch's instance order, so draw order equals submission order.
func (b *Backend) buildQuadDraws(batch *blit.Batch, uniformBuf hal.Buffer, bindGroups map[atlas.PageID]hal.BindGroup) ([]frameDraw, []hal.Buffer, error) {
	if len(batch.Instances) == 0 {
		return nil, nil, nil
	}

	data := make([]byte, 0, len(batch.Instances)*instanceStride)
	for i := range batch.Instances {
		data = appendInstance(data, &batch.Instances[i])
	}
	instBuf, err := b.createAndUploadBuffer("blit_instances", data,
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, nil, err
	}
	bufs := []hal.Buffer{instBuf}

	var draws []frameDraw
	runStart := 0
	for i := 1; i <= len(batch.Instances); i++ {
		if i < len(batch.Instances) && batch.Instances[i].PageSlot == batch.Instances[runStart].PageSlot {
			continue
		}
		slot := batch.Instances[runStart].PageSlot
		if int(slot) >= len(batch.Pages) {
			return nil, bufs, fmt.Errorf("%w: slot %d of %d pages", ErrUnknownPage, slot, len(batch.Pages))
		}
		bg, err := b.pageBindGroup(batch.Pages[slot], uniformBuf, bindGroups)
		if err != nil {
			return nil, bufs, err
		}
		//nolint:gosec // instance counts are bounded by the frame queue capacity
		draws = append(draws, frameDraw{
			pipeline:      b.pipe.quad,
			bindGroup:     bg,
			instBuf:       instBuf,
			instanceCount: uint32(i - runStart),
			firstInstance: uint32(runStart),
		})
		runStart = i
	}
	return draws, bufs, nil
}

// buildGeometryDraw uploads one custom-geometry batch.
func (b *Backend) buildGeometryDraw(batch *blit.Batch, uniformBuf hal.Buffer, bindGroups map[atlas.PageID]hal.BindGroup) (frameDraw, []hal.Buffer, error) {
	if len(batch.Pages) == 0 {
		return frameDraw{}, nil, ErrUnknownPage
	}

	vertData := make([]byte, 0, len(batch.Vertices)*geometryVertexStride)
	for i := range batch.Vertices {
		v := &batch.Vertices[i]
		vertData = appendF32(vertData, v.Pos.X, v.Pos.Y, v.UV.X, v.UV.Y)
		vertData = appendF32(vertData, v.Color.R, v.Color.G, v.Color.B, v.Color.A)
	}

	idxData := make([]byte, 0, (len(batch.Indices)+1)*2)
	for _, idx := range batch.Indices {
		idxData = binary.LittleEndian.AppendUint16(idxData, idx)
	}
	if len(idxData)%4 != 0 {
		// Buffer sizes must be 4-byte aligned.
		idxData = binary.LittleEndian.AppendUint16(idxData, 0)
	}

	vertBuf, err := b.createAndUploadBuffer("blit_geom_verts", vertData,
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return frameDraw{}, nil, err
	}
	bufs := []hal.Buffer{vertBuf}

	idxBuf, err := b.createAndUploadBuffer("blit_geom_indices", idxData,
		gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return frameDraw{}, bufs, err
	}
	bufs = append(bufs, idxBuf)

	bg, err := b.pageBindGroup(batch.Pages[0], uniformBuf, bindGroups)
	if err != nil {
		return frameDraw{}, bufs, err
	}

	return frameDraw{
		pipeline:   b.pipe.geom,
		bindGroup:  bg,
		vertBuf:    vertBuf,
		idxBuf:     idxBuf,
		indexCount: uint32(len(batch.Indices)), //nolint:gosec // index count fits uint32
	}, bufs, nil
}

// pageBindGroup returns the frame's bind group for a page, creating it
// on first use.
func (b *Backend) pageBindGroup(id atlas.PageID, uniformBuf hal.Buffer, cache map[atlas.PageID]hal.BindGroup) (hal.BindGroup, error) {
	if bg, ok := cache[id]; ok {
		return bg, nil
	}
	pt, ok := b.pages[id]
	if !ok {
		return nil, fmt.Errorf("%w: page %d", ErrUnknownPage, id)
	}

	bg, err := b.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  fmt.Sprintf("blit_bind_page_%d", id),
		Layout: b.pipe.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: uniformSize,
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{
				TextureView: pt.view.NativeHandle(),
			}},
			{Binding: 2, Resource: gputypes.SamplerBinding{
				Sampler: b.pipe.sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create bind group for page %d: %w", id, err)
	}
	cache[id] = bg
	return bg, nil
}

// encodeAndSubmit records the frame's render pass and blocks until the
// GPU signals completion.
func (b *Backend) encodeAndSubmit(draws []frameDraw) error {
	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "blit_frame_encoder",
	})
	if err != nil {
		return fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("blit_frame"); err != nil {
		return fmt.Errorf("wgpu: begin encoding: %w", err)
	}

	colorAttachment := hal.RenderPassColorAttachment{
		View:       b.target.colorView,
		LoadOp:     gputypes.LoadOpClear,
		StoreOp:    gputypes.StoreOpStore,
		ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
	}
	if b.sampleCount > 1 {
		colorAttachment.View = b.target.msaaView
		colorAttachment.ResolveTarget = b.target.colorView
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label:            "blit_frame_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{colorAttachment},
	})

	for i := range draws {
		d := &draws[i]
		rp.SetPipeline(d.pipeline)
		rp.SetBindGroup(0, d.bindGroup, nil)
		if d.instBuf != nil {
			rp.SetVertexBuffer(0, b.cornerBuf, 0)
			rp.SetVertexBuffer(1, d.instBuf, 0)
			rp.SetIndexBuffer(b.indexBuf, gputypes.IndexFormatUint16, 0)
			rp.DrawIndexed(uint32(len(blit.QuadIndexPattern)), d.instanceCount, 0, 0, d.firstInstance)
		} else {
			rp.SetVertexBuffer(0, d.vertBuf, 0)
			rp.SetIndexBuffer(d.idxBuf, gputypes.IndexFormatUint16, 0)
			rp.DrawIndexed(d.indexCount, 1, 0, 0, 0)
		}
	}
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer b.device.FreeCommandBuffer(cmdBuf)

	fence, err := b.device.CreateFence()
	if err != nil {
		return fmt.Errorf("wgpu: create fence: %w", err)
	}
	defer b.device.DestroyFence(fence)

	if err := b.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("wgpu: submit: %w", err)
	}
	ok, err := b.device.Wait(fence, 1, gpuTimeout)
	if err != nil || !ok {
		return fmt.Errorf("wgpu: wait for frame: ok=%v err=%w", ok, err)
	}
	return nil
}

// ensureTarget creates or recreates the offscreen render target when
// the viewport size changes.
func (b *Backend) ensureTarget(w, h uint32) error {
	if b.target.width == w && b.target.height == h && b.target.colorTex != nil {
		return nil
	}
	b.destroyTarget()

	size := hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}

	colorTex, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "blit_target_color",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create target texture: %w", err)
	}
	colorView, err := b.device.CreateTextureView(colorTex, &hal.TextureViewDescriptor{
		Label:         "blit_target_color_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		b.device.DestroyTexture(colorTex)
		return fmt.Errorf("wgpu: create target view: %w", err)
	}
	b.target.colorTex = colorTex
	b.target.colorView = colorView

	if b.sampleCount > 1 {
		msaaTex, err := b.device.CreateTexture(&hal.TextureDescriptor{
			Label:         "blit_target_msaa",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   b.sampleCount,
			Dimension:     gputypes.TextureDimension2D,
			Format:        gputypes.TextureFormatRGBA8Unorm,
			Usage:         gputypes.TextureUsageRenderAttachment,
		})
		if err != nil {
			b.destroyTarget()
			return fmt.Errorf("wgpu: create MSAA texture: %w", err)
		}
		msaaView, err := b.device.CreateTextureView(msaaTex, &hal.TextureViewDescriptor{
			Label:         "blit_target_msaa_view",
			Format:        gputypes.TextureFormatRGBA8Unorm,
			Dimension:     gputypes.TextureViewDimension2D,
			Aspect:        gputypes.TextureAspectAll,
			MipLevelCount: 1,
		})
		if err != nil {
			b.device.DestroyTexture(msaaTex)
			b.destroyTarget()
			return fmt.Errorf("wgpu: create MSAA view: %w", err)
		}
		b.target.msaaTex = msaaTex
		b.target.msaaView = msaaView
	}

	b.target.width = w
	b.target.height = h
	return nil
}

// ensureStaticBuffers creates the shared unit-quad corner and index
// buffers on first use.
func (b *Backend) ensureStaticBuffers() error {
	if b.cornerBuf != nil {
		return nil
	}

	corners := appendF32(nil, 0, 0, 1, 0, 1, 1, 0, 1)
	cornerBuf, err := b.createAndUploadBuffer("blit_quad_corners", corners,
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}

	var idxData []byte
	for _, idx := range blit.QuadIndexPattern {
		idxData = binary.LittleEndian.AppendUint16(idxData, idx)
	}
	indexBuf, err := b.createAndUploadBuffer("blit_quad_indices", idxData,
		gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
	if err != nil {
		b.device.DestroyBuffer(cornerBuf)
		return err
	}

	b.cornerBuf = cornerBuf
	b.indexBuf = indexBuf
	return nil
}

// createAndUploadBuffer creates a GPU buffer and uploads data.
func (b *Backend) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %s: %w", label, err)
	}
	b.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// Close releases all GPU resources. With a shared device only the
// backend's own objects are destroyed.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.releaseDeviceResources()

	if !b.externalDevice {
		if b.device != nil {
			b.device.Destroy()
		}
		if b.instance != nil {
			b.instance.Destroy()
		}
	}
	b.instance = nil
	b.device = nil
	b.queue = nil
	b.info = nil
	b.externalDevice = false
	b.initialized = false
}

// releaseDeviceResources destroys every object created on the current
// device: pages, target, static buffers, pipelines.
func (b *Backend) releaseDeviceResources() {
	if b.device == nil {
		return
	}
	for id, pt := range b.pages {
		b.device.DestroyTextureView(pt.view)
		b.device.DestroyTexture(pt.tex)
		delete(b.pages, id)
	}
	b.destroyTarget()
	if b.indexBuf != nil {
		b.device.DestroyBuffer(b.indexBuf)
		b.indexBuf = nil
	}
	if b.cornerBuf != nil {
		b.device.DestroyBuffer(b.cornerBuf)
		b.cornerBuf = nil
	}
	if b.pipe != nil {
		b.pipe.destroy()
		b.pipe = nil
	}
}

func (b *Backend) destroyTarget() {
	if b.target.msaaView != nil {
		b.device.DestroyTextureView(b.target.msaaView)
	}
	if b.target.msaaTex != nil {
		b.device.DestroyTexture(b.target.msaaTex)
	}
	if b.target.colorView != nil {
		b.device.DestroyTextureView(b.target.colorView)
	}
	if b.target.colorTex != nil {
		b.device.DestroyTexture(b.target.colorTex)
	}
	b.target = renderTarget{}
}

// appendInstance packs one quad instance into the per-instance vertex
// stream: transform columns, UV rectangle, tint.
func appendInstance(data []byte, in *blit.Instance) []byte {
	t := in.Transform
	data = appendF32(data, t.A, t.D, t.B, t.E, t.C, t.F)
	data = appendF32(data, in.UV[0], in.UV[1], in.UV[2], in.UV[3])
	return appendF32(data, in.Tint[0], in.Tint[1], in.Tint[2], in.Tint[3])
}

func appendF32(data []byte, vals ...float32) []byte {
	for _, v := range vals {
		data = binary.LittleEndian.AppendUint32(data, math.Float32bits(v))
	}
	return data
}

func matrixBytes(m [16]float32) []byte {
	return appendF32(make([]byte, 0, uniformSize), m[:]...)
}

// viewProjection combines the camera's affine view transform with its
// clip-space projection into one column-major matrix for the shader.
func viewProjection(cam blit.Camera) [16]float32 {
	v := cam.ViewMatrix()
	p := cam.ProjectionMatrix()

	// View as a column-major 4x4.
	m := [16]float32{
		v.A, v.D, 0, 0,
		v.B, v.E, 0, 0,
		0, 0, 1, 0,
		v.C, v.F, 0, 1,
	}

	var out [16]float32
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += p[k*4+row] * m[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}
