package orrery

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/cogentcore/webgpu/wgpu"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Hover labels: the hovered star or planet gets a small text card next to
// the cursor. Text is rasterized on the CPU with the fixed 7x13 face and
// uploaded as an RGBA texture; cards are cached per text, so steady
// hovering costs one texture upload total.

const (
	labelPadX     = 6
	labelPadY     = 4
	labelCacheCap = 64
)

var labelVertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: 4 * 4,
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
	},
}

type labelTexture struct {
	bindGroup *wgpu.BindGroup
	texture   *wgpu.Texture
	view      *wgpu.TextureView
	width     int
	height    int
}

func (lt *labelTexture) release() {
	lt.bindGroup.Release()
	lt.view.Release()
	lt.texture.Release()
}

type labelState struct {
	pipeline  *wgpu.RenderPipeline
	sampler   *wgpu.Sampler
	vertexBuf *wgpu.Buffer
	cache     map[string]*labelTexture
}

type LabelsModule struct{}

func (m LabelsModule) Install(app *App, cmd *Commands) {
	gpuState := resource[GpuState](app)

	state := &labelState{cache: make(map[string]*labelTexture)}
	state.pipeline = createRenderPipeline(pipelineSpec{
		name:     "labels",
		shader:   labelShaderWGSL,
		layouts:  []wgpu.VertexBufferLayout{labelVertexLayout},
		topology: wgpu.PrimitiveTopologyTriangleList,
		blend:    alphaBlend,
	}, gpuState)

	sampler, err := gpuState.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:     "label-sampler",
		MagFilter: wgpu.FilterModeNearest,
		MinFilter: wgpu.FilterModeNearest,
	})
	if err != nil {
		panic(err)
	}
	state.sampler = sampler

	state.vertexBuf = createBuffer("label-quad", make([]float32, 6*4),
		wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst, gpuState)

	cmd.AddResources(state)
	app.UseSystem(System(labelRenderSystem).InStage(Render).RunAlways())
}

func labelRenderSystem(
	frame *FrameState,
	state *labelState,
	gpuState *GpuState,
	picking *PickingState,
	input *Input,
) {
	if !frame.Active {
		return
	}

	text := hoverLabelText(picking)
	if text == "" || input.WindowWidth <= 0 || input.WindowHeight <= 0 {
		return
	}

	tex := state.textureFor(text, gpuState)

	// Quad anchored just right of the cursor, in NDC.
	x0 := float32(2*(input.MouseX+14)/float64(input.WindowWidth) - 1)
	y0 := float32(1 - 2*(input.MouseY-8)/float64(input.WindowHeight))
	w := 2 * float32(tex.width) / float32(input.WindowWidth)
	h := 2 * float32(tex.height) / float32(input.WindowHeight)
	x1, y1 := x0+w, y0-h

	gpuState.queue.WriteBuffer(state.vertexBuf, 0, wgpu.ToBytes([]float32{
		x0, y0, 0, 0,
		x1, y0, 1, 0,
		x1, y1, 1, 1,
		x0, y0, 0, 0,
		x1, y1, 1, 1,
		x0, y1, 0, 1,
	}))

	pass := frame.encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    frame.texView,
				LoadOp:  wgpu.LoadOpLoad,
				StoreOp: wgpu.StoreOpStore,
			},
		},
	})
	pass.SetPipeline(state.pipeline)
	pass.SetBindGroup(0, tex.bindGroup, nil)
	pass.SetVertexBuffer(0, state.vertexBuf, 0, wgpu.WholeSize)
	pass.Draw(6, 1, 0, 0)
	pass.End()
	pass.Release()
}

func hoverLabelText(picking *PickingState) string {
	if p := picking.HoveredPlanet; p != nil {
		if r := p.EffectiveRadiusEarth(); r != nil {
			return fmt.Sprintf("%s  %s", p.Name, PlanetCategory(*r))
		}
		return p.Name
	}
	if s := picking.HoveredStar; s != nil {
		ly := DistanceInLightYears(s.Parallax)
		if ly > 0 {
			return fmt.Sprintf("%s  %.1f ly", s.DisplayName(), ly)
		}
		return s.DisplayName()
	}
	return ""
}

func (state *labelState) textureFor(text string, gpuState *GpuState) *labelTexture {
	if tex, ok := state.cache[text]; ok {
		return tex
	}
	// Hover churn is bounded; dropping the whole cache on overflow is
	// simpler than LRU and rebuilds are cheap.
	if len(state.cache) >= labelCacheCap {
		for k, tex := range state.cache {
			tex.release()
			delete(state.cache, k)
		}
	}

	img := rasterizeLabel(text)
	tex := uploadLabelTexture(img, state, gpuState)
	state.cache[text] = tex
	return tex
}

func rasterizeLabel(text string) *image.RGBA {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil() + 2*labelPadX
	height := face.Height + 2*labelPadY

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{10, 12, 22, 215}), image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{235, 238, 245, 255}),
		Face: face,
		Dot:  fixed.P(labelPadX, labelPadY+face.Ascent),
	}
	d.DrawString(text)
	return img
}

func uploadLabelTexture(img *image.RGBA, state *labelState, gpuState *GpuState) *labelTexture {
	size := img.Bounds().Size()
	extent := wgpu.Extent3D{
		Width:              uint32(size.X),
		Height:             uint32(size.Y),
		DepthOrArrayLayers: 1,
	}

	texture, err := gpuState.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "label",
		Size:          extent,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		panic(err)
	}

	gpuState.queue.WriteTexture(
		&wgpu.ImageCopyTexture{Texture: texture, MipLevel: 0, Origin: wgpu.Origin3D{}},
		img.Pix,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(img.Stride),
			RowsPerImage: uint32(size.Y),
		},
		&extent,
	)

	view, err := texture.CreateView(nil)
	if err != nil {
		panic(err)
	}

	layout := state.pipeline.GetBindGroupLayout(0)
	defer layout.Release()
	bindGroup, err := gpuState.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "label",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: view},
			{Binding: 1, Sampler: state.sampler},
		},
	})
	if err != nil {
		panic(err)
	}

	return &labelTexture{
		bindGroup: bindGroup,
		texture:   texture,
		view:      view,
		width:     size.X,
		height:    size.Y,
	}
}
