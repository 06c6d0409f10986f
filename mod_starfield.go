package orrery

import (
	"github.com/cogentcore/webgpu/wgpu"
)

type sceneUniform struct {
	View      [16]float32
	Proj      [16]float32
	SizeScale float32
	Pad0      float32
	Pad1      float32
	Pad2      float32
}

// World-space half-extent per unit of point size. The projection divides
// by depth, which yields the intended size ∝ base·k/depth falloff.
const starSizeScale = 0.4

var clearColor = wgpu.Color{R: 0.004, G: 0.005, B: 0.012, A: 1}

// FrameState is the in-flight frame shared by the Render-stage systems:
// acquired in PreRender, drawn into by any number of passes, submitted
// and presented in PostRender. Active is false when the swapchain was
// lost and the frame is being skipped.
type FrameState struct {
	Active  bool
	texView *wgpu.TextureView
	encoder *wgpu.CommandEncoder
}

// starInstanceLayout matches VsIn of the star shader: one interleaved
// center/size/color record per star, expanded to a quad by vertex_index.
var starInstanceLayout = wgpu.VertexBufferLayout{
	ArrayStride: 7 * 4,
	StepMode:    wgpu.VertexStepModeInstance,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32, Offset: 12, ShaderLocation: 1},
		{Format: wgpu.VertexFormatFloat32x3, Offset: 16, ShaderLocation: 2},
	},
}

var lineVertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: 6 * 4,
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
	},
}

type starfieldState struct {
	starPipeline *wgpu.RenderPipeline
	linePipeline *wgpu.RenderPipeline

	uniformBuf    *wgpu.Buffer
	starBindGroup *wgpu.BindGroup
	lineBindGroup *wgpu.BindGroup

	galaxyBuf     *wgpu.Buffer
	galaxyCount   int
	galaxyVersion uint64

	systemBuf       *wgpu.Buffer
	systemCount     int
	systemLineBuf   *wgpu.Buffer
	systemLineCount int
	systemVersion   uint64
}

// StarfieldModule owns the frame lifecycle and the star/orbit passes.
// Modules that add further passes (labels) draw between Render-stage
// systems registered after it.
type StarfieldModule struct{}

func (m StarfieldModule) Install(app *App, cmd *Commands) {
	gpuState := resource[GpuState](app)

	state := &starfieldState{}
	state.starPipeline = createRenderPipeline(pipelineSpec{
		name:     "stars",
		shader:   starShaderWGSL,
		layouts:  []wgpu.VertexBufferLayout{starInstanceLayout},
		topology: wgpu.PrimitiveTopologyTriangleList,
		blend:    additiveBlend,
	}, gpuState)
	state.linePipeline = createRenderPipeline(pipelineSpec{
		name:     "orbit-lines",
		shader:   lineShaderWGSL,
		layouts:  []wgpu.VertexBufferLayout{lineVertexLayout},
		topology: wgpu.PrimitiveTopologyLineList,
		blend:    alphaBlend,
	}, gpuState)

	state.uniformBuf = createBuffer("scene-uniform", make([]sceneUniform, 1),
		wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst, gpuState)
	state.starBindGroup = createSceneBindGroup("stars", state.starPipeline, state.uniformBuf, gpuState)
	state.lineBindGroup = createSceneBindGroup("orbit-lines", state.linePipeline, state.uniformBuf, gpuState)

	cmd.AddResources(state)
	cmd.AddResources(&FrameState{})

	app.UseSystem(System(frameBeginSystem).InStage(PreRender).RunAlways())
	app.UseSystem(System(starfieldRenderSystem).InStage(Render).RunAlways())
	app.UseSystem(System(frameEndSystem).InStage(PostRender).RunAlways())
}

func createSceneBindGroup(name string, pipeline *wgpu.RenderPipeline, uniformBuf *wgpu.Buffer, gpuState *GpuState) *wgpu.BindGroup {
	layout := pipeline.GetBindGroupLayout(0)
	defer layout.Release()

	group, err := gpuState.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  name,
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: uniformBuf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		panic(err)
	}
	return group
}

func frameBeginSystem(frame *FrameState, gpuState *GpuState, windowState *WindowState) {
	frame.Active = false
	gpuState.reconfigureIfResized(windowState)

	surfaceTex, err := gpuState.surface.GetCurrentTexture()
	if err != nil {
		// Lost swapchain (minimize, resize race). Reconfigure and skip
		// the frame.
		gpuState.surface.Configure(gpuState.adapter, gpuState.device, gpuState.surfaceConfig)
		return
	}
	texView, err := surfaceTex.CreateView(nil)
	if err != nil {
		return
	}
	encoder, err := gpuState.device.CreateCommandEncoder(nil)
	if err != nil {
		texView.Release()
		panic(err)
	}

	frame.texView = texView
	frame.encoder = encoder
	frame.Active = true
}

func frameEndSystem(frame *FrameState, gpuState *GpuState) {
	if !frame.Active {
		return
	}
	frame.Active = false

	cmdBuf, err := frame.encoder.Finish(nil)
	if err != nil {
		panic(err)
	}
	gpuState.queue.Submit(cmdBuf)
	cmdBuf.Release()

	frame.encoder.Release()
	frame.texView.Release()
	frame.encoder = nil
	frame.texView = nil

	gpuState.surface.Present()
}

func starfieldRenderSystem(
	frame *FrameState,
	state *starfieldState,
	gpuState *GpuState,
	catalog *CatalogState,
	sysView *SystemViewState,
	view *ViewState,
	cmd *Commands,
) {
	if !frame.Active {
		return
	}
	cam := activeCamera(cmd)
	if cam == nil {
		return
	}

	refreshGeometry(state, catalog, sysView, gpuState)
	writeSceneUniform(state, cam, gpuState)

	pass := frame.encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       frame.texView,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: clearColor,
			},
		},
	})

	switch view.Mode {
	case ModeGalaxy:
		if state.galaxyCount > 0 {
			pass.SetPipeline(state.starPipeline)
			pass.SetBindGroup(0, state.starBindGroup, nil)
			pass.SetVertexBuffer(0, state.galaxyBuf, 0, wgpu.WholeSize)
			pass.Draw(6, uint32(state.galaxyCount), 0, 0)
		}
	case ModeSystem:
		if state.systemLineCount > 0 {
			pass.SetPipeline(state.linePipeline)
			pass.SetBindGroup(0, state.lineBindGroup, nil)
			pass.SetVertexBuffer(0, state.systemLineBuf, 0, wgpu.WholeSize)
			pass.Draw(uint32(state.systemLineCount), 1, 0, 0)
		}
		if state.systemCount > 0 {
			pass.SetPipeline(state.starPipeline)
			pass.SetBindGroup(0, state.starBindGroup, nil)
			pass.SetVertexBuffer(0, state.systemBuf, 0, wgpu.WholeSize)
			pass.Draw(6, uint32(state.systemCount), 0, 0)
		}
	}

	pass.End()
	pass.Release()
}

func writeSceneUniform(state *starfieldState, cam *CameraComponent, gpuState *GpuState) {
	u := sceneUniform{
		View:      [16]float32(buildViewMatrix(cam)),
		Proj:      [16]float32(buildProjectionMatrix(cam)),
		SizeScale: starSizeScale,
	}
	gpuState.queue.WriteBuffer(state.uniformBuf, 0, wgpu.ToBytes([]sceneUniform{u}))
}

// refreshGeometry re-uploads vertex data only when the CPU-side version
// counters move; steady-state frames upload nothing but the uniform.
func refreshGeometry(state *starfieldState, catalog *CatalogState, sysView *SystemViewState, gpuState *GpuState) {
	if catalog.Loaded() && state.galaxyVersion != catalog.CloudVersion {
		state.galaxyVersion = catalog.CloudVersion
		if state.galaxyBuf != nil {
			state.galaxyBuf.Release()
			state.galaxyBuf = nil
		}
		state.galaxyCount = catalog.Cloud.Count()
		if state.galaxyCount > 0 {
			state.galaxyBuf = createBuffer("galaxy-stars",
				interleaveStarInstances(catalog.Cloud), wgpu.BufferUsageVertex, gpuState)
		}
	}

	if state.systemVersion != sysView.Version {
		state.systemVersion = sysView.Version
		if state.systemBuf != nil {
			state.systemBuf.Release()
			state.systemBuf = nil
		}
		if state.systemLineBuf != nil {
			state.systemLineBuf.Release()
			state.systemLineBuf = nil
		}
		state.systemCount = 0
		state.systemLineCount = 0

		if sysView.MarkerCloud != nil && sysView.MarkerCloud.Count() > 0 {
			state.systemCount = sysView.MarkerCloud.Count()
			state.systemBuf = createBuffer("system-markers",
				interleaveStarInstances(sysView.MarkerCloud), wgpu.BufferUsageVertex, gpuState)
		}
		if len(sysView.LineVertices) > 0 {
			state.systemLineCount = len(sysView.LineVertices) / 6
			state.systemLineBuf = createBuffer("system-lines",
				sysView.LineVertices, wgpu.BufferUsageVertex, gpuState)
		}
	}
}

func interleaveStarInstances(pc *StarPointCloud) []float32 {
	out := make([]float32, 0, pc.Count()*7)
	for i := 0; i < pc.Count(); i++ {
		out = append(out,
			pc.Positions[i*3], pc.Positions[i*3+1], pc.Positions[i*3+2],
			pc.Sizes[i],
			pc.Colors[i*3], pc.Colors[i*3+1], pc.Colors[i*3+2],
		)
	}
	return out
}
