package orrery

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Key/button indices into the Input state arrays. Only the bindings the
// viewer actually uses are mapped.
const (
	KeyEscape int = iota
	KeySpace
	KeyEnter
	KeyTab
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyR
	KeyG
	KeyShift
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle
	inputSlots
)

var keyToGlfw = map[int]glfw.Key{
	KeyEscape: glfw.KeyEscape,
	KeySpace:  glfw.KeySpace,
	KeyEnter:  glfw.KeyEnter,
	KeyTab:    glfw.KeyTab,
	KeyLeft:   glfw.KeyLeft,
	KeyRight:  glfw.KeyRight,
	KeyUp:     glfw.KeyUp,
	KeyDown:   glfw.KeyDown,
	KeyR:      glfw.KeyR,
	KeyG:      glfw.KeyG,
	KeyShift:  glfw.KeyLeftShift,
}

type InputModule struct{}

// Input is the per-frame snapshot of keyboard and pointer state. Deltas
// are always tracked (dragging needs them with a visible cursor).
type Input struct {
	Pressed      [inputSlots]bool
	JustPressed  [inputSlots]bool
	JustReleased [inputSlots]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64

	// ScrollY accumulates wheel movement since the previous frame.
	ScrollY float64

	WindowWidth, WindowHeight int

	scrollPending float64
	callbacksSet  bool
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{})
	app.UseSystem(System(inputSystem).InStage(PreUpdate).RunAlways())
}

func inputSystem(s *WindowState, input *Input) {
	if !input.callbacksSet {
		input.callbacksSet = true
		s.windowGlfw.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
			input.scrollPending += yoff
		})
	}

	glfw.PollEvents()

	for key, glfwKey := range keyToGlfw {
		updateButton(input, key, s.windowGlfw.GetKey(glfwKey) == glfw.Press)
	}
	updateButton(input, MouseButtonLeft, s.windowGlfw.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press)
	updateButton(input, MouseButtonRight, s.windowGlfw.GetMouseButton(glfw.MouseButtonRight) == glfw.Press)
	updateButton(input, MouseButtonMiddle, s.windowGlfw.GetMouseButton(glfw.MouseButtonMiddle) == glfw.Press)

	mx, my := s.windowGlfw.GetCursorPos()
	input.MouseDeltaX = mx - input.MouseX
	input.MouseDeltaY = my - input.MouseY
	input.MouseX = mx
	input.MouseY = my

	input.ScrollY = input.scrollPending
	input.scrollPending = 0

	input.WindowWidth, input.WindowHeight = s.windowGlfw.GetSize()
}

func updateButton(input *Input, key int, down bool) {
	input.JustPressed[key] = false
	input.JustReleased[key] = false

	if down {
		if !input.Pressed[key] {
			input.JustPressed[key] = true
		}
		input.Pressed[key] = true
	} else {
		if input.Pressed[key] {
			input.JustReleased[key] = true
		}
		input.Pressed[key] = false
	}
}
