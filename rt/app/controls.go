package app

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Triggers carry requests from input callbacks to the draw loop. Callbacks
// only set them; Update and Render consume them between frames.
type Triggers struct {
	scene   int
	capture bool
}

func NewTriggers() *Triggers {
	return &Triggers{scene: -1}
}

// RequestScene queues a switch to fixture index i. A later request in the
// same frame wins.
func (t *Triggers) RequestScene(i int) {
	if i >= 0 {
		t.scene = i
	}
}

// TakeScene returns and clears the pending scene switch.
func (t *Triggers) TakeScene() (int, bool) {
	if t.scene < 0 {
		return 0, false
	}
	i := t.scene
	t.scene = -1
	return i, true
}

func (t *Triggers) RequestCapture() { t.capture = true }

func (t *Triggers) TakeCapture() bool {
	c := t.capture
	t.capture = false
	return c
}

// SceneKey maps the number row to a fixture index: 1 selects index 0.
func SceneKey(key glfw.Key) (int, bool) {
	if key >= glfw.Key1 && key <= glfw.Key9 {
		return int(key - glfw.Key1), true
	}
	return 0, false
}

// MoveAxes turns the held movement keys into forward/right/up factors in
// [-1, 1].
func MoveAxes(pressed func(glfw.Key) bool) (forward, right, up float32) {
	axis := func(pos, neg glfw.Key) float32 {
		var v float32
		if pressed(pos) {
			v++
		}
		if pressed(neg) {
			v--
		}
		return v
	}
	return axis(glfw.KeyW, glfw.KeyS), axis(glfw.KeyD, glfw.KeyA), axis(glfw.KeySpace, glfw.KeyLeftShift)
}
