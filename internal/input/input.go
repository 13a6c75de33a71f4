package input

import "github.com/go-gl/glfw/v3.3/glfw"

// Speeds are the camera movement scalars. Zero means no key of the pair
// is held.
type Speeds struct {
	Dolly float32
	Truck float32
	Pan   float32
}

// Handler maps key events onto Speeds.
//
// A release only resets an axis when its current sign matches the key
// being released. Holding two opposite keys and releasing the one that
// last set the axis therefore leaves it at zero even though the other key
// is still down.
type Handler struct {
	Speeds *Speeds
}

func NewHandler(speeds *Speeds) *Handler {
	return &Handler{Speeds: speeds}
}

func (h *Handler) HandleKey(key glfw.Key, action glfw.Action) {
	switch action {
	case glfw.Press:
		h.press(key)
	case glfw.Release:
		h.release(key)
	}
}

func (h *Handler) press(key glfw.Key) {
	s := h.Speeds
	switch key {
	case glfw.KeyUp, glfw.KeyW:
		s.Dolly = 1
	case glfw.KeyDown, glfw.KeyS:
		s.Dolly = -1
	case glfw.KeyLeft, glfw.KeyA:
		s.Pan = -1
	case glfw.KeyRight, glfw.KeyD:
		s.Pan = 1
	case glfw.KeyQ:
		s.Truck = -1
	case glfw.KeyE:
		s.Truck = 1
	}
}

func (h *Handler) release(key glfw.Key) {
	s := h.Speeds
	switch key {
	case glfw.KeyUp, glfw.KeyW:
		if s.Dolly > 0 {
			s.Dolly = 0
		}
	case glfw.KeyDown, glfw.KeyS:
		if s.Dolly < 0 {
			s.Dolly = 0
		}
	case glfw.KeyLeft, glfw.KeyA:
		if s.Pan < 0 {
			s.Pan = 0
		}
	case glfw.KeyRight, glfw.KeyD:
		if s.Pan > 0 {
			s.Pan = 0
		}
	case glfw.KeyQ:
		if s.Truck < 0 {
			s.Truck = 0
		}
	case glfw.KeyE:
		if s.Truck > 0 {
			s.Truck = 0
		}
	}
}
