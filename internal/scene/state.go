package scene

import (
	"GopherViewer/internal/config"
	"GopherViewer/internal/input"
	"GopherViewer/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

type MappingMode int32

const (
	MappingTriplanar MappingMode = iota
	MappingCylindrical
	MappingSpherical
	MappingFromMesh
)

var mappingNames = []string{"Triplanar", "Cylindrical", "Spherical", "From mesh"}

var ProjectionNames = []string{"Perspective", "Orthographic"}

type Winding int

const (
	WindingCCW Winding = iota
	WindingCW
)

var WindingNames = []string{"CCW", "CW"}

// LitProgramCount is the number of leading shader programs that use the
// light and material uniforms. The light panel is only shown for them.
const LitProgramCount = 4

// State is everything the input handler and the UI mutate and the render
// loop reads back on the next frame.
type State struct {
	Speeds input.Speeds

	ProgramIndex int
	MappingMode  MappingMode
	Projection   renderer.ProjectionMode
	FaceCulling  bool
	FrontFace    Winding

	LightDir mgl32.Vec4
	Ia       mgl32.Vec4
	Id       mgl32.Vec4
	Is       mgl32.Vec4

	// Copies of the primary model's material. Edits are not written back
	// to the model.
	Ka        mgl32.Vec4
	Kd        mgl32.Vec4
	Ks        mgl32.Vec4
	Shininess float32

	ViewportWidth  int
	ViewportHeight int

	TrianglesToDraw int
}

func NewState(light config.LightConfig) *State {
	return &State{
		MappingMode: MappingFromMesh,
		LightDir:    mgl32.Vec4(light.Direction),
		Ia:          mgl32.Vec4(light.Ambient),
		Id:          mgl32.Vec4(light.Diffuse),
		Is:          mgl32.Vec4(light.Specular),
		Ka:          mgl32.Vec4{0.1, 0.1, 0.1, 1},
		Kd:          mgl32.Vec4{0.7, 0.7, 0.7, 1},
		Ks:          mgl32.Vec4{1, 1, 1, 1},
		Shininess:   25,
	}
}

// ClampTriangles stores n limited to [0, total].
func (s *State) ClampTriangles(n, total int) {
	if total < 0 {
		total = 0
	}
	switch {
	case n < 0:
		n = 0
	case n > total:
		n = total
	}
	s.TrianglesToDraw = n
}

// MappingModeFor is the mode picked after a model is loaded: the mesh's
// own coordinates when it has them, triplanar otherwise.
func MappingModeFor(uvMapped bool) MappingMode {
	if uvMapped {
		return MappingFromMesh
	}
	return MappingTriplanar
}

// MappingItems lists the selectable UV mapping modes. "From mesh" is only
// offered when the mesh carries texture coordinates.
func MappingItems(uvMapped bool) []string {
	n := len(mappingNames)
	if !uvMapped {
		n = int(MappingFromMesh)
	}
	return append([]string(nil), mappingNames[:n]...)
}

// ClampMapping keeps the mode inside the list MappingItems returns.
func (s *State) ClampMapping(uvMapped bool) {
	if !uvMapped && s.MappingMode >= MappingFromMesh {
		s.MappingMode = MappingTriplanar
	}
}

func (m MappingMode) String() string {
	if m < 0 || int(m) >= len(mappingNames) {
		return "Unknown"
	}
	return mappingNames[m]
}
