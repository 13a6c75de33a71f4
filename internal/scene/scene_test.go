package scene

import (
	"reflect"
	"testing"

	"GopherViewer/internal/config"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewStateDefaults(t *testing.T) {
	s := NewState(config.Default().Light)

	if s.MappingMode != MappingFromMesh {
		t.Errorf("Expected default mapping %v, got %v", MappingFromMesh, s.MappingMode)
	}
	if s.LightDir != (mgl32.Vec4{-1, -1, -1, 0}) {
		t.Errorf("Unexpected light direction %v", s.LightDir)
	}
	if s.Ia != (mgl32.Vec4{1, 1, 1, 1}) {
		t.Errorf("Unexpected ambient intensity %v", s.Ia)
	}
	if s.Speeds.Dolly != 0 || s.Speeds.Truck != 0 || s.Speeds.Pan != 0 {
		t.Errorf("Speeds should start at zero, got %+v", s.Speeds)
	}
}

func TestClampTriangles(t *testing.T) {
	tests := []struct {
		n, total, want int
	}{
		{10, 100, 10},
		{0, 100, 0},
		{100, 100, 100},
		{101, 100, 100},
		{-5, 100, 0},
		{5, 0, 0},
		{5, -1, 0},
	}

	for _, tt := range tests {
		s := &State{}
		s.ClampTriangles(tt.n, tt.total)
		if s.TrianglesToDraw != tt.want {
			t.Errorf("ClampTriangles(%d, %d) = %d, want %d", tt.n, tt.total, s.TrianglesToDraw, tt.want)
		}
	}
}

func TestMappingModeFor(t *testing.T) {
	if got := MappingModeFor(true); got != MappingFromMesh || got != 3 {
		t.Errorf("UV mapped mesh should use mode 3, got %d", got)
	}
	if got := MappingModeFor(false); got != MappingTriplanar || got != 0 {
		t.Errorf("Mesh without UVs should use mode 0, got %d", got)
	}
}

func TestMappingItems(t *testing.T) {
	with := MappingItems(true)
	if !reflect.DeepEqual(with, []string{"Triplanar", "Cylindrical", "Spherical", "From mesh"}) {
		t.Errorf("Unexpected items for UV mapped mesh: %v", with)
	}

	without := MappingItems(false)
	for _, item := range without {
		if item == "From mesh" {
			t.Error("From mesh must not be offered without UV coordinates")
		}
	}
	if len(without) != 3 {
		t.Errorf("Expected 3 items, got %d", len(without))
	}

	without[0] = "changed"
	if MappingItems(false)[0] != "Triplanar" {
		t.Error("MappingItems must not expose its backing array")
	}
}

func TestClampMapping(t *testing.T) {
	s := &State{MappingMode: MappingFromMesh}
	s.ClampMapping(true)
	if s.MappingMode != MappingFromMesh {
		t.Error("UV mapped mesh keeps From mesh")
	}

	s.ClampMapping(false)
	if s.MappingMode != MappingTriplanar {
		t.Errorf("Expected triplanar, got %v", s.MappingMode)
	}
}

func TestMappingModeString(t *testing.T) {
	tests := []struct {
		mode MappingMode
		want string
	}{
		{MappingTriplanar, "Triplanar"},
		{MappingFromMesh, "From mesh"},
		{MappingMode(9), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("MappingMode(%d).String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestBuildPlacementsCounts(t *testing.T) {
	placements := BuildPlacements()

	counts := map[Slot]int{}
	for _, p := range placements {
		counts[p.Slot]++
	}

	if counts[SlotPrimary] != 1+21*21+1 {
		t.Errorf("Expected %d primary placements, got %d", 1+21*21+1, counts[SlotPrimary])
	}
	if counts[SlotSecondary] != 1 {
		t.Errorf("Expected 1 secondary placement, got %d", counts[SlotSecondary])
	}
	if counts[SlotTertiary] != 9 {
		t.Errorf("Expected 9 tertiary placements, got %d", counts[SlotTertiary])
	}

	if placements[0].Slot != SlotPrimary {
		t.Error("Primary model is drawn first")
	}
}

func TestBuildPlacementsIsDeterministic(t *testing.T) {
	a := BuildPlacements()
	b := BuildPlacements()
	if !reflect.DeepEqual(a, b) {
		t.Error("BuildPlacements should return the same list every time")
	}
}

func TestFirstPrimaryPlacement(t *testing.T) {
	p := BuildPlacements()[0]

	pos := p.Matrix.Col(3).Vec3()
	if !pos.ApproxEqual(mgl32.Vec3{0, 0, 1}) {
		t.Errorf("Expected translation (0,0,1), got %v", pos)
	}

	// 90° about Y sends +X to -Z.
	x := p.Matrix.Mul4x1(mgl32.Vec4{1, 0, 0, 0}).Vec3()
	if !x.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-5) {
		t.Errorf("Expected +X to map to -Z, got %v", x)
	}
}

func TestPrimaryGridIsCumulative(t *testing.T) {
	placements := BuildPlacements()

	first := placements[0].Matrix
	step := mgl32.Translate3D(0, 0, 0).Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(90)))
	want := first.Mul4(step)

	if !placements[1].Matrix.ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("First grid cell should compose onto the first placement:\n got %v\nwant %v", placements[1].Matrix, want)
	}
}

func TestTertiaryPlacements(t *testing.T) {
	var positions []mgl32.Vec3
	for _, p := range BuildPlacements() {
		if p.Slot == SlotTertiary {
			positions = append(positions, p.Matrix.Col(3).Vec3())
		}
	}

	want := mgl32.Vec3{7.5, 0.1, -5.5}
	if !positions[0].ApproxEqual(want) {
		t.Errorf("Expected first tertiary at %v, got %v", want, positions[0])
	}
	want = mgl32.Vec3{8.1, 0.1, -6.1}
	if !positions[len(positions)-1].ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("Expected last tertiary at %v, got %v", want, positions[len(positions)-1])
	}
}

func TestSecondaryFollowsCamera(t *testing.T) {
	var secondary Placement
	for _, p := range BuildPlacements() {
		if p.Slot == SlotSecondary {
			secondary = p
		}
	}
	if !secondary.FollowCamera {
		t.Fatal("Secondary placement should follow the camera")
	}

	eye := mgl32.Vec3{1, 2, 3}
	pos := secondary.ModelMatrix(eye).Col(3).Vec3()
	if !pos.ApproxEqual(mgl32.Vec3{1, 2, 2.5}) {
		t.Errorf("Expected secondary at (1,2,2.5), got %v", pos)
	}

	moved := secondary.ModelMatrix(mgl32.Vec3{0, 0, 0}).Col(3).Vec3()
	if !moved.ApproxEqual(mgl32.Vec3{0, 0, -0.5}) {
		t.Errorf("Expected secondary at (0,0,-0.5), got %v", moved)
	}
}

func TestNormalMatrix(t *testing.T) {
	view := mgl32.Ident4()
	model := mgl32.Scale3D(2, 2, 2)

	n := NormalMatrix(view, model)
	want := mgl32.Scale2D(0.5, 0.5)
	want[8] = 0.5

	if !n.ApproxEqual(want) {
		t.Errorf("Expected %v, got %v", want, n)
	}

	rot := mgl32.HomogRotate3DY(mgl32.DegToRad(30))
	if !NormalMatrix(view, rot).ApproxEqualThreshold(rot.Mat3(), 1e-5) {
		t.Error("Normal matrix of a pure rotation is the rotation itself")
	}
}
