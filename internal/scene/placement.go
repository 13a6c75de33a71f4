package scene

import "github.com/go-gl/mathgl/mgl32"

// Slot identifies one of the three loaded models.
type Slot int

const (
	SlotPrimary Slot = iota
	SlotSecondary
	SlotTertiary
	SlotCount
)

// Primary grid: i and j step over [0, 10] by 0.5, 21 values each. Every
// cell is composed onto the previous cell's matrix.
const (
	primaryGridSteps = 21
	primaryGridStep  = 0.5
)

// Tertiary grid: 3×3 cells at (l, 0.1, -k).
var (
	tertiaryRows = [...]float32{5.5, 5.8, 6.1}
	tertiaryCols = [...]float32{7.5, 7.8, 8.1}
)

// Placement is one draw call: which model and where.
type Placement struct {
	Slot   Slot
	Matrix mgl32.Mat4
	// FollowCamera placements are translated to the camera eye plus
	// EyeOffset every frame; Matrix then only holds rotation and scale.
	FollowCamera bool
	EyeOffset    mgl32.Vec3
}

// ModelMatrix returns the world transform for the current camera eye.
func (p Placement) ModelMatrix(eye mgl32.Vec3) mgl32.Mat4 {
	if !p.FollowCamera {
		return p.Matrix
	}
	pos := eye.Add(p.EyeOffset)
	return mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).Mul4(p.Matrix)
}

func trs(m mgl32.Mat4, t mgl32.Vec3, rot mgl32.Mat4, scale float32) mgl32.Mat4 {
	return m.Mul4(mgl32.Translate3D(t.X(), t.Y(), t.Z())).
		Mul4(rot).
		Mul4(mgl32.Scale3D(scale, scale, scale))
}

func rotX(deg float32) mgl32.Mat4 { return mgl32.HomogRotate3DX(mgl32.DegToRad(deg)) }
func rotY(deg float32) mgl32.Mat4 { return mgl32.HomogRotate3DY(mgl32.DegToRad(deg)) }
func rotZ(deg float32) mgl32.Mat4 { return mgl32.HomogRotate3DZ(mgl32.DegToRad(deg)) }

// BuildPlacements returns the fixed draw list in draw order.
func BuildPlacements() []Placement {
	placements := make([]Placement, 0, 3+primaryGridSteps*primaryGridSteps+len(tertiaryRows)*len(tertiaryCols))

	m := trs(mgl32.Ident4(), mgl32.Vec3{0, 0, 1}, rotY(90), 1)
	placements = append(placements, Placement{Slot: SlotPrimary, Matrix: m})

	for i := 0; i < primaryGridSteps; i++ {
		for j := 0; j < primaryGridSteps; j++ {
			offset := mgl32.Vec3{float32(i) * primaryGridStep, 0, float32(j) * primaryGridStep}
			m = trs(m, offset, rotY(90), 1)
			placements = append(placements, Placement{Slot: SlotPrimary, Matrix: m})
		}
	}

	m = trs(m, mgl32.Vec3{0, 0, 1.5}, rotY(90), 1)
	placements = append(placements, Placement{Slot: SlotPrimary, Matrix: m})

	placements = append(placements, Placement{
		Slot:         SlotSecondary,
		Matrix:       rotX(270).Mul4(rotZ(180)).Mul4(mgl32.Scale3D(0.2, 0.2, 0.2)),
		FollowCamera: true,
		EyeOffset:    mgl32.Vec3{0, 0, -0.5},
	})

	for _, k := range tertiaryRows {
		for _, l := range tertiaryCols {
			placements = append(placements, Placement{
				Slot:   SlotTertiary,
				Matrix: trs(mgl32.Ident4(), mgl32.Vec3{l, 0.1, -k}, rotX(270), 0.1),
			})
		}
	}

	return placements
}

// NormalMatrix is the inverse transpose of the upper 3×3 of view·model.
func NormalMatrix(view, model mgl32.Mat4) mgl32.Mat3 {
	return view.Mul4(model).Mat3().Inv().Transpose()
}
