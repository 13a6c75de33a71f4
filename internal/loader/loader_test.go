package loader

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const quadOBJ = `# unit quad
mtllib quad.mtl
v 0 0 0
v 2 0 0
v 2 2 0
v 0 2 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
usemtl brick
f 1/1/1 2/2/1 3/3/1 4/4/1
`

const quadMTL = `newmtl stone
Kd 0.2 0.2 0.2

newmtl brick
Ka 0.3 0.2 0.1
Kd 0.8 0.4 0.2
Ks 0.5 0.5 0.5
Ns 64
map_Kd textures/brick.png
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOBJQuad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "quad.mtl", quadMTL)
	path := writeFile(t, dir, "quad.obj", quadOBJ)

	mesh, err := LoadOBJ(path, false)
	if err != nil {
		t.Fatalf("LoadOBJ failed: %v", err)
	}

	if mesh.NumTriangles() != 2 {
		t.Errorf("Expected 2 triangles, got %d", mesh.NumTriangles())
	}
	if len(mesh.Vertices) != 4 {
		t.Errorf("Expected 4 unified vertices, got %d", len(mesh.Vertices))
	}
	if !mesh.HasUV {
		t.Error("Quad should be UV mapped")
	}
	if !mesh.HasNormals {
		t.Error("Quad should keep its normals")
	}

	mat := mesh.Material
	if mat.Name != "brick" {
		t.Errorf("Expected usemtl material brick, got %s", mat.Name)
	}
	if mat.Kd != (mgl32.Vec4{0.8, 0.4, 0.2, 1}) {
		t.Errorf("Unexpected Kd %v", mat.Kd)
	}
	if mat.Shininess != 64 {
		t.Errorf("Expected shininess 64, got %f", mat.Shininess)
	}
	if want := filepath.Join(dir, "textures", "brick.png"); mat.DiffuseMap != want {
		t.Errorf("Expected diffuse map %s, got %s", want, mat.DiffuseMap)
	}
}

func TestLoadOBJTangents(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "quad.mtl", quadMTL)
	path := writeFile(t, dir, "quad.obj", quadOBJ)

	mesh, err := LoadOBJ(path, false)
	if err != nil {
		t.Fatal(err)
	}

	// U grows along +X on this quad.
	for i, v := range mesh.Vertices {
		if !v.Tangent.ApproxEqual(mgl32.Vec4{1, 0, 0, 1}) {
			t.Errorf("vertex %d: expected tangent (1,0,0,1), got %v", i, v.Tangent)
		}
	}
}

func TestLoadOBJStandardize(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "quad.mtl", quadMTL)
	path := writeFile(t, dir, "quad.obj", quadOBJ)

	mesh, err := LoadOBJ(path, true)
	if err != nil {
		t.Fatal(err)
	}

	for _, v := range mesh.Vertices {
		for i := 0; i < 2; i++ {
			if math.Abs(float64(v.Position[i])) != 1 {
				t.Errorf("Expected corner on the unit box, got %v", v.Position)
			}
		}
	}
}

func TestParseOBJWithoutNormalsOrUV(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`
	mesh, err := ParseOBJ(strings.NewReader(src), ".")
	if err != nil {
		t.Fatal(err)
	}

	if mesh.HasUV {
		t.Error("Mesh without vt should not be UV mapped")
	}
	if !mesh.HasNormals {
		t.Error("Normals should be computed")
	}
	for _, v := range mesh.Vertices {
		if !v.Normal.ApproxEqual(mgl32.Vec3{0, 0, 1}) {
			t.Errorf("Expected normal +Z, got %v", v.Normal)
		}
	}
	if mesh.Material != DefaultMaterial {
		t.Errorf("Expected default material, got %+v", mesh.Material)
	}
}

func TestParseOBJPartialUVIsNotMapped(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
v 1 1 0
vt 0 0
vt 1 0
vt 0 1
f 1/1 2/2 3/3
f 2 4 3
`
	mesh, err := ParseOBJ(strings.NewReader(src), ".")
	if err != nil {
		t.Fatal(err)
	}
	if mesh.HasUV {
		t.Error("A face without texture coordinates should clear HasUV")
	}
}

func TestParseOBJNegativeIndices(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`
	mesh, err := ParseOBJ(strings.NewReader(src), ".")
	if err != nil {
		t.Fatal(err)
	}
	want := []uint32{0, 1, 2}
	for i, idx := range mesh.Indices {
		if idx != want[i] {
			t.Errorf("index %d: expected %d, got %d", i, want[i], idx)
		}
	}
	if mesh.Vertices[1].Position != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("Relative index resolved to the wrong vertex: %v", mesh.Vertices[1].Position)
	}
}

func TestParseOBJFanTriangulation(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 2 1 0
v 1 2 0
v 0 1 0
f 1 2 3 4 5
`
	mesh, err := ParseOBJ(strings.NewReader(src), ".")
	if err != nil {
		t.Fatal(err)
	}
	if mesh.NumTriangles() != 3 {
		t.Fatalf("Expected 3 triangles, got %d", mesh.NumTriangles())
	}
	for tri := 0; tri < 3; tri++ {
		if mesh.Indices[tri*3] != 0 {
			t.Errorf("triangle %d should start at the fan origin", tri)
		}
	}
}

func TestParseOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"no faces", "v 0 0 0\n"},
		{"only malformed lines", "v 0 x 0\nvt\n"},
		{"index out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n"},
		{"degenerate face", "v 0 0 0\nv 1 0 0\nf 1 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseOBJ(strings.NewReader(tt.src), "."); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestParseOBJSkipsMalformedAttributes(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		wantUV    bool
		wantPos   mgl32.Vec3
		wantCoord mgl32.Vec2
	}{
		{
			name:      "single value texture coordinates",
			src:       "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0.5\nvt 0.2\nvt 0.1\nf 1/1 2/2 3/3\n",
			wantUV:    true,
			wantCoord: mgl32.Vec2{0.5, 0},
		},
		{
			name:    "invalid vertex value",
			src:     "v nan? 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n",
			wantPos: mgl32.Vec3{0, 0, 0},
		},
		{
			name:    "short vertex",
			src:     "v 2 3\nv 1 0 0\nv 0 1 0\nf 1 2 3\n",
			wantPos: mgl32.Vec3{2, 3, 0},
		},
		{
			name:    "invalid normal",
			src:     "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 one\nf 1//1 2//1 3//1\n",
			wantPos: mgl32.Vec3{0, 0, 0},
		},
		{
			name:      "three value texture coordinates",
			src:       "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0.25 0.75 0\nf 1/1 2/1 3/1\n",
			wantUV:    true,
			wantCoord: mgl32.Vec2{0.25, 0.75},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh, err := ParseOBJ(strings.NewReader(tt.src), ".")
			if err != nil {
				t.Fatalf("Malformed attribute lines should not fail the mesh: %v", err)
			}
			if mesh.NumTriangles() != 1 {
				t.Fatalf("Expected 1 triangle, got %d", mesh.NumTriangles())
			}
			if mesh.HasUV != tt.wantUV {
				t.Errorf("Expected HasUV %v, got %v", tt.wantUV, mesh.HasUV)
			}
			first := mesh.Vertices[mesh.Indices[0]]
			if first.Position != tt.wantPos {
				t.Errorf("Expected first position %v, got %v", tt.wantPos, first.Position)
			}
			if tt.wantUV && first.TexCoord != tt.wantCoord {
				t.Errorf("Expected first texcoord %v, got %v", tt.wantCoord, first.TexCoord)
			}
		})
	}
}

func TestLoadOBJMissingFile(t *testing.T) {
	if _, err := LoadOBJ(filepath.Join(t.TempDir(), "missing.obj"), true); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestParseMaterialsKeepsFileOrder(t *testing.T) {
	mats, order, err := parseMaterials(strings.NewReader(quadMTL), "/assets")
	if err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 || order[0] != "stone" || order[1] != "brick" {
		t.Errorf("Unexpected order %v", order)
	}

	stone := mats["stone"]
	if stone.Ka != DefaultMaterial.Ka || stone.Shininess != DefaultMaterial.Shininess {
		t.Errorf("Unset fields should keep defaults, got %+v", stone)
	}
}

func TestInterleaved(t *testing.T) {
	mesh := &Mesh{Vertices: []Vertex{{
		Position: mgl32.Vec3{1, 2, 3},
		Normal:   mgl32.Vec3{4, 5, 6},
		TexCoord: mgl32.Vec2{7, 8},
		Tangent:  mgl32.Vec4{9, 10, 11, 12},
	}}}

	data := mesh.Interleaved()
	if len(data) != VertexStride {
		t.Fatalf("Expected %d floats, got %d", VertexStride, len(data))
	}
	for i, f := range data {
		if f != float32(i+1) {
			t.Errorf("float %d: expected %d, got %f", i, i+1, f)
		}
	}
}
