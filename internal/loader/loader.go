package loader

import (
	"GopherViewer/internal/logger"
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// VertexStride is the number of floats per interleaved vertex:
// position(3) normal(3) texcoord(2) tangent(4).
const VertexStride = 12

type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	TexCoord mgl32.Vec2
	// Tangent.W holds the bitangent handedness.
	Tangent mgl32.Vec4
}

type Material struct {
	Name      string
	Ka        mgl32.Vec4
	Kd        mgl32.Vec4
	Ks        mgl32.Vec4
	Shininess float32
	// DiffuseMap is the map_Kd texture path, resolved against the MTL
	// file's directory. Empty when the material has none.
	DiffuseMap string
}

// DefaultMaterial is used when the OBJ has no usable material library.
var DefaultMaterial = Material{
	Name:      "default",
	Ka:        mgl32.Vec4{0.1, 0.1, 0.1, 1},
	Kd:        mgl32.Vec4{0.7, 0.7, 0.7, 1},
	Ks:        mgl32.Vec4{1, 1, 1, 1},
	Shininess: 25,
}

// Mesh is a triangulated, index-unified OBJ ready for upload.
type Mesh struct {
	Vertices   []Vertex
	Indices    []uint32
	Material   Material
	HasUV      bool
	HasNormals bool
}

func (m *Mesh) NumTriangles() int {
	return len(m.Indices) / 3
}

// LoadOBJ reads an OBJ file and its material library. Missing normals are
// computed, tangents are computed when the mesh carries texture
// coordinates, and with standardize set the mesh is centered and scaled to
// fit [-1, 1].
func LoadOBJ(path string, standardize bool) (*Mesh, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening model: %w", err)
	}
	defer file.Close()

	mesh, err := ParseOBJ(file, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	if standardize {
		mesh.Standardize()
	}

	logger.Log.Info("Model loaded",
		zap.String("path", path),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("triangles", mesh.NumTriangles()),
		zap.Bool("uv", mesh.HasUV),
		zap.String("material", mesh.Material.Name))
	return mesh, nil
}

type faceVertex struct {
	v, vt, vn int32
}

// ParseOBJ parses OBJ data. dir is used to resolve mtllib references.
func ParseOBJ(r io.Reader, dir string) (*Mesh, error) {
	var positions []mgl32.Vec3
	var normals []mgl32.Vec3
	var texCoords []mgl32.Vec2
	var faces []faceVertex

	var materials map[string]Material
	var materialOrder []string
	usedMaterial := ""

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 || strings.HasPrefix(parts[0], "#") {
			continue
		}
		switch parts[0] {
		case "v":
			v := parseAttribute(parts, 3, 3, lineNo)
			positions = append(positions, mgl32.Vec3{v[0], v[1], v[2]})
		case "vn":
			n := parseAttribute(parts, 3, 3, lineNo)
			normals = append(normals, mgl32.Vec3{n[0], n[1], n[2]})
		case "vt":
			// v and w are optional.
			t := parseAttribute(parts, 2, 1, lineNo)
			texCoords = append(texCoords, mgl32.Vec2{t[0], t[1]})
		case "f":
			face, err := parseFace(parts[1:], len(positions), len(texCoords), len(normals))
			if err != nil {
				return nil, fmt.Errorf("line %d: face: %w", lineNo, err)
			}
			faces = append(faces, face...)
		case "mtllib":
			if len(parts) < 2 {
				continue
			}
			mtlPath := filepath.Join(dir, strings.Join(parts[1:], " "))
			mats, order, err := LoadMaterials(mtlPath)
			if err != nil {
				logger.Log.Warn("Material library not loaded", zap.String("path", mtlPath), zap.Error(err))
				continue
			}
			materials, materialOrder = mats, order
		case "usemtl":
			// Only the first material referenced applies to the whole mesh.
			if len(parts) >= 2 && usedMaterial == "" {
				usedMaterial = parts[1]
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(faces) == 0 {
		return nil, errors.New("no faces")
	}

	mesh := &Mesh{Material: DefaultMaterial}
	if mat, ok := materials[usedMaterial]; ok {
		mesh.Material = mat
	} else if len(materialOrder) > 0 {
		mesh.Material = materials[materialOrder[0]]
	}

	mesh.unify(faces, positions, texCoords, normals)
	if !mesh.HasNormals {
		mesh.ComputeNormals()
	}
	if mesh.HasUV {
		mesh.ComputeTangents()
	}
	return mesh, nil
}

// unify builds one vertex per distinct (v, vt, vn) triplet.
func (m *Mesh) unify(faces []faceVertex, positions []mgl32.Vec3, texCoords []mgl32.Vec2, normals []mgl32.Vec3) {
	m.HasUV = len(texCoords) > 0
	m.HasNormals = len(normals) > 0
	for _, fv := range faces {
		if fv.vt < 0 {
			m.HasUV = false
		}
		if fv.vn < 0 {
			m.HasNormals = false
		}
	}

	lookup := make(map[faceVertex]uint32, len(faces))
	m.Indices = make([]uint32, 0, len(faces))
	for _, fv := range faces {
		if idx, ok := lookup[fv]; ok {
			m.Indices = append(m.Indices, idx)
			continue
		}
		vertex := Vertex{Position: positions[fv.v]}
		if m.HasUV {
			vertex.TexCoord = texCoords[fv.vt]
		}
		if m.HasNormals {
			vertex.Normal = normals[fv.vn]
		}
		idx := uint32(len(m.Vertices))
		lookup[fv] = idx
		m.Vertices = append(m.Vertices, vertex)
		m.Indices = append(m.Indices, idx)
	}
}

// Standardize centers the mesh at the origin and scales its largest
// extent to 2.
func (m *Mesh) Standardize() {
	if len(m.Vertices) == 0 {
		return
	}
	lo := m.Vertices[0].Position
	hi := lo
	for _, v := range m.Vertices[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = float32(math.Min(float64(lo[i]), float64(v.Position[i])))
			hi[i] = float32(math.Max(float64(hi[i]), float64(v.Position[i])))
		}
	}
	center := lo.Add(hi).Mul(0.5)
	extent := hi.Sub(lo)
	longest := float32(math.Max(float64(extent[0]), math.Max(float64(extent[1]), float64(extent[2]))))
	scale := float32(1)
	if longest > 0 {
		scale = 2 / longest
	}
	for i := range m.Vertices {
		m.Vertices[i].Position = m.Vertices[i].Position.Sub(center).Mul(scale)
	}
}

// ComputeNormals replaces vertex normals with area-weighted face normals.
func (m *Mesh) ComputeNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = mgl32.Vec3{}
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		p0, p1, p2 := m.Vertices[a].Position, m.Vertices[b].Position, m.Vertices[c].Position
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		m.Vertices[a].Normal = m.Vertices[a].Normal.Add(n)
		m.Vertices[b].Normal = m.Vertices[b].Normal.Add(n)
		m.Vertices[c].Normal = m.Vertices[c].Normal.Add(n)
	}
	for i := range m.Vertices {
		if m.Vertices[i].Normal.Len() > 0 {
			m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
		}
	}
	m.HasNormals = true
}

// ComputeTangents derives per-vertex tangents from positions and texture
// coordinates, Gram-Schmidt orthogonalized against the normal.
func (m *Mesh) ComputeTangents() {
	tangents := make([]mgl32.Vec3, len(m.Vertices))
	bitangents := make([]mgl32.Vec3, len(m.Vertices))

	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		v0, v1, v2 := m.Vertices[a], m.Vertices[b], m.Vertices[c]

		e1 := v1.Position.Sub(v0.Position)
		e2 := v2.Position.Sub(v0.Position)
		d1 := v1.TexCoord.Sub(v0.TexCoord)
		d2 := v2.TexCoord.Sub(v0.TexCoord)

		det := d1.X()*d2.Y() - d2.X()*d1.Y()
		if det == 0 {
			continue
		}
		r := 1 / det
		t := e1.Mul(d2.Y()).Sub(e2.Mul(d1.Y())).Mul(r)
		bt := e2.Mul(d1.X()).Sub(e1.Mul(d2.X())).Mul(r)

		for _, idx := range []uint32{a, b, c} {
			tangents[idx] = tangents[idx].Add(t)
			bitangents[idx] = bitangents[idx].Add(bt)
		}
	}

	for i := range m.Vertices {
		n := m.Vertices[i].Normal
		t := tangents[i].Sub(n.Mul(n.Dot(tangents[i])))
		if t.Len() == 0 {
			t = anyPerpendicular(n)
		}
		t = t.Normalize()
		handedness := float32(1)
		if n.Cross(t).Dot(bitangents[i]) < 0 {
			handedness = -1
		}
		m.Vertices[i].Tangent = t.Vec4(handedness)
	}
}

func anyPerpendicular(n mgl32.Vec3) mgl32.Vec3 {
	axis := mgl32.Vec3{1, 0, 0}
	if math.Abs(float64(n.X())) > 0.9 {
		axis = mgl32.Vec3{0, 1, 0}
	}
	return axis.Cross(n)
}

// Interleaved flattens the vertices as position, normal, texcoord, tangent.
func (m *Mesh) Interleaved() []float32 {
	data := make([]float32, 0, len(m.Vertices)*VertexStride)
	for _, v := range m.Vertices {
		data = append(data, v.Position[:]...)
		data = append(data, v.Normal[:]...)
		data = append(data, v.TexCoord[:]...)
		data = append(data, v.Tangent[:]...)
	}
	return data
}

// LoadMaterials reads a material library. The returned slice lists the
// material names in file order.
func LoadMaterials(path string) (map[string]Material, []string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()
	return parseMaterials(file, filepath.Dir(path))
}

func parseMaterials(r io.Reader, dir string) (map[string]Material, []string, error) {
	materials := make(map[string]Material)
	var order []string
	var current *Material

	flush := func() {
		if current != nil {
			materials[current.Name] = *current
		}
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "newmtl" {
			if len(fields) < 2 {
				logger.Log.Warn("Malformed material line", zap.String("line", line))
				continue
			}
			flush()
			mat := DefaultMaterial
			mat.Name = fields[1]
			current = &mat
			order = append(order, mat.Name)
			continue
		}
		if current == nil {
			continue
		}
		switch fields[0] {
		case "Ka":
			current.Ka = parseColor(fields[1:], current.Ka)
		case "Kd":
			current.Kd = parseColor(fields[1:], current.Kd)
		case "Ks":
			current.Ks = parseColor(fields[1:], current.Ks)
		case "Ns":
			if len(fields) == 2 {
				if ns, err := strconv.ParseFloat(fields[1], 32); err == nil {
					current.Shininess = float32(ns)
				}
			}
		case "map_Kd":
			if len(fields) >= 2 {
				// Options may precede the file name.
				texturePath := fields[len(fields)-1]
				if !filepath.IsAbs(texturePath) {
					texturePath = filepath.Join(dir, texturePath)
				}
				current.DiffuseMap = texturePath
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	flush()
	return materials, order, nil
}

// parseColor reads an RGB triple, keeping fallback when it is malformed.
func parseColor(fields []string, fallback mgl32.Vec4) mgl32.Vec4 {
	if len(fields) < 3 {
		return fallback
	}
	rgb, err := parseFloats(fields[:3], 3)
	if err != nil {
		logger.Log.Warn("Error parsing color component", zap.Error(err))
		return fallback
	}
	return mgl32.Vec4{rgb[0], rgb[1], rgb[2], 1}
}

// parseAttribute reads the first n components of a v, vn or vt line.
// Malformed lines are logged and kept with the bad or missing components
// set to zero, so face indices after them still resolve.
func parseAttribute(parts []string, n, required, lineNo int) []float32 {
	values := make([]float32, n)
	fields := parts[1:]
	if len(fields) < required {
		logger.Log.Warn("Too few values in OBJ line",
			zap.Int("line", lineNo), zap.String("kind", parts[0]), zap.Int("values", len(fields)))
	}
	for i := 0; i < n && i < len(fields); i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			logger.Log.Warn("Invalid value in OBJ line",
				zap.Int("line", lineNo), zap.String("kind", parts[0]), zap.String("value", fields[i]))
			continue
		}
		values[i] = float32(f)
	}
	return values
}

// parseFloats parses at least n floats and ignores any extra components
// such as the optional w of a vertex.
func parseFloats(parts []string, n int) ([]float32, error) {
	if len(parts) < n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(parts))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		val, err := strconv.ParseFloat(parts[i], 32)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", parts[i], err)
		}
		out[i] = float32(val)
	}
	return out, nil
}

// parseFace triangulates a polygon as a fan from its first vertex. Counts
// are the number of elements read so far, used for negative indices.
func parseFace(parts []string, numV, numVT, numVN int) ([]faceVertex, error) {
	if len(parts) < 3 {
		return nil, fmt.Errorf("need at least 3 vertices, got %d", len(parts))
	}
	face := make([]faceVertex, 0, len(parts))
	for _, part := range parts {
		vals := strings.Split(part, "/")

		v, err := resolveIndex(vals[0], numV)
		if err != nil {
			return nil, fmt.Errorf("vertex index: %w", err)
		}
		fv := faceVertex{v: v, vt: -1, vn: -1}
		if len(vals) > 1 && vals[1] != "" {
			if fv.vt, err = resolveIndex(vals[1], numVT); err != nil {
				return nil, fmt.Errorf("texture coordinate index: %w", err)
			}
		}
		if len(vals) > 2 && vals[2] != "" {
			if fv.vn, err = resolveIndex(vals[2], numVN); err != nil {
				return nil, fmt.Errorf("normal index: %w", err)
			}
		}
		face = append(face, fv)
	}

	if len(face) == 3 {
		return face, nil
	}
	triangulated := make([]faceVertex, 0, (len(face)-2)*3)
	for i := 1; i < len(face)-1; i++ {
		triangulated = append(triangulated, face[0], face[i], face[i+1])
	}
	return triangulated, nil
}

// resolveIndex turns a 1-based or negative relative OBJ index into a
// 0-based one.
func resolveIndex(s string, count int) (int32, error) {
	idx, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	switch {
	case idx > 0 && int(idx) <= count:
		return int32(idx - 1), nil
	case idx < 0 && int(-idx) <= count:
		return int32(count + int(idx)), nil
	}
	return 0, fmt.Errorf("index %d out of range (%d defined)", idx, count)
}
