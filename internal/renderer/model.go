package renderer

import (
	"GopherViewer/internal/loader"
	"GopherViewer/internal/logger"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Material holds the Phong reflectances of a model.
type Material struct {
	Ka        mgl32.Vec4
	Kd        mgl32.Vec4
	Ks        mgl32.Vec4
	Shininess float32
}

func materialFrom(m loader.Material) Material {
	return Material{Ka: m.Ka, Kd: m.Kd, Ks: m.Ks, Shininess: m.Shininess}
}

// vertexAttributes maps shader input names to their float offset and size
// inside an interleaved loader vertex.
var vertexAttributes = []struct {
	name   string
	offset int
	size   int32
}{
	{"inPosition", 0, 3},
	{"inNormal", 3, 3},
	{"inTexCoord", 6, 2},
	{"inTangent", 8, 4},
}

type Model struct {
	Name       string
	SourcePath string

	VAO uint32
	VBO uint32
	EBO uint32

	DiffuseTexture uint32
	NormalTexture  uint32

	material     Material
	numTriangles int
	uvMapped     bool
	textures     *TextureManager
}

// NewModel creates an empty model. It renders nothing until LoadFromFile
// succeeds.
func NewModel(name string, textures *TextureManager) *Model {
	return &Model{
		Name:     name,
		material: materialFrom(loader.DefaultMaterial),
		textures: textures,
	}
}

// LoadFromFile replaces the mesh, material and diffuse texture with the
// contents of an OBJ file. On error the previous contents are kept. The
// VAO must be rebuilt with SetupVAO afterwards.
func (m *Model) LoadFromFile(path string) error {
	mesh, err := loader.LoadOBJ(path, true)
	if err != nil {
		return fmt.Errorf("loading %s: %w", m.Name, err)
	}

	m.releaseBuffers()

	data := mesh.Interleaved()
	gl.GenBuffers(1, &m.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	gl.GenBuffers(1, &m.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)

	m.SourcePath = path
	m.material = materialFrom(mesh.Material)
	m.numTriangles = mesh.NumTriangles()
	m.uvMapped = mesh.HasUV

	diffuseLoaded := false
	if mesh.Material.DiffuseMap != "" {
		if err := m.LoadDiffuseTexture(mesh.Material.DiffuseMap); err != nil {
			logger.Log.Warn("Diffuse map not loaded", zap.String("model", m.Name), zap.Error(err))
		} else {
			diffuseLoaded = true
		}
	}
	if !diffuseLoaded {
		m.setDiffuse(m.textures.DefaultDiffuse())
	}
	if m.NormalTexture == 0 {
		m.NormalTexture = m.textures.DefaultNormal()
	}
	return nil
}

// SetupVAO rebuilds the vertex array for program. Attributes the program
// does not declare are left disabled.
func (m *Model) SetupVAO(program uint32) {
	if m.VAO != 0 {
		gl.DeleteVertexArrays(1, &m.VAO)
		m.VAO = 0
	}
	if m.VBO == 0 {
		return
	}

	gl.GenVertexArrays(1, &m.VAO)
	gl.BindVertexArray(m.VAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.VBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.EBO)

	stride := int32(loader.VertexStride * 4)
	for _, attr := range vertexAttributes {
		loc := gl.GetAttribLocation(program, gl.Str(attr.name+"\x00"))
		if loc < 0 {
			continue
		}
		gl.EnableVertexAttribArray(uint32(loc))
		gl.VertexAttribPointer(uint32(loc), attr.size, gl.FLOAT, false, stride, gl.PtrOffset(attr.offset*4))
	}

	gl.BindVertexArray(0)
}

// Render draws the first numTriangles triangles, capped at the mesh size.
func (m *Model) Render(numTriangles int) {
	if m.VAO == 0 || numTriangles <= 0 {
		return
	}
	if numTriangles > m.numTriangles {
		numTriangles = m.numTriangles
	}

	gl.BindVertexArray(m.VAO)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, m.DiffuseTexture)
	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, m.NormalTexture)

	gl.DrawElements(gl.TRIANGLES, int32(numTriangles*3), gl.UNSIGNED_INT, nil)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindVertexArray(0)
}

func (m *Model) LoadDiffuseTexture(path string) error {
	id, err := m.textures.LoadTexture(path)
	if err != nil {
		return err
	}
	m.setDiffuse(id)
	return nil
}

func (m *Model) LoadNormalTexture(path string) error {
	id, err := m.textures.LoadTexture(path)
	if err != nil {
		return err
	}
	m.textures.ReleaseTexture(m.NormalTexture)
	m.NormalTexture = id
	return nil
}

func (m *Model) setDiffuse(id uint32) {
	m.textures.ReleaseTexture(m.DiffuseTexture)
	m.DiffuseTexture = id
}

func (m *Model) Material() Material {
	return m.material
}

func (m *Model) NumTriangles() int {
	return m.numTriangles
}

func (m *Model) IsUVMapped() bool {
	return m.uvMapped
}

func (m *Model) releaseBuffers() {
	if m.EBO != 0 {
		gl.DeleteBuffers(1, &m.EBO)
		m.EBO = 0
	}
	if m.VBO != 0 {
		gl.DeleteBuffers(1, &m.VBO)
		m.VBO = 0
	}
	if m.VAO != 0 {
		gl.DeleteVertexArrays(1, &m.VAO)
		m.VAO = 0
	}
	m.numTriangles = 0
}

// Destroy releases the GPU buffers and texture references.
func (m *Model) Destroy() {
	m.releaseBuffers()
	m.textures.ReleaseTexture(m.DiffuseTexture)
	m.textures.ReleaseTexture(m.NormalTexture)
	m.DiffuseTexture = 0
	m.NormalTexture = 0
}
