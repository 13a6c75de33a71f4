package viewer

import (
	"GopherViewer/internal/logger"
	"GopherViewer/internal/renderer"
	"GopherViewer/internal/scene"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
)

// SceneModel is what the viewer needs from a loaded model.
type SceneModel interface {
	LoadFromFile(path string) error
	SetupVAO(program uint32)
	Render(numTriangles int)
	NumTriangles() int
	IsUVMapped() bool
	Material() renderer.Material
	LoadDiffuseTexture(path string) error
	LoadNormalTexture(path string) error
}

// ShaderProgram is a compiled program that can be rebuilt from its sources.
type ShaderProgram interface {
	ID() uint32
	Reload() error
	Sources() (vertex, fragment string)
}

// TextureCache drops cached texture files so they are read again.
type TextureCache interface {
	Forget(path string)
}

// Controller applies UI, dialog and file watcher events to the scene. It
// holds no GL state of its own.
type Controller struct {
	State    *scene.State
	Camera   *renderer.Camera
	Models   [scene.SlotCount]SceneModel
	Programs []ShaderProgram

	// Textures is optional; without it changed maps are not re-read.
	Textures TextureCache

	// PrimaryPath is the file the primary model was last loaded from.
	PrimaryPath string
	// DiffusePath and NormalPath are the maps last picked for the primary.
	DiffusePath string
	NormalPath  string
}

func NewController(state *scene.State, camera *renderer.Camera) *Controller {
	return &Controller{State: state, Camera: camera}
}

func (c *Controller) primary() SceneModel {
	return c.Models[scene.SlotPrimary]
}

func (c *Controller) currentProgram() uint32 {
	if c.State.ProgramIndex < 0 || c.State.ProgramIndex >= len(c.Programs) {
		return 0
	}
	return c.Programs[c.State.ProgramIndex].ID()
}

// TotalTriangles is the triangle count over all loaded models, the upper
// bound of the triangle slider.
func (c *Controller) TotalTriangles() int {
	total := 0
	for _, m := range c.Models {
		if m != nil {
			total += m.NumTriangles()
		}
	}
	return total
}

func (c *Controller) PrimaryUVMapped() bool {
	if p := c.primary(); p != nil {
		return p.IsUVMapped()
	}
	return false
}

// SelectProgram switches the active program. The primary model's VAO is
// rebuilt once per actual change.
func (c *Controller) SelectProgram(index int) bool {
	if index == c.State.ProgramIndex || index < 0 || index >= len(c.Programs) {
		return false
	}
	c.State.ProgramIndex = index
	if p := c.primary(); p != nil {
		p.SetupVAO(c.Programs[index].ID())
	}
	return true
}

// LoadModel loads a model into a slot and builds its VAO with the current
// program. Loading the primary model also resets the material copies, the
// triangle count and the mapping mode.
func (c *Controller) LoadModel(slot scene.Slot, path string) error {
	m := c.Models[slot]
	if m == nil {
		return fmt.Errorf("no model in slot %d", slot)
	}
	if err := m.LoadFromFile(path); err != nil {
		return err
	}
	m.SetupVAO(c.currentProgram())

	if slot == scene.SlotPrimary {
		c.PrimaryPath = path
		mat := m.Material()
		c.State.Ka = mat.Ka
		c.State.Kd = mat.Kd
		c.State.Ks = mat.Ks
		c.State.Shininess = mat.Shininess
		c.State.MappingMode = scene.MappingModeFor(m.IsUVMapped())
	}
	c.State.TrianglesToDraw = c.TotalTriangles()
	return nil
}

// Material returns the reflectances every model is drawn with: the copies
// in the scene state, so edits in the light panel reach all three models.
func (c *Controller) Material() renderer.Material {
	return renderer.Material{
		Ka:        c.State.Ka,
		Kd:        c.State.Kd,
		Ks:        c.State.Ks,
		Shininess: c.State.Shininess,
	}
}

func (c *Controller) LoadDiffuseMap(path string) error {
	p := c.primary()
	if p == nil {
		return nil
	}
	if err := p.LoadDiffuseTexture(path); err != nil {
		return err
	}
	c.DiffusePath = path
	return nil
}

func (c *Controller) LoadNormalMap(path string) error {
	p := c.primary()
	if p == nil {
		return nil
	}
	if err := p.LoadNormalTexture(path); err != nil {
		return err
	}
	c.NormalPath = path
	return nil
}

// reloadMap re-reads a changed texture file and rebinds it to the primary.
func (c *Controller) reloadMap(path string, load func(string) error) {
	if c.Textures != nil {
		c.Textures.Forget(path)
	}
	if err := load(path); err != nil {
		logger.Log.Error("Texture reload failed", zap.String("path", path), zap.Error(err))
	}
}

func (c *Controller) SetProjection(mode renderer.ProjectionMode) {
	c.State.Projection = mode
	c.Camera.SetMode(mode)
}

// Resize stores the framebuffer size and recomputes the projection.
func (c *Controller) Resize(width, height int) {
	c.State.ViewportWidth = width
	c.State.ViewportHeight = height
	c.Camera.ComputeProjectionMatrix(width, height)
}

// Update moves the camera by the current key speeds.
func (c *Controller) Update(deltaTime float32) {
	s := c.State.Speeds
	c.Camera.Update(s.Dolly, s.Truck, s.Pan, deltaTime)
}

// HandleFileChange reloads whatever depends on a changed file: shader
// programs whose sources match, the primary model or its picked maps.
func (c *Controller) HandleFileChange(path string) {
	path = cleanPath(path)
	for i, p := range c.Programs {
		vert, frag := p.Sources()
		if path != cleanPath(vert) && path != cleanPath(frag) {
			continue
		}
		if err := p.Reload(); err != nil {
			logger.Log.Error("Shader reload failed", zap.String("path", path), zap.Error(err))
			continue
		}
		if i == c.State.ProgramIndex {
			if m := c.primary(); m != nil {
				m.SetupVAO(p.ID())
			}
		}
	}

	if c.PrimaryPath != "" && path == cleanPath(c.PrimaryPath) {
		if err := c.LoadModel(scene.SlotPrimary, c.PrimaryPath); err != nil {
			logger.Log.Error("Model reload failed", zap.String("path", path), zap.Error(err))
		}
	}

	if c.DiffusePath != "" && path == cleanPath(c.DiffusePath) {
		c.reloadMap(c.DiffusePath, c.LoadDiffuseMap)
	}
	if c.NormalPath != "" && path == cleanPath(c.NormalPath) {
		c.reloadMap(c.NormalPath, c.LoadNormalMap)
	}
}

func cleanPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
