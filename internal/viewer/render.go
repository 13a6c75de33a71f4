package viewer

import (
	"GopherViewer/internal/scene"

	"github.com/go-gl/gl/v4.1-core/gl"
)

func (v *Viewer) applyRasterState() {
	s := v.state
	if s.FaceCulling {
		gl.Enable(gl.CULL_FACE)
	} else {
		gl.Disable(gl.CULL_FACE)
	}
	if s.FrontFace == scene.WindingCW {
		gl.FrontFace(gl.CW)
	} else {
		gl.FrontFace(gl.CCW)
	}
}

// render draws every placement with the active program. Light and
// material uniforms are set once and shared by all placements.
func (v *Viewer) render() {
	s := v.state
	cam := v.camera

	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Viewport(0, 0, int32(s.ViewportWidth), int32(s.ViewportHeight))
	v.applyRasterState()

	if s.ProgramIndex < 0 || s.ProgramIndex >= len(v.programs) {
		return
	}
	program := v.programs[s.ProgramIndex]
	program.Use()
	u := program.Uniforms

	u.SetMat4("viewMatrix", cam.View)
	u.SetMat4("projMatrix", cam.Projection)
	u.SetVec4("lightDirWorldSpace", s.LightDir)
	u.SetVec4("Ia", s.Ia)
	u.SetVec4("Id", s.Id)
	u.SetVec4("Is", s.Is)
	u.SetInt("diffuseTex", 0)
	u.SetInt("normalTex", 1)
	u.SetInt("mappingMode", int32(s.MappingMode))

	mat := v.ctrl.Material()
	u.SetFloat("shininess", mat.Shininess)
	u.SetVec4("Ka", mat.Ka)
	u.SetVec4("Kd", mat.Kd)
	u.SetVec4("Ks", mat.Ks)

	for _, p := range v.placements {
		model := v.ctrl.Models[p.Slot]
		if model == nil {
			continue
		}
		modelMatrix := p.ModelMatrix(cam.Eye)
		u.SetMat4("modelMatrix", modelMatrix)
		u.SetMat3("normalMatrix", scene.NormalMatrix(cam.View, modelMatrix))

		model.Render(s.TrianglesToDraw)
	}

	gl.UseProgram(0)
}
