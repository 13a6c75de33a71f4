package viewer

import (
	"GopherViewer/internal/logger"
	"GopherViewer/internal/renderer"
	"GopherViewer/internal/scene"

	"github.com/inkyblackness/imgui-go/v4"
	"go.uber.org/zap"
)

var noUVWarningColor = imgui.Vec4{X: 1, Y: 1, Z: 0, W: 1}

// paintUI builds the ImGui widgets for this frame and applies whatever the
// user changed.
func (v *Viewer) paintUI(displaySize [2]float32) {
	s := v.state
	uvMapped := v.ctrl.PrimaryUVMapped()

	panel := MainPanelLayout(displaySize[0], uvMapped)
	imgui.SetNextWindowPos(panel.Pos)
	imgui.SetNextWindowSize(panel.Size)
	imgui.BeginV("Widget window", nil, imgui.WindowFlagsMenuBar|imgui.WindowFlagsNoDecoration)

	v.fileMenu()

	total := v.ctrl.TotalTriangles()
	imgui.PushItemWidth(panel.Size.X - 16)
	triangles := int32(s.TrianglesToDraw)
	if imgui.SliderIntV("##triangles", &triangles, 0, int32(total), "%d triangles", 0) {
		s.ClampTriangles(int(triangles), total)
	}
	imgui.PopItemWidth()

	imgui.Checkbox("Back-face culling", &s.FaceCulling)

	if idx, changed := combo("Front face", scene.WindingNames, int(s.FrontFace)); changed {
		s.FrontFace = scene.Winding(idx)
	}
	if idx, changed := combo("Projection", scene.ProjectionNames, int(s.Projection)); changed {
		v.ctrl.SetProjection(renderer.ProjectionMode(idx))
	}
	if idx, changed := combo("Shader", v.cfg.Shaders, s.ProgramIndex); changed {
		v.ctrl.SelectProgram(idx)
	}

	mappingControls(s, uvMapped)

	imgui.End()

	if ShowLightPanel(s.ProgramIndex) {
		v.lightPanel(displaySize)
	}

	v.handleDialogs()
}

const noUVWarning = "Mesh has no UV coords."

// mappingControls draws the UV mapping combo, preceded by a warning when
// the primary mesh has no texture coordinates. It reports whether the
// warning was drawn.
func mappingControls(s *scene.State, uvMapped bool) bool {
	if !uvMapped {
		imgui.PushStyleColor(imgui.StyleColorText, noUVWarningColor)
		imgui.Text(noUVWarning)
		imgui.PopStyleColor()
	}

	s.ClampMapping(uvMapped)
	if idx, changed := combo("UV mapping", scene.MappingItems(uvMapped), int(s.MappingMode)); changed {
		s.MappingMode = scene.MappingMode(idx)
		logger.Log.Debug("Mapping changed", zap.Stringer("mode", s.MappingMode))
	}
	return !uvMapped
}

func (v *Viewer) fileMenu() {
	if !imgui.BeginMenuBar() {
		return
	}
	if imgui.BeginMenu("File") {
		if imgui.MenuItem("Load 3D Model...") {
			v.modelDialog.Open()
		}
		if imgui.MenuItem("Load Diffuse Map...") {
			v.diffuseDialog.Open()
		}
		if imgui.MenuItem("Load Normal Map...") {
			v.normalDialog.Open()
		}
		imgui.EndMenu()
	}
	imgui.EndMenuBar()
}

func (v *Viewer) lightPanel(displaySize [2]float32) {
	s := v.state
	layout := LightPanelLayout(displaySize[0], displaySize[1])
	imgui.SetNextWindowPos(layout.Pos)
	imgui.SetNextWindowSize(layout.Size)
	imgui.BeginV(" ", nil, imgui.WindowFlagsNoDecoration)

	imgui.Text("Light properties")
	imgui.PushItemWidth(layout.Size.X - 36)
	imgui.ColorEdit3V("Ia", (*[3]float32)(s.Ia[:3]), imgui.ColorEditFlagsFloat)
	imgui.ColorEdit3V("Id", (*[3]float32)(s.Id[:3]), imgui.ColorEditFlagsFloat)
	imgui.ColorEdit3V("Is", (*[3]float32)(s.Is[:3]), imgui.ColorEditFlagsFloat)
	imgui.PopItemWidth()

	imgui.Spacing()

	imgui.Text("Material properties")
	imgui.PushItemWidth(layout.Size.X - 36)
	imgui.ColorEdit3V("Ka", (*[3]float32)(s.Ka[:3]), imgui.ColorEditFlagsFloat)
	imgui.ColorEdit3V("Kd", (*[3]float32)(s.Kd[:3]), imgui.ColorEditFlagsFloat)
	imgui.ColorEdit3V("Ks", (*[3]float32)(s.Ks[:3]), imgui.ColorEditFlagsFloat)
	imgui.PopItemWidth()

	imgui.PushItemWidth(layout.Size.X - 16)
	imgui.SliderFloatV("##shininess", &s.Shininess, 0, 500, "shininess: %.1f", 0)
	imgui.PopItemWidth()

	imgui.End()
}

// combo draws a fixed-width combo box and reports the newly picked index.
func combo(label string, items []string, current int) (int, bool) {
	preview := ""
	if current >= 0 && current < len(items) {
		preview = items[current]
	}

	picked := current
	imgui.PushItemWidth(comboWidth)
	if imgui.BeginCombo(label, preview) {
		for i, item := range items {
			isSelected := i == current
			if imgui.SelectableV(item, isSelected, 0, imgui.Vec2{}) {
				picked = i
			}
			if isSelected {
				imgui.SetItemDefaultFocus()
			}
		}
		imgui.EndCombo()
	}
	imgui.PopItemWidth()
	return picked, picked != current
}

// handleDialogs applies finished file dialogs to the primary model.
func (v *Viewer) handleDialogs() {
	if v.modelDialog.HasSelected() {
		path := v.modelDialog.Selected()
		if err := v.ctrl.LoadModel(scene.SlotPrimary, path); err != nil {
			logger.Log.Error("Failed to load model", zap.String("path", path), zap.Error(err))
		} else {
			v.watchFile(path)
		}
		v.modelDialog.ClearSelected()
	}

	if v.diffuseDialog.HasSelected() {
		path := v.diffuseDialog.Selected()
		if err := v.ctrl.LoadDiffuseMap(path); err != nil {
			logger.Log.Error("Failed to load diffuse map", zap.String("path", path), zap.Error(err))
		} else {
			v.watchFile(path)
		}
		v.diffuseDialog.ClearSelected()
	}

	if v.normalDialog.HasSelected() {
		path := v.normalDialog.Selected()
		if err := v.ctrl.LoadNormalMap(path); err != nil {
			logger.Log.Error("Failed to load normal map", zap.String("path", path), zap.Error(err))
		} else {
			v.watchFile(path)
		}
		v.normalDialog.ClearSelected()
	}
}

// watchFile adds a picked file to hot reload when watching is on.
func (v *Viewer) watchFile(path string) {
	if v.watcher == nil {
		return
	}
	if err := v.watcher.Watch(path); err != nil {
		logger.Log.Warn("File will not hot reload", zap.String("path", path), zap.Error(err))
	}
}
