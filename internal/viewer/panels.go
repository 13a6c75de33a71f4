package viewer

import (
	"GopherViewer/internal/scene"

	"github.com/inkyblackness/imgui-go/v4"
)

const (
	mainPanelWidth  = 222
	mainPanelHeight = 190
	// Room for the "no UV coords" warning line.
	noUVExtraHeight = 26

	lightPanelWidth  = 222
	lightPanelHeight = 244

	panelMargin = 5
	comboWidth  = 120
)

type PanelLayout struct {
	Pos  imgui.Vec2
	Size imgui.Vec2
}

// MainPanelLayout anchors the main panel to the top-right corner.
func MainPanelLayout(displayWidth float32, uvMapped bool) PanelLayout {
	size := imgui.Vec2{X: mainPanelWidth, Y: mainPanelHeight}
	if !uvMapped {
		size.Y += noUVExtraHeight
	}
	return PanelLayout{
		Pos:  imgui.Vec2{X: displayWidth - size.X - panelMargin, Y: panelMargin},
		Size: size,
	}
}

// LightPanelLayout anchors the light panel to the bottom-right corner.
func LightPanelLayout(displayWidth, displayHeight float32) PanelLayout {
	size := imgui.Vec2{X: lightPanelWidth, Y: lightPanelHeight}
	return PanelLayout{
		Pos: imgui.Vec2{
			X: displayWidth - size.X - panelMargin,
			Y: displayHeight - size.Y - panelMargin,
		},
		Size: size,
	}
}

// ShowLightPanel is true for the programs that read light and material
// uniforms.
func ShowLightPanel(programIndex int) bool {
	return programIndex < scene.LitProgramCount
}
