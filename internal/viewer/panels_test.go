package viewer

import (
	"testing"

	"github.com/inkyblackness/imgui-go/v4"
)

func TestMainPanelLayout(t *testing.T) {
	tests := []struct {
		name     string
		uvMapped bool
		want     PanelLayout
	}{
		{"uv mapped", true, PanelLayout{Pos: imgui.Vec2{X: 373, Y: 5}, Size: imgui.Vec2{X: 222, Y: 190}}},
		{"no uv", false, PanelLayout{Pos: imgui.Vec2{X: 373, Y: 5}, Size: imgui.Vec2{X: 222, Y: 216}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MainPanelLayout(600, tt.uvMapped); got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestLightPanelLayout(t *testing.T) {
	got := LightPanelLayout(600, 600)
	want := PanelLayout{Pos: imgui.Vec2{X: 373, Y: 351}, Size: imgui.Vec2{X: 222, Y: 244}}
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestShowLightPanel(t *testing.T) {
	for idx := 0; idx < 7; idx++ {
		want := idx < 4
		if got := ShowLightPanel(idx); got != want {
			t.Errorf("program %d: expected %v, got %v", idx, want, got)
		}
	}
}
