package gui

import (
	"errors"
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/sqweek/dialog"
)

func newTestDialog(path string, err error) (*FileDialog, *int) {
	calls := 0
	d := NewFileDialog("Load 3D Model", "/assets", Filter{Description: "OBJ files", Extensions: []string{"obj"}})
	d.browse = func(title, startDir string, filter Filter) (string, error) {
		calls++
		return path, err
	}
	return d, &calls
}

func TestFileDialogSelect(t *testing.T) {
	d, calls := newTestDialog("/models/duck.obj", nil)

	if d.State() != DialogClosed {
		t.Fatal("A new dialog should be closed")
	}

	d.Poll()
	if *calls != 0 {
		t.Error("Poll should not browse while closed")
	}

	d.Open()
	if d.State() != DialogOpen {
		t.Fatal("Open should move to DialogOpen")
	}

	d.Poll()
	if !d.HasSelected() {
		t.Fatal("Expected a selection")
	}
	if d.Selected() != "/models/duck.obj" {
		t.Errorf("Unexpected selection %s", d.Selected())
	}
	if d.StartDir != "/models" {
		t.Errorf("Start dir should follow the selection, got %s", d.StartDir)
	}

	d.Poll()
	if *calls != 1 {
		t.Errorf("Poll should not browse again once selected, got %d calls", *calls)
	}

	d.ClearSelected()
	if d.State() != DialogClosed || d.Selected() != "" {
		t.Error("ClearSelected should close the dialog")
	}
}

func TestFileDialogCancelAndErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		err  error
	}{
		{"cancelled", "", dialog.ErrCancelled},
		{"failed", "", errors.New("no display")},
		{"wrong extension", "/textures/brick.png", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestDialog(tt.path, tt.err)
			d.Open()
			d.Poll()
			if d.State() != DialogClosed {
				t.Errorf("Expected closed, got %d", d.State())
			}
			if d.HasSelected() {
				t.Error("Nothing should be selected")
			}
		})
	}
}

func TestFileDialogOpenWhileSelected(t *testing.T) {
	d, _ := newTestDialog("/models/duck.obj", nil)
	d.Open()
	d.Poll()

	d.Open()
	if d.State() != DialogSelected {
		t.Error("Open should not discard a pending selection")
	}
}

func TestFilterAccepts(t *testing.T) {
	f := Filter{Description: "Images", Extensions: []string{"jpg", "png"}}

	tests := []struct {
		path string
		want bool
	}{
		{"a.png", true},
		{"a.JPG", true},
		{"dir.png/a.obj", false},
		{"noext", false},
	}
	for _, tt := range tests {
		if got := f.Accepts(tt.path); got != tt.want {
			t.Errorf("Accepts(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}

	if !(Filter{}).Accepts("anything.bin") {
		t.Error("An empty filter should accept everything")
	}
}

func TestForwardKey(t *testing.T) {
	tests := []struct {
		action    glfw.Action
		wantsKeys bool
		want      bool
	}{
		{glfw.Press, false, true},
		{glfw.Press, true, false},
		{glfw.Repeat, true, false},
		{glfw.Release, true, true},
		{glfw.Release, false, true},
	}
	for _, tt := range tests {
		if got := ForwardKey(tt.action, tt.wantsKeys); got != tt.want {
			t.Errorf("ForwardKey(%v, %v) = %v, want %v", tt.action, tt.wantsKeys, got, tt.want)
		}
	}
}
