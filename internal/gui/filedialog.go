package gui

import (
	"GopherViewer/internal/logger"
	"errors"
	"path/filepath"
	"strings"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"
)

type DialogState int

const (
	DialogClosed DialogState = iota
	DialogOpen
	DialogSelected
)

// Filter restricts selectable files to a set of extensions without the dot.
type Filter struct {
	Description string
	Extensions  []string
}

// Accepts reports whether path carries one of the filter's extensions.
// An empty filter accepts everything.
func (f Filter) Accepts(path string) bool {
	if len(f.Extensions) == 0 {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, e := range f.Extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// BrowseFunc shows a file picker and blocks until the user picks a file or
// cancels. Cancelling returns dialog.ErrCancelled.
type BrowseFunc func(title, startDir string, filter Filter) (string, error)

// FileDialog moves Closed -> Open -> Selected -> Closed. The browser runs
// from Poll on the main thread, since native dialogs on some platforms
// must not be shown from other goroutines.
type FileDialog struct {
	Title    string
	StartDir string
	Filter   Filter

	state    DialogState
	selected string
	browse   BrowseFunc
}

func NewFileDialog(title, startDir string, filter Filter) *FileDialog {
	return &FileDialog{
		Title:    title,
		StartDir: startDir,
		Filter:   filter,
		browse:   nativeBrowse,
	}
}

func nativeBrowse(title, startDir string, filter Filter) (string, error) {
	builder := dialog.File().Title(title)
	if startDir != "" {
		builder = builder.SetStartDir(startDir)
	}
	if len(filter.Extensions) > 0 {
		builder = builder.Filter(filter.Description, filter.Extensions...)
	}
	return builder.Load()
}

// Open requests the browser on the next Poll. It is ignored unless the
// dialog is closed.
func (d *FileDialog) Open() {
	if d.state == DialogClosed {
		d.state = DialogOpen
	}
}

// Poll runs the browser if the dialog is open.
func (d *FileDialog) Poll() {
	if d.state != DialogOpen {
		return
	}
	path, err := d.browse(d.Title, d.StartDir, d.Filter)
	switch {
	case errors.Is(err, dialog.ErrCancelled):
		d.state = DialogClosed
	case err != nil:
		logger.Log.Error("File dialog failed", zap.String("title", d.Title), zap.Error(err))
		d.state = DialogClosed
	case !d.Filter.Accepts(path):
		logger.Log.Warn("Selected file rejected by filter", zap.String("title", d.Title), zap.String("path", path))
		d.state = DialogClosed
	default:
		d.selected = path
		d.StartDir = filepath.Dir(path)
		d.state = DialogSelected
	}
}

func (d *FileDialog) State() DialogState {
	return d.state
}

func (d *FileDialog) HasSelected() bool {
	return d.state == DialogSelected
}

// Selected is the chosen path, valid while HasSelected is true.
func (d *FileDialog) Selected() string {
	return d.selected
}

func (d *FileDialog) ClearSelected() {
	if d.state == DialogSelected {
		d.selected = ""
		d.state = DialogClosed
	}
}
