package renderer

import (
	"GopherViewer/internal/logger"
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
)

// =============================================================
//
//	Shader programs
//
// =============================================================

// Program is a linked vertex/fragment pair read from disk.
type Program struct {
	Name         string
	VertexPath   string
	FragmentPath string
	Uniforms     *UniformCache
	program      uint32
}

// LoadProgram compiles and links a program from source files. Compile and
// link failures are logged and returned, but the program object is still
// usable: GL defines drawing with a broken program as a no-op.
func LoadProgram(name, vertexPath, fragmentPath string) (*Program, error) {
	p := &Program{
		Name:         name,
		VertexPath:   vertexPath,
		FragmentPath: fragmentPath,
	}
	id, err := buildProgram(vertexPath, fragmentPath)
	p.program = id
	p.Uniforms = NewUniformCache(id)
	if err != nil {
		return p, fmt.Errorf("program %s: %w", name, err)
	}
	logger.Log.Info("Shader program ready", zap.String("name", name), zap.Uint32("id", id))
	return p, nil
}

func buildProgram(vertexPath, fragmentPath string) (uint32, error) {
	vertexSource, err := os.ReadFile(vertexPath)
	if err != nil {
		return 0, fmt.Errorf("reading vertex shader: %w", err)
	}
	fragmentSource, err := os.ReadFile(fragmentPath)
	if err != nil {
		return 0, fmt.Errorf("reading fragment shader: %w", err)
	}

	vs, vErr := GenShader(string(vertexSource), gl.VERTEX_SHADER)
	fs, fErr := GenShader(string(fragmentSource), gl.FRAGMENT_SHADER)
	program, lErr := GenShaderProgram(vs, fs)
	for _, err := range []error{vErr, fErr, lErr} {
		if err != nil {
			return program, err
		}
	}
	return program, nil
}

// Reload rebuilds the program from its source files. The old program is
// kept when the new sources fail to build.
func (p *Program) Reload() error {
	id, err := buildProgram(p.VertexPath, p.FragmentPath)
	if err != nil {
		if id != 0 {
			gl.DeleteProgram(id)
		}
		return fmt.Errorf("program %s: %w", p.Name, err)
	}
	if p.program != 0 {
		gl.DeleteProgram(p.program)
	}
	p.program = id
	p.Uniforms.Reset(id)
	logger.Log.Info("Shader program reloaded", zap.String("name", p.Name), zap.Uint32("id", id))
	return nil
}

func (p *Program) ID() uint32 {
	return p.program
}

func (p *Program) Use() {
	gl.UseProgram(p.program)
}

func (p *Program) Delete() {
	if p.program != 0 {
		gl.DeleteProgram(p.program)
		p.program = 0
	}
}

func GenShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	cSources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, cSources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))

		logger.Log.Error("Failed to compile", zap.Uint32("shader type", shaderType), zap.String("log", log))
		return shader, fmt.Errorf("compiling shader type %d: %s", shaderType, strings.TrimRight(log, "\x00"))
	}

	return shader, nil
}

func GenShaderProgram(vertexShader, fragmentShader uint32) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	var err error
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))

		logger.Log.Error("Failed to link program", zap.String("log", log))
		err = fmt.Errorf("linking program: %s", strings.TrimRight(log, "\x00"))
	}
	gl.DetachShader(program, vertexShader)
	gl.DeleteShader(vertexShader)
	gl.DetachShader(program, fragmentShader)
	gl.DeleteShader(fragmentShader)
	return program, err
}

// Sources returns the vertex and fragment file paths.
func (p *Program) Sources() (vertex, fragment string) {
	return p.VertexPath, p.FragmentPath
}
