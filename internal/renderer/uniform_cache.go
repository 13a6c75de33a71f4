package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// UniformCache caches uniform locations to avoid repeated gl.GetUniformLocation calls.
// A name the program does not declare resolves to -1 and every setter
// silently skips it.
type UniformCache struct {
	locations map[string]int32
	program   uint32
	lookup    func(program uint32, name string) int32
}

// NewUniformCache creates a new uniform cache for a shader program
func NewUniformCache(program uint32) *UniformCache {
	return &UniformCache{
		locations: make(map[string]int32),
		program:   program,
		lookup:    glUniformLocation,
	}
}

func glUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

// GetLocation returns the cached uniform location or fetches and caches it
func (uc *UniformCache) GetLocation(name string) int32 {
	if loc, exists := uc.locations[name]; exists {
		return loc
	}

	loc := uc.lookup(uc.program, name)
	uc.locations[name] = loc
	return loc
}

func (uc *UniformCache) SetFloat(name string, value float32) {
	if loc := uc.GetLocation(name); loc != -1 {
		gl.Uniform1f(loc, value)
	}
}

func (uc *UniformCache) SetInt(name string, value int32) {
	if loc := uc.GetLocation(name); loc != -1 {
		gl.Uniform1i(loc, value)
	}
}

func (uc *UniformCache) SetVec4(name string, value mgl32.Vec4) {
	if loc := uc.GetLocation(name); loc != -1 {
		gl.Uniform4fv(loc, 1, &value[0])
	}
}

func (uc *UniformCache) SetMat3(name string, value mgl32.Mat3) {
	if loc := uc.GetLocation(name); loc != -1 {
		gl.UniformMatrix3fv(loc, 1, false, &value[0])
	}
}

func (uc *UniformCache) SetMat4(name string, value mgl32.Mat4) {
	if loc := uc.GetLocation(name); loc != -1 {
		gl.UniformMatrix4fv(loc, 1, false, &value[0])
	}
}

func (uc *UniformCache) Program() uint32 {
	return uc.program
}

// Clear clears the cache (call when the shader program is relinked)
func (uc *UniformCache) Clear() {
	uc.locations = make(map[string]int32)
}

// Reset points the cache at a new program id and drops cached locations.
func (uc *UniformCache) Reset(program uint32) {
	uc.program = program
	uc.Clear()
}
