package renderer

import (
	"fmt"
	"strings"

	"Terra3D/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Shader is an OpenGL program implementing ShaderProgram.
type Shader struct {
	name     string
	program  uint32
	uniforms *UniformCache
}

func newShader(name, vertexSource, fragmentSource string) (*Shader, error) {
	vertexShader, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("%s vertex shader: %w", name, err)
	}
	fragmentShader, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return nil, fmt.Errorf("%s fragment shader: %w", name, err)
	}

	program, err := linkProgram(vertexShader, fragmentShader)
	if err != nil {
		return nil, fmt.Errorf("%s program: %w", name, err)
	}

	logger.Log.Debug("Shader program linked", zap.String("name", name), zap.Uint32("program", program))
	return &Shader{
		name:     name,
		program:  program,
		uniforms: NewUniformCache(func(uniform string) int32 {
			return gl.GetUniformLocation(program, gl.Str(uniform+"\x00"))
		}),
	}, nil
}

func (shader *Shader) Bind() {
	gl.UseProgram(shader.program)
}

func (shader *Shader) Unbind() {
	gl.UseProgram(0)
}

func (shader *Shader) CreateUniform(name string) error {
	if err := shader.uniforms.Create(name); err != nil {
		return fmt.Errorf("%s: %w", shader.name, err)
	}
	return nil
}

func (shader *Shader) SetInt(name string, value int32) {
	if loc, ok := shader.uniforms.Location(name); ok {
		gl.Uniform1i(loc, value)
	}
}

func (shader *Shader) SetFloat(name string, value float32) {
	if loc, ok := shader.uniforms.Location(name); ok {
		gl.Uniform1f(loc, value)
	}
}

func (shader *Shader) SetVec3(name string, value mgl32.Vec3) {
	if loc, ok := shader.uniforms.Location(name); ok {
		gl.Uniform3f(loc, value.X(), value.Y(), value.Z())
	}
}

func (shader *Shader) SetVec4(name string, value mgl32.Vec4) {
	if loc, ok := shader.uniforms.Location(name); ok {
		gl.Uniform4f(loc, value.X(), value.Y(), value.Z(), value.W())
	}
}

func (shader *Shader) SetMat4(name string, value mgl32.Mat4) {
	if loc, ok := shader.uniforms.Location(name); ok {
		gl.UniformMatrix4fv(loc, 1, false, &value[0])
	}
}

func (shader *Shader) SetMat4Array(name string, values []mgl32.Mat4) {
	if len(values) == 0 {
		return
	}
	if loc, ok := shader.uniforms.Location(name); ok {
		gl.UniformMatrix4fv(loc, int32(len(values)), false, &values[0][0])
	}
}

func (shader *Shader) Cleanup() error {
	if shader.program == 0 {
		return nil
	}
	gl.UseProgram(0)
	gl.DeleteProgram(shader.program)
	shader.program = 0
	shader.uniforms.Clear()
	return glError("delete program " + shader.name)
}

func compileShader(source string, shaderType uint32) (uint32, error) {
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
		gl.DeleteShader(shader)

		logger.Log.Error("Failed to compile shader", zap.Uint32("type", shaderType), zap.String("log", log))
		return 0, fmt.Errorf("compile failed: %s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func linkProgram(vertexShader, fragmentShader uint32) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	gl.DetachShader(program, vertexShader)
	gl.DeleteShader(vertexShader)
	gl.DetachShader(program, fragmentShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		logger.Log.Error("Failed to link program", zap.String("log", log))
		return 0, fmt.Errorf("link failed: %s", strings.TrimRight(log, "\x00"))
	}
	return program, nil
}

func glError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("%s: gl error 0x%x", op, code)
	}
	return nil
}
