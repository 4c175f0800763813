package graphics

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	glpkg "github.com/tinyrange/shaderplay/internal/gowin/gl"
)

// Stage identifies where a shader diagnostic came from.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
	StageLink
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageLink:
		return "link"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

func (s Stage) shaderType() uint32 {
	if s == StageFragment {
		return glpkg.FragmentShader
	}
	return glpkg.VertexShader
}

// Diagnostic is a compile or link failure reported by the driver.
type Diagnostic struct {
	Stage Stage
	// Path is the source file, if the source came from disk.
	Path string
	// Log is the driver info log, at most gl.InfoLogSize bytes.
	Log string
}

func (d *Diagnostic) Error() string {
	var b strings.Builder
	switch d.Stage {
	case StageLink:
		b.WriteString("link program")
	default:
		fmt.Fprintf(&b, "compile %s shader", d.Stage)
	}
	if d.Path != "" {
		fmt.Fprintf(&b, " %q", d.Path)
	}
	if log := strings.TrimSpace(d.Log); log != "" {
		b.WriteString(": ")
		b.WriteString(log)
	}
	return b.String()
}

func truncateLog(log string) string {
	if len(log) > glpkg.InfoLogSize {
		return log[:glpkg.InfoLogSize]
	}
	return log
}

// Compile compiles source for stage. On failure the shader object is deleted
// and a *Diagnostic is returned.
func Compile(gl glpkg.OpenGL, stage Stage, source string) (uint32, error) {
	if stage == StageLink {
		return 0, fmt.Errorf("compile: invalid stage %s", stage)
	}
	shader := gl.CreateShader(stage.shaderType())
	gl.ShaderSource(shader, source)
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, glpkg.CompileStatus, &status)
	if status == glpkg.False {
		log := gl.GetShaderInfoLog(shader)
		gl.DeleteShader(shader)
		return 0, &Diagnostic{Stage: stage, Log: truncateLog(log)}
	}
	return shader, nil
}

// Link attaches both stages and links them. The shader objects are deleted
// whether or not linking succeeds.
func Link(gl glpkg.OpenGL, vertex, fragment uint32) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertex)
	gl.AttachShader(program, fragment)
	gl.LinkProgram(program)

	gl.DeleteShader(vertex)
	gl.DeleteShader(fragment)

	var status int32
	gl.GetProgramiv(program, glpkg.LinkStatus, &status)
	if status == glpkg.False {
		log := gl.GetProgramInfoLog(program)
		gl.DeleteProgram(program)
		return 0, &Diagnostic{Stage: StageLink, Log: truncateLog(log)}
	}
	return program, nil
}

// Uniform names a per-frame input the playground feeds every program.
type Uniform int

const (
	UniformResolution Uniform = iota
	UniformTime
	UniformMouse
	UniformTexture
	uniformCount
)

var uniformNames = [uniformCount]string{
	UniformResolution: "resolution",
	UniformTime:       "time",
	UniformMouse:      "mouse",
	UniformTexture:    "tex",
}

func (u Uniform) String() string {
	if u >= 0 && u < uniformCount {
		return uniformNames[u]
	}
	return fmt.Sprintf("Uniform(%d)", int(u))
}

// Uniforms holds the values written to a program once per draw.
type Uniforms struct {
	Resolution mgl32.Vec2
	Time       float32
	Mouse      mgl32.Vec2
	// Texture is the texture unit bound for the "tex" sampler.
	Texture int32
}

// Program is a linked program with its uniform locations. A location of -1
// means the program does not use that uniform.
type Program struct {
	ID        uint32
	Locations [uniformCount]int32
}

// NewProgram resolves the uniform locations of a linked program.
func NewProgram(gl glpkg.OpenGL, id uint32) Program {
	p := Program{ID: id}
	for u := Uniform(0); u < uniformCount; u++ {
		p.Locations[u] = gl.GetUniformLocation(id, uniformNames[u])
	}
	return p
}

func (p Program) Location(u Uniform) int32 { return p.Locations[u] }

// Apply makes p current and writes every uniform it uses.
func (p Program) Apply(gl glpkg.OpenGL, u Uniforms) {
	gl.UseProgram(p.ID)
	if loc := p.Locations[UniformResolution]; loc >= 0 {
		gl.Uniform2f(loc, u.Resolution.X(), u.Resolution.Y())
	}
	if loc := p.Locations[UniformTime]; loc >= 0 {
		gl.Uniform1f(loc, u.Time)
	}
	if loc := p.Locations[UniformMouse]; loc >= 0 {
		gl.Uniform2f(loc, u.Mouse.X(), u.Mouse.Y())
	}
	if loc := p.Locations[UniformTexture]; loc >= 0 {
		gl.Uniform1i(loc, u.Texture)
	}
}

// BuildProgram compiles and links a program from in-memory sources.
func BuildProgram(gl glpkg.OpenGL, vertexSrc, fragmentSrc string) (Program, error) {
	vert, err := Compile(gl, StageVertex, vertexSrc)
	if err != nil {
		return Program{}, err
	}
	frag, err := Compile(gl, StageFragment, fragmentSrc)
	if err != nil {
		gl.DeleteShader(vert)
		return Program{}, err
	}
	id, err := Link(gl, vert, frag)
	if err != nil {
		return Program{}, err
	}
	return NewProgram(gl, id), nil
}

// LoadProgram reads, compiles and links the two shader files.
func LoadProgram(gl glpkg.OpenGL, vertexPath, fragmentPath string) (Program, error) {
	vertexSrc, err := os.ReadFile(vertexPath)
	if err != nil {
		return Program{}, fmt.Errorf("read vertex shader: %w", err)
	}
	fragmentSrc, err := os.ReadFile(fragmentPath)
	if err != nil {
		return Program{}, fmt.Errorf("read fragment shader: %w", err)
	}

	p, err := BuildProgram(gl, string(vertexSrc), string(fragmentSrc))
	var d *Diagnostic
	if errors.As(err, &d) {
		switch d.Stage {
		case StageVertex:
			d.Path = vertexPath
		case StageFragment:
			d.Path = fragmentPath
		}
	}
	return p, err
}
