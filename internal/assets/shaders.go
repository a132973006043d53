// Package assets loads the compiled SPIR-V shaders the renderer draws with.
package assets

import (
	"context"
	"io/fs"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
)

const (
	VertexShaderFile   = "shader.vert.spv"
	FragmentShaderFile = "shader.frag.spv"
)

var (
	ErrMissingShader = errors.New("missing shader")
	ErrInvalidShader = errors.New("invalid shader bytecode")
)

// Shaders holds the bytecode of the vertex and fragment stages. The contents are
// opaque; only their size is checked.
type Shaders struct {
	Vertex   []byte
	Fragment []byte
}

// Load reads both shader stages from fsys concurrently.
func Load(ctx context.Context, fsys fs.FS) (Shaders, error) {
	var shaders Shaders

	g, ctx := errgroup.WithContext(ctx)
	read := func(name string, dst *[]byte) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			b, err := fs.ReadFile(fsys, name)
			if errors.Is(err, fs.ErrNotExist) {
				return errors.Mark(errors.Wrapf(err, "loading %s", name), ErrMissingShader)
			} else if err != nil {
				return errors.Wrapf(err, "loading %s", name)
			}

			*dst = b
			return nil
		})
	}
	read(VertexShaderFile, &shaders.Vertex)
	read(FragmentShaderFile, &shaders.Fragment)

	if err := g.Wait(); err != nil {
		return Shaders{}, err
	}
	return shaders, nil
}

// Validate checks that both stages hold a non-empty sequence of 32-bit words.
func (s Shaders) Validate() error {
	for _, stage := range []struct {
		name string
		code []byte
	}{
		{"vertex", s.Vertex},
		{"fragment", s.Fragment},
	} {
		if len(stage.code) == 0 {
			return errors.Wrapf(ErrInvalidShader, "%s shader is empty", stage.name)
		}
		if len(stage.code)%4 != 0 {
			return errors.Wrapf(ErrInvalidShader, "%s shader is %d bytes, not a whole number of words", stage.name, len(stage.code))
		}
	}
	return nil
}

// Bytecode reinterprets little-endian SPIR-V bytes as words. Trailing bytes that
// do not fill a word are dropped.
func Bytecode(b []byte) []uint32 {
	code := make([]uint32, len(b)/4)
	for i := range code {
		at := i * 4
		code[i] = uint32(b[at]) | uint32(b[at+1])<<8 | uint32(b[at+2])<<16 | uint32(b[at+3])<<24
	}

	return code
}
