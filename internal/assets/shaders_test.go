package assets

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var spirvHeader = []byte{0x03, 0x02, 0x23, 0x07, 0x00, 0x00, 0x01, 0x00}

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		VertexShaderFile:   {Data: spirvHeader},
		FragmentShaderFile: {Data: spirvHeader[:4]},
	}

	shaders, err := Load(context.Background(), fsys)
	require.NoError(t, err)
	assert.Equal(t, spirvHeader, shaders.Vertex)
	assert.Equal(t, spirvHeader[:4], shaders.Fragment)
	assert.NoError(t, shaders.Validate())
}

func TestLoadMissing(t *testing.T) {
	fsys := fstest.MapFS{
		VertexShaderFile: {Data: spirvHeader},
	}

	_, err := Load(context.Background(), fsys)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingShader), "%+v", err)
	assert.Contains(t, err.Error(), FragmentShaderFile)
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, fstest.MapFS{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidate(t *testing.T) {
	for name, tc := range map[string]struct {
		shaders Shaders
		valid   bool
	}{
		"both present":     {Shaders{Vertex: spirvHeader, Fragment: spirvHeader}, true},
		"empty vertex":     {Shaders{Vertex: nil, Fragment: spirvHeader}, false},
		"empty fragment":   {Shaders{Vertex: spirvHeader, Fragment: []byte{}}, false},
		"misaligned bytes": {Shaders{Vertex: spirvHeader[:6], Fragment: spirvHeader}, false},
	} {
		t.Run(name, func(t *testing.T) {
			err := tc.shaders.Validate()
			if tc.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrInvalidShader), "%+v", err)
		})
	}
}

func TestBytecode(t *testing.T) {
	assert.Equal(t, []uint32{0x07230203, 0x00010000}, Bytecode(spirvHeader))
	assert.Empty(t, Bytecode(spirvHeader[:3]))
}
