package mdhtml_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pkt.systems/mdhtml/internal/golden"
)

func TestConvertGoldenFiles(t *testing.T) {
	paths, err := golden.Fixtures("testdata")
	require.NoError(t, err)
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			want, err := golden.Want(path)
			require.NoError(t, err)
			got, err := golden.Render(path)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}
