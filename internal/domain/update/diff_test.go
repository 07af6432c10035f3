package update

import (
	"testing"

	"github.com/GriffinCanCode/assetpack/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name   string
		local  types.ContentManifest
		remote types.ContentManifest
		want   []string
	}{
		{"identical", types.ContentManifest{"a": "1"}, types.ContentManifest{"a": "1"}, nil},
		{"changed hash", types.ContentManifest{"a": "1"}, types.ContentManifest{"a": "2"}, []string{"a"}},
		{"new remote package", types.ContentManifest{}, types.ContentManifest{"b": "1", "a": "1"}, []string{"a", "b"}},
		{"local only ignored", types.ContentManifest{"gone": "1"}, types.ContentManifest{}, nil},
		{"nil local", nil, types.ContentManifest{"a": "1"}, []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Diff(tt.local, tt.remote))
		})
	}
}

func TestExclusions(t *testing.T) {
	e, err := NewExclusions([]string{"dlc/**", "*.debug"})
	require.NoError(t, err)

	assert.True(t, e.Match("dlc/a/b"))
	assert.True(t, e.Match("shaders.debug"))
	assert.False(t, e.Match("core"))

	kept, excluded := e.Filter([]string{"core", "dlc/x", "ui.debug", "ui"})
	assert.Equal(t, []string{"core", "ui"}, kept)
	assert.Equal(t, []string{"dlc/x", "ui.debug"}, excluded)

	var none *Exclusions
	assert.False(t, none.Match("anything"))

	_, err = NewExclusions([]string{"a[b"})
	assert.Error(t, err)
}
