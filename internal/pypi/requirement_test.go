package pypi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamchong/metal0-sub013/internal/version"
)

func TestParseDependencySimple(t *testing.T) {
	req, err := ParseDependency("click>=8")
	require.NoError(t, err)
	assert.Equal(t, "click", req.Name)
	assert.True(t, req.Range.Contains(version.MustParse("8.1")))
	assert.False(t, req.Range.Contains(version.MustParse("7.9")))
}

func TestParseDependencyWithExtrasAndMarker(t *testing.T) {
	req, err := ParseDependency(`requests[socks] (>=2.0,<3.0) ; python_version >= "3.7"`)
	require.NoError(t, err)
	assert.Equal(t, "requests", req.Name)
	assert.Equal(t, []string{"socks"}, req.Extras)
	assert.Equal(t, `python_version >= "3.7"`, req.Marker)
	assert.True(t, req.Range.Contains(version.MustParse("2.5")))
	assert.False(t, req.Range.Contains(version.MustParse("3.0")))
}

func TestParseDependencyCompatibleRelease(t *testing.T) {
	req, err := ParseDependency("pkg~=2.2")
	require.NoError(t, err)
	assert.True(t, req.Range.Contains(version.MustParse("2.9")))
	assert.False(t, req.Range.Contains(version.MustParse("3.0")))
}

func TestParseDependencyNotEqual(t *testing.T) {
	req, err := ParseDependency("pkg!=1.5")
	require.NoError(t, err)
	assert.False(t, req.Range.Contains(version.MustParse("1.5")))
	assert.True(t, req.Range.Contains(version.MustParse("1.6")))
}

func TestParseDependencyRejectsMissingName(t *testing.T) {
	_, err := ParseDependency(">=1.0")
	assert.Error(t, err)
}
