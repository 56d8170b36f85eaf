package pypi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWheelNameSimple(t *testing.T) {
	info, err := ParseWheelName("flask-3.1.2-py3-none-any.whl")
	require.NoError(t, err)
	assert.Equal(t, "flask", info.Name)
	assert.Equal(t, "3.1.2", info.Version)
	assert.Equal(t, "", info.BuildTag)
	assert.True(t, IsUniversalWheel(info.Tags))
}

func TestParseWheelNameWithBuildTag(t *testing.T) {
	info, err := ParseWheelName("numpy-1.26.0-1-cp312-cp312-manylinux_2_17_x86_64.whl")
	require.NoError(t, err)
	assert.Equal(t, "numpy", info.Name)
	assert.Equal(t, "1.26.0", info.Version)
	assert.Equal(t, "1", info.BuildTag)
	assert.False(t, IsUniversalWheel(info.Tags))
}

func TestParseWheelNameCompressedTags(t *testing.T) {
	info, err := ParseWheelName("six-1.16.0-py2.py3-none-any.whl")
	require.NoError(t, err)
	assert.True(t, len(info.Tags) >= 2)
	assert.True(t, IsUniversalWheel(info.Tags))
}

func TestParseWheelNameRejectsNonWheel(t *testing.T) {
	_, err := ParseWheelName("flask-3.1.2.tar.gz")
	assert.Error(t, err)
}

func TestVersionFromFilenameWheel(t *testing.T) {
	name, ver, ok := VersionFromFilename("flask-3.1.2-py3-none-any.whl")
	assert.True(t, ok)
	assert.Equal(t, "flask", name)
	assert.Equal(t, "3.1.2", ver)
}

func TestVersionFromFilenameSdistTarGz(t *testing.T) {
	name, ver, ok := VersionFromFilename("flask-3.1.2.tar.gz")
	assert.True(t, ok)
	assert.Equal(t, "flask", name)
	assert.Equal(t, "3.1.2", ver)
}

func TestVersionFromFilenameSdistZip(t *testing.T) {
	name, ver, ok := VersionFromFilename("flask-3.1.2.zip")
	assert.True(t, ok)
	assert.Equal(t, "flask", name)
	assert.Equal(t, "3.1.2", ver)
}

func TestVersionFromFilenameNoDigitAfterHyphen(t *testing.T) {
	_, _, ok := VersionFromFilename("no-version-here")
	assert.False(t, ok)
}
