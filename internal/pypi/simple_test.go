package pypi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datawire/ocibuild/pkg/python/pep425"
)

func TestParseSimplePageExtractsFiles(t *testing.T) {
	html := `<!DOCTYPE html>
<html><body>
<a href="/files/flask-3.1.1-py3-none-any.whl" data-dist-info-metadata="true">flask-3.1.1-py3-none-any.whl</a>
<a href="/files/flask-3.1.2-py3-none-any.whl" data-dist-info-metadata="sha256=abc">flask-3.1.2-py3-none-any.whl</a>
<a href="/files/flask-3.1.2.tar.gz">flask-3.1.2.tar.gz</a>
<a href="/files/flask-3.1.2-py3-none-any.whl.metadata">ignored, not a distribution file</a>
</body></html>`

	files, err := ParseSimplePage(html)
	require.NoError(t, err)
	require.Len(t, files, 3)

	assert.Equal(t, "flask-3.1.1-py3-none-any.whl", files[0].Filename)
	assert.True(t, files[0].HasDistInfoMeta)
	assert.Equal(t, "3.1.1", files[0].Version)

	assert.True(t, files[1].HasDistInfoMeta)
	assert.Equal(t, "3.1.2", files[1].Version)

	assert.False(t, files[2].HasDistInfoMeta)
	assert.Equal(t, "3.1.2", files[2].Version)
}

func TestParseSimplePageCoreMetadataAttribute(t *testing.T) {
	html := `<a href="/files/demo-1.0-py3-none-any.whl" core-metadata="true">demo-1.0-py3-none-any.whl</a>`
	files, err := ParseSimplePage(html)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.True(t, files[0].HasDistInfoMeta)
}

func TestParseSimplePageFalseMetadataOptsOut(t *testing.T) {
	html := `<a href="/files/demo-1.0-py3-none-any.whl" data-dist-info-metadata="false">demo-1.0-py3-none-any.whl</a>`
	files, err := ParseSimplePage(html)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.False(t, files[0].HasDistInfoMeta)
}

func TestSelectPreferredWheelPrefersMetadataAndUniversal(t *testing.T) {
	candidates := []SimpleFile{
		{Filename: "demo-1.0-cp312-cp312-manylinux_2_17_x86_64.whl"},
		{Filename: "demo-1.0-py3-none-any.whl", HasDistInfoMeta: true, Wheel: &WheelInfo{Tags: mustDecompress(t, "demo-1.0-py3-none-any.whl")}},
	}
	best, ok := SelectPreferredWheel(candidates)
	require.True(t, ok)
	assert.Equal(t, "demo-1.0-py3-none-any.whl", best.Filename)
}

func mustDecompress(t *testing.T, wheelName string) []pep425.Tag {
	t.Helper()
	info, err := ParseWheelName(wheelName)
	require.NoError(t, err)
	return info.Tags
}
