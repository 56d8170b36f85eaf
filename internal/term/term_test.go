package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamchong/metal0-sub013/internal/rangeset"
	"github.com/teamchong/metal0-sub013/internal/version"
)

func v(t *testing.T, s string) version.Version {
	t.Helper()
	ver, err := version.Parse(s)
	require.NoError(t, err)
	return ver
}

func TestTermDoubleNegateIdentity(t *testing.T) {
	one := v(t, "1.0")
	term := Pos(rangeset.GE(one))
	assert.Equal(t, term, term.Negate().Negate())
}

func TestTermRelationWithSubsetIsSatisfied(t *testing.T) {
	one := v(t, "1.0")
	two := v(t, "2.0")

	broad := Pos(rangeset.GE(one))
	narrow := Pos(rangeset.Between(rangeset.Included(one), rangeset.Excluded(two)))

	assert.Equal(t, Satisfied, broad.RelationWith(narrow))
}

func TestTermRelationWithDisjointIsContradicted(t *testing.T) {
	one := v(t, "1.0")
	two := v(t, "2.0")

	below := Pos(rangeset.LT(one))
	aboveOrEqual := Pos(rangeset.GE(two))

	assert.Equal(t, Contradicted, below.RelationWith(aboveOrEqual))
}

func TestTermAnyAndNoneAreVacuousAndEmpty(t *testing.T) {
	assert.True(t, Any().IsVacuous())
	assert.True(t, None().IsNone())
}
