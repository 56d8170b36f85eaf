package rangeset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamchong/metal0-sub013/internal/version"
)

func v(t *testing.T, s string) version.Version {
	t.Helper()
	ver, err := version.Parse(s)
	require.NoError(t, err)
	return ver
}

func TestRangeSingletonExact(t *testing.T) {
	one := v(t, "1.0")
	two := v(t, "2.0")
	r := Singleton(one)

	assert.True(t, r.Contains(one))
	assert.False(t, r.Contains(two))
}

func TestRangeGEGTLELTConsistency(t *testing.T) {
	one := v(t, "1.0")

	assert.True(t, GE(one).Contains(one))
	assert.False(t, GT(one).Contains(one))
	assert.True(t, LE(one).Contains(one))
	assert.False(t, LT(one).Contains(one))

	two := v(t, "2.0")
	assert.True(t, GE(one).Contains(two))
	assert.True(t, GT(one).Contains(two))
	assert.False(t, LE(one).Contains(two))
	assert.False(t, LT(one).Contains(two))
}

func TestRangeContainsIntersectionComplementIsEmpty(t *testing.T) {
	one := v(t, "1.0")
	two := v(t, "2.0")
	r := Between(Included(one), Excluded(two))

	intersectWithComplement := r.Intersection(r.Complement())
	assert.True(t, intersectWithComplement.IsEmpty())
}

func TestRangeUnionComplementIsFull(t *testing.T) {
	one := v(t, "1.0")
	two := v(t, "2.0")
	r := Between(Included(one), Excluded(two))

	union := r.Union(r.Complement())
	assert.True(t, union.IsFull())
}

func TestRangeUnionIntersectionCommutativeAssociative(t *testing.T) {
	one := v(t, "1.0")
	two := v(t, "2.0")
	three := v(t, "3.0")

	a := Between(Included(one), Excluded(two))
	b := Between(Included(two), Excluded(three))
	c := GE(one)

	assert.True(t, a.Union(b).Eql(b.Union(a)))
	assert.True(t, a.Intersection(c).Eql(c.Intersection(a)))
	assert.True(t, a.Union(b).Union(c).Eql(a.Union(b.Union(c))))
}

func TestRangeSubsetOfReflexiveAndVsFull(t *testing.T) {
	one := v(t, "1.0")
	r := GE(one)

	assert.True(t, r.SubsetOf(r))
	assert.True(t, r.SubsetOf(Full()))
	assert.False(t, Full().SubsetOf(r))
}

func TestRangeDoubleComplementIdentity(t *testing.T) {
	one := v(t, "1.0")
	two := v(t, "2.0")
	r := Between(Included(one), Excluded(two))

	assert.True(t, r.Complement().Complement().Eql(r))
}

func TestRangeUnionMergesAdjacentTouchingIntervals(t *testing.T) {
	one := v(t, "1.0")
	two := v(t, "2.0")
	three := v(t, "3.0")

	lower := Between(Included(one), Excluded(two))
	upper := Between(Included(two), Excluded(three))

	merged := lower.Union(upper)
	assert.Len(t, merged.Intervals(), 1)
	assert.True(t, merged.Eql(Between(Included(one), Excluded(three))))
}

func TestRangeUnionDoesNotMergeAcrossAGap(t *testing.T) {
	one := v(t, "1.0")
	two := v(t, "2.0")
	three := v(t, "3.0")
	four := v(t, "4.0")

	lower := Between(Included(one), Excluded(two))
	upper := Between(Included(three), Excluded(four))

	merged := lower.Union(upper)
	assert.Len(t, merged.Intervals(), 2)
}

func TestRangeIsDisjoint(t *testing.T) {
	one := v(t, "1.0")
	two := v(t, "2.0")
	three := v(t, "3.0")

	a := Between(Included(one), Excluded(two))
	b := GE(three)
	assert.True(t, a.IsDisjoint(b))

	c := GE(one)
	assert.False(t, a.IsDisjoint(c))
}
