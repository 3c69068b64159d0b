package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAssignabilityIdempotence is spec.md §8 invariant 5.
func TestAssignabilityIdempotence(t *testing.T) {
	listInt := List{Element: Int}
	for _, ty := range []TypeInfo{Int, Float, Bool, String, Any, Null, listInt} {
		assert.Truef(t, IsAssignable(ty, ty).Allowed, "%s should be assignable to itself", ty)
		assert.Truef(t, IsAssignable(ty, Any).Allowed, "%s should be assignable to Any", ty)
	}
	assert.True(t, IsAssignable(Null, listInt).Allowed)
	assert.True(t, IsAssignable(Null, Map{Key: String, Value: Int}).Allowed)
}

func TestAssignabilityAnyNarrowingWarns(t *testing.T) {
	res := IsAssignable(Any, Int)
	assert.True(t, res.Allowed)
	assert.Contains(t, res.Warning, "narrowing")
}

func TestAssignabilityNumericWidening(t *testing.T) {
	assert.True(t, IsAssignable(Int, Float).Allowed)
	assert.True(t, IsAssignable(Int, Number).Allowed)
	assert.True(t, IsAssignable(Float, Number).Allowed)
	assert.False(t, IsAssignable(Float, Int).Allowed)
}

func TestAssignabilityUnionRules(t *testing.T) {
	u, err := NewUnion([]TypeInfo{Int, String})
	require.NoError(t, err)
	assert.True(t, IsAssignable(Int, u).Allowed)
	assert.True(t, IsAssignable(String, u).Allowed)
	assert.False(t, IsAssignable(Bool, u).Allowed)
	assert.True(t, IsAssignable(u, u).Allowed)
}

func TestAssignabilityNullUnion(t *testing.T) {
	u, err := NewUnion([]TypeInfo{Int, Null})
	require.NoError(t, err)
	assert.True(t, IsAssignable(Null, u).Allowed)
}

func TestAssignabilityListAndMapCovariance(t *testing.T) {
	assert.True(t, IsAssignable(List{Element: Int}, List{Element: Float}).Allowed)
	assert.False(t, IsAssignable(List{Element: Float}, List{Element: Int}).Allowed)
	assert.True(t, IsAssignable(Map{Key: String, Value: Int}, Map{Key: String, Value: Float}).Allowed)
}

func TestAssignabilityTupleToList(t *testing.T) {
	tup, err := NewTuple([]TypeInfo{Int, Int})
	require.NoError(t, err)
	assert.True(t, IsAssignable(tup, List{Element: Number}).Allowed)
}

func TestAssignabilityFunctionToFunctionKeyword(t *testing.T) {
	sig := FunctionSignature{Params: []Param{{Name: "x", Type: Int}}, ReturnType: Void}
	assert.True(t, IsAssignable(sig, Function).Allowed)
}

func TestAssignabilityClassNominal(t *testing.T) {
	a := ClassType{Name: "Point"}
	b := ClassType{Name: "Point"}
	c := ClassType{Name: "Vector"}
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c))
	assert.True(t, IsAssignable(a, b).Allowed)
	assert.False(t, IsAssignable(a, c).Allowed)
}

// TestUnionCanonicalization is spec.md §8 invariant 6.
func TestUnionCanonicalization(t *testing.T) {
	ab, err := NewUnion([]TypeInfo{Int, String})
	require.NoError(t, err)
	ba, err := NewUnion([]TypeInfo{String, Int})
	require.NoError(t, err)
	assert.True(t, Equal(ab, ba))

	dup, err := NewUnion([]TypeInfo{Int, Int, String})
	require.NoError(t, err)
	assert.Equal(t, 2, len(dup.Members))
	assert.True(t, Equal(dup, ab))
}

func TestUnionRejectsSingleMember(t *testing.T) {
	_, err := NewUnion([]TypeInfo{Int})
	assert.Error(t, err)
}

func TestTupleArityValidation(t *testing.T) {
	_, err := NewTuple([]TypeInfo{Int})
	assert.Error(t, err)
	_, err = NewTuple([]TypeInfo{Int, Null})
	assert.Error(t, err, "null-typed tuple elements are rejected")
}
