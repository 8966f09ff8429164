package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleHashDeterminism(t *testing.T) {
	m1, _ := buildPair(t)
	m2, _ := buildPair(t)

	h1, err := ModuleHash(m1)
	require.NoError(t, err)
	h2, err := ModuleHash(m2)
	require.NoError(t, err)

	assert.Equal(t, h1, h2, "ModuleHash must be deterministic")
	assert.Len(t, h1, 64, "SHA-256 hex is 64 characters")
}

func TestModuleHashIgnoresDeadTypes(t *testing.T) {
	m1, _ := buildPair(t)
	m2, _ := buildPair(t)
	m2.NewStructType("Extra", I64, I64)

	assert.Equal(t, MustModuleHash(m1), MustModuleHash(m2))
}

func TestModuleHashChangesWithLayout(t *testing.T) {
	m1, s := buildPair(t)
	m2, _ := buildPair(t)

	gep := m2.Functions[0].Instructions[0].(*GetElementPtr)
	gep.SetSourceElementType(m2.NewStructType("S", I32, I64, I8))
	assert.NotEqual(t, MustModuleHash(m1), MustModuleHash(m2))

	// Same name, same layout, new handle: prints identically.
	m3, _ := buildPair(t)
	gep3 := m3.Functions[0].Instructions[0].(*GetElementPtr)
	gep3.SetSourceElementType(m3.NewStructType(s.Name(), s.Fields()...))
	assert.Equal(t, MustModuleHash(m1), MustModuleHash(m3))
}

func TestCanonicalTreeShape(t *testing.T) {
	m, _ := buildPair(t)
	tree := CanonicalTree(m)

	assert.Equal(t, "pair", tree["module"])
	types := tree["types"].([]any)
	require.Len(t, types, 1)
	assert.Equal(t, map[string]any{"name": "S", "fields": []string{"i32", "i64"}}, types[0])

	funcs := tree["functions"].([]any)
	require.Len(t, funcs, 1)
	fn := funcs[0].(map[string]any)
	assert.Equal(t, []string{"ptr %p"}, fn["params"])
	assert.Equal(t, []string{
		"%f = getelementptr %S, ptr %p, i64 0, i32 1",
		"%v = load i64, ptr %f",
		"ret i64 %v",
	}, fn["instructions"])
}
