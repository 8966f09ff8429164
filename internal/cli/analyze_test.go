package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/irreduce/internal/ir"
)

func TestAnalyzeReducible(t *testing.T) {
	path := writeFile(t, t.TempDir(), "m.yaml", scenarioYAML)

	cmd := NewAnalyzeCommand(&RootOptions{Format: "text"})
	out, _, err := execute(cmd, path)
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "Module scenario\n")
	assert.Contains(t, output, "reducible")
	assert.Contains(t, output, "4 -> 2 fields, keep [1 3]")
}

func TestAnalyzeRuntimeIndexJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "m.yaml", runtimeYAML)

	cmd := NewAnalyzeCommand(&RootOptions{Format: "json"})
	out, _, err := execute(cmd, path)
	require.NoError(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   AnalysisResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, []TypeReport{{Type: "%S", State: "not_reducible", Before: 3, After: 3}}, resp.Data.Types)
}

func TestAnalyzeDoesNotModifyModule(t *testing.T) {
	m := ir.NewModule("m")
	s := m.NewStructType("S", ir.I32, ir.I64)
	m.AddFunction("main", ir.NewRegister("p", ir.Ptr)).Append(
		ir.NewGetElementPtr("f", s, ir.NewRegister("p", ir.Ptr), ir.NewConstantInt(ir.I64, 0), ir.NewConstantInt(ir.I32, 1)),
	)
	before := ir.MustModuleHash(m)

	res := analyze(m)
	require.Len(t, res.Types, 1)
	assert.Equal(t, []uint64{1}, res.Types[0].Kept)
	assert.Equal(t, before, ir.MustModuleHash(m))
	assert.Len(t, m.StructTypes(), 1)
}

func TestAnalyzeNoAccesses(t *testing.T) {
	res := analyze(ir.NewModule("empty"))
	assert.Equal(t, "Module empty\n  no struct field accesses\n", res.String())
}
