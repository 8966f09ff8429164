package irfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/irreduce/internal/ir"
	"github.com/roach88/irreduce/internal/testutil"
)

func TestEncode(t *testing.T) {
	m, _ := testutil.ScenarioA()
	m.NewStructType("Dead", ir.I8)

	doc := Encode(m)

	assert.Equal(t, "scenario_a", doc.Module)
	assert.Equal(t, []TypeDecl{{Name: "S", Fields: []string{"i32", "i64", "i8", "i32"}}}, doc.Types)
	require.Len(t, doc.Functions, 1)
	fd := doc.Functions[0]
	assert.Equal(t, []string{"ptr %p"}, fd.Params)
	assert.Equal(t, InstructionDecl{
		Result:   "f1",
		Op:       "getelementptr",
		Source:   "%S",
		Operands: []string{"ptr %p", "i64 0", "i32 1"},
	}, fd.Instructions[0])
	assert.Equal(t, InstructionDecl{Result: "v1", Op: "load", Type: "i64", Operands: []string{"ptr %f1"}}, fd.Instructions[1])
	assert.Equal(t, InstructionDecl{Op: "ret", Operands: []string{"i32 %v3"}}, fd.Instructions[4])
}

func TestEncodeDisambiguatesDuplicateNames(t *testing.T) {
	m := ir.NewModule("m")
	a := m.NewStructType("S", ir.I32)
	b := m.NewStructType("S", ir.I64, a)
	f := m.AddFunction("f", testutil.Base())
	f.Append(testutil.ConstField("x", b, 1))
	call := ir.NewInst(ir.OpCall, "r", ir.I32, ir.NewRegister("x", ir.Ptr))
	call.Callee = "g"
	f.Append(call)

	doc := Encode(m)

	assert.Equal(t, []TypeDecl{
		{Name: "S", Fields: []string{"i32"}},
		{Name: "S.0", Fields: []string{"i64", "%S"}},
	}, doc.Types)
	assert.Equal(t, "%S.0", doc.Functions[0].Instructions[0].Source)
	assert.Equal(t, "g", doc.Functions[0].Instructions[1].Callee)

	back, err := Decode(doc)
	require.NoError(t, err)
	assert.Equal(t, ir.MustModuleHash(m), ir.MustModuleHash(back))
}

func TestEncodeAfterReductionRoundTrips(t *testing.T) {
	m, err := Unmarshal(FormatYAML, []byte(demoYAML), "")
	require.NoError(t, err)

	data, err := Marshal(FormatYAML, m)
	require.NoError(t, err)
	back, err := Unmarshal(FormatYAML, data, "")
	require.NoError(t, err)
	assert.Equal(t, ir.MustModuleHash(m), ir.MustModuleHash(back))

	data, err = Marshal(FormatJSON, m)
	require.NoError(t, err)
	back, err = Unmarshal(FormatJSON, data, "")
	require.NoError(t, err)
	assert.Equal(t, ir.MustModuleHash(m), ir.MustModuleHash(back))
}

func TestMarshalJSON(t *testing.T) {
	m := ir.NewModule("tiny")
	s := m.NewStructType("S", ir.I32, ir.I8)
	m.AddFunction("f", testutil.Base()).Append(
		testutil.ConstField("x", s, 1),
		ir.NewInst(ir.OpRet, "", nil),
	)

	data, err := Marshal(FormatJSON, m)
	require.NoError(t, err)

	expected := `{
  "module": "tiny",
  "types": [
    {
      "name": "S",
      "fields": [
        "i32",
        "i8"
      ]
    }
  ],
  "functions": [
    {
      "name": "f",
      "params": [
        "ptr %p"
      ],
      "instructions": [
        {
          "result": "x",
          "op": "getelementptr",
          "source": "%S",
          "operands": [
            "ptr %p",
            "i64 0",
            "i32 1"
          ]
        },
        {
          "op": "ret"
        }
      ]
    }
  ]
}
`
	assert.Equal(t, expected, string(data))
}

func TestMarshalCUEReadOnly(t *testing.T) {
	_, err := Marshal(FormatCUE, ir.NewModule("m"))
	assert.EqualError(t, err, "cue documents are read-only")

	_, err = Marshal(Format("toml"), ir.NewModule("m"))
	assert.EqualError(t, err, `unknown format "toml"`)
}
