package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// scenarioYAML has one struct with four fields, two of them accessed.
const scenarioYAML = `module: scenario
types:
  - name: S
    fields: [i32, i64, i8, i32]
functions:
  - name: main
    params: ["ptr %p"]
    instructions:
      - {result: f1, op: getelementptr, source: "%S", operands: ["ptr %p", "i64 0", "i32 1"]}
      - {result: v1, op: load, type: i64, operands: ["ptr %f1"]}
      - {result: f3, op: getelementptr, source: "%S", operands: ["ptr %p", "i64 0", "i32 3"]}
      - {result: v3, op: load, type: i32, operands: ["ptr %f3"]}
      - {op: ret, operands: ["i32 %v3"]}
`

// runtimeYAML accesses its struct through a runtime index.
const runtimeYAML = `module: runtime
types:
  - name: S
    fields: [i32, i64, i8]
functions:
  - name: main
    params: ["ptr %p", "i32 %i"]
    instructions:
      - {result: f2, op: getelementptr, source: "%S", operands: ["ptr %p", "i64 0", "i32 2"]}
      - {result: fi, op: getelementptr, source: "%S", operands: ["ptr %p", "i64 0", "i32 %i"]}
      - {op: ret}
`

// writeFile writes content to name inside dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs cmd with args, capturing stdout and stderr separately.
func execute(cmd *cobra.Command, args ...string) (stdout, stderr *bytes.Buffer, err error) {
	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return stdout, stderr, err
}
