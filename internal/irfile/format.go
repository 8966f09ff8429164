package irfile

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/irreduce/internal/ir"
)

// Format is a document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatCUE  Format = "cue"
)

//go:embed schema.cue
var schemaSource string

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".cue":
		return FormatCUE, nil
	default:
		return "", fmt.Errorf("unsupported module file %q (want .yaml, .yml, .json or .cue)", path)
	}
}

// Load reads and decodes the module document at path.
func Load(path string) (*ir.Module, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading module: %w", err)
	}
	m, err := Unmarshal(format, data, path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return m, nil
}

// Save encodes m and writes it to path. CUE documents are read-only.
func Save(path string, m *ir.Module) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Marshal(format, m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing module: %w", err)
	}
	return nil
}

// Marshal encodes m in the given format.
func Marshal(format Format, m *ir.Module) ([]byte, error) {
	doc := Encode(m)
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding json: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		return buf.Bytes(), nil
	case FormatCUE:
		return nil, fmt.Errorf("cue documents are read-only")
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// Unmarshal decodes data in the given format. filename is used in CUE
// error positions and may be empty.
func Unmarshal(format Format, data []byte, filename string) (*ir.Module, error) {
	var doc Document
	var err error
	switch format {
	case FormatYAML:
		err = decodeYAML(data, &doc)
	case FormatJSON:
		err = decodeJSON(data, &doc)
	case FormatCUE:
		err = decodeCUE(data, filename, &doc)
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return Decode(&doc)
}

func decodeYAML(data []byte, doc *Document) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(doc); err != nil {
		if err == io.EOF {
			return errorf("yaml", "empty document")
		}
		return errorf("yaml", "%v", err)
	}
	return nil
}

func decodeJSON(data []byte, doc *Document) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(doc); err != nil {
		return errorf("json", "%v", err)
	}
	return nil
}

// decodeCUE unifies the input with the #Module schema, which is closed, so
// unknown fields fail here rather than being dropped.
func decodeCUE(data []byte, filename string, doc *Document) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return formatCUEError(err)
	}
	def := schema.LookupPath(cue.ParsePath("#Module"))

	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return formatCUEError(err)
	}

	unified := def.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err)
	}
	if err := unified.Decode(doc); err != nil {
		return formatCUEError(err)
	}
	return nil
}
