package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainModule = "irreduce/module/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CanonicalTree converts a module to the generic tree hashed by ModuleHash.
// Only live struct types appear, labelled the way Printer labels them, so two
// modules that print identically hash identically regardless of how many
// dead types they carry.
func CanonicalTree(m *Module) map[string]any {
	p := NewPrinter(m)

	types := []any{}
	for _, st := range m.LiveStructTypes() {
		fields := make([]string, st.NumFields())
		for i, ft := range st.fields {
			fields[i] = p.Type(ft)
		}
		types = append(types, map[string]any{
			"name":   p.Label(st),
			"fields": fields,
		})
	}

	funcs := []any{}
	for _, f := range m.Functions {
		params := make([]string, len(f.Params))
		for i, r := range f.Params {
			params[i] = p.Value(r)
		}
		insts := make([]string, len(f.Instructions))
		for i, inst := range f.Instructions {
			insts[i] = p.Instruction(inst)
		}
		funcs = append(funcs, map[string]any{
			"name":         f.Name,
			"params":       params,
			"instructions": insts,
		})
	}

	return map[string]any{
		"module":    m.Name,
		"types":     types,
		"functions": funcs,
	}
}

// ModuleHash computes the content-addressed identity of a module.
// The driver uses it to detect candidates a pass left unchanged.
func ModuleHash(m *Module) (string, error) {
	canonical, err := MarshalCanonical(CanonicalTree(m))
	if err != nil {
		return "", fmt.Errorf("ModuleHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainModule, canonical), nil
}

// MustModuleHash is like ModuleHash but panics on error.
// Use only in tests or when the module is known to be valid.
func MustModuleHash(m *Module) string {
	h, err := ModuleHash(m)
	if err != nil {
		panic(err)
	}
	return h
}
