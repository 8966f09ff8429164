package irfile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/irreduce/internal/ir"
)

// resolver looks up a struct type by label.
type resolver func(label string) (*ir.StructType, error)

// parseType parses "iN", "ptr", "void", "[N x T]" or "%Label".
func parseType(s string, resolve resolver) (ir.Type, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return nil, fmt.Errorf("empty type")
	case s == "ptr":
		return ir.Ptr, nil
	case s == "void":
		return ir.Void, nil
	case strings.HasPrefix(s, "%"):
		label := s[1:]
		if label == "" {
			return nil, fmt.Errorf("empty struct label")
		}
		return resolve(label)
	case strings.HasPrefix(s, "["):
		return parseArray(s, resolve)
	case strings.HasPrefix(s, "i"):
		bits, err := strconv.Atoi(s[1:])
		if err != nil || bits < 1 || bits > 64 {
			return nil, fmt.Errorf("invalid integer type %q", s)
		}
		return ir.IntType{Bits: bits}, nil
	default:
		return nil, fmt.Errorf("unknown type %q", s)
	}
}

func parseArray(s string, resolve resolver) (ir.Type, error) {
	if !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("unterminated array type %q", s)
	}
	inner := s[1 : len(s)-1]
	n, elem, ok := strings.Cut(inner, " x ")
	if !ok {
		return nil, fmt.Errorf("array type %q must be [N x T]", s)
	}
	length, err := strconv.ParseUint(strings.TrimSpace(n), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid array length in %q", s)
	}
	et, err := parseType(elem, resolve)
	if err != nil {
		return nil, err
	}
	return ir.NewArrayType(length, et), nil
}

// parseValue parses "<type> <integer>" or "<type> %name".
func parseValue(s string, resolve resolver) (ir.Value, error) {
	s = strings.TrimSpace(s)
	i := strings.LastIndexByte(s, ' ')
	if i < 0 {
		return nil, fmt.Errorf("operand %q must be \"<type> <value>\"", s)
	}
	typStr, val := s[:i], s[i+1:]

	t, err := parseType(typStr, resolve)
	if err != nil {
		return nil, err
	}

	if name, ok := strings.CutPrefix(val, "%"); ok {
		if name == "" {
			return nil, fmt.Errorf("empty register name in %q", s)
		}
		return ir.NewRegister(name, t), nil
	}

	it, ok := t.(ir.IntType)
	if !ok {
		return nil, fmt.Errorf("constant %q must have an integer type", s)
	}
	v, err := strconv.ParseUint(val, 10, it.Bits)
	if err != nil {
		return nil, fmt.Errorf("invalid %s constant %q", it, val)
	}
	return ir.NewConstantInt(it, v), nil
}

// parseRegister parses "<type> %name".
func parseRegister(s string, resolve resolver) (*ir.Register, error) {
	v, err := parseValue(s, resolve)
	if err != nil {
		return nil, err
	}
	r, ok := v.(*ir.Register)
	if !ok {
		return nil, fmt.Errorf("parameter %q must be a register", s)
	}
	return r, nil
}
