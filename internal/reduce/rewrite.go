package reduce

import (
	"log/slog"

	"github.com/roach88/irreduce/internal/ir"
	"github.com/roach88/irreduce/internal/log"
)

// RewriteStats counts what RewriteAccesses did to accesses of rebuilt types.
type RewriteStats struct {
	Rewritten int // retargeted to the replacement type
	Skipped   int // accessed a rebuilt type but left unmodified
}

// RewriteAccesses scans m and retargets every constant field access of a
// rebuilt type to its replacement and remapped index.
//
// Each instruction's source type is resolved when the instruction is
// visited, so instructions already pointing at a replacement are left alone.
// Accesses that cannot be remapped (single-index, runtime index, or an index
// missing from the map) are left unmodified; an incomplete reduction is
// safe, a half-rewritten instruction is not.
func RewriteAccesses(m *ir.Module, rb *Rebuild) RewriteStats {
	return rewriteAccesses(m, rb, log.Discard())
}

func rewriteAccesses(m *ir.Module, rb *Rebuild, logger *slog.Logger) RewriteStats {
	var stats RewriteStats
	if len(rb.Types) == 0 {
		return stats
	}

	m.ForEachInstruction(func(f *ir.Function, inst ir.Instruction) {
		gep, ok := inst.(*ir.GetElementPtr)
		if !ok {
			return
		}
		st, ok := ir.IsStruct(gep.SourceElementType())
		if !ok {
			return
		}
		replacement, ok := rb.Types[st]
		if !ok {
			return
		}
		indexMap, ok := rb.Indices[replacement]
		if !ok || gep.NumIndices() < 2 {
			stats.Skipped++
			return
		}

		c, isConst := ir.AsConstantInt(gep.Operand(fieldOperand))
		if !isConst {
			stats.Skipped++
			return
		}
		newIdx, ok := indexMap[c.ZExtValue()]
		if !ok {
			logger.Warn("field index missing from index map",
				"function", f.Name, "type", st.String(), "index", c.ZExtValue())
			stats.Skipped++
			return
		}

		gep.SetOperand(fieldOperand, ir.NewConstantInt(c.IntType(), newIdx))
		gep.SetSourceElementType(replacement)
		stats.Rewritten++
	})

	return stats
}
