package vasm

// movePair is one edge of a parallel register-to-register move: before the
// move, dst holds whatever it held previously; after every pair in a batch
// has logically happened "simultaneously", dst holds src's prior value.
type movePair struct {
	dst VirtualRegister
	src VirtualRegister
}

// scheduleMoves serializes a parallel move set into a sequence of ordinary
// VMove ops, breaking any cycle (a chain of registers that all move into one
// another) with the Scratch register (spec §4.6 "a tiny register-move
// scheduler: detect cycles and break them with a scratch register").
func scheduleMoves(pairs []movePair) []VOp {
	pending := make([]movePair, 0, len(pairs))
	for _, p := range pairs {
		if p.dst != p.src {
			pending = append(pending, p)
		}
	}

	var out []VOp
	for len(pending) > 0 {
		progressed := false
		for i, p := range pending {
			if !destUsedAsSource(pending, i, p.dst) {
				out = append(out, VOp{Kind: VMove, Dst: p.dst, Src1: p.src})
				pending = append(pending[:i], pending[i+1:]...)
				progressed = true
				break
			}
		}
		if !progressed {
			// Every remaining pair is part of a cycle. Save the head's
			// destination into the scratch register, then redirect every
			// pending move that reads from it to read from scratch instead;
			// that breaks the cycle and lets the loop above make progress.
			head := pending[0]
			scratch := ConstantReg(RegScratch)
			out = append(out, VOp{Kind: VMove, Dst: scratch, Src1: head.dst})
			for i := range pending {
				if pending[i].src == head.dst {
					pending[i].src = scratch
				}
			}
		}
	}
	return out
}

func destUsedAsSource(pending []movePair, self int, dst VirtualRegister) bool {
	for i, p := range pending {
		if i != self && p.src == dst {
			return true
		}
	}
	return false
}
