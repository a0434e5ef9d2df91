package program

import "github.com/sarchlab/wspace/instr"

// Resolve rewrites every branch label into the index of its Label
// instruction. Label instructions stay in place as no-ops, so indices are the
// same as in the symbolic sequence. The input is not modified.
func Resolve(insts []instr.Inst) (Program, error) {
	labels, err := collectLabels(insts)
	if err != nil {
		return Program{}, err
	}

	code := make([]instr.Inst, len(insts))
	copy(code, insts)

	for i := range code {
		if !code[i].Op.IsBranch() {
			continue
		}

		target, ok := labels[code[i].Label]
		if !ok {
			return Program{}, &LabelError{
				Kind:  ErrUndefinedLabel,
				Label: code[i].Label,
				Index: i,
			}
		}

		code[i].Target = target
	}

	return Program{Insts: code}, nil
}

func collectLabels(insts []instr.Inst) (map[string]int, error) {
	labels := make(map[string]int)

	for i, inst := range insts {
		if inst.Op != instr.Label {
			continue
		}

		if _, exists := labels[inst.Label]; exists {
			return nil, &LabelError{
				Kind:  ErrDuplicateLabel,
				Label: inst.Label,
				Index: i,
			}
		}

		labels[inst.Label] = i
	}

	return labels, nil
}
