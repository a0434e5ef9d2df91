package program

import (
	"bytes"

	"github.com/sarchlab/wspace/instr"
)

// Encode writes instructions back as whitespace source using the default
// ISA. Tokenize(Encode(insts)) yields insts again, apart from offsets and
// targets.
func Encode(insts []instr.Inst) []byte {
	var buf bytes.Buffer

	for _, inst := range insts {
		word, ok := defaultISA.Word(inst.Op)
		if !ok {
			panic("no instruction word for " + inst.Op.String())
		}
		buf.WriteString(word)

		switch inst.Op.Param() {
		case instr.ParamNumber:
			encodeNumber(&buf, inst.Arg)
		case instr.ParamLabel:
			encodeLabel(&buf, inst.Label)
		}
	}

	return buf.Bytes()
}

func encodeNumber(buf *bytes.Buffer, n int64) {
	magnitude := uint64(n)
	if n < 0 {
		buf.WriteString(tab)
		magnitude = uint64(-n)
	} else {
		buf.WriteString(space)
	}

	var digits []byte
	for ; magnitude > 0; magnitude >>= 1 {
		if magnitude&1 == 1 {
			digits = append(digits, '\t')
		} else {
			digits = append(digits, ' ')
		}
	}

	for i := len(digits) - 1; i >= 0; i-- {
		buf.WriteByte(digits[i])
	}
	buf.WriteString(lf)
}

func encodeLabel(buf *bytes.Buffer, label string) {
	for i := 0; i < len(label); i++ {
		if label[i] == instr.LabelOne {
			buf.WriteString(tab)
		} else {
			buf.WriteString(space)
		}
	}
	buf.WriteString(lf)
}
