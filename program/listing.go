package program

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// WriteListing prints one line per instruction: index, mnemonic, operand or
// resolved target, and the source offset.
func WriteListing(w io.Writer, p Program) error {
	if p.Len() == 0 {
		return nil
	}

	tw := table.NewWriter()

	style := table.StyleDefault
	style.Options.DrawBorder = false
	style.Options.SeparateColumns = false
	style.Options.SeparateHeader = false
	style.Options.SeparateRows = false
	tw.SetStyle(style)

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	for i, inst := range p.Insts {
		tw.AppendRow(table.Row{
			i,
			inst.Op.String(),
			inst.Operand(),
			fmt.Sprintf("; byte %d", inst.Offset),
		})
	}

	_, err := io.WriteString(w, tw.Render()+"\n")

	return err
}
