package runtime

import (
	"bytes"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

// renderRoster formats the connected-clients block sent back for /list and
// on arrival. The requesting client is marked in its own row.
func renderRoster(names []string, self string) string {
	if len(names) <= 1 {
		return "\nCONNECTED CLIENTS:\n   You are alone for the moment\n"
	}

	var buf bytes.Buffer
	buf.WriteString("\nCONNECTED CLIENTS:\n")

	table := tablewriter.NewWriter(&buf)
	table.SetAutoWrapText(false)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetTablePadding("\t")

	table.AppendBulk(lo.Map(names, func(name string, _ int) []string {
		if name == self {
			return []string{name, "(you)"}
		}
		return []string{name, ""}
	}))
	table.Render()
	return buf.String()
}
