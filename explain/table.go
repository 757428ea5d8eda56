package explain

import (
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/sqlmongo/compiler/workflow"
)

// StageSummary renders the index, kind and detail (the collection for
// $Read, N for $Skip/$Limit, the sort keys for $Sort, empty for every
// other stage) of each pipeline stage as a markdown table, grounded on the teacher's
// executor.TableFormatter.formatTable.
func (p *Printer) StageSummary(w *workflow.Workflow) string {
	stages := flattenStages(w)

	var b strings.Builder
	align := make([]tw.Align, 3)
	for i := range align {
		align[i] = tw.AlignNone
	}
	table := tablewriter.NewTable(&b,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithAlignment(align),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header([]string{"#", "Stage", "Detail"})

	for i, st := range stages {
		table.Append([]string{strconv.Itoa(i), st.Tag().String(), stageDetail(st)})
	}
	table.Render()
	return b.String()
}

func stageDetail(w *workflow.Workflow) string {
	switch w.Tag() {
	case workflow.StageRead:
		return w.Collection()
	case workflow.StageSkip, workflow.StageLimit:
		return strconv.FormatInt(w.N(), 10)
	case workflow.StageSort:
		keys := w.SortKeys()
		parts := make([]string, len(keys))
		for i, k := range keys {
			dir := "asc"
			if k.Dir == workflow.Desc {
				dir = "desc"
			}
			parts[i] = k.Path.String() + " " + dir
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}
