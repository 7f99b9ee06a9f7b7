package output

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/fatih/color"
)

var (
	nilColor    = color.New(color.FgHiBlack)
	indexColor  = color.New(color.FgCyan)
	headerColor = color.New(color.Bold)
	errorColor  = color.New(color.FgRed)
)

// TableFormatter renders values the way redis-cli does.
type TableFormatter struct {
	NoHeaders bool
}

// Format writes data followed by a newline.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case nil:
		_, err := nilColor.Fprintln(w, "(nil)")
		return err
	case string:
		_, err := fmt.Fprintln(w, v)
		return err
	case int:
		_, err := fmt.Fprintf(w, "(integer) %d\n", v)
		return err
	case []string:
		items := make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
		return f.formatList(w, items)
	case []any:
		return f.formatList(w, v)
	case map[string]string:
		return mapToTable(v).RenderWithOptions(w, f.NoHeaders)
	case *Table:
		return v.RenderWithOptions(w, f.NoHeaders)
	case Table:
		return v.RenderWithOptions(w, f.NoHeaders)
	default:
		_, err := fmt.Fprintf(w, "%v\n", v)
		return err
	}
}

func (f *TableFormatter) formatList(w io.Writer, items []any) error {
	if len(items) == 0 {
		_, err := nilColor.Fprintln(w, "(empty array)")
		return err
	}

	width := len(strconv.Itoa(len(items)))
	for i, item := range items {
		idx := fmt.Sprintf("%*d)", width, i+1)
		if _, err := indexColor.Fprint(w, idx); err != nil {
			return err
		}
		var err error
		if item == nil {
			_, err = nilColor.Fprintln(w, " (nil)")
		} else {
			_, err = fmt.Fprintf(w, " %s\n", strconv.Quote(fmt.Sprint(item)))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// mapToTable converts a map to a NAME/VALUE table sorted by name.
func mapToTable(m map[string]string) *Table {
	table := &Table{Headers: []string{"NAME", "VALUE"}}

	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)

	for _, k := range names {
		table.AddRow(k, m[k])
	}
	return table
}

// Table represents tabular data.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Render renders the table to the writer.
func (t *Table) Render(w io.Writer) error {
	return t.RenderWithOptions(w, false)
}

// RenderWithOptions renders the table with options.
func (t *Table) RenderWithOptions(w io.Writer, noHeaders bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if !noHeaders && len(t.Headers) > 0 {
		for i, h := range t.Headers {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			headerColor.Fprint(tw, h)
		}
		fmt.Fprint(tw, "\n")
	}

	for _, row := range t.Rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cell)
		}
		fmt.Fprint(tw, "\n")
	}

	return tw.Flush()
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// SetHeaders sets the table headers.
func (t *Table) SetHeaders(headers ...string) {
	t.Headers = headers
}

// PrintError writes an error the way redis-cli shows error replies.
func PrintError(w io.Writer, err error) {
	errorColor.Fprintf(w, "(error) %v\n", err)
}
