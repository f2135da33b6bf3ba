package webamon

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gookit/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/tidwall/gjson"
	"golang.org/x/term"
)

// Format selects the output representation for rendered results.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", &ValidationError{Message: fmt.Sprintf("invalid format %q (must be table, json, or csv)", s)}
}

// cell value complexity. Classification is pure and recomputed per render;
// nothing stores it.
type complexity int

const (
	simpleValue complexity = iota
	smallList              // list, length <= 3
	smallObject            // mapping, key count <= 2
	complexValue
)

const (
	maxJoinedListLen  = 3
	maxJoinedKeyCount = 2
	maxCellLen        = 50
)

func classify(v gjson.Result) complexity {
	switch {
	case v.IsArray():
		if len(v.Array()) <= maxJoinedListLen {
			return smallList
		}
		return complexValue
	case v.IsObject():
		if len(v.Map()) <= maxJoinedKeyCount {
			return smallObject
		}
		return complexValue
	}
	return simpleValue
}

// fieldValue looks a dot-path field up in a record. The backend sometimes
// returns projected fields as flat keys ("domain.name") and sometimes as
// nested objects, so the literal key is tried before path traversal.
func fieldValue(rec gjson.Result, field string) gjson.Result {
	literal := strings.ReplaceAll(field, ".", "\\.")
	if v := rec.Get(literal); v.Exists() {
		return v
	}
	return rec.Get(field)
}

// Renderer converts result records into table, JSON, or CSV artifacts.
// Construction mirrors the output writer only to sniff TTY capabilities;
// rendering itself is a pure function of (records, fields, format).
type Renderer struct {
	useColor  bool
	termWidth int

	markStyle color.Style
	dim       color.Style
	boolTrue  color.Style
	boolFalse color.Style
	noteStyle color.Style
}

// NewRenderer creates a Renderer, probing w for terminal capabilities.
// Recognized option strings: "no-colors".
func NewRenderer(w io.Writer, args ...string) *Renderer {
	flags := map[string]bool{}
	for _, arg := range args {
		flags[arg] = true
	}

	isTTY := false
	width := 200
	if f, ok := w.(*os.File); ok {
		fd := f.Fd()
		isTTY = term.IsTerminal(int(fd))
		if isTTY {
			if tw, _, err := term.GetSize(int(fd)); err == nil {
				width = tw
			}
		}
	}

	return &Renderer{
		useColor:  color.SupportColor() && isTTY && !flags["no-colors"],
		termWidth: width,
		markStyle: color.New(color.FgBlack, color.BgYellow),
		dim:       color.New(color.FgGray),
		boolTrue:  color.New(color.FgGreen),
		boolFalse: color.New(color.FgRed),
		noteStyle: color.New(color.FgYellow),
	}
}

func tableStyle() table.Style {
	return table.Style{
		Box: table.BoxStyle{
			PaddingLeft:      " ",
			PaddingRight:     " ",
			UnfinishedRow:    " ",
			TopSeparator:     "─",
			MiddleHorizontal: "─",
		},
		Format: table.FormatOptions{
			Row: text.FormatDefault,
		},
		Options: table.Options{
			DrawBorder:      false,
			SeparateColumns: true,
			SeparateFooter:  false,
			SeparateHeader:  true,
			SeparateRows:    false,
		},
	}
}

// headerize turns a field name into a column header ("page_title" ->
// "Page Title", "domain.name" -> "Domain.Name").
func headerize(field string) string {
	field = strings.ReplaceAll(field, "_", " ")
	var b strings.Builder
	up := true
	for _, r := range field {
		if up && r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		up = r == ' ' || r == '.'
		b.WriteRune(r)
	}
	return b.String()
}

// highlight converts <mark> pairs into terminal highlighting, or strips them
// when colors are off.
func (r *Renderer) highlight(s string) string {
	if !strings.Contains(s, markOpen) {
		return s
	}
	if !r.useColor {
		return StripMarks(s)
	}

	var b strings.Builder
	for _, seg := range SplitMarks(s) {
		if seg.Marked {
			b.WriteString(r.markStyle.Render(seg.Text))
		} else {
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}

func (r *Renderer) dimmed(s string) string {
	if r.useColor {
		return r.dim.Render(s)
	}
	return s
}

// cell reduces a field value to its table display string per the elision
// policy. Complex values are summarized; column-level omission is the
// caller's concern.
func (r *Renderer) cell(v gjson.Result) string {
	if !v.Exists() {
		return ""
	}

	switch classify(v) {
	case smallList:
		parts := make([]string, 0, maxJoinedListLen)
		for _, e := range v.Array() {
			parts = append(parts, e.String())
		}
		return r.highlight(TruncateMarked(strings.Join(parts, ", "), maxCellLen))
	case smallObject:
		parts := make([]string, 0, maxJoinedKeyCount)
		v.ForEach(func(k, e gjson.Result) bool {
			parts = append(parts, fmt.Sprintf("%s:%s", k.String(), e.String()))
			return true
		})
		return r.highlight(TruncateMarked(strings.Join(parts, ", "), maxCellLen))
	case complexValue:
		n := len(v.Array())
		if v.IsObject() {
			n = len(v.Map())
		}
		return r.dimmed(fmt.Sprintf("%d items", n))
	}

	switch v.Type {
	case gjson.Null:
		return r.dimmed("null")
	case gjson.True:
		if r.useColor {
			return r.boolTrue.Render("true")
		}
		return "true"
	case gjson.False:
		if r.useColor {
			return r.boolFalse.Render("false")
		}
		return "false"
	case gjson.String:
		return r.highlight(TruncateMarked(v.String(), maxCellLen))
	}

	return TruncateMarked(v.String(), maxCellLen)
}

// omittedColumns reports which of the requested fields should be dropped
// from table output: a column is dropped only when every record carries the
// field and every value classifies as complex.
func omittedColumns(records []gjson.Result, fields []string) map[string]bool {
	omit := map[string]bool{}
	for _, field := range fields {
		if len(records) == 0 {
			continue
		}
		allComplex := true
		for _, rec := range records {
			v := fieldValue(rec, field)
			if !v.Exists() || classify(v) != complexValue {
				allComplex = false
				break
			}
		}
		if allComplex {
			omit[field] = true
		}
	}
	return omit
}

func (r *Renderer) omissionNote(omitted []string) string {
	note := "Note:"
	if r.useColor {
		note = r.noteStyle.Render(note)
	}
	return fmt.Sprintf("%s Complex fields omitted from table view: %s\n%s\n",
		note, strings.Join(omitted, ", "),
		r.dimmed("Use --format json to see all fields"))
}

// Table renders records as a table, projecting exactly the requested fields
// in the requested order. Fields whose value is complex in every row are
// dropped and listed in a trailing notice. Missing fields render as empty
// cells.
func (r *Renderer) Table(title string, records []gjson.Result, fields []string) string {
	omit := omittedColumns(records, fields)

	kept := make([]string, 0, len(fields))
	var omitted []string
	for _, f := range fields {
		if omit[f] {
			omitted = append(omitted, f)
		} else {
			kept = append(kept, f)
		}
	}

	t := table.NewWriter()
	t.SetStyle(tableStyle())

	header := make(table.Row, len(kept))
	for i, f := range kept {
		header[i] = headerize(f)
	}
	t.AppendHeader(header)

	valWidth := max(r.termWidth/max(len(kept), 1)-4, 20)
	for _, rec := range records {
		row := make(table.Row, len(kept))
		for i, f := range kept {
			row[i] = text.WrapText(r.cell(fieldValue(rec, f)), valWidth)
		}
		t.AppendRow(row)
	}

	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "%s\n", title)
	}
	b.WriteString(t.Render())
	b.WriteString("\n")

	if len(omitted) > 0 {
		b.WriteString(r.omissionNote(omitted))
	}

	return b.String()
}

// KeyValueTable renders a single record as field/value pairs, one row per
// field. A nil field list means every key of the record, in document order.
// The same elision policy applies; omitted fields get the same trailing
// notice.
func (r *Renderer) KeyValueTable(title string, record gjson.Result, fields []string) string {
	if fields == nil {
		record.ForEach(func(k, _ gjson.Result) bool {
			fields = append(fields, k.String())
			return true
		})
	}

	omit := omittedColumns([]gjson.Result{record}, fields)

	t := table.NewWriter()
	t.SetStyle(tableStyle())
	t.AppendHeader(table.Row{"Field", "Value"})

	valWidth := max(r.termWidth-30, 20)
	var omitted []string
	for _, f := range fields {
		if omit[f] {
			omitted = append(omitted, f)
			continue
		}
		t.AppendRow(table.Row{
			headerize(f),
			text.WrapText(r.cell(fieldValue(record, f)), valWidth),
		})
	}

	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "%s\n", title)
	}
	b.WriteString(t.Render())
	b.WriteString("\n")

	if len(omitted) > 0 {
		b.WriteString(r.omissionNote(omitted))
	}

	return b.String()
}

// Summary renders the post-table result count and pagination navigation
// hints, when the envelope carries pagination metadata.
func (r *Renderer) Summary(resp *SearchResponse, shown, from, size int) string {
	var b strings.Builder

	p := resp.Pagination()
	total := resp.TotalHits()
	if p != nil && p.GetTotal() >= 0 {
		total = p.GetTotal()
	}

	line := fmt.Sprintf("Showing %d results", shown)
	if total >= 0 && total != int64(shown) {
		line += fmt.Sprintf(" of %d total", total)
	}
	if p != nil && p.GetFrom() >= 0 {
		line += fmt.Sprintf(" (from position %d)", p.GetFrom())
	}
	fmt.Fprintf(&b, "\n%s\n", r.dimmed(line))

	if p == nil {
		return b.String()
	}

	sizeVal := p.GetSize()
	if sizeVal < 0 {
		sizeVal = int64(size)
	}

	var hints []string
	if prev := p.GetPrevFrom(); prev >= 0 {
		hints = append(hints, fmt.Sprintf("Previous: --from %d --size %d", prev, sizeVal))
	}
	if p.HasMore() {
		next := p.GetNextFrom()
		if next < 0 {
			next = int64(from) + sizeVal
		}
		hints = append(hints, fmt.Sprintf("Next: --from %d --size %d", next, sizeVal))
	}
	if len(hints) > 0 {
		fmt.Fprintf(&b, "%s\n", r.dimmed("Navigation: "+strings.Join(hints, " | ")))
	}

	return b.String()
}

// RenderCSV flattens records into one row per record, one column per
// requested field, in a fixed order across all rows. List and object values
// are serialized as their compact JSON form; CSV has no notion of "omit for
// readability". Highlight markers are rendering markup, not data, and are
// stripped.
func RenderCSV(records []gjson.Result, fields []string) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write(fields); err != nil {
		return "", err
	}

	row := make([]string, len(fields))
	for _, rec := range records {
		for i, f := range fields {
			v := fieldValue(rec, f)
			switch {
			case !v.Exists() || v.Type == gjson.Null:
				row[i] = ""
			case v.IsArray() || v.IsObject():
				row[i] = v.Raw
			default:
				row[i] = StripMarks(v.String())
			}
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	return b.String(), w.Error()
}

// IndentJSON pretty-prints a raw payload verbatim: no field filtering, no
// highlight stripping, no value mutation.
func IndentJSON(raw string) string {
	var b bytes.Buffer
	if err := json.Indent(&b, []byte(raw), "", "  "); err != nil {
		return raw
	}
	return b.String()
}
