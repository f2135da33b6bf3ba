package webamon

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func records(jsons ...string) []gjson.Result {
	out := make([]gjson.Result, len(jsons))
	for i, j := range jsons {
		out[i] = gjson.Parse(j)
	}
	return out
}

func newTestRenderer() *Renderer {
	// io.Discard is not an *os.File, so color and TTY handling stay off.
	return NewRenderer(io.Discard)
}

func TestClassifyBoundaries(t *testing.T) {
	assert.Equal(t, simpleValue, classify(gjson.Parse(`"s"`)))
	assert.Equal(t, simpleValue, classify(gjson.Parse(`42`)))
	assert.Equal(t, smallList, classify(gjson.Parse(`[1,2,3]`)))
	assert.Equal(t, complexValue, classify(gjson.Parse(`[1,2,3,4]`)))
	assert.Equal(t, smallObject, classify(gjson.Parse(`{"a":1,"b":2}`)))
	assert.Equal(t, complexValue, classify(gjson.Parse(`{"a":1,"b":2,"c":3}`)))
}

func TestTableColumnOrderFollowsRequestedFields(t *testing.T) {
	r := newTestRenderer()
	recs := records(`{"alpha":"1","beta":"2"}`)

	out := r.Table("", recs, []string{"beta", "alpha"})

	assert.Less(t, strings.Index(out, "Beta"), strings.Index(out, "Alpha"))
}

func TestTableSmallListJoined(t *testing.T) {
	r := newTestRenderer()
	recs := records(`{"tags":["a","b","c"]}`)

	out := r.Table("", recs, []string{"tags"})
	assert.Contains(t, out, "a, b, c")
}

func TestTableListOfFourSummarized(t *testing.T) {
	r := newTestRenderer()
	// the second record keeps the column from being dropped outright.
	recs := records(
		`{"tags":["a","b","c","d"],"name":"x"}`,
		`{"tags":"none","name":"y"}`,
	)

	out := r.Table("", recs, []string{"tags", "name"})
	assert.Contains(t, out, "4 items")
	assert.NotContains(t, out, "a, b, c, d")
}

func TestTableSmallObjectFlattened(t *testing.T) {
	r := newTestRenderer()
	recs := records(`{"geo":{"country":"NL","city":"Amsterdam"}}`)

	out := r.Table("", recs, []string{"geo"})
	assert.Contains(t, out, "country:NL, city:Amsterdam")
}

func TestTableThreeKeyObjectNotFlattened(t *testing.T) {
	r := newTestRenderer()
	// second record keeps the column from being dropped outright.
	recs := records(
		`{"geo":{"a":1,"b":2,"c":3}}`,
		`{"geo":"none"}`,
	)

	out := r.Table("", recs, []string{"geo"})
	assert.Contains(t, out, "3 items")
	assert.NotContains(t, out, "a:1")
}

func TestTableDropsColumnComplexInEveryRow(t *testing.T) {
	r := newTestRenderer()
	recs := records(
		`{"dom":[1,2,3,4,5],"name":"a"}`,
		`{"dom":{"x":1,"y":2,"z":3},"name":"b"}`,
	)

	out := r.Table("", recs, []string{"name", "dom"})

	assert.Contains(t, out, "Complex fields omitted from table view: dom")
	// present exactly once: in the notice, not as a column.
	assert.Equal(t, 1, strings.Count(out, "dom"))
}

func TestTableKeepsColumnComplexInSomeRows(t *testing.T) {
	r := newTestRenderer()
	recs := records(
		`{"dom":[1,2,3,4,5]}`,
		`{"dom":"simple"}`,
	)

	out := r.Table("", recs, []string{"dom"})
	assert.Contains(t, out, "5 items")
	assert.Contains(t, out, "simple")
	assert.NotContains(t, out, "omitted from table view")
}

func TestTableMissingFieldRendersEmptyCell(t *testing.T) {
	r := newTestRenderer()
	recs := records(`{"name":"a"}`, `{"name":"b","extra":"x"}`)

	out := r.Table("", recs, []string{"name", "extra"})
	assert.Contains(t, out, "Extra")
	assert.Contains(t, out, "x")
}

func TestTableStripsMarksWithoutColor(t *testing.T) {
	r := newTestRenderer()
	recs := records(`{"page_title":"Welcome to <mark>example.com</mark> portal"}`)

	out := r.Table("", recs, []string{"page_title"})
	assert.Contains(t, out, "Welcome to example.com portal")
	assert.NotContains(t, out, markOpen)
}

func TestTableTitle(t *testing.T) {
	r := newTestRenderer()
	out := r.Table("Search Results for 'x'", records(`{"a":1}`), []string{"a"})
	assert.True(t, strings.HasPrefix(out, "Search Results for 'x'\n"))
}

func TestKeyValueTableUsesDocumentOrder(t *testing.T) {
	r := newTestRenderer()
	rec := gjson.Parse(`{"zeta":"1","alpha":"2"}`)

	out := r.KeyValueTable("Scan Report: x", rec, nil)

	assert.Contains(t, out, "Scan Report: x")
	assert.Less(t, strings.Index(out, "Zeta"), strings.Index(out, "Alpha"))
}

func TestKeyValueTableOmitsComplexFields(t *testing.T) {
	r := newTestRenderer()
	rec := gjson.Parse(`{"name":"a","dom":[1,2,3,4,5]}`)

	out := r.KeyValueTable("", rec, nil)
	assert.Contains(t, out, "Complex fields omitted from table view: dom")
}

func TestHeaderize(t *testing.T) {
	assert.Equal(t, "Page Title", headerize("page_title"))
	assert.Equal(t, "Domain.Name", headerize("domain.name"))
	assert.Equal(t, "Tag", headerize("tag"))
}

func TestFieldValueFlatKeyBeatsPath(t *testing.T) {
	flat := gjson.Parse(`{"domain.name":"flat"}`)
	assert.Equal(t, "flat", fieldValue(flat, "domain.name").String())

	nested := gjson.Parse(`{"domain":{"name":"nested"}}`)
	assert.Equal(t, "nested", fieldValue(nested, "domain.name").String())
}

func TestRenderCSVFixedColumnsAndComplexJSON(t *testing.T) {
	recs := records(
		`{"name":"a","tags":["x","y","z","w"],"meta":{"k":1,"j":2,"l":3}}`,
		`{"name":"b"}`,
	)

	out, err := RenderCSV(recs, []string{"name", "tags", "meta"})
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"name", "tags", "meta"}, rows[0])
	assert.Equal(t, "a", rows[1][0])
	assert.Equal(t, `["x","y","z","w"]`, rows[1][1])
	assert.Equal(t, `{"k":1,"j":2,"l":3}`, rows[1][2])

	// record without the fields still yields a full-width row.
	assert.Equal(t, []string{"b", "", ""}, rows[2])
}

func TestRenderCSVStripsMarks(t *testing.T) {
	recs := records(`{"page_title":"hit <mark>here</mark>"}`)

	out, err := RenderCSV(recs, []string{"page_title"})
	require.NoError(t, err)
	assert.Contains(t, out, "hit here")
	assert.NotContains(t, out, markOpen)
}

func TestIndentJSONPreservesPayload(t *testing.T) {
	raw := `{"results":[{"page_title":"<mark>hit</mark>","dom":{"a":[1,2,3,4]}}],"total_hits":9}`

	out := IndentJSON(raw)

	var got, want any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.NoError(t, json.Unmarshal([]byte(raw), &want))
	assert.Equal(t, want, got)
	assert.Contains(t, out, markOpen)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("TABLE")
	assert.NoError(t, err)
	assert.Equal(t, FormatTable, f)

	_, err = ParseFormat("xml")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestSummaryWithPagination(t *testing.T) {
	r := newTestRenderer()
	resp := ParseSearchResponse([]byte(`{
		"results": [{}, {}],
		"total_hits": 40,
		"pagination": {"total": 40, "from": 10, "size": 2, "has_more": true, "next_from": 12, "prev_from": 8}
	}`))

	out := r.Summary(resp, 2, 10, 2)

	assert.Contains(t, out, "Showing 2 results of 40 total")
	assert.Contains(t, out, "(from position 10)")
	assert.Contains(t, out, "Previous: --from 8 --size 2")
	assert.Contains(t, out, "Next: --from 12 --size 2")
}

func TestSummaryWithoutPagination(t *testing.T) {
	r := newTestRenderer()
	resp := ParseSearchResponse([]byte(`{"results":[{}],"total_hits":5}`))

	out := r.Summary(resp, 1, 0, 10)
	assert.Contains(t, out, "Showing 1 results of 5 total")
	assert.NotContains(t, out, "Navigation:")
}
