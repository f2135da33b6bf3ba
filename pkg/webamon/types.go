package webamon

import "github.com/tidwall/gjson"

// SearchResponse wraps a raw search API payload. The backend has returned
// several envelope shapes over time (results under "results", under "data",
// or a bare top-level array), so accessors probe rather than assume.
type SearchResponse struct {
	raw gjson.Result
}

// ParseSearchResponse parses a raw response body.
func ParseSearchResponse(body []byte) *SearchResponse {
	return &SearchResponse{raw: gjson.ParseBytes(body)}
}

// WrapResponse wraps an already-parsed payload.
func WrapResponse(raw gjson.Result) *SearchResponse {
	return &SearchResponse{raw: raw}
}

// Raw returns the unmodified parsed payload.
func (r *SearchResponse) Raw() gjson.Result {
	if r == nil {
		return gjson.Result{}
	}
	return r.raw
}

// Results returns the result records, wherever the envelope put them.
func (r *SearchResponse) Results() []gjson.Result {
	if r == nil {
		return nil
	}

	data := r.raw
	if v := r.raw.Get("results"); v.Exists() {
		data = v
	} else if v := r.raw.Get("data"); v.Exists() {
		data = v
	}

	if !data.IsArray() {
		return nil
	}
	return data.Array()
}

// TotalHits returns the total match count, or -1 when the envelope does not
// carry one.
func (r *SearchResponse) TotalHits() int64 {
	if r == nil {
		return -1
	}
	if v := r.raw.Get("total_hits"); v.Exists() {
		return v.Int()
	}
	return -1
}

// Pagination returns the pagination block, or nil when absent.
func (r *SearchResponse) Pagination() *Pagination {
	if r == nil {
		return nil
	}
	v := r.raw.Get("pagination")
	if !v.IsObject() {
		return nil
	}
	return &Pagination{raw: v}
}

// Pagination is the optional cursor block in a search envelope. All getters
// are nil-safe; missing numeric fields report -1.
type Pagination struct {
	raw gjson.Result
}

func (p *Pagination) intField(name string) int64 {
	if p == nil {
		return -1
	}
	if v := p.raw.Get(name); v.Exists() {
		return v.Int()
	}
	return -1
}

func (p *Pagination) GetTotal() int64    { return p.intField("total") }
func (p *Pagination) GetFrom() int64     { return p.intField("from") }
func (p *Pagination) GetSize() int64     { return p.intField("size") }
func (p *Pagination) GetNextFrom() int64 { return p.intField("next_from") }
func (p *Pagination) GetPrevFrom() int64 { return p.intField("prev_from") }

func (p *Pagination) HasMore() bool {
	if p == nil {
		return false
	}
	return p.raw.Get("has_more").Bool()
}
