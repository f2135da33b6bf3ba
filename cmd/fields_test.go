package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestFieldEntriesObjectShape(t *testing.T) {
	raw := gjson.Parse(`{"fields":[
		{"field":"domain.name","type":"keyword"},
		{"field":"page_title","type":"text"},
		{"name":"tag","type":"keyword"}
	]}`)

	entries := fieldEntries(raw)
	assert.Equal(t, map[string]string{
		"domain.name": "keyword",
		"page_title":  "text",
		"tag":         "keyword",
	}, entries)
}

func TestFieldEntriesStringShape(t *testing.T) {
	raw := gjson.Parse(`["domain.name","tag"]`)
	entries := fieldEntries(raw)
	assert.Equal(t, map[string]string{"domain.name": "", "tag": ""}, entries)
}

func TestFieldTreeGroupsByPrefix(t *testing.T) {
	out := fieldTree(map[string]string{
		"domain.name":      "keyword",
		"domain.registrar": "keyword",
		"page_title":       "text",
	})

	// one shared "domain" branch with two leaves.
	assert.Equal(t, 1, strings.Count(out, "domain\n"))
	assert.Contains(t, out, "name (keyword)")
	assert.Contains(t, out, "registrar (keyword)")
	assert.Contains(t, out, "page_title (text)")
}

func TestRecordFields(t *testing.T) {
	recs := []gjson.Result{gjson.Parse(`{"b":1,"a":2}`)}
	assert.Equal(t, []string{"b", "a"}, recordFields(recs))
	assert.Nil(t, recordFields(nil))
}
