package webamon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveFieldsDefaults(t *testing.T) {
	search, ret := ResolveFields(nil, nil, DefaultSearchFields)
	assert.Equal(t, DefaultSearchFields, search)
	assert.Equal(t, DefaultSearchFields, ret)
}

func TestResolveFieldsReturnFallsBackToResolvedSearch(t *testing.T) {
	// return fields fall back to the resolved search fields, not to the
	// defaults a second time.
	search, ret := ResolveFields([]string{"tag"}, nil, DefaultSearchFields)
	assert.Equal(t, []string{"tag"}, search)
	assert.Equal(t, []string{"tag"}, ret)
}

func TestResolveFieldsExplicitEmptyIsNotUnset(t *testing.T) {
	search, ret := ResolveFields([]string{}, nil, DefaultSearchFields)
	assert.Empty(t, search)
	assert.NotNil(t, search)
	assert.Empty(t, ret)

	search, ret = ResolveFields(nil, []string{}, DefaultSearchFields)
	assert.Equal(t, DefaultSearchFields, search)
	assert.NotNil(t, ret)
	assert.Empty(t, ret)
}

func TestResolveFieldsBothExplicit(t *testing.T) {
	search, ret := ResolveFields([]string{"dom"}, []string{"page_title"}, DefaultSearchFields)
	assert.Equal(t, []string{"dom"}, search)
	assert.Equal(t, []string{"page_title"}, ret)
}

func TestSplitFieldList(t *testing.T) {
	assert.Equal(t, []string{"a", "b.c"}, SplitFieldList("a, b.c"))
	assert.Equal(t, []string{"a"}, SplitFieldList(",a,,"))

	got := SplitFieldList("")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCredentialQueryQuotesHyphenatedTerms(t *testing.T) {
	assert.Equal(t, `domain:"bank-site.com" OR email:"bank-site.com"`, CredentialQuery("bank-site.com"))
	assert.Equal(t, `domain:bank.com OR email:bank.com`, CredentialQuery("bank.com"))
}

func TestReportQuery(t *testing.T) {
	assert.Equal(t, `report_id:"abc-123"`, ReportQuery("abc-123"))
}
