package webamon

import (
	"fmt"
	"strings"
)

// DefaultSearchFields is the field set used by general searches when the
// caller does not name one.
var DefaultSearchFields = []string{"page_title", "domain.name", "resolved_url", "dom", "tag"}

// DefaultCredentialFields is the narrower default used by the compromised
// credential (infostealer) search.
var DefaultCredentialFields = []string{"email", "username", "password", "domain"}

// ResolveFields computes the effective (search_fields, return_fields) pair.
//
// A nil slice means "unset" and triggers the fallback; a non-nil empty slice
// is an explicit choice and is passed through untouched. Resolution order
// matters: search fields resolve first, and unset return fields fall back to
// the *resolved* search fields, not to the defaults a second time.
func ResolveFields(searchFields, returnFields, defaults []string) (search, ret []string) {
	search = searchFields
	if search == nil {
		search = defaults
	}

	ret = returnFields
	if ret == nil {
		ret = search
	}

	return search, ret
}

// SplitFieldList splits a comma-separated field list into clean field names.
// An empty input yields an empty (non-nil) slice: the caller said "no
// fields", which is not the same as not saying anything.
func SplitFieldList(s string) []string {
	fields := []string{}
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// CredentialQuery builds the boolean lucene query used by the infostealer
// search for a raw domain term. Unquoted hyphens are operators to the query
// tokenizer, so hyphenated terms are wrapped in double quotes.
func CredentialQuery(term string) string {
	if strings.Contains(term, "-") {
		term = fmt.Sprintf("%q", term)
	}
	return fmt.Sprintf("domain:%s OR email:%s", term, term)
}

// ReportQuery builds the lucene lookup for a single report id.
func ReportQuery(reportID string) string {
	return fmt.Sprintf("report_id:%q", reportID)
}
