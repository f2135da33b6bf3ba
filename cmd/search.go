package cmd

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/webamon/webamon-cli/pkg/webamon"
)

var searchCmd = &cobra.Command{
	Use:   "search TERM [FIELDS]",
	Short: "Search the Webamon threat intelligence database",
	Long: `Search the Webamon threat intelligence database.

TERM is the search term (IP, domain, URL, hash, ...), or a raw lucene query
when --lucene is set. FIELDS is an optional comma-separated list of fields to
search within and return; it defaults to ` + "`page_title,domain.name,resolved_url,dom,tag`" + `.

Table format simplifies complex nested data for readability and highlights
search matches. Use --format json to see complete data including all nested
fields; --format csv exports automatically.`,
	Example: `  # basic search (uses default fields)
  webamon search example.com
  webamon search example.com --size 20

  # custom fields
  webamon search example.com domain.name,resolved_url

  # lucene query syntax (requires --index)
  webamon search --lucene 'domain.name:"bank*" AND scan_status:success' --index scans

  # pagination (pro users only)
  webamon search example.com --from 10 --size 25`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSearch,
}

var (
	searchSize   int
	searchFrom   int
	searchLucene bool
	searchIndex  string
	searchExport string
	searchFormat = "table"
)

func runSearch(cmd *cobra.Command, args []string) error {
	format, err := webamon.ParseFormat(searchFormat)
	if err != nil {
		return err
	}

	if searchLucene && searchIndex == "" {
		return &webamon.ValidationError{Message: "--index is required when using --lucene"}
	}

	term := args[0]

	var searchFields []string
	if len(args) > 1 {
		searchFields = webamon.SplitFieldList(args[1])
	}
	returnFields := fieldListFlag(cmd, "fields")

	cfg := loadConfig()
	client, stopSpinner := newClient(cfg)
	defer stopSpinner()

	if searchFrom > 0 && !client.HasAPIKey() {
		log.Warn("pagination is only available for pro users with API keys; --from will be ignored")
		searchFrom = 0
	}

	ctx := context.Background()

	var raw gjson.Result
	if searchLucene {
		// lucene mode passes the query through verbatim; only --fields
		// shapes the projection.
		raw, err = client.SearchLucene(ctx, term, searchIndex, returnFields, searchSize, searchFrom)
	} else {
		search, ret := webamon.ResolveFields(searchFields, returnFields, webamon.DefaultSearchFields)
		returnFields = ret
		raw, err = client.Search(ctx, term, search, ret, searchSize, searchFrom)
	}
	stopSpinner()
	if err != nil {
		return err
	}

	resp := webamon.WrapResponse(raw)
	title := fmt.Sprintf("Search Results for '%s'", term)
	if total := resp.TotalHits(); total >= 0 {
		title = fmt.Sprintf("%s (%d total matches)", title, total)
	}

	return renderResults(resp, returnFields, format, title, term, searchExport, searchFrom, searchSize)
}

// renderResults handles the table/json/csv fan-out shared by the search-like
// commands.
func renderResults(resp *webamon.SearchResponse, fields []string, format webamon.Format, title, term, exportPath string, from, size int) error {
	records := resp.Results()

	switch format {
	case webamon.FormatJSON:
		emit(webamon.IndentJSON(resp.Raw().Raw)+"\n", webamon.ExportPath(format, exportPath, term))
		return nil

	case webamon.FormatCSV:
		if fields == nil {
			fields = recordFields(records)
		}
		artifact, err := webamon.RenderCSV(records, fields)
		if err != nil {
			return err
		}
		emit(artifact, webamon.ExportPath(format, exportPath, term))
		return nil
	}

	if len(records) == 0 {
		// nothing tabular to show, fall back to the raw payload.
		fmt.Println(webamon.IndentJSON(resp.Raw().Raw))
		return nil
	}

	if fields == nil {
		fields = recordFields(records)
	}

	path := webamon.ExportPath(format, exportPath, term)
	opts := renderOpts()
	if path != "" {
		// no escape sequences in files.
		opts = append(opts, "no-colors")
	}

	r := webamon.NewRenderer(os.Stdout, opts...)
	artifact := r.Table(title, records, fields)
	artifact += r.Summary(resp, len(records), from, size)
	emit(artifact, path)
	return nil
}

func init() {
	searchCmd.Flags().IntVarP(&searchSize, "size", "s", 10, "Number of results to return (max: 100)")
	searchCmd.Flags().IntVar(&searchFrom, "from", 0, "Starting offset for pagination (pro users only)")
	searchCmd.Flags().BoolVar(&searchLucene, "lucene", false, "Use lucene query syntax")
	searchCmd.Flags().StringVar(&searchIndex, "index", "", "Index to search (required for lucene queries)")
	searchCmd.Flags().String("fields", "", "Comma-separated list of fields to return")
	searchCmd.Flags().StringVar(&searchExport, "export", "", "Export rendered output to a file (CSV exports automatically)")
	searchCmd.Flags().StringVar(&searchFormat, "format", searchFormat, "Output format (table / json / csv)")

	rootCmd.AddCommand(searchCmd)
}
