package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/savioxavier/termlink"
	"github.com/spf13/cobra"

	"github.com/webamon/webamon-cli/pkg/webamon"
)

var scanCmd = &cobra.Command{
	Use:   "scan URL",
	Short: "Initiate a scan for the specified target",
	Long: `Initiate a scan for the specified target domain or URL.

Returns a report ID that can be used with 'webamon report' and
'webamon screenshot' once the scan completes. Use --fetch-report to pull the
detailed report immediately after initiation.`,
	Example: `  webamon scan example.com
  webamon scan https://example.com --fetch-report
  webamon scan example.com --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

var (
	scanFetchReport bool
	scanFormat      = "table"
)

// linkReport wraps a report id in a terminal hyperlink to the web UI when
// the terminal supports it.
func linkReport(reportID string) string {
	if !termlink.SupportsHyperlinks() {
		return reportID
	}
	return termlink.Link(reportID, fmt.Sprintf("%s/report/%s", webamon.FreeBaseURL, reportID))
}

func runScan(cmd *cobra.Command, args []string) error {
	format, err := webamon.ParseFormat(scanFormat)
	if err != nil {
		return err
	}
	if format == webamon.FormatCSV {
		return &webamon.ValidationError{Message: "scan output cannot be rendered as csv"}
	}

	target := args[0]

	cfg := loadConfig()
	client, stopSpinner := newClient(cfg)
	defer stopSpinner()

	ctx := context.Background()

	raw, err := client.Scan(ctx, target)
	stopSpinner()
	if err != nil {
		return err
	}

	reportID := raw.Get("report_id").String()
	if reportID == "" {
		reportID = raw.Get("id").String()
	}

	if format == webamon.FormatJSON {
		fmt.Println(webamon.IndentJSON(raw.Raw))
	} else {
		fmt.Printf("%s Scan initiated for: %s\n", color.Green.Render("✓"), target)

		r := webamon.NewRenderer(os.Stdout, renderOpts()...)
		fmt.Print(r.KeyValueTable("Scan Details", raw, nil))

		if reportID != "" {
			fmt.Printf("\n%s %s\n", color.Yellow.Render("Report ID:"), linkReport(reportID))
			if !scanFetchReport {
				fmt.Println("Use this ID with 'webamon report' to get the scan results")
				fmt.Println("Or use 'webamon screenshot' to get the screenshot")
			}
		}
	}

	if !scanFetchReport {
		return nil
	}
	if reportID == "" {
		fmt.Printf("\n%s --fetch-report used but no report_id found in scan response\n", color.Yellow.Render("Warning:"))
		return nil
	}

	report, err := client.SearchLucene(ctx, webamon.ReportQuery(reportID), scansIndex, nil, 1, 0)
	stopSpinner()
	if err != nil {
		// the scan itself succeeded, so a report fetch failure is advisory.
		fmt.Printf("\n%s failed to fetch report: %v\n", color.Yellow.Render("Warning:"), err)
		fmt.Printf("You can fetch it later with: webamon report %s\n", reportID)
		return nil
	}

	fmt.Printf("\nReport %s:\n", reportID)
	fmt.Println(webamon.IndentJSON(report.Raw))
	return nil
}

func init() {
	scanCmd.Flags().BoolVar(&scanFetchReport, "fetch-report", false, "Automatically fetch the detailed report after scan initiation")
	scanCmd.Flags().StringVar(&scanFormat, "format", scanFormat, "Output format (table / json)")

	rootCmd.AddCommand(scanCmd)
}
