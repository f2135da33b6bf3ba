package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/webamon/webamon-cli/pkg/webamon"
)

var reportCmd = &cobra.Command{
	Use:   "report REPORT_ID",
	Short: "Get a specific scan report by report ID",
	Long: `Get a specific scan report by report ID.

This is a convenience command that looks the report up with
report_id:"REPORT_ID" in the scans index.`,
	Example: `  webamon report bf18c02d-ff0e-46a9-9a59-5b7b94fb27fb
  webamon report bf18c02d-ff0e-46a9-9a59-5b7b94fb27fb --format table`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

// reports default to json: the full nested payload is usually what you want.
var reportFormat = "json"

const scansIndex = "scans"

func runReport(cmd *cobra.Command, args []string) error {
	if reportFormat != "json" && reportFormat != "table" {
		return &webamon.ValidationError{Message: fmt.Sprintf("invalid format %q (must be json or table)", reportFormat)}
	}

	reportID := args[0]

	cfg := loadConfig()
	client, stopSpinner := newClient(cfg)
	defer stopSpinner()

	raw, err := client.SearchLucene(context.Background(), webamon.ReportQuery(reportID), scansIndex, nil, 1, 0)
	stopSpinner()
	if err != nil {
		return err
	}

	resp := webamon.WrapResponse(raw)

	if reportFormat == "json" {
		fmt.Println(webamon.IndentJSON(raw.Raw))
		return nil
	}

	records := resp.Results()
	switch {
	case len(records) == 0:
		return &webamon.NotFoundError{Resource: fmt.Sprintf("report %s", reportID)}
	case len(records) > 1:
		// report ids are unique; more than one hit means something upstream
		// is off, so show everything.
		fmt.Printf("%s found %d reports with ID %s\n", color.Yellow.Render("Warning:"), len(records), reportID)
		fmt.Println(webamon.IndentJSON(raw.Raw))
		return nil
	}

	r := webamon.NewRenderer(os.Stdout, renderOpts()...)
	fmt.Print(r.KeyValueTable(fmt.Sprintf("Scan Report: %s", reportID), records[0], nil))
	return nil
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", reportFormat, "Output format (json / table)")

	rootCmd.AddCommand(reportCmd)
}
