package cmd

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/webamon/webamon-cli/pkg/webamon"
)

var screenshotCmd = &cobra.Command{
	Use:   "screenshot REPORT_ID",
	Short: "Retrieve the screenshot for a specific scan report",
	Example: `  webamon screenshot bf18c02d-ff0e-46a9-9a59-5b7b94fb27fb
  webamon screenshot bf18c02d-ff0e-46a9-9a59-5b7b94fb27fb --save page.png`,
	Args: cobra.ExactArgs(1),
	RunE: runScreenshot,
}

var (
	screenshotSave   string
	screenshotFormat = "info"
)

func runScreenshot(cmd *cobra.Command, args []string) error {
	if screenshotFormat != "info" && screenshotFormat != "json" {
		return &webamon.ValidationError{Message: fmt.Sprintf("invalid format %q (must be info or json)", screenshotFormat)}
	}

	reportID := args[0]

	cfg := loadConfig()
	client, stopSpinner := newClient(cfg)
	defer stopSpinner()

	raw, err := client.Screenshot(context.Background(), reportID)
	stopSpinner()
	if err != nil {
		return err
	}

	if screenshotFormat == "json" {
		fmt.Println(webamon.IndentJSON(raw.Raw))
		return nil
	}

	data := raw.Get("report.screenshot")
	if !data.Exists() {
		return &webamon.NotFoundError{Resource: fmt.Sprintf("screenshot for report %s", reportID)}
	}
	encoded := data.String()

	if screenshotSave == "" {
		fmt.Printf("%s Screenshot retrieved for report: %s\n", color.Green.Render("✓"), reportID)
		fmt.Printf("Data size: %d characters\n", len(encoded))
		fmt.Println("Use --save filename.png to save the screenshot")
		return nil
	}

	// strip any data URL prefix before decoding.
	if strings.HasPrefix(encoded, "data:image") {
		if _, after, ok := strings.Cut(encoded, ","); ok {
			encoded = after
		}
	}

	img, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("decoding screenshot data: %w", err)
	}

	if err := os.WriteFile(screenshotSave, img, 0o644); err != nil {
		return fmt.Errorf("saving screenshot: %w", err)
	}

	fmt.Printf("%s Screenshot saved to: %s\n", color.Green.Render("✓"), screenshotSave)
	return nil
}

func init() {
	screenshotCmd.Flags().StringVarP(&screenshotSave, "save", "o", "", "Save screenshot to file")
	screenshotCmd.Flags().StringVar(&screenshotFormat, "format", screenshotFormat, "Output format (info / json)")

	rootCmd.AddCommand(screenshotCmd)
}
