package cmd

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/webamon/webamon-cli/pkg/webamon"
)

var infostealersCmd = &cobra.Command{
	Use:   "infostealers DOMAIN",
	Short: "Search compromised credentials harvested by infostealer malware",
	Long: `Search the infostealer index for credentials tied to a domain.

DOMAIN is matched against both the credential's domain and email fields.
Hyphenated domains are quoted automatically so the query tokenizer does not
treat the hyphen as an operator.

Default fields: ` + "`email,username,password,domain`" + `.`,
	Example: `  webamon infostealers bank.com
  webamon infostealers bank-site.com --size 50 --format csv
  webamon infostealers bank.com --fields email,password`,
	Args: cobra.ExactArgs(1),
	RunE: runInfostealers,
}

var (
	stealerSize   int
	stealerFrom   int
	stealerExport string
	stealerFormat = "table"
)

const infostealerIndex = "infostealers"

func runInfostealers(cmd *cobra.Command, args []string) error {
	format, err := webamon.ParseFormat(stealerFormat)
	if err != nil {
		return err
	}

	domain := args[0]
	query := webamon.CredentialQuery(domain)
	log.Debugf("credential query: %s", query)

	_, fields := webamon.ResolveFields(fieldListFlag(cmd, "fields"), nil, webamon.DefaultCredentialFields)

	cfg := loadConfig()
	client, stopSpinner := newClient(cfg)
	defer stopSpinner()

	if stealerFrom > 0 && !client.HasAPIKey() {
		log.Warn("pagination is only available for pro users with API keys; --from will be ignored")
		stealerFrom = 0
	}

	raw, err := client.SearchLucene(context.Background(), query, infostealerIndex, fields, stealerSize, stealerFrom)
	stopSpinner()
	if err != nil {
		return err
	}

	resp := webamon.WrapResponse(raw)
	title := fmt.Sprintf("Compromised Credentials for '%s'", domain)
	if total := resp.TotalHits(); total >= 0 {
		title = fmt.Sprintf("%s (%d total matches)", title, total)
	}

	return renderResults(resp, fields, format, title, domain, stealerExport, stealerFrom, stealerSize)
}

func init() {
	infostealersCmd.Flags().IntVarP(&stealerSize, "size", "s", 10, "Number of results to return (max: 100)")
	infostealersCmd.Flags().IntVar(&stealerFrom, "from", 0, "Starting offset for pagination (pro users only)")
	infostealersCmd.Flags().String("fields", "", "Comma-separated list of fields to return")
	infostealersCmd.Flags().StringVar(&stealerExport, "export", "", "Export rendered output to a file (CSV exports automatically)")
	infostealersCmd.Flags().StringVar(&stealerFormat, "format", stealerFormat, "Output format (table / json / csv)")

	rootCmd.AddCommand(infostealersCmd)
}
