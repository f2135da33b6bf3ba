package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/webamon/webamon-cli/pkg/config"
	"github.com/webamon/webamon-cli/pkg/webamon"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Configure API connection settings",
	Long: `Configure API connection settings.

With no --api-key the command prompts for one (press Enter to stay on the
free tier). The configuration is validated against the API and saved only
after a successful connection. --show dumps the effective configuration in
YAML without saving anything.`,
	Args: cobra.NoArgs,
	RunE: runConfigure,
}

var (
	configureKey  string
	configureShow bool
)

// promptAPIKey reads a key from the terminal without echoing it; non-TTY
// stdin falls back to a plain line read so the command stays scriptable.
func promptAPIKey() (string, error) {
	fmt.Fprint(os.Stderr, "API key (optional, press Enter to skip): ")

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		key, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading API key: %w", err)
		}
		return strings.TrimSpace(string(key)), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", nil
	}
	return strings.TrimSpace(line), nil
}

func runConfigure(cmd *cobra.Command, args []string) error {
	if configureShow {
		cfg := loadConfig()
		effective := &config.Config{
			APIKey:  cfg.ResolveAPIKey(configureKey),
			Verbose: cfg.GetVerbose() || verbose,
		}
		y, err := yaml.Marshal(effective)
		if err != nil {
			return fmt.Errorf("marshalling config to yaml: %w", err)
		}
		fmt.Print(string(y))
		return nil
	}

	key := configureKey
	if key == "" && !cmd.Flags().Changed("api-key") {
		var err error
		if key, err = promptAPIKey(); err != nil {
			return err
		}
	}

	cfg := &config.Config{APIKey: key, Verbose: verbose}

	client := webamon.NewClient(webamon.WithAPIKey(key))
	if key != "" {
		fmt.Println("Using pro endpoint (API key detected)")
	} else {
		fmt.Println("Using free endpoint (no API key)")
	}
	fmt.Printf("Testing connection to %s...\n", client.BaseURL())

	if err := client.TestConnection(context.Background()); err != nil {
		fmt.Printf("%s Configuration test failed\n", color.Red.Render("✗"))
		if key != "" {
			fmt.Printf("  - API URL: %s\n", client.BaseURL())
			fmt.Printf("  - API key length: %d characters\n", len(key))
			fmt.Println("  - Authentication uses the x-api-key header")
			fmt.Println("  - Ensure your API key is valid and has the correct permissions")
		}
		return err
	}

	fmt.Printf("%s Configuration valid, API connection successful\n", color.Green.Render("✓"))

	path, err := cfg.Save(configFile)
	if err != nil {
		return err
	}
	fmt.Printf("%s Configuration saved to %s\n", color.Green.Render("✓"), path)
	return nil
}

func init() {
	// shadows the persistent root --api-key; the local value wins here.
	configureCmd.Flags().StringVar(&configureKey, "api-key", "", "API key (optional, enables pro features)")
	configureCmd.Flags().BoolVar(&configureShow, "show", false, "Show the effective configuration in YAML and exit")

	rootCmd.AddCommand(configureCmd)
}
