package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/xlab/treeprint"

	"github.com/webamon/webamon-cli/pkg/webamon"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the queryable fields known to the remote schema",
	Long: `List the queryable fields known to the remote schema.

Dot-path field names are grouped into a tree by prefix, so related fields
("domain.name", "domain.registrar") hang off a shared branch. Use --filter to
narrow the list and --format json for the raw schema payload.`,
	Example: `  webamon fields
  webamon fields --filter domain
  webamon fields --format json`,
	Args: cobra.NoArgs,
	RunE: runFields,
}

var (
	fieldsFilter string
	fieldsFormat = "tree"
)

// fieldEntries extracts (name, type) pairs from the schema payload. Entries
// are either bare strings or objects carrying field/name and type keys.
func fieldEntries(raw gjson.Result) map[string]string {
	list := raw
	if v := raw.Get("fields"); v.Exists() {
		list = v
	}

	entries := map[string]string{}
	for _, e := range list.Array() {
		if e.IsObject() {
			name := e.Get("field").String()
			if name == "" {
				name = e.Get("name").String()
			}
			if name != "" {
				entries[name] = e.Get("type").String()
			}
			continue
		}
		if s := e.String(); s != "" {
			entries[s] = ""
		}
	}
	return entries
}

// fieldTree renders dot-path field names as a tree grouped by prefix.
func fieldTree(entries map[string]string) string {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	tree := treeprint.NewWithRoot("fields")
	branches := map[string]treeprint.Tree{"": tree}

	for _, name := range names {
		parts := strings.Split(name, ".")
		prefix := ""
		for i, part := range parts {
			path := strings.Join(parts[:i+1], ".")
			if _, ok := branches[path]; !ok {
				label := part
				if i == len(parts)-1 && entries[name] != "" {
					label = fmt.Sprintf("%s (%s)", part, entries[name])
				}
				branches[path] = branches[prefix].AddBranch(label)
			}
			prefix = path
		}
	}

	return tree.String()
}

func runFields(cmd *cobra.Command, args []string) error {
	if fieldsFormat != "tree" && fieldsFormat != "json" {
		return &webamon.ValidationError{Message: fmt.Sprintf("invalid format %q (must be tree or json)", fieldsFormat)}
	}

	cfg := loadConfig()
	client, stopSpinner := newClient(cfg)
	defer stopSpinner()

	raw, err := client.Fields(context.Background(), fieldsFilter)
	stopSpinner()
	if err != nil {
		return err
	}

	if fieldsFormat == "json" {
		fmt.Println(webamon.IndentJSON(raw.Raw))
		return nil
	}

	entries := fieldEntries(raw)
	if len(entries) == 0 {
		fmt.Println(webamon.IndentJSON(raw.Raw))
		return nil
	}

	fmt.Print(fieldTree(entries))
	fmt.Printf("%d fields\n", len(entries))
	return nil
}

func init() {
	fieldsCmd.Flags().StringVar(&fieldsFilter, "filter", "", "Only show fields containing this substring")
	fieldsCmd.Flags().StringVar(&fieldsFormat, "format", fieldsFormat, "Output format (tree / json)")

	rootCmd.AddCommand(fieldsCmd)
}
