package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// lookupCmd represents the lookup command
var lookupCmd = &cobra.Command{
	Use:   "lookup <line>",
	Short: "Resolve a single line and print its synonyms and sentences",
	Long: `Lookup resolves one line the same way run does, without reading a
words file or writing a spreadsheet.

Example:
  synsheet lookup happy
  synsheet lookup "fast/quick" --synonyms 5`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	addLookupFlags(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	line := strings.TrimSpace(args[0])
	if line == "" {
		return fmt.Errorf("nothing to look up")
	}

	cfg := buildConfig(cmd)

	resolver, err := newResolver(cfg)
	if err != nil {
		return err
	}

	result, err := resolver.Resolve(context.Background(), line)
	if err != nil {
		return err
	}

	fmt.Printf("word:      %s\n", result.Line)
	fmt.Printf("synonyms:  %s\n", strings.Join(result.Synonyms, ", "))
	fmt.Printf("sentences: %s\n", strings.Join(result.Sentences, " | "))

	return nil
}
