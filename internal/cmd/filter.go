package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/plumb/internal/filtering"
	"github.com/harrison/plumb/internal/models"
)

// NewFilterCommand creates the filter command
func NewFilterCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "filter [token]...",
		Short: "Filter list entries from stdin",
		Long: `Read entries ("path;tag1 tag2", one per line) from stdin and print the
ones accepted by the filtering tokens given as arguments.

Tokens use the serialized form of a filter instruction, e.g.
  --with-path-starting src/ --without-tag-starting fix:
Unknown flags are ignored together with their values.

Example:
  git ls-files | plumb filter --with-extension .go --without-path-segment testdata`,
		DisableFlagParsing: true,
		RunE:               runFilter,
	}
}

func runFilter(cmd *cobra.Command, args []string) error {
	predicate := filtering.Deserialize(args)

	infos, err := models.ParsePathList(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("failed to read entries: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, info := range filtering.Apply(predicate, infos) {
		fmt.Fprintln(out, info.String())
	}
	return nil
}
