package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ledger-resolve/internal/ledger"
	"github.com/ledger-resolve/internal/normalize"
	"github.com/ledger-resolve/internal/phonetics"
)

// createPingCmd creates a command to test ledger connectivity
func createPingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Test ledger connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			src, closeFn, err := a.openSource(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			schema, err := src.Schema(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "Ledger connection successful!")
			fmt.Fprintf(w, "Table %s: %d columns\n", schema.Table, len(schema.Columns))
			if mem, ok := src.(*ledger.MemorySource); ok {
				fmt.Fprintf(w, "Rows loaded: %d\n", mem.Len())
			}
			return nil
		},
	}
}

// createSchemaCmd creates a command that prints the discovered columns
func createSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Show ledger columns and the matching features they enable",
		RunE: func(cmd *cobra.Command, args []string) error {
			src, closeFn, err := a.openSource(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			schema, err := src.Schema(cmd.Context())
			if err != nil {
				return err
			}
			caps := ledger.CapabilitiesOf(schema)

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Table: %s\n", schema.Table)
			fmt.Fprintf(w, "Columns: %s\n", strings.Join(schema.Columns, ", "))
			fmt.Fprintf(w, "  %-14s %v\n", ledger.ColumnName, caps.HasName)
			fmt.Fprintf(w, "  %-14s %v\n", ledger.ColumnPhonetic, caps.HasPhonetic)
			fmt.Fprintf(w, "  %-14s %v\n", ledger.ColumnAddress, caps.HasAddress)
			fmt.Fprintf(w, "  %-14s %v\n", ledger.ColumnMobile, caps.HasMobile)
			fmt.Fprintf(w, "  %-14s %v\n", ledger.ColumnIdentifier, caps.HasIdentifier)
			if !caps.HasPhonetic {
				fmt.Fprintln(w, "Blocking falls back to exact name matches")
			}
			return nil
		},
	}
}

// createKeysCmd creates a command that shows how text is normalised and encoded
func createKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys <text>",
		Short: "Show normalisation, romanisation and phonetic keys for a name or blob",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			script := normalize.DetectScript(text)
			primary, alternate := phonetics.Codes(text)

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Script:     %s\n", script)
			fmt.Fprintf(w, "Normalized: %s\n", normalize.NormalizeName(text))
			fmt.Fprintf(w, "Romanized:  %s\n", script.Romanize(text))
			fmt.Fprintf(w, "Comparison: %s\n", normalize.ComparisonForm(text))
			fmt.Fprintf(w, "Metaphone:  %s / %s\n", primary, alternate)
			if codes := normalize.ExtractIdentifiers(text); len(codes) > 0 {
				fmt.Fprintf(w, "PANs:       %s\n", strings.Join(codes, ", "))
			}
			if names := normalize.ExtractNames(text); len(names) > 0 {
				fmt.Fprintf(w, "Names:      %s\n", strings.Join(names, " | "))
			}
			return nil
		},
	}
}
