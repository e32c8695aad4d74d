package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"lifdb/internal/metadata"
	"lifdb/internal/store"
	"lifdb/internal/ux"
)

var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Inspect and update the dataset metadata mirrors",
}

var metadataUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Reconcile the metadata mirrors with the stored values",
	Long: `Compares the categorical values stored in the database (user,
subset_name, task, used_in) with the enumerations in the JSON/YAML
metadata mirrors and asks for a description of every value the metadata
does not know yet. Both mirrors are rewritten, last with the refreshed
row count.`,
	Args: cobra.NoArgs,
	RunE: runMetadataUpdate,
}

var metadataShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print a summary of the metadata",
	Args:  cobra.NoArgs,
	RunE:  runMetadataShow,
}

func init() {
	metadataCmd.AddCommand(metadataUpdateCmd)
	metadataCmd.AddCommand(metadataShowCmd)
}

func runMetadataUpdate(cmd *cobra.Command, args []string) error {
	st, err := store.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	jsonPath, yamlPath := metadata.MirrorPaths(cfg.Database)
	printer.Info("Loading metadata...")
	m, err := metadata.ReadJSON(jsonPath)
	if err != nil {
		return err
	}
	printer.Info("Metadata loaded")

	prompter := ux.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	return metadata.Reconcile(st, m, jsonPath, yamlPath, prompter, printer)
}

func runMetadataShow(cmd *cobra.Command, args []string) error {
	jsonPath, _ := metadata.MirrorPaths(cfg.Database)
	m, err := metadata.ReadJSON(jsonPath)
	if err != nil {
		return err
	}

	if m.Title != "" {
		printer.Plain("%s", m.Title)
	}
	printer.Plain("rows: %d", m.Rows)

	names := make([]string, 0, len(m.Keys))
	for name := range m.Keys {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		k := m.Keys[name]
		line := fmt.Sprintf("%-16s %s", name, k.Description)
		if k.Unit != "" {
			line += fmt.Sprintf(" [%s]", k.Unit)
		}
		if len(k.Values) > 0 {
			line += fmt.Sprintf(" (%d values)", len(k.Values))
		}
		printer.Plain("%s", line)
	}
	return nil
}
