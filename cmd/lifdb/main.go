// lifdb curates the LiF DFT simulation dataset: it stores finished
// simulation jobs as rows of the ASE SQLite database, keeps the metadata
// mirror files in sync with the stored values, and browses the result.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lifdb/internal/config"
	"lifdb/internal/logging"
	"lifdb/internal/ux"
)

const version = "1.1.0"

var (
	// Global flags
	configPath string
	dbPath     string
	verbose    bool
	quiet      bool

	cfg     *config.Config
	printer *ux.Printer
)

var rootCmd = &cobra.Command{
	Use:   "lifdb",
	Short: "Curate the LiF DFT simulation dataset",
	Long: `lifdb maintains an ASE-format SQLite database of LiF DFT simulations.

It ingests finished job directories as database rows, reconciles the
JSON/YAML metadata mirrors with the stored categorical values, and
provides simple browsing of the dataset.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.Database = dbPath
		}
		if verbose {
			cfg.Logging.Debug = true
		}
		if cfg.Logging.Debug {
			if err := logging.Init(true); err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}
		}
		printer = &ux.Printer{Out: cmd.OutOrStdout(), Quiet: quiet}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the lifdb version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "lifdb %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default "+config.DefaultConfigFile+")")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress informational output")

	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(metadataCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
