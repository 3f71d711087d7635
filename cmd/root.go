package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the deskmate application
var rootCmd = &cobra.Command{
	Use:   "deskmate",
	Short: "Calendar, desk reservation and date tools for AI assistants",
	Long: `deskmate serves office tools over the Model Context Protocol (MCP):
a per-user calendar, desk reservations and date helpers, all kept in JSON
files.

It can run as:
  - An MCP server over stdio or streamable HTTP (default: serve)
  - Admin commands that open reservation dates and seed desk metadata`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// Flags shared by every command.
var (
	configFile string
	dataDir    string
)

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "deskmate version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML config file. Can also use DESKMATE_CONFIG env var.")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory holding calendar.json, desk_info.json and desk_reservations.json (default: data). Can also use DESKMATE_DATA_DIR env var.")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newOpenDatesCmd())
	rootCmd.AddCommand(newSeedDesksCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
