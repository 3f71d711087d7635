package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/teemow/deskmate/internal/config"
)

// loadConfig loads the config file named by --config or DESKMATE_CONFIG
// and applies --data-dir / DESKMATE_DATA_DIR on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configFile
	if !cmd.Flags().Changed("config") {
		path = os.Getenv("DESKMATE_CONFIG")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	overrideString(cmd, "data-dir", "DESKMATE_DATA_DIR", dataDir, &cfg.Data.Dir)
	return cfg, nil
}

// overrideString sets *target from the flag when it was set explicitly,
// otherwise from the environment variable when that is non-empty.
func overrideString(cmd *cobra.Command, flag, env, value string, target *string) {
	if cmd.Flags().Changed(flag) {
		*target = value
		return
	}
	if v := os.Getenv(env); v != "" {
		*target = v
	}
}

// overrideBool is overrideString for boolean settings.
func overrideBool(cmd *cobra.Command, flag, env string, value bool, target *bool) error {
	if cmd.Flags().Changed(flag) {
		*target = value
		return nil
	}
	if v := os.Getenv(env); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", env, v, err)
		}
		*target = parsed
	}
	return nil
}
