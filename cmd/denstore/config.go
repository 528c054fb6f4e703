package main

import (
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/denstore/internal/config"
)

const defaultConfigPath = "denstore.jsonc"

// addConfigFlag registers the shared -c/--config flag on fs and returns a
// pointer to its value.
func addConfigFlag(fs *flag.FlagSet) *string {
	return fs.StringP("config", "c", defaultConfigPath, "Path to a HuJSON config file")
}

func loadConfig(path string) (config.Config, error) {
	return config.LoadConfig(path)
}
