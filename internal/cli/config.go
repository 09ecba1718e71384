package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	derrors "github.com/matzehuels/dotflow/pkg/errors"
)

// bindFlags binds every flag to viper under its snake_case name, so
// `no_cache: true` in the config file and --no-cache on the command line
// address the same key.
func (c *CLI) bindFlags(flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		_ = c.v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
	})
}

// initConfig reads the config file and environment. A missing default config
// file is not an error; a missing explicit one is.
func (c *CLI) initConfig() error {
	c.v.SetConfigType("yaml")
	switch {
	case c.cfgFile != "":
		if _, err := os.Stat(c.cfgFile); err != nil {
			return derrors.Wrap(derrors.ErrCodeInvalidConfig, err, "config file %q not found", c.cfgFile)
		}
		c.v.SetConfigFile(c.cfgFile)
	case os.Getenv(envPrefix+"_CONFIG") != "":
		c.v.SetConfigFile(os.Getenv(envPrefix + "_CONFIG"))
	default:
		if home, err := os.UserHomeDir(); err == nil {
			c.v.AddConfigPath(filepath.Join(home, ".config"))
		}
		if wd, err := os.Getwd(); err == nil {
			c.v.AddConfigPath(wd)
		}
		c.v.SetConfigName("." + appName)
	}

	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	c.v.AutomaticEnv()

	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return derrors.Wrap(derrors.ErrCodeInvalidConfig, err, "read config")
	}
	c.Logger.Debug("using config file", "path", c.v.ConfigFileUsed())
	return nil
}
