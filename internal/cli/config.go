// Config loading for the compilations CLI.
package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/compilations/internal/share"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyDataDir         = "data_dir"
	cfgKeyFileName        = "file_name"
	cfgKeyClassifyTimeout = "classify_timeout"
	cfgKeyVerbose         = "verbose"

	envClassifyTimeout = "COMPILATIONS_CLASSIFY_TIMEOUT"
)

// loadConfig reads config.yaml from configDir using Viper. A missing
// config.yaml is not an error; defaults apply and init writes the file.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyClassifyTimeout, share.DefaultClassifyTimeout)
	v.SetDefault(cfgKeyVerbose, false)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	if err := v.BindEnv(cfgKeyClassifyTimeout, envClassifyTimeout); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// classifyTimeout returns the configured classification timeout, falling
// back to the default for unparsable or non-positive values.
func classifyTimeout(v *viper.Viper) time.Duration {
	d := v.GetDuration(cfgKeyClassifyTimeout)
	if d <= 0 {
		return share.DefaultClassifyTimeout
	}
	return d
}
