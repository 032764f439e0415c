// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
//
// The values are read by viper from a config file or environment variables.
type Config struct {
	DBDriver      string `mapstructure:"DB_DRIVER"`
	DBSource      string `mapstructure:"DB_SOURCE"`
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	Environement  string `mapstructure:"GO_ENV"`

	// Fixed account number segments.
	BankCode        string `mapstructure:"BANK_CODE"`
	BranchCode      string `mapstructure:"BRANCH_CODE"`
	AccountTypeCode string `mapstructure:"ACCOUNT_TYPE_CODE"`

	// Retry policy for transient store conflicts.
	TxMaxRetries           uint64        `mapstructure:"TX_MAX_RETRIES"`
	TxRetryInitialInterval time.Duration `mapstructure:"TX_RETRY_INITIAL_INTERVAL"`
	TxRetryMaxInterval     time.Duration `mapstructure:"TX_RETRY_MAX_INTERVAL"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("GO_ENV", "production")
	v.SetDefault("BANK_CODE", "1234")
	v.SetDefault("BRANCH_CODE", "5678")
	v.SetDefault("ACCOUNT_TYPE_CODE", "9012")
	v.SetDefault("TX_MAX_RETRIES", 5)
	v.SetDefault("TX_RETRY_INITIAL_INTERVAL", 10*time.Millisecond)
	v.SetDefault("TX_RETRY_MAX_INTERVAL", 250*time.Millisecond)
}

// Load reads configuration from path/app.env, overridden by environment variables.
func Load(path string) (Config, error) {
	var c Config

	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		return c, err
	}

	err = v.Unmarshal(&c)
	if err != nil {
		return c, err
	}

	return c, nil
}
