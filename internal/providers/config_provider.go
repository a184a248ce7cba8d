package providers

import (
	"fmt"
	"path/filepath"
	"smd/internal/structures"
	"strings"

	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "SMD_LOG_LEVEL")
	viper.BindEnv("persistence.saveInterval", "SMD_SAVE_INTERVAL")
	viper.BindEnv("extraction.apiKey", "SMD_GEMINI_API_KEY")
	viper.BindEnv("extraction.model", "SMD_GEMINI_MODEL")
	viper.BindEnv("cache.enabled", "SMD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "SMD_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "SocialMetricsDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
