package configuration

import (
	"os"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/ramp2go/ramp2go/internal/ui"
	"github.com/spf13/viper"
)

type Configuration struct {
	DbPath string `json:"dbPath"`

	// RunInitialRampsInParallel controls whether the initial value of all ramps is emitted concurrently at startup
	RunInitialRampsInParallel bool `json:"runInitialRampsInParallel"`

	// DefaultStepDelay is used for ramps that do not specify a step delay
	DefaultStepDelay time.Duration `json:"defaultStepDelay"`
	// ActuatorTimeout limits the time a single actuator call may take
	ActuatorTimeout time.Duration `json:"actuatorTimeout"`
	// LatencyWindowSize is the number of actuator calls used for latency statistics
	LatencyWindowSize int `json:"latencyWindowSize"`

	Actuators []ActuatorConfig `json:"actuators"`
	Ramps     []RampConfig     `json:"ramps"`

	Api        ApiConfig        `json:"api"`
	Statistics StatisticsConfig `json:"statistics"`
	History    HistoryConfig    `json:"history"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName("ramp2go")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Error("Couldn't detect home directory: %v", err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/ramp2go/")
	}

	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues()
}

func setDefaultValues() {
	viper.SetDefault("dbpath", "/etc/ramp2go/ramp2go.db")
	viper.SetDefault("RunInitialRampsInParallel", true)
	viper.SetDefault("DefaultStepDelay", 100*time.Millisecond)
	viper.SetDefault("ActuatorTimeout", 2*time.Second)
	viper.SetDefault("LatencyWindowSize", 50)

	viper.SetDefault("actuators", []ActuatorConfig{})
	viper.SetDefault("ramps", []RampConfig{})

	viper.SetDefault("api.enabled", false)
	viper.SetDefault("api.host", "localhost")
	viper.SetDefault("api.port", 9001)

	viper.SetDefault("statistics.enabled", false)
	viper.SetDefault("statistics.port", 9000)

	viper.SetDefault("history.enabled", false)
	viper.SetDefault("history.url", "http://localhost:8086")
	viper.SetDefault("history.org", "ramp2go")
	viper.SetDefault("history.bucket", "ramps")
}

// DetectAndReadConfigFile reads the config file found by viper and returns its path
func DetectAndReadConfigFile() string {
	if err := viper.ReadInConfig(); err != nil {
		// config file is required, so we fail here
		ui.Fatal("Error reading config file, %s", err)
	}
	// this is only populated _after_ ReadInConfig()
	return viper.ConfigFileUsed()
}

func LoadConfig() {
	// load default configuration values
	err := viper.Unmarshal(&CurrentConfig, viper.DecodeHook(decodeHooks()))
	if err != nil {
		ui.Fatal("unable to decode into struct, %v", err)
	}
}

func decodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		RampModeHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// FindActuatorConfig returns the actuator configuration with the given id
func FindActuatorConfig(id string) (ActuatorConfig, bool) {
	for _, config := range CurrentConfig.Actuators {
		if config.ID == id {
			return config, true
		}
	}
	return ActuatorConfig{}, false
}

// FindRampConfig returns the ramp configuration with the given id
func FindRampConfig(id string) (RampConfig, bool) {
	for _, config := range CurrentConfig.Ramps {
		if config.ID == id {
			return config, true
		}
	}
	return RampConfig{}, false
}
