package relay

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harlequix/hamrelay/channel"
	"github.com/harlequix/hamrelay/payload"
	"github.com/jinzhu/copier"
	"github.com/spf13/viper"
)

const ClassSegment string = "segment"
const ClassReceipt string = "receipt"

type ClassConfig struct {
	BitErrorProbability float64
	LossProbability     float64
	Route               string
	Backend             string
	Target              string
	Timeout             time.Duration
}

type Config struct {
	Listen        string
	BlockSize     int
	PayloadFormat string
	MaxPayload    int
	Seed          int64
	Workers       int
	LogLevel      string
	Logfile       string
	Classes       map[string]ClassConfig
}

func init() {
	registerDefaults(viper.GetViper())
	viper.SetEnvPrefix("hamrelay")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

func registerDefaults(v *viper.Viper) {
	v.SetDefault("Listen", ":3050")
	v.SetDefault("BlockSize", 4)
	v.SetDefault("PayloadFormat", "json")
	v.SetDefault("MaxPayload", 1<<20)
	v.SetDefault("Seed", 0)
	v.SetDefault("Workers", 4)
	v.SetDefault("LogLevel", "warn")
	v.SetDefault("Logfile", "")
	v.SetDefault("Classes.segment.BitErrorProbability", 0.08)
	v.SetDefault("Classes.segment.LossProbability", 0.08)
	v.SetDefault("Classes.segment.Route", "/CodeSegment")
	v.SetDefault("Classes.segment.Timeout", "10s")
	v.SetDefault("Classes.receipt.BitErrorProbability", 0.08)
	v.SetDefault("Classes.receipt.LossProbability", 0.02)
	v.SetDefault("Classes.receipt.Route", "/CodeReceipt")
	v.SetDefault("Classes.receipt.Timeout", "10s")
}

// SetConfig reads configFile into the global configuration.
func SetConfig(configFile string) error {
	if configFile == "" {
		return nil
	}
	viper.SetConfigFile(configFile)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file %s: %w", configFile, err)
	}
	logger.WithField("file", viper.ConfigFileUsed()).Debug("Loaded config")
	return nil
}

// LoadConfig unmarshals the global configuration.
func LoadConfig() (*Config, error) {
	return loadConfig(viper.GetViper())
}

// DefaultConfig ignores config files, flags and the environment.
func DefaultConfig() *Config {
	v := viper.New()
	registerDefaults(v)
	config, err := loadConfig(v)
	if err != nil {
		panic(err)
	}
	return config
}

func loadConfig(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (self *Config) Validate() error {
	if self.BlockSize < 1 {
		return fmt.Errorf("BlockSize must be at least 1, got %d", self.BlockSize)
	}
	if _, err := payload.ByName(self.PayloadFormat); err != nil {
		return err
	}
	if len(self.Classes) == 0 {
		return errors.New("no traffic classes configured")
	}
	routes := make(map[string]string)
	for name := range self.Classes {
		if _, err := self.Profile(name); err != nil {
			return fmt.Errorf("class %s: %w", name, err)
		}
		route := self.Classes[name].Route
		if route == "" {
			continue
		}
		if other, ok := routes[route]; ok {
			return fmt.Errorf("classes %s and %s share route %s", other, name, route)
		}
		routes[route] = name
	}
	return nil
}

// Profile derives the channel profile of a traffic class.
func (self *Config) Profile(name string) (channel.Profile, error) {
	var profile channel.Profile
	class, ok := self.Classes[name]
	if !ok {
		return profile, fmt.Errorf("%w: %q", ErrUnknownClass, name)
	}
	if err := copier.Copy(&profile, &class); err != nil {
		return profile, err
	}
	return profile, profile.Validate()
}
