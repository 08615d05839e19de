package configuration

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

const (
	ConfigName     = "invest"
	ConfigType     = "yaml"
	ConfigFilePath = ConfigName + "." + ConfigType
	EnvPrefix      = "INVEST"
)

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

type Configuration struct {
	Log     Log     `mapstructure:"log" yaml:"log"`
	Storage Storage `mapstructure:"storage" yaml:"storage"`
}

type Log struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Storage selects the state substrate the contract host runs on.
type Storage struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	// Path is the sqlite database file.
	Path string `mapstructure:"path" yaml:"path"`
	// CacheSize is the number of entries kept in the read cache in front of sqlite.
	CacheSize int `mapstructure:"cachesize" yaml:"cachesize"`
	// Snapshot is an optional JSON dump file for the memory driver.
	Snapshot string `mapstructure:"snapshot" yaml:"snapshot"`
}

func Default() *Configuration {
	return &Configuration{
		Log: Log{
			Level:  "info",
			Format: "text",
		},
		Storage: Storage{
			Driver:    DriverMemory,
			Path:      "invest.sqlite",
			CacheSize: 1024,
		},
	}
}

func (c *Configuration) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if strings.TrimSpace(c.Storage.Path) == "" {
			return errors.New("storage.path is required for the sqlite driver")
		}
		if c.Storage.CacheSize <= 0 {
			return errors.Errorf("storage.cachesize must be positive, got %d", c.Storage.CacheSize)
		}
	default:
		return errors.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log.level")
	}
	return nil
}

// Load reads invest.yaml from the given directories (and the working dir), applies
// INVEST_* environment overrides and falls back to Default for anything unset.
func Load(paths ...string) (*Configuration, error) {
	printWorkingDir()
	v := viper.New()
	v.SetConfigName(ConfigName)
	v.SetConfigType(ConfigType)
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath(".")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, Default())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Warnf("config file not found (file=%v). Default configuration is used", ConfigFilePath)
		} else {
			return nil, errors.Wrapf(err, "failed to load config")
		}
	}
	actual := &Configuration{}
	if err := v.Unmarshal(actual); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config into configuration structure")
	}
	if err := actual.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	printConfig(actual)
	return actual, nil
}

// setDefaults registers every key so env overrides work without a config file.
func setDefaults(v *viper.Viper, d *Configuration) {
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("storage.cachesize", d.Storage.CacheSize)
	v.SetDefault("storage.snapshot", d.Storage.Snapshot)
}

// Dump renders the configuration as yaml.
func (c *Configuration) Dump() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal config structure")
	}
	return string(out), nil
}

func printWorkingDir() {
	wd, _ := os.Getwd()
	log.Infof("Working dir: %s", wd)
}

func printConfig(c *Configuration) {
	out, err := c.Dump()
	if err != nil {
		log.Error(err)
		return
	}
	log.Infof("Loaded configuration: \n %s \n", out)
}
