package config

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server     Server
	Mongo      Mongo
	Redis      Redis
	LoggerMode LoggerMode
}

type Server struct {
	APIPort string
	WSPort  string
}

type Mongo struct {
	URI             string
	Database        string
	CredentialsFile string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

type LoggerMode struct {
	Level string
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()

	v.SetConfigName(filename)
	v.SetConfigType("yaml")
	v.AddConfigPath("config")
	v.AddConfigPath(".")

	v.SetEnvPrefix("RELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ResolveURI returns the connection string, preferring the credentials file
// when one is configured.
func (m Mongo) ResolveURI() (string, error) {
	if m.CredentialsFile == "" {
		if m.URI == "" {
			return "", errors.New("mongo uri not configured")
		}
		return m.URI, nil
	}
	raw, err := os.ReadFile(m.CredentialsFile)
	if err != nil {
		return "", err
	}
	uri := strings.TrimSpace(string(raw))
	if uri == "" {
		return "", errors.New("credentials file is empty")
	}
	return uri, nil
}
