package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"campaign-transmitter/internal/awsutils"
	"campaign-transmitter/internal/sparkpost"
	"campaign-transmitter/internal/transmission"
)

const (
	ProviderSparkPost = "sparkpost"
	ProviderSes       = "ses"
)

type AwsConfig struct {
	BaseEndpoint string `yaml:"base_endpoint"`
	sdkConfig    aws.Config
}

type SesConfig struct {
	ConfigurationSet string `yaml:"configuration_set"`
}

type SparkPostConfig struct {
	BaseUrl    string `yaml:"base_url" validate:"omitempty,url"`
	ApiVersion string `yaml:"api_version"`
	Timeout    int    `yaml:"timeout" validate:"min=0"`
}

type TransmissionConfig struct {
	Key               string `yaml:"key"`
	NumRcptErrors     int    `yaml:"num_rcpt_errors" validate:"min=0"`
	Campaign          string `yaml:"campaign"`
	AlwaysSetMetadata *bool  `yaml:"always_set_metadata"`
}

type ServerConfig struct {
	Port int `yaml:"port" validate:"required,min=1,max=65535"`
}

type Config struct {
	Provider     string             `yaml:"provider" validate:"required,oneof=sparkpost ses"`
	Transmission TransmissionConfig `yaml:"transmission"`
	SparkPost    SparkPostConfig    `yaml:"sparkpost,flow"`
	Aws          AwsConfig          `yaml:"aws,flow"`
	Ses          SesConfig          `yaml:"ses,flow"`
	Server       ServerConfig       `yaml:"server" validate:"required"`
}

// LoadDotEnv loads the given .env files into the environment, skipping the
// ones that do not exist. Variables already set are left alone.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		err := godotenv.Load(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

func NewFromYaml(filePath string) (*Config, error) {
	yamlContent, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	return NewFromYamlContent(yamlContent)
}

func NewFromYamlContent(yamlContent []byte) (*Config, error) {
	cfg := &Config{}
	yamlString := os.ExpandEnv(string(yamlContent))
	reader := strings.NewReader(yamlString)

	if err := cfg.load(reader); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) load(r io.Reader) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	decodeErr := decoder.Decode(c)
	validate := validator.New(validator.WithRequiredStructEnabled())
	err := validate.Struct(c)

	if decodeErr != nil && err != nil {
		return fmt.Errorf("%w\n%w", err, decodeErr)
	}
	if decodeErr != nil {
		return decodeErr
	}
	if err != nil {
		return err
	}

	if c.Provider != ProviderSes {
		return nil
	}

	awsConfig, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return fmt.Errorf("unable to load AWS config: %w", err)
	}

	if c.Aws.BaseEndpoint != "" {
		awsConfig.BaseEndpoint = aws.String(c.Aws.BaseEndpoint)
	}

	c.Aws.sdkConfig = awsConfig
	return nil
}

func (c *Config) GetProvider() string {
	return c.Provider
}

func (c *Config) GetAwsConfig() aws.Config {
	return c.Aws.sdkConfig
}

func (c *Config) GetSesConfig() awsutils.SesConfig {
	return awsutils.SesConfig{ConfigurationSet: c.Ses.ConfigurationSet}
}

func (c *Config) GetSparkPostConfig(key string) sparkpost.Config {
	return sparkpost.Config{
		Key:        key,
		BaseURL:    c.SparkPost.BaseUrl,
		APIVersion: c.SparkPost.ApiVersion,
		Timeout:    time.Duration(c.SparkPost.Timeout) * time.Second,
	}
}

// GetTransmissionConfig resolves the adapter configuration, falling back to
// the environment for the key.
func (c *Config) GetTransmissionConfig() transmission.Config {
	opts := []transmission.Option{
		transmission.WithName(c.Provider),
		transmission.WithKey(c.Transmission.Key),
		transmission.WithCampaign(c.Transmission.Campaign),
	}

	if c.Transmission.NumRcptErrors > 0 {
		opts = append(opts, transmission.WithNumRcptErrors(c.Transmission.NumRcptErrors))
	}

	if c.Provider == ProviderSes {
		opts = append(opts, transmission.WithoutKeyCheck())
	}

	if c.Transmission.AlwaysSetMetadata != nil {
		opts = append(opts, transmission.WithAlwaysSetMetadata(*c.Transmission.AlwaysSetMetadata))
	}

	return transmission.NewConfig(opts...)
}

func (c *Config) GetServerPort() int {
	return c.Server.Port
}
