package container

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ConfigHTTPServer struct for HTTP ConfigTransport configuration
type ConfigHTTPServer struct {
	Port int `yaml:"port"`
}

// ConfigTransport is a configuration for ConfigTransport: HTTP, gRPC or anything
type ConfigTransport struct {
	HTTP ConfigHTTPServer `yaml:"http"`
}

type ConfigGoSqlDb struct {
	Debug bool   `yaml:"debug"`
	DSN   string `yaml:"dsn"` // Data Source Name
}

type ConfigDatabaseResource struct {
	Disable bool   `yaml:"disable"`
	Driver  string `yaml:"driver"` // postgres only for now

	// per driver configuration
	Postgres ConfigGoSqlDb `yaml:"postgres"`
}

// ConfigDatabaseResources redefine config
type ConfigDatabaseResources map[string]ConfigDatabaseResource

type ConfigRedisResource struct {
	Mode       string   `yaml:"mode"` // single, sentinel or cluster
	Address    []string `yaml:"address"`
	Username   string   `yaml:"username"`
	Password   string   `yaml:"password"`
	DB         int      `yaml:"db"`
	MasterName string   `yaml:"masterName"` // sentinel only
}

type ConfigRedisResources map[string]ConfigRedisResource

type ConfigServiceCache struct {
	// Backend selects the cache-aside store: "redis" or "inmemory".
	Backend       string `yaml:"backend"`
	RedisLabel    string `yaml:"redisLabel"`
	ExpirySeconds int    `yaml:"expirySeconds"`
}

type ConfigServiceApplication struct {
	DBLabel string             `yaml:"dbLabel"`
	Cache   ConfigServiceCache `yaml:"cache"`
}

type ConfigServices struct {
	Application ConfigServiceApplication `yaml:"application"`
}

// ConfigTracer holds distributed tracing configuration.
// When Disable is true or JaegerEndpoint is empty, spans are not exported.
type ConfigTracer struct {
	Disable        bool   `yaml:"disable"`
	JaegerEndpoint string `yaml:"jaegerEndpoint"`
}

// Config contains application config
type Config struct {
	Transport         ConfigTransport         `yaml:"transport"`
	Tracer            ConfigTracer            `yaml:"tracer"`
	DatabaseResources ConfigDatabaseResources `yaml:"databaseResources"`
	RedisResources    ConfigRedisResources    `yaml:"redisResources"`
	Services          ConfigServices          `yaml:"services"`
}

// LoadConfig need config file name and pointer to struct to hold the configuration value.
// It only supports YAML file content.
func LoadConfig() (cfg Config, err error) {
	const configFileName = "config.yml"
	fileContent, err := os.ReadFile(configFileName)
	if err != nil {
		err = fmt.Errorf("error read file config %s: %w", configFileName, err)
		return
	}

	dec := yaml.NewDecoder(bytes.NewReader(fileContent))
	dec.KnownFields(false)
	err = dec.Decode(&cfg)
	return
}
