package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cuemby/gradenet/pkg/util"
	"github.com/cuemby/gradenet/pkg/wire"
)

// CommanderConfig configures a commander run.
type CommanderConfig struct {
	NATSURL        string `yaml:"nats_url"`
	BasePort       uint16 `yaml:"base_port"`
	TestDir        string `yaml:"test_dir"`
	CommonDir      string `yaml:"common_dir"`
	TestTimeout    uint32 `yaml:"test_timeout"`
	ClientTimeout  uint32 `yaml:"client_timeout"`
	CommandFile    string `yaml:"command_file"`
	ResultsDir     string `yaml:"results_dir"`
	MetricsAddr    string `yaml:"metrics_addr"`
	LogJSON        bool   `yaml:"log_json"`
	TracingEnabled bool   `yaml:"tracing_enabled"`
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
}

// ClientTimeoutDuration returns ClientTimeout as a time.Duration.
func (c CommanderConfig) ClientTimeoutDuration() time.Duration {
	return time.Duration(c.ClientTimeout) * time.Second
}

// TestTimeoutDuration returns TestTimeout as a time.Duration.
func (c CommanderConfig) TestTimeoutDuration() time.Duration {
	return time.Duration(c.TestTimeout) * time.Second
}

// AgentConfig configures a worker agent run.
type AgentConfig struct {
	NATSURL            string `yaml:"nats_url"`
	RemotePort         uint16 `yaml:"remote_port"`
	RemoteIP           string `yaml:"remote_ip"`
	TestDir            string `yaml:"test_dir"`
	MetricsAddr        string `yaml:"metrics_addr"`
	LogJSON            bool   `yaml:"log_json"`
	TracingEnabled     bool   `yaml:"tracing_enabled"`
	OTLPEndpoint       string `yaml:"otlp_endpoint"`
	ExternalIPEndpoint string `yaml:"external_ip_endpoint"`
}

// defaultResultsDir is the commander's fixed output directory when
// ResultsDir is left unset in config — spec.md's "./results/" default,
// exposed here as an override per its own "parameterize it" design note.
const defaultResultsDir = "./results"

// LoadCommanderConfig reads and parses a commander YAML config file.
func LoadCommanderConfig(path string) (CommanderConfig, error) {
	var cfg CommanderConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("%w: read commander config %s: %v", wire.ErrIO, path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: parse commander config %s: %v", wire.ErrIO, path, err)
	}
	if cfg.ResultsDir == "" {
		cfg.ResultsDir = defaultResultsDir
	}
	return cfg, nil
}

// LoadAgentConfig reads and parses an agent YAML config file.
func LoadAgentConfig(path string) (AgentConfig, error) {
	var cfg AgentConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("%w: read agent config %s: %v", wire.ErrIO, path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: parse agent config %s: %v", wire.ErrIO, path, err)
	}
	if cfg.ExternalIPEndpoint == "" {
		cfg.ExternalIPEndpoint = util.DefaultExternalIPEndpoint
	}
	return cfg, nil
}
