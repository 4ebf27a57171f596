package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/search-tools/opensearch-installer/pkg/configfile"
	"github.com/search-tools/opensearch-installer/pkg/errors"
	"github.com/search-tools/opensearch-installer/pkg/pkgmanager"
)

// Taglines and defaults for the OpenSearch distribution.
const (
	OpenSearchTagline = "The OpenSearch Project: https://opensearch.org/"

	defaultVersion           = "2.19.1"
	defaultDownloadDir       = "downloads"
	defaultJavaPackage       = "java-11-openjdk-devel"
	defaultHeapSize          = "8g"
	defaultServerBaseURL     = "https://artifacts.opensearch.org/releases/bundle/opensearch"
	defaultDashboardsBaseURL = "https://artifacts.opensearch.org/releases/bundle/opensearch-dashboards"
)

// Config is the single per-run configuration for the installer. It is
// constructed once (defaults, optionally overlaid by a YAML profile and
// CLI flags) and passed to every component; nothing reads ambient
// globals.
type Config struct {
	Version       string `yaml:"version"`
	AdminPassword string `yaml:"admin_password"`
	DownloadDir   string `yaml:"download_dir"`
	JavaPackage   string `yaml:"java_package"`
	HeapSize      string `yaml:"heap_size"`

	Server    ServerConfig    `yaml:"server"`
	Dashboard DashboardConfig `yaml:"dashboard"`

	Poll         PollConfig             `yaml:"poll"`
	InstallRetry pkgmanager.RetryConfig `yaml:"install_retry"`
}

// ServerConfig describes the search-engine server component.
type ServerConfig struct {
	ServiceName     string `yaml:"service_name"`
	PackageName     string `yaml:"package_name"`
	ArtifactBaseURL string `yaml:"artifact_base_url"`
	ConfigDir       string `yaml:"config_dir"`
	ConfigFile      string `yaml:"config_file"`
	JVMOptionsFile  string `yaml:"jvm_options_file"`
	APIBaseURL      string `yaml:"api_base_url"`
}

// DashboardConfig describes the optional dashboards component.
type DashboardConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Version         string `yaml:"version"`
	ServiceName     string `yaml:"service_name"`
	PackageName     string `yaml:"package_name"`
	ArtifactBaseURL string `yaml:"artifact_base_url"`
	ConfigDir       string `yaml:"config_dir"`
	ConfigFile      string `yaml:"config_file"`
}

// PollConfig bounds the wait-for-readiness loops.
type PollConfig struct {
	Interval       time.Duration `yaml:"interval"`
	ServiceTimeout time.Duration `yaml:"service_timeout"`
	APITimeout     time.Duration `yaml:"api_timeout"`
}

// DefaultConfig returns the configuration used when no profile is given.
func DefaultConfig() *Config {
	config := &Config{}
	setConfigDefaults(config)
	return config
}

// LoadConfigFromFile loads an installer profile from a YAML file and
// fills in defaults for everything the profile leaves unset.
func LoadConfigFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.NewConfigIOError("failed to read profile file", err).WithContext("filename", filename)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.NewValidationError("failed to parse YAML profile", err).WithContext("filename", filename)
	}

	setConfigDefaults(&config)
	return &config, nil
}

func setConfigDefaults(config *Config) {
	if config.Version == "" {
		config.Version = defaultVersion
	}
	if config.DownloadDir == "" {
		config.DownloadDir = defaultDownloadDir
	}
	if config.JavaPackage == "" {
		config.JavaPackage = defaultJavaPackage
	}
	if config.HeapSize == "" {
		config.HeapSize = defaultHeapSize
	}

	server := &config.Server
	if server.ServiceName == "" {
		server.ServiceName = "opensearch"
	}
	if server.PackageName == "" {
		server.PackageName = "opensearch"
	}
	if server.ArtifactBaseURL == "" {
		server.ArtifactBaseURL = defaultServerBaseURL
	}
	if server.ConfigDir == "" {
		server.ConfigDir = "/etc/opensearch"
	}
	if server.ConfigFile == "" {
		server.ConfigFile = "opensearch.yml"
	}
	if server.JVMOptionsFile == "" {
		server.JVMOptionsFile = "jvm.options"
	}
	if server.APIBaseURL == "" {
		server.APIBaseURL = "https://localhost:9200"
	}

	dashboard := &config.Dashboard
	if dashboard.Version == "" {
		dashboard.Version = config.Version
	}
	if dashboard.ServiceName == "" {
		dashboard.ServiceName = "opensearch-dashboards"
	}
	if dashboard.PackageName == "" {
		dashboard.PackageName = "opensearch-dashboards"
	}
	if dashboard.ArtifactBaseURL == "" {
		dashboard.ArtifactBaseURL = defaultDashboardsBaseURL
	}
	if dashboard.ConfigDir == "" {
		dashboard.ConfigDir = "/etc/opensearch-dashboards"
	}
	if dashboard.ConfigFile == "" {
		dashboard.ConfigFile = "opensearch_dashboards.yml"
	}

	if config.Poll.Interval == 0 {
		config.Poll.Interval = 5 * time.Second
	}
	if config.Poll.ServiceTimeout == 0 {
		config.Poll.ServiceTimeout = 1 * time.Minute
	}
	if config.Poll.APITimeout == 0 {
		config.Poll.APITimeout = 3 * time.Minute
	}

	if config.InstallRetry.MaxAttempts == 0 {
		config.InstallRetry.MaxAttempts = 3
	}
	if config.InstallRetry.Delay == 0 {
		config.InstallRetry.Delay = 10 * time.Second
	}
}

// ValidateConfig validates the configuration before a run.
func ValidateConfig(config *Config) error {
	if config == nil {
		return errors.NewValidationError("configuration cannot be nil", nil)
	}
	if config.Version == "" {
		return errors.NewValidationError("version cannot be empty", nil)
	}
	if config.Server.ServiceName == "" {
		return errors.NewValidationError("server service name cannot be empty", nil)
	}
	if config.Poll.Interval <= 0 {
		return errors.NewValidationError("poll interval must be positive", nil)
	}
	if config.Poll.ServiceTimeout <= 0 || config.Poll.APITimeout <= 0 {
		return errors.NewValidationError("poll timeouts must be positive", nil)
	}
	if err := pkgmanager.ValidateRetryConfig(config.InstallRetry); err != nil {
		return errors.NewValidationError("invalid install retry configuration", err)
	}
	return nil
}

// ServerArtifactURL is the templated download URL for the server package.
func (c *Config) ServerArtifactURL() string {
	return fmt.Sprintf("%s/%s/%s-%s-linux-x64.rpm",
		c.Server.ArtifactBaseURL, c.Version, c.Server.PackageName, c.Version)
}

// DashboardArtifactURL is the templated download URL for the dashboards package.
func (c *Config) DashboardArtifactURL() string {
	return fmt.Sprintf("%s/%s/%s-%s-linux-x64.rpm",
		c.Dashboard.ArtifactBaseURL, c.Dashboard.Version, c.Dashboard.PackageName, c.Dashboard.Version)
}

// ServerConfigPath is the path of the server's main configuration file.
func (c *Config) ServerConfigPath() string {
	return filepath.Join(c.Server.ConfigDir, c.Server.ConfigFile)
}

// JVMOptionsPath is the path of the server's JVM flags file.
func (c *Config) JVMOptionsPath() string {
	return filepath.Join(c.Server.ConfigDir, c.Server.JVMOptionsFile)
}

// DashboardConfigPath is the path of the dashboards configuration file.
func (c *Config) DashboardConfigPath() string {
	return filepath.Join(c.Dashboard.ConfigDir, c.Dashboard.ConfigFile)
}

// ServerSettings is the required server configuration, with the
// explanatory comments written into the managed block.
func (c *Config) ServerSettings() configfile.SettingSpec {
	return configfile.SettingSpec{
		{
			Key:   "network.host",
			Value: "0.0.0.0",
			Comment: []string{
				"Bind OpenSearch to the correct network interface. Use 0.0.0.0",
				"to include all available interfaces or specify an IP address",
				"assigned to a specific interface.",
			},
		},
		{
			Key:   "discovery.type",
			Value: "single-node",
			Comment: []string{
				"Unless you have already configured a cluster, you should set",
				"discovery.type to single-node, or the bootstrap checks will",
				"fail when you try to start the service.",
			},
		},
		{
			Key:   "plugins.security.disabled",
			Value: "false",
			Comment: []string{
				"If you previously disabled the Security plugin in opensearch.yml,",
				"be sure to re-enable it. Otherwise you can skip this setting.",
			},
		},
	}
}

// DashboardSettings is the required dashboards configuration.
func (c *Config) DashboardSettings() configfile.SettingSpec {
	return configfile.SettingSpec{
		{
			Key:   "server.host",
			Value: "0.0.0.0",
			Comment: []string{
				"Serve the dashboards UI on all available interfaces.",
			},
		},
		{
			Key:   "opensearch.hosts",
			Value: fmt.Sprintf("[%s]", c.Server.APIBaseURL),
			Comment: []string{
				"The OpenSearch node the dashboards connect to.",
			},
		},
	}
}

// HeapFlags is the required JVM heap sizing.
func (c *Config) HeapFlags() configfile.FlagSpec {
	return configfile.FlagSpec{
		{Prefix: "-Xms", Value: c.HeapSize},
		{Prefix: "-Xmx", Value: c.HeapSize},
	}
}
