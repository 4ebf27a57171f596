package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	flags "github.com/jessevdk/go-flags"

	"github.com/search-tools/opensearch-installer/pkg/installer"
	"github.com/search-tools/opensearch-installer/pkg/logging"
)

type flagOptions struct {
	Version     string `short:"v" long:"version" description:"OpenSearch version to install"`
	Profile     string `long:"profile" description:"path to a YAML installer profile"`
	Password    string `long:"password" description:"initial admin password (overrides profile and environment)"`
	Debug       bool   `long:"debug" description:"enable debug output"`
	Download    bool   `short:"d" long:"download" description:"download packages only, do not install or start services"`
	API         bool   `long:"api" description:"only run the API verification"`
	Plugins     bool   `long:"plugins" description:"only run the plugins check"`
	CheckConfig bool   `long:"checkconfig" description:"only verify configuration settings"`
	CheckJVM    bool   `long:"checkjvm" description:"only verify JVM heap settings"`
	Dashboard   bool   `long:"dashboard" description:"also install the dashboards component"`
	NoDashboard bool   `long:"no-dashboard" description:"skip the dashboards component even when the profile enables it"`
}

func logPrefix(module string) string {
	return fmt.Sprintf("module: %s , ", module)
}

func main() {
	var opts flagOptions
	var argv []string = os.Args[1:]
	var parser = flags.NewParser(&opts, flags.HelpFlag)
	var err error
	_, err = parser.ParseArgs(argv)
	if err != nil {
		fmt.Printf("Command line flags parsing failed: %v", err)
		os.Exit(1)
	}

	zapAdapter, err := logging.NewZapAdapter(opts.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v", err)
		os.Exit(1)
	}
	defer zapAdapter.Sync()

	logger := logging.WithPrefix(logPrefix("installer"), zapAdapter)

	logger.Debugf("opts: %+v", opts)

	config, err := loadConfig(opts)
	if err != nil {
		logger.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	inst, err := installer.NewInstaller(config, logger)
	if err != nil {
		logger.Errorf("Failed to create installer: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()

	switch {
	case opts.API:
		exitOnVerdict(inst.VerifyAPI(ctx))
	case opts.Plugins:
		exitOnVerdict(inst.VerifyPlugins(ctx))
	case opts.CheckConfig:
		result, err := inst.VerifyConfig()
		if err != nil {
			logger.Errorf("Configuration verification failed: %v", err)
			os.Exit(1)
		}
		logger.Infof("Configuration verification: %s", result.Summary())
		exitOnVerdict(result.AllMatch())
	case opts.CheckJVM:
		result, err := inst.VerifyJVM()
		if err != nil {
			logger.Errorf("JVM flags verification failed: %v", err)
			os.Exit(1)
		}
		logger.Infof("JVM flags verification: %s", result.Summary())
		exitOnVerdict(result.AllMatch())
	case opts.Download:
		if err := inst.DownloadOnly(ctx); err != nil {
			logger.Errorf("Download failed: %v", err)
			os.Exit(1)
		}
	default:
		requireRoot()
		if err := inst.Run(ctx); err != nil {
			logger.Errorf("Installation failed: %v", err)
			os.Exit(1)
		}
	}
}

func loadConfig(opts flagOptions) (*installer.Config, error) {
	var config *installer.Config
	var err error
	if opts.Profile != "" {
		config, err = installer.LoadConfigFromFile(opts.Profile)
		if err != nil {
			return nil, err
		}
	} else {
		config = installer.DefaultConfig()
	}

	if opts.Version != "" {
		config.Version = opts.Version
	}
	if opts.Password != "" {
		config.AdminPassword = opts.Password
	}
	if config.AdminPassword == "" {
		config.AdminPassword = os.Getenv("OPENSEARCH_INITIAL_ADMIN_PASSWORD")
	}
	if opts.Dashboard {
		config.Dashboard.Enabled = true
	}
	if opts.NoDashboard {
		config.Dashboard.Enabled = false
	}
	return config, nil
}

func requireRoot() {
	if runtime.GOOS == "windows" {
		return
	}
	if os.Geteuid() != 0 {
		fmt.Println("Error: installation must be run as root")
		os.Exit(1)
	}
}

func exitOnVerdict(ok bool) {
	if !ok {
		os.Exit(1)
	}
	os.Exit(0)
}
