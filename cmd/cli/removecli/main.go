package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	flags "github.com/jessevdk/go-flags"

	"github.com/search-tools/opensearch-installer/pkg/installer"
	"github.com/search-tools/opensearch-installer/pkg/logging"
	"github.com/search-tools/opensearch-installer/pkg/remover"
)

type flagOptions struct {
	Profile    string `long:"profile" description:"path to a YAML installer profile"`
	Debug      bool   `long:"debug" description:"enable debug output"`
	KeepConfig bool   `long:"keep-config" description:"do not delete configuration directories"`
	Dashboard  bool   `long:"dashboard" description:"also remove the dashboards component"`
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

	logger := logging.WithPrefix(logPrefix("remover"), zapAdapter)

	logger.Debugf("opts: %+v", opts)

	if runtime.GOOS != "linux" {
		logger.Errorf("Removal is only supported on Linux")
		os.Exit(1)
	}
	if os.Geteuid() != 0 {
		fmt.Println("Error: removal must be run as root")
		os.Exit(1)
	}

	var config *installer.Config
	if opts.Profile != "" {
		config, err = installer.LoadConfigFromFile(opts.Profile)
		if err != nil {
			logger.Errorf("Failed to load configuration: %v", err)
			os.Exit(1)
		}
	} else {
		config = installer.DefaultConfig()
	}
	if opts.Dashboard {
		config.Dashboard.Enabled = true
	}

	rm := remover.NewRemover(config, logger)
	rm.KeepConfig = opts.KeepConfig

	if err := rm.Run(context.Background()); err != nil {
		logger.Errorf("Removal failed: %v", err)
		os.Exit(1)
	}
}
