package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/delvedns/delvedns/internal/config"
	"github.com/delvedns/delvedns/internal/logging"
	"github.com/delvedns/delvedns/internal/server"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML configuration file (or set DELVEDNS_CONFIG)")
		host       = flag.String("host", "", "Override bind host")
		port       = flag.Int("port", 0, "Override bind port")
		rootServer = flag.String("root", "", "Override root server IPv4 address")
		jsonLogs   = flag.Bool("json-logs", false, "Enable JSON structured logging")
		debug      = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	cfg, err := config.Load(config.ResolveConfigPath(*configPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *rootServer != "" {
		cfg.Resolver.RootServer = *rootServer
	}
	if *jsonLogs {
		cfg.Logging.Structured = true
		cfg.Logging.StructuredFormat = "json"
	}
	if *debug {
		cfg.Logging.Level = "DEBUG"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Configure(cfg.Logging)
	logger.Info("DelveDNS starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	runner := server.NewRunner(logger)
	if err := runner.Run(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "server exited with error: %v\n", err)
		os.Exit(1)
	}
}
