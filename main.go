package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"conspect-web/internal/config"
	"conspect-web/internal/server"
	"conspect-web/internal/version"
)

func main() {
	var configPath string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "path to the YAML config file")
	flag.StringVar(&configPath, "c", "", "path to the YAML config file (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "print version information and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(version.Print("conspect-web"))
		os.Exit(0)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}

	if err := srv.Start(); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
