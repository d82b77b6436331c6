package main

import (
	"fmt"
	"log"
	"os"

	"github.com/docsmith/scanprep/internal/config"
	"github.com/docsmith/scanprep/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("scanprep %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("scanprep - document binarization and deskew service")
			fmt.Println()
			fmt.Println("Usage: scanprep [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Configuration is read from ./config.yaml and SCANPREP_*")
			fmt.Println("environment variables (e.g. SCANPREP_PORT=9000).")
			return
		}
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	srv, err := server.New(cfg, Version)
	if err != nil {
		log.Fatalf("Startup error: %v", err)
	}
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
