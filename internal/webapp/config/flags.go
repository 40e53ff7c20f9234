package config

import (
	"flag"
	"os"

	"safeshare/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-b string   bind address of the HTTP endpoint (default from Config)
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-b"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Addr, "b", cfg.Addr, "bind address of the HTTP endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
