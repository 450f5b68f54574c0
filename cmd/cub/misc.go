package main

import (
	"fmt"
	"io"

	"github.com/opsbelt/dockerbelt/internal/config"
	"github.com/opsbelt/dockerbelt/internal/logic/classpath"
	"github.com/opsbelt/dockerbelt/internal/logic/listeners"
)

func runListeners(stdout io.Writer, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: cub listeners <advertised_listeners>")
	}

	derived := listeners.Derive(args[0])
	if derived == "" {
		return fmt.Errorf("empty advertised.listeners value")
	}

	// Command output, not a diagnostic: entrypoints capture stdout.
	fmt.Fprintln(stdout, derived)

	return nil
}

func runClasspath(stdout io.Writer, cfg *config.Config) error {
	resolved := classpath.Resolve(
		cfg.BaseClasspath,
		cfg.ClasspathOverride,
		cfg.ClasspathDirs,
		cfg.ExtraClasspath,
	)

	fmt.Fprintln(stdout, resolved)

	return nil
}
