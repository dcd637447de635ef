package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/pidgix/internal/cli"
	"codeberg.org/snonux/pidgix/internal/processor"
	"codeberg.org/snonux/pidgix/internal/translation"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// The processor builds its translator and store lazily, after the
	// config below has been read
	proc := processor.NewProcessor(flags, processor.Options{})

	// Create root command
	rootCmd := cli.CreateRootCommand(flags, proc)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Execute command
	err := rootCmd.Execute()
	proc.Close()
	if err == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	var cfgErr *translation.ConfigurationError
	if errors.As(err, &cfgErr) {
		os.Exit(2)
	}
	os.Exit(1)
}
