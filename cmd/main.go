package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/meghashyamc/knowledgebase/api"
	"github.com/meghashyamc/knowledgebase/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// Version is injected at build time
	Version = "dev"
	// ProgramName is injected at build time
	ProgramName = "knowledgebase"
)

func main() {
	godotenv.Load()

	if err := Execute(Version, ProgramName, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

// Execute is the entry point for the CLI, extracted for testing
func Execute(version, programName string, args []string) error {
	return newRootCommand(version, programName, args, runWithFlags).Execute()
}

func newRootCommand(version, programName string, args []string, run func(*pflag.FlagSet) error) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "AI Knowledge Base server",
		Long:          "Serves the knowledge base demo page and its JSON search API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Flags())
		},
	}

	rootCmd.SetVersionTemplate(`{{.Version}}
`)

	registerFlags(rootCmd.Flags())
	rootCmd.SetArgs(args)

	return rootCmd
}

func registerFlags(flags *pflag.FlagSet) {
	flags.String("env", "", "config environment, selects config/config.<env>.yaml (default $ENV or local)")
	flags.String("port", "", "HTTP port")
	flags.String("storage-path", "", "directory holding the search index")
	flags.String("log-level", "", "debug, info, warn or error")
	flags.String("locale", "", "page language, en or ru")
}

func runWithFlags(flags *pflag.FlagSet) error {
	env, err := flags.GetString("env")
	if err != nil {
		return err
	}

	cfg, err := config.Load(env, flags)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	return api.Run(context.Background(), cfg)
}
