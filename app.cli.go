package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the command line of the App. The run function
// is what `serve` calls once the flags are parsed.
func NewRootCommand(run func(configFile, envFile string) error) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "bookshelf",
		Short:         "Personal library manager api",
		Long:          "Bookshelf serves a json api to manage a personal library: books, reading progress, ratings and statistics.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var configFile, envFile string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the api server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configFile, envFile)
		},
	}
	serveCmd.Flags().StringVarP(&configFile, "config", "c", "./config.yml", "path to the yaml configuration file")
	serveCmd.Flags().StringVarP(&envFile, "env", "e", "./config.env", "path to the optional dotenv file")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the build details",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bookshelf tag=%s commit=%s built=%s\n", GitTag, GitCommit, BuildTime)
		},
	}

	rootCmd.AddCommand(serveCmd, versionCmd)
	return rootCmd
}

// serve builds and runs the App until it is requested to stop.
func serve(configFile, envFile string) error {
	app, err := NewApp(configFile, envFile)
	if err != nil {
		return fmt.Errorf("application failed to initialized: %w", err)
	}
	if err = app.Run(); err != nil {
		return fmt.Errorf("application exited. check logs for more details: %w", err)
	}
	return nil
}
