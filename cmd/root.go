/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/taskflow-app/apiserver/internal/logging"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "taskflow",
	Short: "TaskFlow project and issue tracking backend",
	Long: `TaskFlow project and issue tracking backend.

Run "taskflow server" to start the API server and "taskflow migrate up"
to apply database migrations.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
