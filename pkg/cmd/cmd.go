// Package cmd contains the command line applications for the project.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// cfgFile 配置文件路径，空则按默认搜索路径加载.
	cfgFile string
	// debug 附加调试输出开关.
	debug bool

	rootCmd = &cobra.Command{
		Use:   "patchvault",
		Short: "Release and distribution manifest engine for the game launcher",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")

	registerServerCommands()
	registerConfigsCommands()
	registerDBCommands()
	registerMQCommands()
	registerLogsCommands()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
