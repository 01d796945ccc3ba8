package cmd

import (
	"github.com/spf13/cobra"

	"github.com/yeisme/patchvault/pkg/app"
)

var serverCmd = &cobra.Command{
	Use:     "server",
	Short:   "start the HTTP server",
	Aliases: []string{"serve", "run"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.NewApp(cfgFile).Run()
	},
}

// registerServerCommands 注册服务启动命令.
func registerServerCommands() {
	rootCmd.AddCommand(serverCmd)
}
