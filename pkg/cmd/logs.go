package cmd

import (
	contextPkg "context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yeisme/patchvault/pkg/configs"
	ctxPkg "github.com/yeisme/patchvault/pkg/context"
	"github.com/yeisme/patchvault/pkg/internal/service"
	"github.com/yeisme/patchvault/pkg/internal/storage"
)

var (
	purgeDays int
	purgeYes  bool
	exportOut string

	logsCmd = &cobra.Command{
		Use:     "logs",
		Short:   "Download ledger maintenance commands",
		Aliases: []string{"ledger"},
	}

	logsPurgeCmd = &cobra.Command{
		Use:   "purge",
		Short: "delete download logs older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !purgeYes {
				return fmt.Errorf("refusing to purge without --yes")
			}

			ctx, mgr, err := newLedgerContext()
			if err != nil {
				return err
			}
			defer mgr.Close()

			n, err := service.NewLedgerService(ctx).Purge(ctx, purgeDays)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "purged %d download logs older than %d days\n", n, purgeDays)

			return nil
		},
	}

	logsExportCmd = &cobra.Command{
		Use:   "export",
		Short: "export the download ledger as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, mgr, err := newLedgerContext()
			if err != nil {
				return err
			}
			defer mgr.Close()

			w := cmd.OutOrStdout()

			if exportOut != "" {
				f, err := os.Create(exportOut)
				if err != nil {
					return err
				}
				defer f.Close()

				w = f
			}

			return service.NewLedgerService(ctx).ExportCSV(ctx, w)
		},
	}
)

// newLedgerContext 初始化配置与存储，返回带存储依赖的 context.
func newLedgerContext() (contextPkg.Context, *storage.Manager, error) {
	if err := configs.InitConfig(cfgFile); err != nil {
		return nil, nil, fmt.Errorf("init config: %w", err)
	}

	ctx := contextPkg.Background()

	mgr, err := storage.Init(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}

	return ctxPkg.WithStorageManager(ctx, mgr), mgr, nil
}

// registerLogsCommands 注册台账维护命令.
func registerLogsCommands() {
	logsPurgeCmd.Flags().IntVar(&purgeDays, "days", configs.DefaultRetentionDays, "retention window in days")
	logsPurgeCmd.Flags().BoolVar(&purgeYes, "yes", false, "confirm the purge")
	logsExportCmd.Flags().StringVar(&exportOut, "out", "", "write CSV to file instead of stdout")

	logsCmd.AddCommand(logsPurgeCmd)
	logsCmd.AddCommand(logsExportCmd)

	rootCmd.AddCommand(logsCmd)
}
