package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	configlibsql "udemy-coupons/lib/configutil/libsql"
	"udemy-coupons/lib/serviceutil"
	"udemy-coupons/lib/timezone"
	"udemy-coupons/services/results"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	exportDb        *string
	exportLimit     *int
	exportOut       *string
	exportClipboard *bool
)

func init() {
	exportDb = exportCmd.PersistentFlags().String("db", "", "The sqlite database exports were saved to, overrides the configured database.")
	exportLimit = exportListCmd.Flags().Int("limit", 20, "The amount of exports to list.")
	exportOut = exportShowCmd.Flags().String("out", "", "A directory to write the export file to.")
	exportClipboard = exportShowCmd.Flags().Bool("clipboard", false, "Copies the export to the clipboard.")

	exportCmd.AddCommand(exportListCmd)
	exportCmd.AddCommand(exportShowCmd)
	rootCmd.AddCommand(exportCmd)
}

func exportDbConfig() configlibsql.Struct {
	cfg, err := loadConfig()
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if cfg.Timezone != "" {
		err = timezone.SetLocation(cfg.Timezone)
		if err != nil {
			serviceutil.Fatal("failed to load timezone", err)
		}
	}
	dbConfig := cfg.Database
	if *exportDb != "" {
		dbConfig = configlibsql.Struct{File: *exportDb}
	}
	if dbConfig.IsZero() {
		serviceutil.Fatal("no database configured", fmt.Errorf("specify --db or database in config.json5"))
	}
	return dbConfig
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Inspects exports saved to the database.",
}

var exportListCmd = &cobra.Command{
	Use:   "list [--limit <n>]",
	Short: "Lists the most recent exports.",
	Run: func(cmd *cobra.Command, args []string) {
		database, err := exportDbConfig().OpenDB()
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer database.Close()

		exports, err := results.ListExports(cmd.Context(), database, *exportLimit)
		if err != nil {
			serviceutil.Fatal("failed to list exports", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"ID", "Generated On", "Coupons"})
		for _, e := range exports {
			t.AppendRow(table.Row{e.ID, e.GeneratedAt.Format("02/01/2006 15:04"), len(e.Coupons)})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}

var exportShowCmd = &cobra.Command{
	Use:   "show <id> [--out <dir>] [--clipboard]",
	Short: "Prints a saved export and optionally delivers it again.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			serviceutil.Fatal("invalid export id", err)
		}

		database, err := exportDbConfig().OpenDB()
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer database.Close()

		stored, err := results.LoadExport(cmd.Context(), database, id)
		if err != nil {
			serviceutil.Fatal("failed to load export", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), stored.Content)

		if *exportOut != "" {
			path, err := stored.WriteFile(*exportOut)
			if err != nil {
				serviceutil.Fatal("failed to write export", err)
			}
			slog.Info("wrote export", "path", path)
		}
		if *exportClipboard {
			err = stored.CopyToClipboard()
			if err != nil {
				serviceutil.Fatal("failed to copy export", err)
			}
			slog.Info("copied export to clipboard")
		}
	},
}
