package commands

import (
	"context"
	"errors"
	"log/slog"
	configlibsql "udemy-coupons/lib/configutil/libsql"
	"udemy-coupons/lib/forwarding"
	"udemy-coupons/lib/restyutil"
	"udemy-coupons/lib/serviceutil"
	"udemy-coupons/lib/timezone"
	"udemy-coupons/services/results"
	"udemy-coupons/services/scraper"

	"github.com/spf13/cobra"
)

var (
	scrapeStart     *int
	scrapeEnd       *int
	scrapeEndpoint  *string
	scrapeOut       *string
	scrapeClipboard *bool
	scrapeDb        *string
	scrapeMailTo    *[]string
)

func init() {
	flags := scrapeCmd.Flags()
	scrapeStart = flags.Int("start", 1, "The first listing page to scan.")
	scrapeEnd = flags.Int("end", 1, "The last listing page to scan, raised to --start when lower.")
	scrapeEndpoint = flags.String("endpoint", "", "The forwarding endpoint listing pages are fetched through, \"direct\" for none.")
	scrapeOut = flags.String("out", "", "A directory to write the export file to.")
	scrapeClipboard = flags.Bool("clipboard", false, "Copies the export to the clipboard.")
	scrapeDb = flags.String("db", "", "A sqlite database to save the export to, overrides the configured database.")
	scrapeMailTo = flags.StringSlice("mail-to", nil, "Mails the export to these addresses, overrides mail_to.")
	rootCmd.AddCommand(scrapeCmd)
}

func newClient(cfg Config) *forwarding.Client {
	opts := forwarding.Options{
		Timeout:          ms(cfg.TimeoutMs),
		CloudflareBypass: cfg.CloudflareBypass,
	}
	if *dumpHttp != "" {
		output, err := restyutil.NewFilesystemOutput(*dumpHttp)
		if err != nil {
			serviceutil.Fatal("failed to create http dump directory", err)
		}
		slog.Info("dumping http exchanges", "dir", output.Dir())
		opts.Dump = output
	}
	return forwarding.NewClient(opts)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--start <page>] [--end <page>] [--endpoint <template>] [--out <dir>] [--clipboard] [--db <path>] [--mail-to <address>]",
	Short: "Scans listing pages for courses and resolves each course to its coupon link.",
	Run: func(cmd *cobra.Command, args []string) {
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

		start := *scrapeStart
		end := *scrapeEnd
		if end < start {
			slog.Info("end page is before start page, using start page", "start", start, "end", end)
			end = start
		}
		endpointName := cfg.Endpoint
		if cmd.Flags().Changed("endpoint") {
			endpointName = *scrapeEndpoint
		}
		endpoint := cfg.listingEndpoint(endpointName)

		collector := results.NewCollector(cmd.ErrOrStderr())
		controller, err := scraper.NewController(scraper.Options{
			Fetcher:      newClient(cfg),
			Origin:       cfg.Origin,
			Endpoints:    cfg.endpoints(),
			ListingPause: ms(cfg.ListingPauseMs),
			CoursePause:  ms(cfg.CoursePauseMs),
			Observer:     collector,
		})
		if err != nil {
			serviceutil.Fatal("failed to create scraper", err)
		}

		state, err := controller.Start(cmd.Context(), scraper.RunConfig{
			PageStart: start,
			PageEnd:   end,
			Endpoint:  endpoint,
		})
		if err != nil {
			serviceutil.Fatal("failed to start scraper", err)
		}

		export := collector.Export()
		export.Table(cmd.OutOrStdout())
		if len(export.Coupons) == 0 {
			slog.Warn("no coupons found, nothing to export", "status", state.Status.String())
			return
		}

		// a stopped run still delivers what it found
		err = deliver(context.WithoutCancel(cmd.Context()), cfg, export)
		if err != nil {
			serviceutil.Fatal("failed to deliver export", err)
		}
	},
}

func deliver(ctx context.Context, cfg Config, export results.Export) error {
	var errs []error

	if *scrapeClipboard {
		err := export.CopyToClipboard()
		if err != nil {
			errs = append(errs, err)
		} else {
			slog.Info("copied export to clipboard", "coupons", len(export.Coupons))
		}
	}

	if *scrapeOut != "" {
		path, err := export.WriteFile(*scrapeOut)
		if err != nil {
			errs = append(errs, err)
		} else {
			slog.Info("wrote export", "path", path)
		}
	}

	dbConfig := cfg.Database
	if *scrapeDb != "" {
		dbConfig = configlibsql.Struct{File: *scrapeDb}
	}
	if !dbConfig.IsZero() {
		err := saveExport(ctx, dbConfig, export)
		if err != nil {
			errs = append(errs, err)
		}
	}

	mailTo := cfg.MailTo
	if len(*scrapeMailTo) > 0 {
		mailTo = *scrapeMailTo
	}
	if len(mailTo) > 0 {
		err := export.SendMail(ctx, cfg.Smtp, mailTo)
		if err != nil {
			errs = append(errs, err)
		} else {
			slog.Info("mailed export", "to", mailTo)
		}
	}

	return errors.Join(errs...)
}

func saveExport(ctx context.Context, config configlibsql.Struct, export results.Export) error {
	database, err := config.OpenDB()
	if err != nil {
		return err
	}
	defer database.Close()

	id, err := export.SaveToDatabase(ctx, database)
	if err != nil {
		return err
	}
	slog.Info("saved export to database", "export_id", id)
	return nil
}
