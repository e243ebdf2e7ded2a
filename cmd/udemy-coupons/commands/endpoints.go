package commands

import (
	"context"
	"errors"
	"os"
	"time"
	"udemy-coupons/lib/forwarding"
	"udemy-coupons/lib/scrapers/discudemy"
	"udemy-coupons/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var endpointsCheck *bool

var errNoCourses = errors.New("no courses on the listing page")

func init() {
	endpointsCheck = endpointsCmd.Flags().Bool("check", false, "Fetches the first listing page through every endpoint.")
	rootCmd.AddCommand(endpointsCmd)
}

type endpointCheck struct {
	elapsed time.Duration
	err     error
}

func checkEndpoint(ctx context.Context, client *forwarding.Client, endpoint forwarding.Endpoint, origin string) endpointCheck {
	start := time.Now()
	html, err := client.FetchThroughEndpoint(ctx, endpoint, discudemy.ListingURL(origin, 1))
	if err == nil && len(discudemy.CourseLinks(html, origin)) == 0 {
		err = errNoCourses
	}
	return endpointCheck{elapsed: time.Since(start), err: err}
}

var endpointsCmd = &cobra.Command{
	Use:   "endpoints [--check]",
	Short: "Lists the configured forwarding endpoints.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		selected := cfg.listingEndpoint(cfg.Endpoint)

		var client *forwarding.Client
		if *endpointsCheck {
			client = newClient(cfg)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		header := table.Row{"#", "Name", "Template", "Selected"}
		if *endpointsCheck {
			header = append(header, "Check", "Time")
		}
		t.AppendHeader(header)

		for i, endpoint := range cfg.endpoints() {
			mark := ""
			if endpoint == selected {
				mark = "*"
			}
			row := table.Row{i + 1, endpoint.Name(), string(endpoint), mark}
			if *endpointsCheck {
				result := checkEndpoint(cmd.Context(), client, endpoint, cfg.Origin)
				status := "ok"
				switch {
				case errors.Is(result.err, errNoCourses):
					status = result.err.Error()
				case result.err != nil:
					status = forwarding.Reason(result.err)
				}
				row = append(row, status, result.elapsed.Round(time.Millisecond).String())
			}
			t.AppendRow(row)
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
