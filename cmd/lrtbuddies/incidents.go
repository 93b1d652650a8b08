package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ronaldwopara/lrt-buddies-app/internal/incidents"
	"github.com/ronaldwopara/lrt-buddies-app/internal/utils"
)

func newIncidentsCmd() *cobra.Command {
	flags := &appFlags{}
	var (
		lat, lon float64
		radius   float64
	)

	cmd := &cobra.Command{
		Use:   "incidents",
		Short: "List incidents near a coordinate",
		RunE: func(cmd *cobra.Command, args []string) error {
			coreApp, err := BuildApplication(flags.toConfig())
			if err != nil {
				return err
			}
			defer func() { _ = coreApp.CatalogDB.Close() }()
			defer coreApp.Metrics.Shutdown()

			out := cmd.OutOrStdout()

			var items []incidents.Incident
			if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
				items = coreApp.Incidents.Nearby(lat, lon, radius)
				if len(items) == 0 {
					fmt.Fprintf(out, "no incidents within %.0fm\n", radius)
					return nil
				}
			} else {
				items = coreApp.Incidents.All()
			}

			for _, incident := range items {
				fmt.Fprintf(out, "%-30s %-8s %-28s %-13s %-8s %s",
					incident.Title, incident.Line, incident.Station,
					incident.Category, incident.Status,
					incident.ReportedAt.UTC().Format(time.RFC3339))
				if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
					fmt.Fprintf(out, "  %.0fm",
						utils.Distance(lat, lon, incident.Lat, incident.Lon))
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude to search around")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude to search around")
	cmd.Flags().Float64Var(&radius, "radius", incidents.DefaultNearbyRadiusMeters, "search radius in meters")
	return cmd
}
