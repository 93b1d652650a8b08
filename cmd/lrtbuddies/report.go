package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ronaldwopara/lrt-buddies-app/internal/capture"
	"github.com/ronaldwopara/lrt-buddies-app/internal/catalog"
	"github.com/ronaldwopara/lrt-buddies-app/internal/export"
	"github.com/ronaldwopara/lrt-buddies-app/internal/location"
	"github.com/ronaldwopara/lrt-buddies-app/internal/pipeline"
	"github.com/ronaldwopara/lrt-buddies-app/internal/report"
)

// autoPrompter confirms every discard prompt; the CLI has no one to ask.
type autoPrompter struct{}

func (autoPrompter) ConfirmDiscard(context.Context) bool { return true }

func newReportCmd() *cobra.Command {
	flags := &appFlags{}
	var (
		photosDir   string
		shots       int
		categoryStr string
		lineStr     string
		station     string
		description string
		riderName   string
		lat, lon    float64
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "File an incident report from the command line",
		Long:  "Drives the reporting pipeline end to end: captures photos from a directory-backed camera, fills in the draft, and exports the finalized report as JSON.",
		RunE: func(cmd *cobra.Command, args []string) error {
			coreApp, err := BuildApplication(flags.toConfig())
			if err != nil {
				return err
			}
			defer func() { _ = coreApp.CatalogDB.Close() }()
			defer coreApp.Metrics.Shutdown()

			ctx := cmd.Context()

			category, err := report.ParseCategory(categoryStr)
			if err != nil {
				return err
			}
			line, err := catalog.ParseLine(lineStr)
			if err != nil {
				return err
			}

			if riderName != "" {
				coreApp.Session.SignIn(riderName)
			}
			fmt.Fprintln(cmd.OutOrStdout(), coreApp.Session.Greeting())

			if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
				location.AcquireInto(ctx, location.StaticProvider{
					Fix: location.Fix{Lat: lat, Lon: lon, AccuracyMeters: 10},
				}, coreApp.Session.Location(), coreApp.Logger)
			}

			provider, err := capture.NewDirectoryProvider(photosDir, coreApp.Clock)
			if err != nil {
				return err
			}

			exporter, err := export.New(coreApp.Config.OutputDir, coreApp.Config.CompressExports, coreApp.Logger)
			if err != nil {
				return err
			}

			controller := pipeline.NewController(pipeline.Options{
				Camera:   capture.NewManager(provider, coreApp.Clock, coreApp.Logger),
				Clock:    coreApp.Clock,
				Stations: coreApp.Catalog,
				Builder:  report.NewBuilder(coreApp.Clock),
				Location: coreApp.Session.Location(),
				Device:   report.DetectDeviceInfo(),
				Prompter: autoPrompter{},
				Sink:     exporter,
				Logger:   coreApp.Logger,
				Metrics:  coreApp.Metrics,
			})

			for i := 0; i < shots; i++ {
				if err := controller.OpenCamera(ctx); err != nil {
					if camErr := controller.CameraError(); camErr != nil {
						return fmt.Errorf("%w: %s", camErr, camErr.Remediation())
					}
					return err
				}
				if err := controller.Shutter(ctx); err != nil {
					return err
				}
			}

			if err := controller.SetCategory(category); err != nil {
				return err
			}
			if err := controller.SetTrainLine(line); err != nil {
				return err
			}
			if err := controller.SetStation(station); err != nil {
				return err
			}
			if err := controller.SetDescription(description); err != nil {
				return err
			}

			if err := controller.Review(ctx); err != nil {
				return err
			}
			if err := controller.Confirm(ctx); err != nil {
				return err
			}

			rec := controller.Record()
			fmt.Fprintf(cmd.OutOrStdout(), "report %s exported to %s\n", rec.ReportID, exporter.Path(*rec))
			return controller.Home()
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&photosDir, "photos", ".", "directory the camera draws photos from")
	cmd.Flags().IntVar(&shots, "shots", 1, "number of photos to capture (1-3)")
	cmd.Flags().StringVar(&categoryStr, "category", "", "report category: Safety or Accessibility")
	cmd.Flags().StringVar(&lineStr, "line", "", "train line: Capital, Metro, or Valley")
	cmd.Flags().StringVar(&station, "station", "", "station on the selected line")
	cmd.Flags().StringVar(&description, "description", "", "what happened")
	cmd.Flags().StringVar(&riderName, "name", "", "rider name for the session greeting")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude of the incident")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude of the incident")
	cmd.Flags().StringVarP(&flags.outputDir, "output", "o", "reports", "directory to export the report into")
	cmd.Flags().BoolVar(&flags.compressExports, "compress", false, "gzip the exported report")

	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("line")
	_ = cmd.MarkFlagRequired("station")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}
