package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/bridge-network/internal/config"
	"github.com/gaze-network/bridge-network/modules/bridge"
	"github.com/gaze-network/bridge-network/modules/bridge/export"
	"github.com/gaze-network/bridge-network/pkg/logger"
	"github.com/gaze-network/bridge-network/pkg/logger/slogx"
	"github.com/spf13/cobra"
)

type exportBurnsCmdOptions struct {
	Output        string
	UnsettledOnly bool
}

func NewExportBurnsCommand() *cobra.Command {
	opts := &exportBurnsCmdOptions{}

	cmd := &cobra.Command{
		Use:   "export-burns",
		Short: "Export the burn log as parquet to S3 or a local file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportBurnsHandler(opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Output, "output", "", "Write to a local file instead of uploading to S3")
	flags.BoolVar(&opts.UnsettledOnly, "unsettled-only", false, "Export only burns not yet released on Ethereum")

	return cmd
}

func exportBurnsHandler(opts *exportBurnsCmdOptions, cmd *cobra.Command, _ []string) error {
	conf := config.Load()
	bridgeConf := conf.Modules.Bridge
	exportConf := bridgeConf.Export
	exportConf.UnsettledOnly = exportConf.UnsettledOnly || opts.UnsettledOnly

	ctx := logger.WithContext(cmd.Context(), slogx.String("command", "export-burns"))

	bridgeDg, cleanupFuncs, err := bridge.NewDataGateway(ctx, bridgeConf)
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() {
		for _, cleanup := range cleanupFuncs {
			if err := cleanup(context.Background()); err != nil {
				logger.WarnContext(ctx, "Failed to close bridge storage", slogx.Error(err))
			}
		}
	}()
	exporter := export.NewExporter(bridgeDg, exportConf.PageSize)

	if opts.Output != "" {
		records, err := exporter.Snapshot(ctx, exportConf.UnsettledOnly)
		if err != nil {
			return errors.WithStack(err)
		}
		data, err := export.Encode(records)
		if err != nil {
			return errors.WithStack(err)
		}
		if err := os.WriteFile(opts.Output, data, 0o644); err != nil {
			return errors.Wrap(err, "write export file")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d burns to %s\n", len(records), opts.Output)
		return nil
	}

	uploader, err := export.NewS3Uploader(ctx, exportConf)
	if err != nil {
		return errors.WithStack(err)
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()
	location, err := export.NewJob(exporter, uploader, exportConf).Export(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported burns to %s\n", location)
	return nil
}
