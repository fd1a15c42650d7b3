package cmd

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/c9s/tspipe/pkg/config"
	"github.com/c9s/tspipe/pkg/pipeline"
	"github.com/c9s/tspipe/pkg/profile/timeprofile"
)

func init() {
	configFlags(PlotCmd.Flags())
	PlotCmd.Flags().String("output", "output.png", "output PNG file")
	PlotCmd.Flags().String("title", "", "chart title, defaults to the config file name")
	RootCmd.AddCommand(PlotCmd)
}

var PlotCmd = &cobra.Command{
	Use:   "plot [--config=config.yaml] [--output=chart.png] [datafile]",
	Short: "render the input and every operator's output into a PNG chart",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	RunE: plot,
}

func plot(cmd *cobra.Command, args []string) error {
	userConfig, configFile, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	title, err := cmd.Flags().GetString("title")
	if err != nil {
		return err
	}

	if title == "" {
		title = filepath.Base(configFile)
	}

	sourceConfig := userConfig.Source
	if sourceConfig == nil {
		sourceConfig = &config.SourceConfig{}
	}

	f, err := openDataFile(args, sourceConfig)
	if err != nil {
		return err
	}

	if f != os.Stdin {
		defer f.Close()
	}

	source, err := newValueSource(sourceConfig, f)
	if err != nil {
		return err
	}

	input, err := drainSource(source)
	if err != nil {
		return err
	}

	if len(input) < 2 {
		return errors.Errorf("cannot plot %d input values", len(input))
	}

	xs := make([]float64, len(input))
	for i := range xs {
		xs[i] = float64(i)
	}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "input",
			XValues: xs,
			YValues: input,
		},
	}

	// replay the input through every chain prefix, so each operator's output
	// reflects what it sees in the full pipeline
	for n := 1; n <= len(userConfig.Pipeline); n++ {
		ops, err := userConfig.Operators()
		if err != nil {
			return err
		}

		prefix := ops[:n]
		stage, err := pipeline.Chain(pipeline.NewSliceSource(input...), prefix...)
		if err != nil {
			return err
		}

		var sx, sy []float64
		for i := 0; ; i++ {
			v, err := stage.Next()
			if err == io.EOF {
				break
			}

			if err != nil {
				return err
			}

			if v.Valid {
				sx = append(sx, float64(i))
				sy = append(sy, v.Float64)
			}
		}

		label := operatorLabel(prefix[n-1])
		if len(sy) < 2 {
			log.Warnf("%s produced %d values, skipping its series", label, len(sy))
			continue
		}

		series = append(series, chart.ContinuousSeries{
			Name:    label,
			XValues: sx,
			YValues: sy,
		})
	}

	graph := chart.Chart{
		Title: title,
		XAxis: chart.XAxis{
			ValueFormatter: chart.IntValueFormatter,
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	out, err := os.Create(output)
	if err != nil {
		return err
	}
	defer out.Close()

	renderProfile := timeprofile.Start("render")
	if err := graph.Render(chart.PNG, out); err != nil {
		return errors.Wrap(err, "cannot render the chart")
	}
	renderProfile.StopAndLog(log.Debugf)

	log.Infof("chart saved to %s", output)
	return nil
}

func drainSource(source pipeline.Source) ([]float64, error) {
	var values []float64
	for {
		v, err := source.Poll()
		if err == io.EOF {
			return values, nil
		}

		if err != nil {
			return nil, err
		}

		values = append(values, v)
	}
}
