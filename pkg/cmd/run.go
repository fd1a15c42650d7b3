package cmd

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"syscall"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/c9s/tspipe/pkg/cmd/cmdutil"
	"github.com/c9s/tspipe/pkg/config"
	"github.com/c9s/tspipe/pkg/datasource/csvsource"
	"github.com/c9s/tspipe/pkg/datasource/jsonsource"
	"github.com/c9s/tspipe/pkg/envvar"
	"github.com/c9s/tspipe/pkg/pipeline"
	"github.com/c9s/tspipe/pkg/profile/timeprofile"
	"github.com/c9s/tspipe/pkg/style"
	"github.com/c9s/tspipe/pkg/util"
)

func init() {
	configFlags(RunCmd.Flags())
	RunCmd.Flags().Int("batch", 0, "look-ahead batch size, overrides the config file")
	RunCmd.Flags().String("rate", "", "pull rate limit, e.g. 10/1s or 2+1/5s")
	RunCmd.Flags().String("metrics-bind", "", "bind address of the prometheus metrics endpoint, e.g. :9090")
	RunCmd.Flags().Bool("no-progress", false, "disable the progress bar")
	RootCmd.AddCommand(RunCmd)
}

func configFlags(flags *flag.FlagSet) {
	flags.String("config", "", "config file")
}

var RunCmd = &cobra.Command{
	Use:   "run [--config=config.yaml] [datafile]",
	Short: "stream a data file through the configured pipeline",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	RunE: run,
}

// loadConfig reads the --config flag and loads the named file. The config
// file is required on every command that builds a pipeline.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", err
	}

	if len(configFile) == 0 {
		return nil, "", errors.New("--config option is required")
	}

	userConfig, err := config.Load(configFile)
	if err != nil {
		return nil, "", err
	}

	return userConfig, configFile, nil
}

// openDataFile resolves the input stream: the command line argument first,
// then the config file's source path, then stdin. "-" forces stdin.
func openDataFile(args []string, sourceConfig *config.SourceConfig) (*os.File, error) {
	var datafile string
	if len(args) > 0 {
		datafile = args[0]
	} else {
		datafile = sourceConfig.Path
	}

	if datafile == "" || datafile == "-" {
		return os.Stdin, nil
	}

	return os.Open(datafile)
}

// newValueSource wraps rd with the record reader selected by the source
// config.
func newValueSource(sourceConfig *config.SourceConfig, rd io.Reader) (pipeline.Source, error) {
	switch sourceConfig.Format {
	case "", "csv":
		reader := csv.NewReader(rd)
		if sourceConfig.Header {
			if _, err := reader.Read(); err != nil && err != io.EOF {
				return nil, err
			}
		}

		return csvsource.NewCSVValueReaderWithDecoder(reader, csvsource.ColumnDecoder(sourceConfig.Column)), nil

	case "jsonl", "json":
		return jsonsource.NewJSONValueReader(rd, sourceConfig.Key), nil

	default:
		return nil, errors.Errorf("unsupported source format: %q", sourceConfig.Format)
	}
}

func run(cmd *cobra.Command, args []string) error {
	userConfig, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	batchSize, err := cmd.Flags().GetInt("batch")
	if err != nil {
		return err
	}

	if batchSize == 0 {
		batchSize, _ = envvar.Int("TSPIPE_BATCH")
	}

	if batchSize > 0 {
		userConfig.BatchSize = batchSize
	}

	rateDesc, err := cmd.Flags().GetString("rate")
	if err != nil {
		return err
	}

	var limiter *rate.Limiter
	if len(rateDesc) > 0 {
		limiter, err = util.ParseRateLimitSyntax(rateDesc)
		if err != nil {
			return errors.Wrapf(err, "failed to parse the rate limit %q", rateDesc)
		}
	}

	metricsBind, err := cmd.Flags().GetString("metrics-bind")
	if err != nil {
		return err
	}

	if metricsBind == "" {
		metricsBind, _ = envvar.String("TSPIPE_METRICS_BIND")
	}

	noProgress, err := cmd.Flags().GetBool("no-progress")
	if err != nil {
		return err
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

	// wrap regular files with a byte progress bar on stderr, so stdout stays
	// a clean value-per-line stream
	var rd io.Reader = f
	var bar *pb.ProgressBar
	if f != os.Stdin && !noProgress {
		if fi, err := f.Stat(); err == nil && fi.Mode().IsRegular() {
			bar = pb.Full.Start64(fi.Size())
			bar.Set(pb.Bytes, true)
			bar.SetWriter(os.Stderr)
			rd = bar.NewProxyReader(f)
		}
	}

	source, err := newValueSource(sourceConfig, rd)
	if err != nil {
		return err
	}

	chain, err := userConfig.Build(source)
	if err != nil {
		return err
	}

	log.Debugf("pipeline assembled: %d operators, batchSize=%d", len(userConfig.Pipeline), userConfig.BatchSize)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if sig := cmdutil.WaitForSignal(ctx, syscall.SIGTERM, syscall.SIGINT); sig != nil {
			log.Warnf("%s received, stopping the pull loop...", sig)
			cancel()
		}
	}()

	var emitted, gaps int64
	out := bufio.NewWriter(os.Stdout)
	pullProfile := timeprofile.Start("pull")

	g, gctx := errgroup.WithContext(ctx)

	if len(metricsBind) > 0 {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())

		metricsServer := &http.Server{Addr: metricsBind, Handler: mux}
		g.Go(func() error {
			log.Infof("serving prometheus metrics on %s/metrics", metricsBind)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}

			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			return metricsServer.Shutdown(context.Background())
		})
	}

	g.Go(func() error {
		// stop the metrics server and the signal waiter when the stream ends
		defer cancel()

		for {
			select {
			case <-gctx.Done():
				return nil
			default:
			}

			if limiter != nil {
				if err := limiter.Wait(gctx); err != nil {
					return nil
				}
			}

			v, err := chain.Next()
			if err == io.EOF {
				return nil
			}

			if err != nil {
				return errors.Wrap(err, "pipeline terminated")
			}

			if v.Valid {
				emitted++
				fmt.Fprintln(out, strconv.FormatFloat(v.Float64, 'g', -1, 64))
			} else {
				gaps++
				fmt.Fprintln(out, "NaN")
			}
		}
	})

	runErr := g.Wait()

	if bar != nil {
		bar.Finish()
	}

	if err := out.Flush(); err != nil {
		return err
	}

	printSummary(chain, emitted, gaps, pullProfile.Stop())

	return runErr
}

func printSummary(chain *pipeline.Stage, emitted, gaps int64, elapsed time.Duration) {
	// walk the chain upstream and render the stages in source-to-sink order
	var stages []*pipeline.Stage
	for stage := chain; stage != nil; stage = stage.Upstream() {
		stages = append(stages, stage)
	}

	t := style.NewStageTable(os.Stdout)
	t.AppendHeader(table.Row{"#", "OPERATOR", "VALUES", "GAPS"})
	for i := len(stages) - 1; i >= 0; i-- {
		stage := stages[i]
		t.AppendRow(table.Row{len(stages) - i, operatorLabel(stage.Operator()), stage.Processed(), stage.Unavailable()})
	}
	t.Render()

	total := emitted + gaps
	throughput := 0.0
	if seconds := elapsed.Seconds(); seconds > 0 {
		throughput = float64(total) / seconds
	}

	color.Green("PROCESSED %d VALUES IN %s (%.1f values/s)", total, elapsed.Round(time.Millisecond), throughput)
	if gaps > 0 {
		color.Yellow("%d WARM-UP GAPS", gaps)
	}
}

func operatorLabel(op pipeline.Operator) string {
	if s, ok := op.(fmt.Stringer); ok {
		return s.String()
	}

	return op.Name()
}
