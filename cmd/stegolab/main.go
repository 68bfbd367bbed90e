package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"StegoLab/pkg/attack"
	"StegoLab/pkg/bench"
	"StegoLab/pkg/config"
	"StegoLab/pkg/store"
)

const version = "0.3.0"

var (
	// Color printers
	infoColor    = color.New(color.FgBlue).SprintFunc()
	successColor = color.New(color.FgGreen).SprintFunc()
	warningColor = color.New(color.FgYellow).SprintFunc()
	errorColor   = color.New(color.FgRed).SprintFunc()
	alertColor   = color.New(color.FgRed, color.Bold).SprintFunc()
)

func printInfo(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", infoColor("[*]"), fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", successColor("[+]"), fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", warningColor("[!]"), fmt.Sprintf(format, args...))
}

func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s %s\n", errorColor("[-]"), fmt.Sprintf(format, args...))
}

func printAlert(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", alertColor("[!!!]"), fmt.Sprintf(format, args...))
}

// app holds what every subcommand shares once flags and config are resolved
type app struct {
	configPath string
	logLevel   string
	workers    int
	storePath  string

	cfg config.Config
	log *logrus.Logger
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = a.workers
	}
	if cmd.Flags().Changed("store") {
		cfg.StorePath = a.storePath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	a.log = logrus.New()
	a.log.SetOutput(os.Stderr)
	a.log.SetLevel(cfg.Level())
	a.log.WithField("config", a.configPath).Debug("configuration loaded")
	return nil
}

func (a *app) harness() *bench.Harness {
	return bench.New(bench.Config{
		Workers:      a.cfg.Workers,
		PreviewLimit: a.cfg.PreviewLimit,
		Suite:        attack.DefaultSuite(a.cfg.Attacks),
		Logger:       a.log,
		Progress: func(done, total int) {
			a.log.WithFields(logrus.Fields{"done": done, "total": total}).Debug("progress")
		},
	})
}

func (a *app) openStore() (*store.Store, error) {
	return store.Open(store.Options{Path: a.cfg.StorePath, Logger: a.log})
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:               "stegolab",
		Short:             "LSB steganography lab",
		Long:              "Hide text in RGB images, estimate detectability and measure how the payload survives common degradations.",
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", config.DefaultFile, "Path to the YAML configuration file")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	pf.IntVar(&a.workers, "workers", 0, "Parallel workers for attacks and benchmarks (0 = number of CPUs)")
	pf.StringVar(&a.storePath, "store", "", "Directory of the report history database")

	root.AddCommand(
		newEmbedCmd(a),
		newExtractCmd(a),
		newCapacityCmd(a),
		newAssessCmd(a),
		newAttackCmd(a),
		newBenchCmd(a),
		newAutoCmd(a),
		newReportCmd(a),
		newPackCmd(a),
		newVisualCmd(a),
		newHistoryCmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}
