package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"StegoLab/pkg/analyzer"
	"StegoLab/pkg/extractor"
	"StegoLab/pkg/filehandler"
	"StegoLab/pkg/metrics"
	"StegoLab/pkg/report"
	"StegoLab/pkg/stego"
)

func newEmbedCmd(a *app) *cobra.Command {
	var (
		in, out string
		mode    modeFlags
		msg     messageFlags
	)
	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Hide a message in an image and save the result as PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := msg.resolve()
			if err != nil {
				return err
			}
			res, err := a.runPipeline(in, message, mode, false)
			if err != nil {
				return err
			}
			if err := filehandler.SavePNG(res.embedded, out); err != nil {
				return err
			}
			printSuccess("Message hidden in %s", out)
			displayReportSummary(res.report)
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "Carrier image (path or URL)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output PNG path")
	mode.register(cmd)
	msg.register(cmd)
	mustMarkRequired(cmd, "in", "out")
	return cmd
}

func newExtractCmd(a *app) *cobra.Command {
	var (
		in   string
		scan bool
		mode modeFlags
	)
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Recover a hidden message",
		RunE: func(cmd *cobra.Command, args []string) error {
			img, _, err := filehandler.LoadImage(in)
			if err != nil {
				return err
			}
			if scan {
				return scanModes(a, img, in, mode.password)
			}
			method, err := mode.parse()
			if err != nil {
				return err
			}
			text, err := stego.ExtractText(img, mode.password, mode.bits, method)
			if err != nil {
				return fmt.Errorf("no message recovered: %w", err)
			}
			printSuccess("Recovered %d characters from %s", utf8.RuneCountInString(text), describeImage(in, img))
			fmt.Println(text)
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "Image carrying a message")
	cmd.Flags().BoolVar(&scan, "scan", false, "Try every configured mode and print the most text-like result")
	mode.register(cmd)
	mustMarkRequired(cmd, "in")
	return cmd
}

func scanModes(a *app, img image.Image, in, password string) error {
	bits, methods, err := a.sweepOptions(nil, nil)
	if err != nil {
		return err
	}
	best, err := extractor.Best(img, password, bits, methods)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	a.log.WithFields(logrus.Fields{"method": best.Method, "bits": best.BitsPerChannel, "entropy": best.Entropy}).Debug("best candidate")
	printSuccess("Most likely mode: %s / %d bit(s) per channel (score %.2f)", best.Method, best.BitsPerChannel, best.Score)
	if best.TextQuality < 0.7 {
		printWarning("Recovered data does not look like text (quality %.2f)", best.TextQuality)
	}
	fmt.Println(best.Text)
	return nil
}

func newCapacityCmd(a *app) *cobra.Command {
	var (
		in   string
		bits []int
	)
	cmd := &cobra.Command{
		Use:   "capacity",
		Short: "Show how many message bytes an image can hold",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(bits) == 0 {
				bits = a.cfg.Bits
			}
			for _, n := range bits {
				if err := stego.ValidateParams(n, stego.Sequential); err != nil {
					return err
				}
			}

			paths := []string{in}
			if info, err := os.Stat(in); err == nil && info.IsDir() {
				if paths, err = filehandler.GatherImages(in); err != nil {
					return err
				}
				if len(paths) == 0 {
					printWarning("No images found in %s", in)
					return nil
				}
			}
			for _, path := range paths {
				img, _, err := filehandler.LoadImage(path)
				if err != nil {
					printError("Skipping %s: %v", path, err)
					continue
				}
				b := img.Bounds()
				printInfo("Image: %s", describeImage(path, img))
				for _, n := range bits {
					c := stego.CapacityBytes(b.Dx(), b.Dy(), n)
					fmt.Printf("  %d bit(s)/channel: %d bytes (%.3f KB)\n", n, c, float64(c)/1024)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "Carrier image or a directory of images")
	cmd.Flags().IntSliceVarP(&bits, "bits", "b", nil, "Bit depths to report (default from config)")
	mustMarkRequired(cmd, "in")
	return cmd
}

func newAssessCmd(a *app) *cobra.Command {
	var (
		original, embedded string
		mode               modeFlags
	)
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Estimate detectability of an embedded image against its original",
		RunE: func(cmd *cobra.Command, args []string) error {
			method, err := mode.parse()
			if err != nil {
				return err
			}
			orig, _, err := filehandler.LoadImage(original)
			if err != nil {
				return err
			}
			emb, _, err := filehandler.LoadImage(embedded)
			if err != nil {
				return err
			}

			payload := 0
			if text, err := stego.ExtractText(emb, mode.password, mode.bits, method); err == nil {
				payload = len(text)
			} else {
				printWarning("No message recovered, usage treated as 0: %v", err)
			}
			b := orig.Bounds()
			capacity := stego.CapacityBytes(b.Dx(), b.Dy(), mode.bits)
			displayAssessment(analyzer.Assess(orig, emb, payload, capacity))

			if q, err := metrics.Compare(orig, emb); err == nil {
				displayQuality(q)
			} else {
				printWarning("Quality metrics unavailable: %v", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&original, "original", "", "Original image")
	cmd.Flags().StringVar(&embedded, "stego", "", "Image carrying a message")
	mode.register(cmd)
	mustMarkRequired(cmd, "original", "stego")
	return cmd
}

func newAttackCmd(a *app) *cobra.Command {
	var (
		in, expect string
		mode       modeFlags
	)
	cmd := &cobra.Command{
		Use:   "attack",
		Short: "Run the degradation suite against an embedded image",
		RunE: func(cmd *cobra.Command, args []string) error {
			method, err := mode.parse()
			if err != nil {
				return err
			}
			img, _, err := filehandler.LoadImage(in)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("expect") {
				text, err := stego.ExtractText(img, mode.password, mode.bits, method)
				if err != nil {
					return fmt.Errorf("no message recovered to compare against, pass --expect: %w", err)
				}
				expect = text
			}
			rows := a.harness().RunAttackSuite(img, expect, mode.password, mode.bits, method)
			displayAttacks(rows)
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "Image carrying a message")
	cmd.Flags().StringVar(&expect, "expect", "", "Expected message (default: the message recovered before attacks)")
	mode.register(cmd)
	mustMarkRequired(cmd, "in")
	return cmd
}

func newBenchCmd(a *app) *cobra.Command {
	var (
		in       string
		password string
		bits     []int
		methods  []string
		msg      messageFlags
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Compare every (method, bits) combination for a message",
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := msg.resolve()
			if err != nil {
				return err
			}
			img, _, err := filehandler.LoadImage(in)
			if err != nil {
				return err
			}
			bitOpts, parsed, err := a.sweepOptions(bits, methods)
			if err != nil {
				return err
			}
			printInfo("Benchmarking %s", describeImage(in, img))
			rows := a.harness().RunModeBenchmark(img, message, password, bitOpts, parsed)
			displayBenchmark(rows)
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "Carrier image")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Optional XOR password")
	cmd.Flags().IntSliceVarP(&bits, "bits", "b", nil, "Bit depths to try (default from config)")
	cmd.Flags().StringSliceVarP(&methods, "methods", "m", nil, "Methods to try (default from config)")
	msg.register(cmd)
	mustMarkRequired(cmd, "in")
	return cmd
}

func newAutoCmd(a *app) *cobra.Command {
	var (
		in, out  string
		password string
		msg      messageFlags
	)
	cmd := &cobra.Command{
		Use:   "auto",
		Short: "Pick the best mode for a message and optionally embed with it",
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := msg.resolve()
			if err != nil {
				return err
			}
			img, _, err := filehandler.LoadImage(in)
			if err != nil {
				return err
			}
			bitOpts, methods, err := a.sweepOptions(nil, nil)
			if err != nil {
				return err
			}
			best := a.harness().SelectBestMode(img, message, password, bitOpts, methods)
			if best == nil {
				return errors.New("no mode fits this message or every candidate failed")
			}
			displayCandidate(best)
			if out == "" {
				return nil
			}
			embedded, err := stego.EmbedText(img, message, password, best.BitsPerChannel, stego.Method(best.Method))
			if err != nil {
				return err
			}
			if err := filehandler.SavePNG(embedded, out); err != nil {
				return err
			}
			printSuccess("Message hidden in %s", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "Carrier image")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Embed with the chosen mode and write this PNG")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Optional XOR password")
	msg.register(cmd)
	mustMarkRequired(cmd, "in")
	return cmd
}

func newReportCmd(a *app) *cobra.Command {
	var (
		in, outDir string
		noHistory  bool
		mode       modeFlags
		msg        messageFlags
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Embed, evaluate and write the stego image with JSON and text reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := msg.resolve()
			if err != nil {
				return err
			}
			res, err := a.runPipeline(in, message, mode, true)
			if err != nil {
				return err
			}

			stegoPath := filepath.Join(outDir, "stego.png")
			jsonPath := filepath.Join(outDir, "report.json")
			textPath := filepath.Join(outDir, "report.txt")
			res.report.Artifacts = report.Artifacts{
				EncodedImagePath: stegoPath,
				ReportPath:       jsonPath,
				ReportFormat:     "json",
			}

			if err := filehandler.SavePNG(res.embedded, stegoPath); err != nil {
				return err
			}
			data, err := json.MarshalIndent(res.report, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode report: %w", err)
			}
			if err := filehandler.SaveFile(data, jsonPath); err != nil {
				return err
			}
			if err := filehandler.SaveFile([]byte(report.RenderText(res.report)), textPath); err != nil {
				return err
			}

			displayReportSummary(res.report)
			displayAttacks(res.attacks)
			printSuccess("Report written to %s", outDir)
			if !noHistory {
				a.saveHistory(res.report)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "Carrier image")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "stegolab_output", "Directory for the stego image and reports")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record the report in the history store")
	mode.register(cmd)
	msg.register(cmd)
	mustMarkRequired(cmd, "in")
	return cmd
}

func newPackCmd(a *app) *cobra.Command {
	var (
		in, out   string
		noHistory bool
		mode      modeFlags
		msg       messageFlags
	)
	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Write a reproducible proof pack zip for an embedding run",
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := msg.resolve()
			if err != nil {
				return err
			}
			res, err := a.runPipeline(in, message, mode, true)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}
			if err := report.WritePackFile(out, res.report, res.original, res.embedded, res.attacks); err != nil {
				return err
			}
			displayReportSummary(res.report)
			printSuccess("Proof pack written to %s", out)
			if !noHistory {
				a.saveHistory(res.report)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "Carrier image")
	cmd.Flags().StringVarP(&out, "out", "o", "proof_pack.zip", "Zip archive to write")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record the report in the history store")
	mode.register(cmd)
	msg.register(cmd)
	mustMarkRequired(cmd, "in")
	return cmd
}

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse previously saved reports",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved reports, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			reports, err := s.List()
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				printInfo("History is empty")
				return nil
			}
			for _, r := range reports {
				fmt.Printf("%s  %s  %s/%d  %s  %s\n",
					r.Meta.ReportID, r.Meta.GeneratedAtUTC, r.Embedding.Method,
					r.Embedding.BitsPerChannel, riskColor(r.Risk.Level), r.Input.SourceImagePath)
			}
			return nil
		},
	}

	var asJSON bool
	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a saved report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			r, err := s.Get(args[0])
			if err != nil {
				return err
			}
			if !asJSON {
				fmt.Print(report.RenderText(r))
				return nil
			}
			data, err := json.MarshalIndent(r, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
	show.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a saved report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.Delete(args[0]); err != nil {
				return err
			}
			printSuccess("Report %s deleted", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, show, del)
	return cmd
}

// sweepOptions resolves bit depths and methods from flags, falling back to config
func (a *app) sweepOptions(bits []int, methods []string) ([]int, []stego.Method, error) {
	if len(bits) == 0 {
		bits = a.cfg.Bits
	}
	names := methods
	if len(names) == 0 {
		names = a.cfg.Methods
	}
	parsed := make([]stego.Method, 0, len(names))
	for _, n := range names {
		m, err := stego.ParseMethod(n)
		if err != nil {
			return nil, nil, err
		}
		parsed = append(parsed, m)
	}
	return bits, parsed, nil
}
