package main

import (
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"StegoLab/pkg/analyzer"
	"StegoLab/pkg/bench"
	"StegoLab/pkg/filehandler"
	"StegoLab/pkg/metrics"
	"StegoLab/pkg/models"
	"StegoLab/pkg/report"
	"StegoLab/pkg/stego"
	"StegoLab/pkg/visual"
)

// runResult is everything produced by one full embed-and-evaluate run
type runResult struct {
	original *image.NRGBA
	embedded *image.NRGBA
	attacks  []models.AttackResult
	report   *report.Report
}

// runPipeline embeds message into the image at inPath and evaluates the
// result: quality metrics, chi-square risk, visual delta and, when
// withAttacks is set, the robustness suite.
func (a *app) runPipeline(inPath, message string, mode modeFlags, withAttacks bool) (*runResult, error) {
	method, err := mode.parse()
	if err != nil {
		return nil, err
	}
	img, _, err := filehandler.LoadImage(inPath)
	if err != nil {
		return nil, err
	}
	original := stego.ToNRGBA(img)
	b := original.Bounds()

	embedded, err := stego.EmbedText(original, message, mode.password, mode.bits, method)
	if err != nil {
		return nil, err
	}
	capacity := stego.CapacityBytes(b.Dx(), b.Dy(), mode.bits)
	entry := a.log.WithFields(logrus.Fields{"method": method, "bits": mode.bits, "capacity": capacity})
	entry.Debug("payload embedded")

	params := report.Params{
		SourcePath:     inPath,
		Width:          b.Dx(),
		Height:         b.Dy(),
		Method:         method,
		BitsPerChannel: mode.bits,
		Password:       mode.password,
		Message:        message,
		Capacity:       capacity,
		Assessment:     analyzer.Assess(original, embedded, len(message), capacity),
	}

	if q, err := metrics.Compare(original, embedded); err != nil {
		entry.WithError(err).Warn("quality metrics unavailable")
		params.QualityErr = err
	} else {
		params.Quality = &q
	}

	if delta, err := visual.ComputeDeltaMap(original, embedded, 0); err == nil {
		stats := visual.ComputeStats(delta, 0)
		params.VisualStats = &stats
	} else {
		entry.WithError(err).Warn("visual statistics unavailable")
	}

	res := &runResult{original: original, embedded: embedded}
	if withAttacks {
		res.attacks = a.harness().RunAttackSuite(embedded, message, mode.password, mode.bits, method)
		score := bench.RobustnessScore(res.attacks)
		params.RobustnessScore = &score
	}

	res.report = report.Build(params)
	entry.WithField("report", res.report.Meta.ReportID).Debug("report built")
	return res, nil
}

// saveHistory stores the report, warning instead of failing the command
func (a *app) saveHistory(r *report.Report) {
	s, err := a.openStore()
	if err != nil {
		printWarning("History not saved: %v", err)
		return
	}
	defer s.Close()
	if err := s.Save(r); err != nil {
		printWarning("History not saved: %v", err)
		return
	}
	printInfo("Report %s saved to history", r.Meta.ReportID)
}

func describeImage(path string, img image.Image) string {
	b := img.Bounds()
	return fmt.Sprintf("%s (%dx%d)", path, b.Dx(), b.Dy())
}
