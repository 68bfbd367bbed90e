package bench

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"StegoLab/pkg/analyzer"
	lsbanalyzer "StegoLab/pkg/analyzer/image/lsb"
	"StegoLab/pkg/metrics"
	"StegoLab/pkg/models"
	"StegoLab/pkg/stego"
)

// ErrNoFit is recorded when the message exceeds the container capacity
var ErrNoFit = errors.New("message does not fit the container")

// Scoring weights for best-mode selection
const (
	ssimWeight    = 100.0
	psnrWeight    = 0.15
	usageWeight   = 25.0
	psnrCap       = 100.0
	mediumPenalty = 8.0
	highPenalty   = 18.0
)

type cell struct {
	method stego.Method
	bits   int
}

func sweepCells(bitsOptions []int, methods []stego.Method) []cell {
	cells := make([]cell, 0, len(bitsOptions)*len(methods))
	for _, m := range methods {
		for _, b := range bitsOptions {
			cells = append(cells, cell{method: m, bits: b})
		}
	}
	return cells
}

// RunModeBenchmark embeds message under every (method, bits) combination and
// reports fit, decode success and quality. Rows are ordered by method, then bits.
func (h *Harness) RunModeBenchmark(img image.Image, message, password string, bitsOptions []int, methods []stego.Method) []models.BenchmarkRow {
	cells := sweepCells(bitsOptions, methods)
	var src *image.NRGBA
	if img != nil {
		src = stego.ToNRGBA(img)
	}
	return runIndexed(len(cells), h.workers, func(i int) models.BenchmarkRow {
		return h.runCell(src, message, password, cells[i])
	}, h.progress)
}

func (h *Harness) runCell(src *image.NRGBA, message, password string, c cell) (row models.BenchmarkRow) {
	row = models.BenchmarkRow{Method: string(c.method), BitsPerChannel: c.bits}
	entry := h.log.WithFields(logrus.Fields{"method": c.method, "bits": c.bits})
	defer func() {
		if r := recover(); r != nil {
			row.DecodeOK = false
			row.Quality = nil
			row.Error = fmt.Sprintf("panic: %v", r)
			entry.Errorf("benchmark cell panicked: %v", r)
		}
	}()

	if src == nil {
		row.Error = errNilImage.Error()
		return row
	}
	if err := stego.ValidateParams(c.bits, c.method); err != nil {
		row.Error = err.Error()
		return row
	}

	b := src.Bounds()
	row.Capacity = stego.CapacityBytes(b.Dx(), b.Dy(), c.bits)
	payloadBytes := len(message)
	if row.Capacity > 0 {
		usage := float64(payloadBytes) / float64(row.Capacity)
		row.UsageRatio = &usage
	}
	if payloadBytes > row.Capacity {
		row.Error = ErrNoFit.Error()
		return row
	}
	row.Fits = true

	embedded, err := stego.EmbedText(src, message, password, c.bits, c.method)
	if err != nil {
		row.Error = err.Error()
		entry.WithError(err).Debug("embed failed")
		return row
	}
	decoded, err := stego.ExtractText(embedded, password, c.bits, c.method)
	if err != nil {
		row.Error = err.Error()
		entry.WithError(err).Debug("extract failed")
		return row
	}
	row.DecodeOK = decoded == message

	q, err := metrics.Compare(src, embedded)
	if err != nil {
		row.Error = err.Error()
		entry.WithError(err).Debug("quality metrics failed")
		return row
	}
	row.Quality = &q
	return row
}

// SelectBestMode runs the sweep and ranks every cell that fit and decoded.
// It returns nil when no cell qualifies.
func (h *Harness) SelectBestMode(img image.Image, message, password string, bitsOptions []int, methods []stego.Method) *models.ModeCandidate {
	rows := h.RunModeBenchmark(img, message, password, bitsOptions, methods)
	if img == nil {
		return nil
	}
	src := stego.AsNRGBA(img)
	original := lsbanalyzer.ChiSquareLSB(src)

	var candidates []models.ModeCandidate
	for _, row := range rows {
		if !row.Fits || !row.DecodeOK || row.Quality == nil {
			continue
		}
		method := stego.Method(row.Method)
		embedded, err := stego.EmbedText(src, message, password, row.BitsPerChannel, method)
		if err != nil {
			continue
		}
		usage := analyzer.UsageRatio(len(message), row.Capacity)
		risk := analyzer.EvaluateRisk(usage, original, lsbanalyzer.ChiSquareLSB(embedded))
		candidates = append(candidates, models.ModeCandidate{
			Method:         row.Method,
			BitsPerChannel: row.BitsPerChannel,
			PSNR:           row.Quality.PSNR,
			SSIM:           row.Quality.SSIM,
			UsageRatio:     usage,
			Risk:           risk,
			Score:          modeScore(row.Quality.SSIM, row.Quality.PSNR, usage, risk.Level),
		})
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	best := candidates[0]
	return &best
}

func modeScore(ssim, psnr, usage float64, level models.RiskLevel) float64 {
	if math.IsInf(psnr, 1) || psnr > psnrCap {
		psnr = psnrCap
	}
	penalty := 0.0
	switch level {
	case models.RiskMedium:
		penalty = mediumPenalty
	case models.RiskHigh:
		penalty = highPenalty
	}
	return ssim*ssimWeight + psnr*psnrWeight - usage*usageWeight - penalty
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
