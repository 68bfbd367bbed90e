// Package bench runs the robustness suite and the mode sweep against an
// embedded raster. Every unit of work records its own failure in its row, so a
// run always returns one row per attack or per (method, bits) cell.
package bench

import (
	"errors"
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"StegoLab/pkg/attack"
	"StegoLab/pkg/models"
	"StegoLab/pkg/stego"
)

var errNilImage = errors.New("nil image provided")

// ProgressCallback receives the number of finished units and the run total
type ProgressCallback func(done, total int)

// Config tunes a Harness. Zero values fall back to defaults.
type Config struct {
	Workers      int
	PreviewLimit int
	Suite        *attack.Registry
	Logger       *logrus.Logger
	Progress     ProgressCallback
}

// Harness executes attacks and benchmark sweeps in parallel
type Harness struct {
	workers      int
	previewLimit int
	suite        *attack.Registry
	log          *logrus.Logger
	progress     ProgressCallback
}

// New builds a Harness from cfg
func New(cfg Config) *Harness {
	h := &Harness{
		workers:      cfg.Workers,
		previewLimit: cfg.PreviewLimit,
		suite:        cfg.Suite,
		log:          cfg.Logger,
		progress:     cfg.Progress,
	}
	if h.previewLimit <= 0 {
		h.previewLimit = DefaultPreviewLimit
	}
	if h.suite == nil {
		h.suite = attack.DefaultSuite(attack.DefaultParams())
	}
	if h.log == nil {
		h.log = logrus.New()
		h.log.SetLevel(logrus.WarnLevel)
	}
	return h
}

// Suite returns the attack registry used by the harness
func (h *Harness) Suite() *attack.Registry {
	return h.suite
}

// RunAttackSuite applies every registered attack to embedded, then tries to
// recover expectedText with the given password and mode. Rows follow the
// registry order.
func (h *Harness) RunAttackSuite(embedded image.Image, expectedText, password string, bitsPerChannel int, method stego.Method) []models.AttackResult {
	attacks := h.suite.All()
	var src *image.NRGBA
	if embedded != nil {
		src = stego.ToNRGBA(embedded)
	}

	return runIndexed(len(attacks), h.workers, func(i int) models.AttackResult {
		return h.runAttack(attacks[i], src, expectedText, password, bitsPerChannel, method)
	}, h.progress)
}

func (h *Harness) runAttack(a attack.Attack, src *image.NRGBA, expected, password string, bitsPerChannel int, method stego.Method) (row models.AttackResult) {
	row = models.AttackResult{AttackID: a.ID, DisplayName: a.DisplayName}
	entry := h.log.WithFields(logrus.Fields{
		"attack": a.ID,
		"method": method,
		"bits":   bitsPerChannel,
	})
	defer func() {
		if r := recover(); r != nil {
			row.Success = false
			row.Error = fmt.Sprintf("panic: %v", r)
			entry.Errorf("attack panicked: %v", r)
		}
	}()

	if src == nil {
		row.Error = errNilImage.Error()
		return row
	}
	transformed, err := a.Apply(src)
	if err != nil {
		row.Error = err.Error()
		entry.WithError(err).Debug("attack transform failed")
		return row
	}
	text, err := stego.ExtractText(transformed, password, bitsPerChannel, method)
	if err != nil {
		row.Error = err.Error()
		entry.WithError(err).Debug("payload lost")
		return row
	}
	row.Success = text == expected
	row.PreviewText = SafePreview(text, h.previewLimit)
	entry.WithField("success", row.Success).Debug("attack finished")
	return row
}

// RobustnessScore is the share of successful rows as a percentage rounded to two decimals
func RobustnessScore(rows []models.AttackResult) float64 {
	passed := 0
	for _, r := range rows {
		if r.Success {
			passed++
		}
	}
	n := len(rows)
	if n < 1 {
		n = 1
	}
	return roundTo(100*float64(passed)/float64(n), 2)
}
