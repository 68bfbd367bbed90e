package models

import (
	"encoding/json"
	"math"
)

// RiskLevel is the three-level detectability classification
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// ChannelCounts holds the LSB 0/1 counts of a single color channel
type ChannelCounts struct {
	Channel  string `json:"channel"`
	ZeroBits int    `json:"zeroBits"`
	OneBits  int    `json:"oneBits"`
}

// RiskStats contains the chi-square LSB statistics of one image
type RiskStats struct {
	Chi2       float64         `json:"chi2"`
	ZeroBits   int             `json:"zeroBits"`
	OneBits    int             `json:"oneBits"`
	Suspicious bool            `json:"suspicious"` // chi2 > 10.0
	Channels   []ChannelCounts `json:"channels,omitempty"`
}

// Total returns the number of LSBs counted
func (s RiskStats) Total() int {
	return s.ZeroBits + s.OneBits
}

// RiskAssessment is the classifier verdict
type RiskAssessment struct {
	Level  RiskLevel `json:"level"`
	Reason string    `json:"reason"`
}

// Assessment bundles both chi-square runs with the container usage and the verdict
type Assessment struct {
	Original   RiskStats      `json:"original"`
	Embedded   RiskStats      `json:"embedded"`
	UsageRatio float64        `json:"usageRatio"`
	Risk       RiskAssessment `json:"risk"`
}

// QualityMetrics compares an original raster with its embedded copy.
// PSNR is +Inf for identical images and is serialized as null in that case.
type QualityMetrics struct {
	PSNR float64 `json:"psnrDb"`
	MSE  float64 `json:"mse"`
	SSIM float64 `json:"ssim"`
}

// MarshalJSON keeps infinite PSNR values encodable
func (q QualityMetrics) MarshalJSON() ([]byte, error) {
	var psnr *float64
	if !math.IsInf(q.PSNR, 0) && !math.IsNaN(q.PSNR) {
		v := q.PSNR
		psnr = &v
	}
	return json.Marshal(struct {
		PSNR *float64 `json:"psnrDb"`
		MSE  float64  `json:"mse"`
		SSIM float64  `json:"ssim"`
	}{psnr, q.MSE, q.SSIM})
}

// UnmarshalJSON restores a null PSNR as +Inf
func (q *QualityMetrics) UnmarshalJSON(data []byte) error {
	var raw struct {
		PSNR *float64 `json:"psnrDb"`
		MSE  float64  `json:"mse"`
		SSIM float64  `json:"ssim"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	q.PSNR = math.Inf(1)
	if raw.PSNR != nil {
		q.PSNR = *raw.PSNR
	}
	q.MSE = raw.MSE
	q.SSIM = raw.SSIM
	return nil
}

// AttackResult is one row of the robustness suite
type AttackResult struct {
	AttackID    string `json:"id"`
	DisplayName string `json:"name"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
	PreviewText string `json:"previewText"`
}

// BenchmarkRow is one (method, bits) cell of the mode sweep
type BenchmarkRow struct {
	Method         string          `json:"method"`
	BitsPerChannel int             `json:"bits"`
	Fits           bool            `json:"fit"`
	DecodeOK       bool            `json:"decodeOk"`
	Capacity       int             `json:"capacity"`
	UsageRatio     *float64        `json:"usageRatio"`
	Quality        *QualityMetrics `json:"qualityMetrics,omitempty"`
	Error          string          `json:"error,omitempty"`
}

// ModeCandidate is a scored (method, bits) choice produced by best-mode selection
type ModeCandidate struct {
	Method         string         `json:"method"`
	BitsPerChannel int            `json:"bits"`
	PSNR           float64        `json:"psnrDb"`
	SSIM           float64        `json:"ssim"`
	UsageRatio     float64        `json:"usageRatio"`
	Risk           RiskAssessment `json:"risk"`
	Score          float64        `json:"score"`
}

// VisualStats summarizes a per-pixel delta map
type VisualStats struct {
	ChangedPct   float64 `json:"changedPct"`
	MeanDelta    float64 `json:"meanDelta"`
	MaxDelta     int     `json:"maxDelta"`
	HotspotScore float64 `json:"hotspotScore"`
	Threshold    int     `json:"threshold"`
}
