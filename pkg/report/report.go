// Package report assembles the JSON run report, renders it as text and
// bundles it with the rasters into a reproducible proof pack.
package report

import (
	"math"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"StegoLab/pkg/models"
	"StegoLab/pkg/stego"
)

const (
	SchemaName    = "stegano_report"
	SchemaVersion = "1.1.0"
	AppName       = "StegoLab"
	AppVersion    = "0.3.0"
)

// overridable in tests
var (
	nowFunc     = time.Now
	newReportID = uuid.NewString
)

type Schema struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type Meta struct {
	ReportID       string `json:"reportId"`
	GeneratedAtUTC string `json:"generatedAtUtc"`
	AppName        string `json:"appName"`
	AppVersion     string `json:"appVersion"`
}

type ImageInfo struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Mode   string `json:"mode"`
}

type Input struct {
	SourceImagePath string    `json:"sourceImagePath,omitempty"`
	Image           ImageInfo `json:"image"`
}

type MessageInfo struct {
	Chars     int `json:"chars"`
	BytesUTF8 int `json:"bytesUtf8"`
}

type CapacityInfo struct {
	Bytes      int     `json:"bytes"`
	KB         float64 `json:"kb"`
	UsageRatio float64 `json:"usageRatio"`
}

type Embedding struct {
	Method         string       `json:"method"`
	BitsPerChannel int          `json:"bitsPerChannel"`
	PasswordUsed   bool         `json:"passwordUsed"`
	Message        MessageInfo  `json:"message"`
	Capacity       CapacityInfo `json:"capacity"`
}

// Quality mirrors models.QualityMetrics with nullable values and the
// failure message when metrics could not be computed.
type Quality struct {
	PSNR  *float64 `json:"psnrDb"`
	MSE   *float64 `json:"mse"`
	SSIM  *float64 `json:"ssim"`
	Error string   `json:"error,omitempty"`
}

type ChiSquare struct {
	Original models.RiskStats `json:"original"`
	Stego    models.RiskStats `json:"stego"`
}

type Steganalysis struct {
	ChiSquare ChiSquare `json:"chiSquare"`
}

type Artifacts struct {
	EncodedImagePath string `json:"encodedImagePath,omitempty"`
	ReportPath       string `json:"reportPath,omitempty"`
	ReportFormat     string `json:"reportFormat,omitempty"`
	ProofPackPath    string `json:"proofPackPath,omitempty"`
}

// Report is the serialized record of one embedding run
type Report struct {
	Schema          Schema                `json:"schema"`
	Meta            Meta                  `json:"meta"`
	Input           Input                 `json:"input"`
	Embedding       Embedding             `json:"embedding"`
	QualityMetrics  Quality               `json:"qualityMetrics"`
	Steganalysis    Steganalysis          `json:"steganalysis"`
	Risk            models.RiskAssessment `json:"risk"`
	RobustnessScore *float64              `json:"robustnessScore"`
	VisualStats     *models.VisualStats   `json:"visualStats,omitempty"`
	VisualArtifacts map[string]string     `json:"visualArtifacts"`
	Recommendation  string                `json:"recommendation"`
	Artifacts       Artifacts             `json:"artifacts"`
}

// Params carries everything Build needs about a finished run
type Params struct {
	SourcePath     string
	Width          int
	Height         int
	Method         stego.Method
	BitsPerChannel int
	Password       string
	Message        string
	Capacity       int

	// Quality is nil when metrics were not computed; QualityErr explains why
	Quality    *models.QualityMetrics
	QualityErr error

	Assessment      models.Assessment
	RobustnessScore *float64
	VisualStats     *models.VisualStats

	// Recommendation overrides the text derived from the risk level
	Recommendation string
}

// Build creates a report with a fresh id and the current UTC time
func Build(p Params) *Report {
	payload := len(p.Message)
	usage := 0.0
	if p.Capacity > 0 {
		usage = math.Min(1, float64(payload)/float64(p.Capacity))
	}

	r := &Report{
		Schema: Schema{Name: SchemaName, Version: SchemaVersion},
		Meta: Meta{
			ReportID:       newReportID(),
			GeneratedAtUTC: nowFunc().UTC().Format(time.RFC3339),
			AppName:        AppName,
			AppVersion:     AppVersion,
		},
		Input: Input{
			SourceImagePath: p.SourcePath,
			Image:           ImageInfo{Width: p.Width, Height: p.Height, Mode: "RGB"},
		},
		Embedding: Embedding{
			Method:         string(p.Method),
			BitsPerChannel: p.BitsPerChannel,
			PasswordUsed:   p.Password != "",
			Message: MessageInfo{
				Chars:     utf8.RuneCountInString(p.Message),
				BytesUTF8: payload,
			},
			Capacity: CapacityInfo{
				Bytes:      p.Capacity,
				KB:         round(float64(p.Capacity)/1024, 3),
				UsageRatio: round(usage, 6),
			},
		},
		Steganalysis: Steganalysis{ChiSquare: ChiSquare{
			Original: normalizeChi(p.Assessment.Original),
			Stego:    normalizeChi(p.Assessment.Embedded),
		}},
		Risk:            p.Assessment.Risk,
		VisualStats:     p.VisualStats,
		VisualArtifacts: map[string]string{},
		Recommendation:  p.Recommendation,
	}

	if p.Quality != nil {
		r.QualityMetrics = Quality{
			PSNR: roundOrNil(p.Quality.PSNR, 6),
			MSE:  roundOrNil(p.Quality.MSE, 8),
			SSIM: roundOrNil(p.Quality.SSIM, 8),
		}
	}
	if p.QualityErr != nil {
		r.QualityMetrics.Error = p.QualityErr.Error()
	}
	if p.RobustnessScore != nil {
		r.RobustnessScore = roundOrNil(*p.RobustnessScore, 4)
	}
	if r.Recommendation == "" {
		r.Recommendation = Recommendation(p.Assessment.Risk.Level, p.Method, p.BitsPerChannel)
	}
	return r
}

// Recommendation suggests how to adjust the embedding for the given risk level
func Recommendation(level models.RiskLevel, method stego.Method, bitsPerChannel int) string {
	switch level {
	case models.RiskHigh:
		return "Reduce bits per channel to 1 and shorten the message to lower detectability."
	case models.RiskMedium:
		return "The mode works, but it is better to reduce the container load a little."
	}
	return "Optimal mode: " + methodName(method) + ", " + itoa(bitsPerChannel) + " bits/channel."
}

func normalizeChi(s models.RiskStats) models.RiskStats {
	s.Chi2 = round(s.Chi2, 8)
	return s
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// roundOrNil returns nil for values JSON cannot encode
func roundOrNil(v float64, places int) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	r := round(v, places)
	return &r
}
