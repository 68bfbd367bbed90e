package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"StegoLab/pkg/models"
	"StegoLab/pkg/stego"
)

// RenderText formats a report as a plain-text summary
func RenderText(r *Report) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line("%s report", r.Meta.AppName)
	line("Report schema: %s/%s", r.Schema.Name, r.Schema.Version)
	line("Report ID: %s", r.Meta.ReportID)
	line("Generated (UTC): %s", r.Meta.GeneratedAtUTC)
	line("")
	line("Input:")
	line("- Source image: %s", orDash(r.Input.SourceImagePath))
	line("- Size: %dx%d (%s)", r.Input.Image.Width, r.Input.Image.Height, r.Input.Image.Mode)
	line("")
	line("Embedding:")
	line("- Method: %s", methodName(stego.Method(r.Embedding.Method)))
	line("- Bits per channel: %d", r.Embedding.BitsPerChannel)
	line("- Password used: %s", yesNo(r.Embedding.PasswordUsed))
	line("- Message length (chars): %d", r.Embedding.Message.Chars)
	line("- Message length (UTF-8 bytes): %d", r.Embedding.Message.BytesUTF8)
	line("- Capacity (bytes): %d", r.Embedding.Capacity.Bytes)
	line("- Capacity (KB): %s", formatFloat(r.Embedding.Capacity.KB))
	line("- Container usage: %s", formatFloat(r.Embedding.Capacity.UsageRatio))
	line("")
	line("Quality:")
	line("- PSNR (dB): %s", formatOptional(r.QualityMetrics.PSNR))
	line("- MSE: %s", formatOptional(r.QualityMetrics.MSE))
	line("- SSIM: %s", formatOptional(r.QualityMetrics.SSIM))
	if r.QualityMetrics.Error != "" {
		line("- Metrics error: %s", r.QualityMetrics.Error)
	}
	line("")
	line("Steganalysis (chi-square):")
	line("- Original: %s", chiLine(r.Steganalysis.ChiSquare.Original))
	line("- Stego: %s", chiLine(r.Steganalysis.ChiSquare.Stego))
	line("")
	line("Risk:")
	line("- Level: %s", orDash(string(r.Risk.Level)))
	line("- Reason: %s", orDash(r.Risk.Reason))
	line("")
	line("Extra fields:")
	line("- Robustness score: %s", formatOptional(r.RobustnessScore))
	line("- Recommendation: %s", orDash(r.Recommendation))
	if v := r.VisualStats; v != nil {
		line("- Changed pixels: %.1f%% | mean delta: %.3f | max delta: %d | hotspot: %.2f",
			v.ChangedPct, v.MeanDelta, v.MaxDelta, v.HotspotScore)
	}
	line("- Visual artifacts: %s", formatArtifacts(r.VisualArtifacts))
	line("")
	line("Artifacts:")
	line("- Stego image file: %s", orDash(r.Artifacts.EncodedImagePath))
	line("- Report file: %s", orDash(r.Artifacts.ReportPath))
	line("- Report format: %s", orDash(r.Artifacts.ReportFormat))
	line("- Proof pack: %s", orDash(r.Artifacts.ProofPackPath))
	return b.String()
}

func chiLine(s models.RiskStats) string {
	return fmt.Sprintf("chi2=%s, zero LSB=%d, one LSB=%d, suspicious=%s",
		formatFloat(s.Chi2), s.ZeroBits, s.OneBits, yesNo(s.Suspicious))
}

func methodName(m stego.Method) string {
	switch m {
	case stego.Sequential:
		return "sequential (R->G->B)"
	case stego.Interleaved:
		return "interleaved channels"
	}
	return orDash(string(m))
}

func formatArtifacts(m map[string]string) string {
	if len(m) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + m[k]
	}
	return strings.Join(parts, ", ")
}

func formatOptional(v *float64) string {
	if v == nil {
		return "-"
	}
	return formatFloat(*v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
