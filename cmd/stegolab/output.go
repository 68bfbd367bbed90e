package main

import (
	"fmt"
	"math"

	"StegoLab/pkg/bench"
	"StegoLab/pkg/models"
	"StegoLab/pkg/report"
)

func riskColor(level models.RiskLevel) string {
	switch level {
	case models.RiskHigh:
		return alertColor(string(level))
	case models.RiskMedium:
		return warningColor(string(level))
	case models.RiskLow:
		return successColor(string(level))
	}
	return string(level)
}

func printRisk(risk models.RiskAssessment) {
	switch risk.Level {
	case models.RiskHigh:
		printAlert("Risk %s: %s", risk.Level, risk.Reason)
	case models.RiskMedium:
		printWarning("Risk %s: %s", risk.Level, risk.Reason)
	default:
		printSuccess("Risk %s: %s", risk.Level, risk.Reason)
	}
}

func formatPSNR(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f dB", v)
}

func displayQuality(q models.QualityMetrics) {
	printInfo("PSNR=%s, MSE=%.4f, SSIM=%.4f", formatPSNR(q.PSNR), q.MSE, q.SSIM)
}

func displayAssessment(a models.Assessment) {
	fmt.Println("\n=== Chi-square LSB test ===")
	for _, row := range []struct {
		name  string
		stats models.RiskStats
	}{{"Original", a.Original}, {"Stego", a.Embedded}} {
		fmt.Printf("%-9s chi2=%-10.2f zero=%-8d one=%-8d suspicious=%v\n",
			row.name, row.stats.Chi2, row.stats.ZeroBits, row.stats.OneBits, row.stats.Suspicious)
	}
	printInfo("Container usage: %.1f%%", a.UsageRatio*100)
	printRisk(a.Risk)
}

func displayReportSummary(r *report.Report) {
	e := r.Embedding
	printInfo("Mode: %s / %d bit(s) per channel", e.Method, e.BitsPerChannel)
	printInfo("Message: %d chars, %d bytes; capacity %d bytes (usage %.1f%%)",
		e.Message.Chars, e.Message.BytesUTF8, e.Capacity.Bytes, e.Capacity.UsageRatio*100)

	q := r.QualityMetrics
	switch {
	case q.Error != "":
		printWarning("Quality metrics unavailable: %s", q.Error)
	case q.MSE != nil && q.SSIM != nil:
		psnr := "inf"
		if q.PSNR != nil {
			psnr = fmt.Sprintf("%.2f dB", *q.PSNR)
		}
		printInfo("PSNR=%s, MSE=%.4f, SSIM=%.4f", psnr, *q.MSE, *q.SSIM)
	}
	if v := r.VisualStats; v != nil {
		printInfo("Changed pixels: %.1f%% | mean delta: %.3f | max delta: %d", v.ChangedPct, v.MeanDelta, v.MaxDelta)
	}
	chi := r.Steganalysis.ChiSquare
	printInfo("Original chi2=%.2f, stego chi2=%.2f", chi.Original.Chi2, chi.Stego.Chi2)
	printRisk(r.Risk)
	if r.RobustnessScore != nil {
		printInfo("Robustness: %.1f%%", *r.RobustnessScore)
	}
	printInfo("Recommendation: %s", r.Recommendation)
}

func displayAttacks(rows []models.AttackResult) {
	if len(rows) == 0 {
		return
	}
	fmt.Println("\n=== Attack suite ===")
	for _, r := range rows {
		status := successColor("[+]")
		if !r.Success {
			status = errorColor("[-]")
		}
		detail := r.PreviewText
		if r.Error != "" {
			detail = r.Error
		}
		fmt.Printf("%s %-28s %s\n", status, r.DisplayName, detail)
	}
	score := bench.RobustnessScore(rows)
	switch {
	case score >= 100:
		printSuccess("Robustness: %.1f%%", score)
	case score > 0:
		printWarning("Robustness: %.1f%%", score)
	default:
		printAlert("Robustness: %.1f%%", score)
	}
}

func displayBenchmark(rows []models.BenchmarkRow) {
	fmt.Println("\n=== Mode benchmark ===")
	fmt.Printf("%-12s %-5s %-5s %-7s %-9s %-8s %-12s %-8s\n",
		"method", "bits", "fit", "decode", "capacity", "usage", "psnr", "ssim")
	for _, r := range rows {
		usage, psnr, ssim := "-", "-", "-"
		if r.UsageRatio != nil {
			usage = fmt.Sprintf("%.1f%%", *r.UsageRatio*100)
		}
		if r.Quality != nil {
			psnr = formatPSNR(r.Quality.PSNR)
			ssim = fmt.Sprintf("%.4f", r.Quality.SSIM)
		}
		fmt.Printf("%-12s %-5d %-5v %-7v %-9d %-8s %-12s %-8s", r.Method, r.BitsPerChannel, r.Fits, r.DecodeOK, r.Capacity, usage, psnr, ssim)
		if r.Error != "" {
			fmt.Printf(" %s", warningColor(r.Error))
		}
		fmt.Println()
	}
}

func displayCandidate(c *models.ModeCandidate) {
	printSuccess("Best mode: %s / %d bit(s) per channel (score %.2f)", c.Method, c.BitsPerChannel, c.Score)
	printInfo("SSIM=%.4f, PSNR=%s, usage %.1f%%", c.SSIM, formatPSNR(c.PSNR), c.UsageRatio*100)
	printRisk(c.Risk)
}
