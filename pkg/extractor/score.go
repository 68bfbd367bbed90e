package extractor

import (
	"math"
	"unicode"
)

// evaluateExtraction combines text quality, entropy and repetition into one score
func evaluateExtraction(text string, textQuality, entropy float64) float64 {
	if text == "" {
		return 0
	}
	score := textQuality * 0.6

	// Too low entropy is padding, too high is noise
	if entropy > 2.5 && entropy < 7.5 {
		score += 0.2
	}
	if textQuality > 0.9 {
		score += 0.2
	}
	return score - calculateRepetitionPenalty([]byte(text))
}

// evaluateAsText determines if the data is likely to be text
func evaluateAsText(text string) float64 {
	total, printable, control := 0, 0, 0
	for _, r := range text {
		total++
		switch {
		case r == unicode.ReplacementChar:
			control++
		case r == '\n' || r == '\t' || r == '\r':
			printable++
		case unicode.IsPrint(r):
			printable++
		default:
			control++
		}
	}
	if total == 0 {
		return 0
	}

	score := float64(printable)/float64(total) - 2*float64(control)/float64(total)
	return math.Max(0, math.Min(1, score))
}

// calculateDataEntropy calculates Shannon entropy of the data in bits per byte
func calculateDataEntropy(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}
	var counts [256]int
	for _, b := range data {
		counts[b]++
	}

	entropy := 0.0
	n := float64(len(data))
	for _, count := range counts {
		if count == 0 {
			continue
		}
		p := float64(count) / n
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// calculateRepetitionPenalty detects unnatural byte repetitions
func calculateRepetitionPenalty(data []byte) float64 {
	if len(data) < 20 {
		return 0
	}

	longest, current := 1, 1
	for i := 1; i < len(data); i++ {
		if data[i] == data[i-1] {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 1
		}
	}

	switch {
	case longest > 20:
		return 0.3
	case longest > 10:
		return 0.1
	}
	return 0
}
