// Package extractor recovers a message when the embedding mode is unknown.
// Every (method, bits) combination is tried and the decoded texts are ranked by
// how much they look like natural text.
package extractor

import (
	"errors"
	"fmt"
	"image"
	"sort"

	"StegoLab/pkg/stego"
)

// Candidate is the outcome of decoding with one mode
type Candidate struct {
	Method         stego.Method `json:"method"`
	BitsPerChannel int          `json:"bits"`
	Text           string       `json:"text,omitempty"`
	Score          float64      `json:"score"`
	TextQuality    float64      `json:"textQuality"`
	Entropy        float64      `json:"entropy"`
	Error          string       `json:"error,omitempty"`
}

// OK reports whether the mode produced a framed message
func (c Candidate) OK() bool {
	return c.Error == ""
}

// Scan decodes img with every combination of bitsOptions and methods.
// Candidates are sorted by descending score; failed modes sort last. A zero
// length header is counted as a failure since blank rasters decode to it.
func Scan(img image.Image, password string, bitsOptions []int, methods []stego.Method) ([]Candidate, error) {
	if img == nil {
		return nil, errors.New("nil image provided")
	}
	src := stego.AsNRGBA(img)

	var candidates []Candidate
	for _, m := range methods {
		for _, b := range bitsOptions {
			c := Candidate{Method: m, BitsPerChannel: b}
			text, err := stego.ExtractText(src, password, b, m)
			if err != nil {
				c.Error = err.Error()
				candidates = append(candidates, c)
				continue
			}
			if text == "" {
				c.Error = "empty payload"
				candidates = append(candidates, c)
				continue
			}
			c.Text = text
			c.TextQuality = evaluateAsText(text)
			c.Entropy = calculateDataEntropy([]byte(text))
			c.Score = evaluateExtraction(text, c.TextQuality, c.Entropy)
			candidates = append(candidates, c)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].OK() != candidates[j].OK() {
			return candidates[i].OK()
		}
		return candidates[i].Score > candidates[j].Score
	})
	return candidates, nil
}

// Best returns the highest ranked candidate that decoded, or an error when none did
func Best(img image.Image, password string, bitsOptions []int, methods []stego.Method) (Candidate, error) {
	candidates, err := Scan(img, password, bitsOptions, methods)
	if err != nil {
		return Candidate{}, err
	}
	if len(candidates) == 0 || !candidates[0].OK() {
		return Candidate{}, fmt.Errorf("failed to extract any hidden data from %d modes", len(candidates))
	}
	return candidates[0], nil
}
