// Package visual turns the difference between an original raster and its
// embedded copy into maps, summary statistics and color previews.
package visual

import (
	"errors"
	"fmt"
	"image"
	"math"

	"StegoLab/pkg/metrics"
	"StegoLab/pkg/models"
	"StegoLab/pkg/stego"
)

const hotspotPercentile = 95.0

// DeltaMap holds, for every pixel, the largest absolute channel difference
type DeltaMap struct {
	Width  int
	Height int
	Values []uint8
}

// At returns the delta at (x, y)
func (d *DeltaMap) At(x, y int) uint8 {
	return d.Values[y*d.Width+x]
}

// Size returns the number of pixels in the map
func (d *DeltaMap) Size() int {
	return len(d.Values)
}

// ComputeDeltaMap compares original and modified pixel by pixel. Deltas below
// threshold are zeroed; threshold is clamped to [0,255] and 0 keeps everything.
func ComputeDeltaMap(original, modified image.Image, threshold int) (*DeltaMap, error) {
	if original == nil || modified == nil {
		return nil, errors.New("nil image provided")
	}
	a, b := stego.AsNRGBA(original), stego.AsNRGBA(modified)
	w, h := a.Rect.Dx(), a.Rect.Dy()
	if w != b.Rect.Dx() || h != b.Rect.Dy() {
		return nil, fmt.Errorf("%w: %v vs %v", metrics.ErrDimensionMismatch, a.Rect.Size(), b.Rect.Size())
	}
	thr := uint8(clampInt(threshold, 0, 255))

	d := &DeltaMap{Width: w, Height: h, Values: make([]uint8, w*h)}
	for y := 0; y < h; y++ {
		ra := a.Pix[y*a.Stride:]
		rb := b.Pix[y*b.Stride:]
		for x := 0; x < w; x++ {
			var m uint8
			for c := 0; c < 3; c++ {
				if v := absDiff(ra[x*4+c], rb[x*4+c]); v > m {
					m = v
				}
			}
			if thr > 0 && m < thr {
				m = 0
			}
			d.Values[y*w+x] = m
		}
	}
	return d, nil
}

// ComputeStats summarizes a delta map. The hotspot score is the 95th
// percentile of all deltas and stays 0 when nothing changed.
func ComputeStats(d *DeltaMap, threshold int) models.VisualStats {
	stats := models.VisualStats{Threshold: threshold}
	if d == nil || d.Size() == 0 {
		return stats
	}

	var hist [256]int
	changed, sum := 0, 0
	for _, v := range d.Values {
		hist[v]++
		sum += int(v)
		if v > 0 {
			changed++
		}
		if int(v) > stats.MaxDelta {
			stats.MaxDelta = int(v)
		}
	}
	n := float64(d.Size())
	stats.ChangedPct = float64(changed) / n * 100
	stats.MeanDelta = float64(sum) / n
	if changed > 0 {
		stats.HotspotScore = percentile(&hist, d.Size(), hotspotPercentile)
	}
	return stats
}

// percentile uses linear interpolation between the closest ranks
func percentile(hist *[256]int, n int, p float64) float64 {
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	frac := rank - float64(lo)
	vlo := nthValue(hist, lo)
	if frac == 0 || lo+1 >= n {
		return float64(vlo)
	}
	vhi := nthValue(hist, lo+1)
	return float64(vlo) + frac*float64(vhi-vlo)
}

// nthValue returns the k-th smallest value (0-based) of the histogram
func nthValue(hist *[256]int, k int) int {
	seen := 0
	for v, count := range hist {
		seen += count
		if k < seen {
			return v
		}
	}
	return 255
}

// HotspotGrid averages the delta map over a rows x cols grid of tiles and
// normalizes the result so the hottest tile is 1.
func HotspotGrid(d *DeltaMap, rows, cols int) [][]float64 {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	grid := make([][]float64, rows)
	for r := range grid {
		grid[r] = make([]float64, cols)
	}
	if d == nil || d.Size() == 0 {
		return grid
	}

	maxVal := 0.0
	for r := 0; r < rows; r++ {
		y0, y1 := tileEdge(r, d.Height, rows), tileEdge(r+1, d.Height, rows)
		for c := 0; c < cols; c++ {
			x0, x1 := tileEdge(c, d.Width, cols), tileEdge(c+1, d.Width, cols)
			if y1 <= y0 || x1 <= x0 {
				continue
			}
			sum := 0
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					sum += int(d.At(x, y))
				}
			}
			mean := float64(sum) / float64((y1-y0)*(x1-x0))
			grid[r][c] = mean
			if mean > maxVal {
				maxVal = mean
			}
		}
	}
	if maxVal > 0 {
		for r := range grid {
			for c := range grid[r] {
				grid[r][c] /= maxVal
			}
		}
	}
	return grid
}

func tileEdge(i, length, parts int) int {
	return int(math.RoundToEven(float64(i*length) / float64(parts)))
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
