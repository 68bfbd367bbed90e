package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"StegoLab/pkg/filehandler"
	"StegoLab/pkg/visual"
)

func newVisualCmd(a *app) *cobra.Command {
	var (
		original, embedded, outDir string
		threshold, factor          int
		gridRows, gridCols         int
		probe                      []int
	)
	cmd := &cobra.Command{
		Use:   "visual",
		Short: "Show where an embedded image differs from its original",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(probe) != 0 && len(probe) != 2 {
				return fmt.Errorf("--probe expects x,y, got %d values", len(probe))
			}
			orig, _, err := filehandler.LoadImage(original)
			if err != nil {
				return err
			}
			emb, _, err := filehandler.LoadImage(embedded)
			if err != nil {
				return err
			}
			delta, err := visual.ComputeDeltaMap(orig, emb, threshold)
			if err != nil {
				return err
			}

			stats := visual.ComputeStats(delta, threshold)
			printInfo("Changed pixels: %.2f%% (threshold %d)", stats.ChangedPct, stats.Threshold)
			printInfo("Mean delta %.3f, max delta %d, hotspot %.2f", stats.MeanDelta, stats.MaxDelta, stats.HotspotScore)

			fmt.Printf("\nRelative heat per tile (%dx%d, hottest = 100%%):\n", gridRows, gridCols)
			for _, row := range visual.HotspotGrid(delta, gridRows, gridCols) {
				cells := make([]string, len(row))
				for i, v := range row {
					cells[i] = fmt.Sprintf("%5.1f%%", v*100)
				}
				fmt.Println("  " + strings.Join(cells, " "))
			}

			if len(probe) == 2 {
				p, err := visual.ProbePixel(orig, emb, probe[0], probe[1])
				if err != nil {
					return err
				}
				fmt.Printf("\nPixel (%d,%d): changed=%v intensity=%d%%\n", p.X, p.Y, p.Changed, p.Intensity)
				for _, c := range p.Channels {
					fmt.Printf("  %s %3d -> %3d (%+d)  %s -> %s\n", c.Name, c.Before, c.After, c.Delta, c.BeforeBits, c.AfterBits)
				}
			}

			if outDir == "" {
				return nil
			}
			heat := filepath.Join(outDir, "heatmap.png")
			if err := filehandler.SavePNG(visual.Heatmap(delta), heat); err != nil {
				return err
			}
			amp := filepath.Join(outDir, "amplified.png")
			if err := filehandler.SavePNG(visual.Amplified(delta, factor), amp); err != nil {
				return err
			}
			a.log.WithField("dir", outDir).Debug("visual previews written")
			printSuccess("Previews written: %s, %s", heat, amp)
			return nil
		},
	}
	cmd.Flags().StringVar(&original, "original", "", "Original image")
	cmd.Flags().StringVar(&embedded, "stego", "", "Image carrying a message")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Directory for heatmap.png and amplified.png")
	cmd.Flags().IntVar(&threshold, "threshold", 0, "Minimum channel delta counted as a change")
	cmd.Flags().IntVar(&factor, "factor", 40, "Amplification factor for amplified.png")
	cmd.Flags().IntVar(&gridRows, "rows", 4, "Hotspot grid rows")
	cmd.Flags().IntVar(&gridCols, "cols", 4, "Hotspot grid columns")
	cmd.Flags().IntSliceVar(&probe, "probe", nil, "Pixel to inspect as x,y")
	mustMarkRequired(cmd, "original", "stego")
	return cmd
}
