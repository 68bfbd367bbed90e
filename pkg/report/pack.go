package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path"
	"time"

	"github.com/klauspost/compress/zip"

	"StegoLab/pkg/models"
	"StegoLab/pkg/stego"
	"StegoLab/pkg/visual"
)

const packDir = "proof_pack"

// every entry carries the same timestamp so identical inputs give identical archives
var packTime = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

var attackCSVHeader = []string{"attack_id", "attack_name", "success", "error", "preview_text"}

type packEntry struct {
	name string
	data []byte
}

// WritePack writes a zip archive holding the report (JSON and text), both
// rasters, a change heatmap and the attack table. The report's visual
// artifact map is updated with the archive paths before it is serialized.
func WritePack(w io.Writer, r *Report, original, embedded image.Image, attacks []models.AttackResult) error {
	if r == nil {
		return errors.New("nil report")
	}
	if original == nil || embedded == nil {
		return errors.New("nil image provided")
	}

	delta, err := visual.ComputeDeltaMap(original, embedded, 0)
	if err != nil {
		return fmt.Errorf("failed to compute heatmap: %w", err)
	}

	if r.VisualArtifacts == nil {
		r.VisualArtifacts = map[string]string{}
	}
	r.VisualArtifacts["before"] = path.Join(packDir, "before.png")
	r.VisualArtifacts["after"] = path.Join(packDir, "after.png")
	r.VisualArtifacts["heatmap"] = path.Join(packDir, "heatmap.png")
	r.VisualArtifacts["attacks_csv"] = path.Join(packDir, "attacks.csv")

	reportJSON, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	before, err := encodePNG(original)
	if err != nil {
		return err
	}
	after, err := encodePNG(embedded)
	if err != nil {
		return err
	}
	heat, err := encodePNG(visual.Heatmap(delta))
	if err != nil {
		return err
	}
	table, err := AttacksCSV(attacks)
	if err != nil {
		return err
	}

	entries := []packEntry{
		{"report.json", reportJSON},
		{"report.txt", []byte(RenderText(r))},
		{"before.png", before},
		{"after.png", after},
		{"heatmap.png", heat},
		{"attacks.csv", table},
	}

	zw := zip.NewWriter(w)
	for _, e := range entries {
		hdr := &zip.FileHeader{
			Name:     path.Join(packDir, e.name),
			Method:   zip.Deflate,
			Modified: packTime,
		}
		hdr.SetMode(0o644)
		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", e.name, err)
		}
		if _, err := fw.Write(e.data); err != nil {
			return fmt.Errorf("failed to write %s: %w", e.name, err)
		}
	}
	return zw.Close()
}

// WritePackFile writes the proof pack to filename and records the path in the report
func WritePackFile(filename string, r *Report, original, embedded image.Image, attacks []models.AttackResult) error {
	if r != nil {
		r.Artifacts.ProofPackPath = filename
	}
	var buf bytes.Buffer
	if err := WritePack(&buf, r, original, embedded, attacks); err != nil {
		return err
	}
	return os.WriteFile(filename, buf.Bytes(), 0o644)
}

// AttacksCSV renders attack rows as CSV with a header line
func AttacksCSV(rows []models.AttackResult) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(attackCSVHeader); err != nil {
		return nil, err
	}
	for _, row := range rows {
		success := "0"
		if row.Success {
			success = "1"
		}
		if err := cw.Write([]string{row.AttackID, row.DisplayName, success, row.Error, row.PreviewText}); err != nil {
			return nil, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("failed to write attack table: %w", err)
	}
	return buf.Bytes(), nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, stego.ToNRGBA(img)); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
