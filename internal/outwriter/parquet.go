package outwriter

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"
)

// PlacementRecord is the parquet row of one placement.
type PlacementRecord struct {
	Key         string  `parquet:"key,snappy"`
	Date        string  `parquet:"date,snappy"`
	Description string  `parquet:"description,snappy"`
	Country     string  `parquet:"country,snappy"`
	CountryCode *string `parquet:"country_code,optional,snappy"`
	Side        string  `parquet:"side,snappy"`
	Sign        int32   `parquet:"sign,snappy"`
	AnchorX     float64 `parquet:"anchor_x,snappy"`
	AnchorY     float64 `parquet:"anchor_y,snappy"`
	Offset      float64 `parquet:"offset,snappy"`
	Left        float64 `parquet:"left,snappy"`
	Right       float64 `parquet:"right,snappy"`
	Top         float64 `parquet:"top,snappy"`
	Bottom      float64 `parquet:"bottom,snappy"`
	Lines       int32   `parquet:"lines,snappy"`
}

// ToParquet converts report rows.
func ToParquet(rows []Row) []PlacementRecord {
	out := make([]PlacementRecord, len(rows))
	for i, r := range rows {
		rec := PlacementRecord{
			Key:         r.Key,
			Date:        r.Date,
			Description: r.Description,
			Country:     r.Country,
			Side:        r.Side,
			Sign:        int32(r.Sign),
			AnchorX:     r.AnchorX,
			AnchorY:     r.AnchorY,
			Offset:      r.Offset,
			Left:        r.Left,
			Right:       r.Right,
			Top:         r.Top,
			Bottom:      r.Bottom,
			Lines:       int32(r.Lines),
		}
		if r.CountryCode != "" {
			code := r.CountryCode
			rec.CountryCode = &code
		}
		out[i] = rec
	}
	return out
}

// WriteParquet writes rows to a parquet file at outputPath.
func WriteParquet(rows []Row, outputPath string) (err error) {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	writer := parquet.NewGenericWriter[PlacementRecord](file)
	if _, err := writer.Write(ToParquet(rows)); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}
