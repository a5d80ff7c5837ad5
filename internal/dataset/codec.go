package dataset

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// Format selects one of the interchangeable tabular serializations.
type Format string

const (
	FormatParquet Format = "parquet"
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
)

// ErrUnsupportedFormat is returned before any I/O when a caller requests a
// serialization this package does not implement.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatParquet:
		return FormatParquet, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	return ParseFormat(ext)
}

// WritePredictions serializes predictions to path in the given format,
// creating parent directories as needed.
func WritePredictions(path string, format Format, preds []Prediction) error {
	if _, err := ParseFormat(string(format)); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	switch format {
	case FormatParquet:
		if err := parquet.Write(f, preds); err != nil {
			return fmt.Errorf("writing parquet: %w", err)
		}
	case FormatCSV:
		if err := writePredictionsCSV(f, preds); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
	case FormatJSON:
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(preds); err != nil {
			return fmt.Errorf("writing json: %w", err)
		}
	}
	return f.Close()
}

// ReadPredictions deserializes predictions written by WritePredictions.
func ReadPredictions(path string, format Format) ([]Prediction, error) {
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}
	switch format {
	case FormatParquet:
		f, size, err := openWithSize(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		preds, err := parquet.Read[Prediction](f, size)
		if err != nil {
			return nil, fmt.Errorf("reading parquet: %w", err)
		}
		return preds, nil
	case FormatCSV:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		return readPredictionsCSV(f)
	default: // FormatJSON
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		var preds []Prediction
		if err := json.NewDecoder(f).Decode(&preds); err != nil {
			return nil, fmt.Errorf("reading json: %w", err)
		}
		return preds, nil
	}
}

// WriteRecords serializes game records to path in the given format.
func WriteRecords(path string, format Format, records []GameRecord) error {
	if _, err := ParseFormat(string(format)); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	switch format {
	case FormatParquet:
		if err := parquet.Write(f, records); err != nil {
			return fmt.Errorf("writing parquet: %w", err)
		}
	case FormatCSV:
		if err := writeRecordsCSV(f, records); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
	case FormatJSON:
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("writing json: %w", err)
		}
	}
	return f.Close()
}

// ReadRecords deserializes game records written by WriteRecords.
func ReadRecords(path string, format Format) ([]GameRecord, error) {
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}
	switch format {
	case FormatParquet:
		f, size, err := openWithSize(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		records, err := parquet.Read[GameRecord](f, size)
		if err != nil {
			return nil, fmt.Errorf("reading parquet: %w", err)
		}
		return records, nil
	case FormatCSV:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		return readRecordsCSV(f)
	default: // FormatJSON
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		var records []GameRecord
		if err := json.NewDecoder(f).Decode(&records); err != nil {
			return nil, fmt.Errorf("reading json: %w", err)
		}
		return records, nil
	}
}

func openWithSize(path string) (*os.File, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("stat %s: %w", path, err)
	}
	return f, info.Size(), nil
}

var predictionColumns = []string{
	"player_id", "player_name", "position",
	"predicted_avg_fp_per_game", "predicted_season_fp", "recent_avg_fp",
	"trend", "consistency_score", "seasons_analyzed", "last_season",
}

func writePredictionsCSV(w io.Writer, preds []Prediction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(predictionColumns); err != nil {
		return err
	}
	for _, p := range preds {
		row := []string{
			p.PlayerID,
			p.PlayerName,
			p.Position,
			formatFloat(p.PredictedAvgFPPerGame),
			formatFloat(p.PredictedSeasonFP),
			formatFloat(p.RecentAvgFP),
			formatFloat(p.Trend),
			formatFloat(p.ConsistencyScore),
			strconv.Itoa(p.SeasonsAnalyzed),
			strconv.Itoa(p.LastSeason),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func readPredictionsCSV(r io.Reader) ([]Prediction, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	var preds []Prediction
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row: %w", err)
		}
		p := Prediction{
			PlayerID:   field(row, col, "player_id"),
			PlayerName: field(row, col, "player_name"),
			Position:   field(row, col, "position"),
		}
		p.PredictedAvgFPPerGame, _ = strconv.ParseFloat(field(row, col, "predicted_avg_fp_per_game"), 64)
		p.PredictedSeasonFP, _ = strconv.ParseFloat(field(row, col, "predicted_season_fp"), 64)
		p.RecentAvgFP, _ = strconv.ParseFloat(field(row, col, "recent_avg_fp"), 64)
		p.Trend, _ = strconv.ParseFloat(field(row, col, "trend"), 64)
		p.ConsistencyScore, _ = strconv.ParseFloat(field(row, col, "consistency_score"), 64)
		p.SeasonsAnalyzed, _ = strconv.Atoi(field(row, col, "seasons_analyzed"))
		p.LastSeason, _ = strconv.Atoi(field(row, col, "last_season"))
		preds = append(preds, p)
	}
	return preds, nil
}

func writeRecordsCSV(w io.Writer, records []GameRecord) error {
	cw := csv.NewWriter(w)
	header := append([]string{"player_id", "player_name", "season", "week", "position"}, StatCategories...)
	header = append(header, "fantasy_points")
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := range records {
		rec := &records[i]
		row := []string{rec.PlayerID, rec.PlayerName, strconv.Itoa(rec.Season), strconv.Itoa(rec.Week), string(rec.Position)}
		for _, cat := range StatCategories {
			if v, ok := rec.Stat(cat); ok {
				row = append(row, formatFloat(v))
			} else {
				row = append(row, "")
			}
		}
		row = append(row, formatFloat(rec.FantasyPoints))
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func readRecordsCSV(r io.Reader) ([]GameRecord, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	var records []GameRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row: %w", err)
		}
		rec := GameRecord{
			PlayerID:   field(row, col, "player_id"),
			PlayerName: field(row, col, "player_name"),
			Position:   NormalizePosition(field(row, col, "position")),
		}
		rec.Season, _ = strconv.Atoi(field(row, col, "season"))
		rec.Week, _ = strconv.Atoi(field(row, col, "week"))
		for _, cat := range StatCategories {
			raw := field(row, col, cat)
			if raw == "" {
				continue
			}
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				rec.SetStat(cat, v)
			}
		}
		if raw := field(row, col, "fantasy_points"); raw != "" {
			rec.FantasyPoints, _ = strconv.ParseFloat(raw, 64)
		}
		records = append(records, rec)
	}
	return records, nil
}

func field(row []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
