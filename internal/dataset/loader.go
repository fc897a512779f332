package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/babyname-machine/backend/pkg/apperr"
	"github.com/babyname-machine/backend/pkg/logger"
)

const (
	ColName            = "Name"
	ColYear            = "Year"
	ColGender          = "Gender"
	ColCount           = "Count"
	ColNameRatio       = "Name_Ratio"
	ColGenderNameRatio = "Gender_Name_Ratio"
)

var requiredColumns = []string{ColName, ColYear, ColGender, ColCount, ColNameRatio, ColGenderNameRatio}

// Load reads the delimited file at path into a Table.
func Load(path string) (*Table, error) {
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open dataset %s: %v", apperr.ErrFileAccess, path, err)
	}
	defer f.Close()

	table, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}

	minYear, maxYear := table.YearRange()
	logger.Info("Dataset loaded",
		zap.String("path", path),
		zap.Int("rows", table.Len()),
		zap.Int("names", table.NameCount()),
		zap.Int("dropped_rows", table.Dropped),
		zap.Int("min_year", minYear),
		zap.Int("max_year", maxYear),
		zap.Duration("elapsed", time.Since(start)),
	)

	return table, nil
}

// Read parses CSV with a header row. Columns are matched by header name;
// unnamed or extra columns, such as a leading index column, are ignored.
func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty file", apperr.ErrParse)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", apperr.ErrParse, err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, seen := index[h]; !seen {
			index[h] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", apperr.ErrMissingColumn, col)
		}
	}

	var (
		records []NameRecord
		dropped int
		unknown = make(map[string]int)
	)

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperr.ErrParse, err)
		}
		line, _ := reader.FieldPos(0)

		gender, ok := ParseGender(strings.TrimSpace(row[index[ColGender]]))
		if !ok {
			dropped++
			unknown[row[index[ColGender]]]++
			continue
		}

		rec, err := parseRecord(row, index)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", apperr.ErrParse, line, err)
		}
		rec.Gender = gender
		records = append(records, rec)
	}

	if dropped > 0 {
		logger.Warn("Dropped rows with unknown gender code",
			zap.Int("rows", dropped),
			zap.Any("codes", unknown),
		)
	}

	table := NewTable(records)
	table.Dropped = dropped
	return table, nil
}

func parseRecord(row []string, index map[string]int) (NameRecord, error) {
	field := func(col string) string {
		return strings.TrimSpace(row[index[col]])
	}

	year, err := parseInt(field(ColYear))
	if err != nil {
		return NameRecord{}, fmt.Errorf("%s: %w", ColYear, err)
	}
	count, err := parseInt(field(ColCount))
	if err != nil {
		return NameRecord{}, fmt.Errorf("%s: %w", ColCount, err)
	}
	nameRatio, err := strconv.ParseFloat(field(ColNameRatio), 64)
	if err != nil {
		return NameRecord{}, fmt.Errorf("%s: %w", ColNameRatio, err)
	}
	genderRatio, err := strconv.ParseFloat(field(ColGenderNameRatio), 64)
	if err != nil {
		return NameRecord{}, fmt.Errorf("%s: %w", ColGenderNameRatio, err)
	}

	return NameRecord{
		Name:            field(ColName),
		Year:            year,
		Count:           count,
		NameRatio:       nameRatio,
		GenderNameRatio: genderRatio,
	}, nil
}

// parseInt accepts integral floats such as "1990.0", which pandas writes for
// integer columns that once held a NaN.
func parseInt(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	return int(f), nil
}
