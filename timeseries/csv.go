package timeseries

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// dateFormats are tried in order when parsing CSV dates.
var dateFormats = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"2006-01",
}

// LoadCSV loads (date, count) rows from a CSV file and builds a gap-free
// series. Rows sharing an interval are summed, so a file concatenated from
// several sources works without preprocessing. A header row is detected and
// skipped when its first field does not parse as a date.
func LoadCSV(path string, g Granularity, minPoints int) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadCSVFromReader(f, g, minPoints)
}

// LoadCSVFromReader reads (date, count) rows from r and builds a series.
func LoadCSVFromReader(r io.Reader, g Granularity, minPoints int) (*Series, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	var pairs []Pair
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row++
		if len(record) < 2 {
			return nil, fmt.Errorf("row %d: want date,count columns, got %d fields", row, len(record))
		}

		date, err := parseDate(record[0])
		if err != nil {
			if row == 1 {
				continue // header
			}
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		countStr := strings.TrimSpace(record[1])
		count, err := strconv.ParseFloat(countStr, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad count %q", row, countStr)
		}
		pairs = append(pairs, Pair{Date: date, Count: count})
	}

	return FromPairs(pairs, g, minPoints)
}

// SaveCSV writes the series as date,count rows with a header.
func SaveCSV(s *Series, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()

	if _, err := w.WriteString("date,count\n"); err != nil {
		return err
	}
	for i, v := range s.Values {
		line := s.Timestamps[i].Format("2006-01-02") + "," + strconv.FormatFloat(v, 'f', -1, 64) + "\n"
		if _, err := w.WriteString(line); err != nil {
			return err
		}
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(strings.Trim(s, "\""))
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}
