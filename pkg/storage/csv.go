package storage

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/fystack/megasena-analyzer/pkg/lottery"
	"github.com/shopspring/decimal"
)

var CSVHeader = []string{
	"contest", "date",
	"num1", "num2", "num3", "num4", "num5", "num6",
	"accumulated", "accumulated_value", "jackpot_winners", "jackpot_prize",
}

// SaveCSV writes one row per draw, ordered by contest, numbers ascending.
func (s *FileStore) SaveCSV(h lottery.History) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, h); err != nil {
		return err
	}
	return writeAtomic(s.csvPath, buf.Bytes())
}

func WriteCSV(w io.Writer, h lottery.History) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, d := range h.Ordered() {
		row := make([]string, 0, len(CSVHeader))
		row = append(row, strconv.Itoa(d.Contest), d.Date)
		nums := d.Sorted()
		for i := range lottery.NumbersPerDraw {
			if i < len(nums) {
				row = append(row, strconv.Itoa(nums[i]))
			} else {
				row = append(row, "")
			}
		}
		row = append(row,
			strconv.FormatBool(d.Accumulated),
			d.AccumulatedValue.String(),
			strconv.Itoa(d.JackpotWinners),
			d.JackpotPrize.String(),
		)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// LoadCSV reads the CSV mirror. Draw order is not kept in CSV, so Numbers
// comes back sorted.
func (s *FileStore) LoadCSV() (lottery.History, error) {
	f, err := os.Open(s.csvPath)
	if errors.Is(err, fs.ErrNotExist) {
		return lottery.History{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

func ReadCSV(r io.Reader) (lottery.History, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(CSVHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	h := lottery.History{}
	for i, rec := range records {
		if i == 0 && rec[0] == CSVHeader[0] {
			continue
		}
		d, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", i+1, err)
		}
		h[d.Contest] = d
	}
	return h, nil
}

func parseRow(rec []string) (lottery.Draw, error) {
	contest, err := strconv.Atoi(rec[0])
	if err != nil {
		return lottery.Draw{}, fmt.Errorf("contest %q: %w", rec[0], err)
	}
	nums := make([]int, 0, lottery.NumbersPerDraw)
	for _, field := range rec[2:8] {
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return lottery.Draw{}, fmt.Errorf("number %q: %w", field, err)
		}
		nums = append(nums, n)
	}
	d := lottery.NewDraw(contest, rec[1], nums)

	if d.Accumulated, err = strconv.ParseBool(rec[8]); err != nil {
		return lottery.Draw{}, fmt.Errorf("accumulated %q: %w", rec[8], err)
	}
	if d.AccumulatedValue, err = decimal.NewFromString(rec[9]); err != nil {
		return lottery.Draw{}, fmt.Errorf("accumulated_value %q: %w", rec[9], err)
	}
	if d.JackpotWinners, err = strconv.Atoi(rec[10]); err != nil {
		return lottery.Draw{}, fmt.Errorf("jackpot_winners %q: %w", rec[10], err)
	}
	if d.JackpotPrize, err = decimal.NewFromString(rec[11]); err != nil {
		return lottery.Draw{}, fmt.Errorf("jackpot_prize %q: %w", rec[11], err)
	}
	return d, nil
}
