package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-pulse/dsp/timeseries"
)

// sampleReader decodes "timestamp,r,g,b" rows. A first row whose timestamp
// is not an integer is treated as a header; lines starting with # are
// skipped.
type sampleReader struct {
	r    *csv.Reader
	rows int
}

func newSampleReader(in io.Reader) *sampleReader {
	r := csv.NewReader(in)
	r.Comment = '#'
	r.FieldsPerRecord = 4
	r.TrimLeadingSpace = true
	r.ReuseRecord = true
	return &sampleReader{r: r}
}

// Next returns the next sample, or io.EOF at the end of input.
func (s *sampleReader) Next() (timeseries.Sample, error) {
	for {
		rec, err := s.r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return timeseries.Sample{}, io.EOF
			}
			return timeseries.Sample{}, err
		}
		s.rows++

		ts, err := strconv.ParseInt(strings.TrimSpace(rec[0]), 10, 64)
		if err != nil {
			if s.rows == 1 {
				continue
			}
			line, _ := s.r.FieldPos(0)
			return timeseries.Sample{}, fmt.Errorf("line %d: timestamp %q: %w", line, rec[0], err)
		}

		var v timeseries.Vec3
		for ch := range v {
			f, err := strconv.ParseFloat(strings.TrimSpace(rec[ch+1]), 64)
			if err != nil {
				line, _ := s.r.FieldPos(ch + 1)
				return timeseries.Sample{}, fmt.Errorf("line %d: channel %d: %w", line, ch, err)
			}
			v[ch] = f
		}
		return timeseries.Sample{Time: ts, Value: v}, nil
	}
}
