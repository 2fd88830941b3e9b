package tableio

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-nmr/fit/result"
	"github.com/cwbudde/algo-nmr/nmr/fiterr"
	"github.com/cwbudde/algo-nmr/nmr/spectrum"
)

// Header is the column layout written by this package.
var Header = []string{"freq", "real", "imag"}

// ReadCSV reads a spectrum from CSV. Each record holds freq, real and an
// optional imag column. A leading header row and lines starting with '#'
// are skipped.
func ReadCSV(r io.Reader) (*spectrum.Spectrum, error) {
	const op = "tableio.ReadCSV"

	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var freq, re, im []float64

	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fiterr.Configuration(fiterr.StageInput, op, "%v", err)
		}

		if line == 1 && isHeader(rec) {
			continue
		}

		if len(rec) < 2 || len(rec) > 3 {
			return nil, fiterr.Configuration(fiterr.StageInput, op,
				"record %d: want 2 or 3 columns, got %d", line, len(rec))
		}

		var vals [3]float64
		for i, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fiterr.Configuration(fiterr.StageInput, op, "record %d column %d: %v", line, i+1, err)
			}

			vals[i] = v
		}

		freq = append(freq, vals[0])
		re = append(re, vals[1])
		im = append(im, vals[2])
	}

	return spectrum.FromParts(freq, re, im)
}

func isHeader(rec []string) bool {
	if len(rec) == 0 {
		return false
	}

	_, err := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)

	return err != nil
}

// WriteCSV writes the reconstructed curves of r with a header row.
func WriteCSV(w io.Writer, r *result.FitResult) error {
	const op = "tableio.WriteCSV"

	if r == nil {
		return fiterr.Configuration(fiterr.StageResult, op, "nil result")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}

	rec := make([]string, 3)
	for i := range r.Freq {
		rec[0] = strconv.FormatFloat(r.Freq[i], 'g', -1, 64)
		rec[1] = strconv.FormatFloat(r.Real[i], 'g', -1, 64)
		rec[2] = strconv.FormatFloat(r.Imag[i], 'g', -1, 64)

		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}
