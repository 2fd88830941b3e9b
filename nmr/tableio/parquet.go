package tableio

import (
	"errors"
	"io"

	"github.com/parquet-go/parquet-go"

	"github.com/cwbudde/algo-nmr/fit/result"
	"github.com/cwbudde/algo-nmr/nmr/fiterr"
	"github.com/cwbudde/algo-nmr/nmr/spectrum"
)

// Row is one sample of a spectrum table.
type Row struct {
	Freq float64 `parquet:"freq"`
	Real float64 `parquet:"real"`
	Imag float64 `parquet:"imag"`
}

// ReadParquet reads a spectrum from the size bytes of a Parquet file with
// the columns of Row.
func ReadParquet(r io.ReaderAt, size int64) (*spectrum.Spectrum, error) {
	const op = "tableio.ReadParquet"

	f, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fiterr.Configuration(fiterr.StageInput, op, "%v", err)
	}

	gr := parquet.NewGenericReader[Row](f)
	defer gr.Close()

	rows := make([]Row, 0, gr.NumRows())
	batch := make([]Row, 1024)

	for {
		n, err := gr.Read(batch)
		rows = append(rows, batch[:n]...)

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fiterr.Configuration(fiterr.StageInput, op, "%v", err)
		}
	}

	freq := make([]float64, len(rows))
	re := make([]float64, len(rows))
	im := make([]float64, len(rows))

	for i, row := range rows {
		freq[i], re[i], im[i] = row.Freq, row.Real, row.Imag
	}

	return spectrum.FromParts(freq, re, im)
}

// WriteParquet writes the reconstructed curves of r as Snappy-compressed
// Parquet.
func WriteParquet(w io.Writer, r *result.FitResult) error {
	if r == nil {
		return fiterr.Configuration(fiterr.StageResult, "tableio.WriteParquet", "nil result")
	}

	rows := make([]Row, len(r.Freq))
	for i := range rows {
		rows[i] = Row{Freq: r.Freq[i], Real: r.Real[i], Imag: r.Imag[i]}
	}

	return writeRows(w, rows)
}

// WriteSpectrumParquet writes s in the layout read by [ReadParquet].
func WriteSpectrumParquet(w io.Writer, s *spectrum.Spectrum) error {
	if s == nil {
		return fiterr.Configuration(fiterr.StageInput, "tableio.WriteSpectrumParquet", "nil spectrum")
	}

	rows := make([]Row, s.Len())
	for i := range rows {
		f, c := s.At(i)
		rows[i] = Row{Freq: f, Real: real(c), Imag: imag(c)}
	}

	return writeRows(w, rows)
}

func writeRows(w io.Writer, rows []Row) error {
	pw := parquet.NewGenericWriter[Row](w, parquet.Compression(&parquet.Snappy))

	if _, err := pw.Write(rows); err != nil {
		_ = pw.Close()
		return err
	}

	return pw.Close()
}
