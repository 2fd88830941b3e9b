package lineshape

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/integrate"

	"github.com/cwbudde/algo-nmr/internal/testutil"
	"github.com/cwbudde/algo-nmr/nmr/fiterr"
)

func TestDawsonReferenceValues(t *testing.T) {
	tests := []struct {
		x    float64
		want float64
	}{
		{x: 0, want: 0},
		{x: 0.1, want: 0.09933599239785286},
		{x: 0.5, want: 0.4244363835020223},
		{x: 1, want: 0.5380795069127684},
		{x: 2, want: 0.3013403889237920},
		{x: 5, want: 0.1021340744242768},
		{x: 10, want: 0.05025384718759853},
	}

	for _, tt := range tests {
		got := Dawson(tt.x)
		if math.Abs(got-tt.want) > 1e-6 {
			t.Fatalf("Dawson(%v) = %v, want %v", tt.x, got, tt.want)
		}

		if neg := Dawson(-tt.x); math.Abs(neg+got) > 1e-15 {
			t.Fatalf("Dawson(-%v) = %v, want %v", tt.x, neg, -got)
		}
	}
}

func TestVoigtIntegratesToArea(t *testing.T) {
	x := testutil.Axis(-10, 10, 10001)

	tests := []struct {
		name   string
		width  float64
		center float64
		area   float64
		mix    float64
	}{
		{name: "gaussian", width: 0.02, center: 0, area: 10, mix: 0},
		{name: "lorentzian", width: 0.02, center: 0.3, area: 5, mix: 1},
		{name: "blend", width: 0.05, center: -0.2, area: 2, mix: 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Voigt(tt.width, tt.center, tt.area, tt.mix, x)
			if err != nil {
				t.Fatalf("Voigt() error = %v", err)
			}

			re := make([]float64, len(v))
			for i, c := range v {
				re[i] = real(c)
			}

			got := integrate.Trapezoidal(x, re)
			testutil.RequireRelativeClose(t, "area", got, tt.area, 1e-3)
		})
	}
}

func TestVoigtMatchesPureProfiles(t *testing.T) {
	x := testutil.Axis(0.5, 1.5, 501)
	line := testutil.Line{Width: 0.03, Center: 1.1, Area: 4}

	gauss, err := Voigt(line.Width, line.Center, line.Area, 0, x)
	if err != nil {
		t.Fatalf("Voigt() error = %v", err)
	}

	lor, err := Voigt(line.Width, line.Center, line.Area, 1, x)
	if err != nil {
		t.Fatalf("Voigt() error = %v", err)
	}

	wantG := testutil.GaussianLines(x, line)
	wantL := testutil.LorentzianLines(x, line)

	for i := range x {
		if math.Abs(real(gauss[i])-wantG[i]) > 1e-9 {
			t.Fatalf("gaussian[%d] = %v, want %v", i, real(gauss[i]), wantG[i])
		}

		if math.Abs(real(lor[i])-wantL[i]) > 1e-9 {
			t.Fatalf("lorentzian[%d] = %v, want %v", i, real(lor[i]), wantL[i])
		}
	}
}

func TestHalfMaximumAtHalfWidth(t *testing.T) {
	w := 0.04
	for _, mix := range []float64{0, 0.3, 1} {
		v, err := Voigt(w, 2, 1, mix, []float64{2, 2 + w/2, 2 - w/2})
		if err != nil {
			t.Fatalf("Voigt() error = %v", err)
		}

		for _, i := range []int{1, 2} {
			if r := real(v[i]) / real(v[0]); math.Abs(r-0.5) > 1e-12 {
				t.Fatalf("mix %v: ratio = %v, want 0.5", mix, r)
			}
		}
	}
}

func TestDispersionIsOddAroundCenter(t *testing.T) {
	for _, mix := range []float64{0, 0.5, 1} {
		v, err := Voigt(0.02, 1, 3, mix, []float64{1, 1.01, 0.99})
		if err != nil {
			t.Fatalf("Voigt() error = %v", err)
		}

		if imag(v[0]) != 0 {
			t.Fatalf("mix %v: dispersion at center = %v, want 0", mix, imag(v[0]))
		}

		if math.Abs(imag(v[1])+imag(v[2])) > 1e-12 || imag(v[1]) <= 0 {
			t.Fatalf("mix %v: dispersion not odd: %v, %v", mix, imag(v[1]), imag(v[2]))
		}
	}
}

func TestFFTDispersionMatchesAnalytic(t *testing.T) {
	asc := testutil.Axis(0, 2, 2001)
	desc := testutil.Axis(2, 0, 2001)

	for _, axis := range [][]float64{asc, desc} {
		analytic, err := Voigt(0.05, 1, 1, 0, axis)
		if err != nil {
			t.Fatalf("Voigt() error = %v", err)
		}

		numeric, err := Voigt(0.05, 1, 1, 0, axis, WithDispersion(DispersionFFT))
		if err != nil {
			t.Fatalf("Voigt(fft) error = %v", err)
		}

		peak := GaussianDispersion(1+0.05*0.46, 0.05, 1)
		for i, x := range axis {
			if x < 0.8 || x > 1.2 {
				continue
			}

			if real(numeric[i]) != real(analytic[i]) {
				t.Fatalf("absorptive part differs at %v", x)
			}

			if d := math.Abs(imag(numeric[i]) - imag(analytic[i])); d > 0.01*peak {
				t.Fatalf("dispersion at %v: fft %v, analytic %v", x, imag(numeric[i]), imag(analytic[i]))
			}
		}
	}
}

func TestFFTDispersionRequiresUniformAxis(t *testing.T) {
	_, err := Voigt(0.05, 1, 1, 0, []float64{0, 0.5, 0.7, 2}, WithDispersion(DispersionFFT))
	if !errors.Is(err, fiterr.ErrConfiguration) {
		t.Fatalf("Voigt() error = %v, want configuration error", err)
	}
}

func TestVoigtDomainErrors(t *testing.T) {
	x := []float64{0, 1, 2}

	tests := []struct {
		name  string
		width float64
		area  float64
		mix   float64
	}{
		{name: "zero width", width: 0, area: 1, mix: 0.5},
		{name: "negative width", width: -0.1, area: 1, mix: 0.5},
		{name: "nan width", width: math.NaN(), area: 1, mix: 0.5},
		{name: "inf area", width: 0.1, area: math.Inf(1), mix: 0.5},
		{name: "mix above one", width: 0.1, area: 1, mix: 1.5},
		{name: "mix below zero", width: 0.1, area: 1, mix: -0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Voigt(tt.width, 1, tt.area, tt.mix, x)
			if !errors.Is(err, fiterr.ErrDomain) {
				t.Fatalf("Voigt() error = %v, want domain error", err)
			}
		})
	}
}

func TestVoigtIntoSkipsDispersion(t *testing.T) {
	x := testutil.Axis(0, 1, 11)
	re := make([]float64, len(x))

	if err := VoigtInto(re, nil, Params{Width: 0.1, Center: 0.5, Area: 1, Mix: 0.5}, x); err != nil {
		t.Fatalf("VoigtInto() error = %v", err)
	}

	testutil.RequireFinite(t, re)
}

func TestParseDispersion(t *testing.T) {
	for _, d := range []Dispersion{DispersionAnalytic, DispersionFFT} {
		got, ok := ParseDispersion(d.String())
		if !ok || got != d {
			t.Fatalf("ParseDispersion(%q) = %v, %v", d.String(), got, ok)
		}
	}

	if _, ok := ParseDispersion("kk"); ok {
		t.Fatal("expected unknown dispersion name to fail")
	}
}
