package source

import (
	"fmt"

	"github.com/phil-mansfield/table"
)

// MissingSpectralDefinitionError is returned when a source has no explicit
// spectrum, no blackbody temperature, and the model has no dust to fall
// back on.
type MissingSpectralDefinitionError struct {
	Source string
}

func (e *MissingSpectralDefinitionError) Error() string {
	return fmt.Sprintf("%s: no spectrum or temperature has been set and "+
		"the model contains no dust to take an emissivity from", e.Source)
}

// SpectrumKind tags the resolved spectral representation.
type SpectrumKind int

const (
	// SpectrumExplicit is a tabulated (nu, fnu) spectrum.
	SpectrumExplicit SpectrumKind = iota
	// SpectrumTemperature is a blackbody at a single temperature.
	SpectrumTemperature
	// SpectrumLocalDust marks the local dust emissivity fallback.
	SpectrumLocalDust
)

func (k SpectrumKind) String() string {
	switch k {
	case SpectrumExplicit:
		return "spectrum"
	case SpectrumTemperature:
		return "temperature"
	case SpectrumLocalDust:
		return "local_dust"
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

// Spectrum is the unresolved spectral definition of a source or spot. At
// most one of the explicit table and the temperature is set; if neither
// is, resolution falls back to the model's dust emissivity.
type Spectrum struct {
	nu, fnu     []float64
	temperature float64
}

// SetSpectrum sets an explicit tabulated spectrum. nu is in Hz and must be
// strictly increasing with at least 2 points; fnu must have the same
// length.
func (s *Spectrum) SetSpectrum(nu, fnu []float64) error {
	if len(nu) != len(fnu) {
		return fmt.Errorf("spectrum: nu has %d points but fnu has %d",
			len(nu), len(fnu))
	}
	if len(nu) < 2 {
		return fmt.Errorf("spectrum: need at least 2 points, found %d",
			len(nu))
	}
	for i := 1; i < len(nu); i++ {
		if nu[i] <= nu[i-1] {
			return fmt.Errorf("spectrum: frequencies must be strictly "+
				"increasing, but nu[%d] = %g and nu[%d] = %g",
				i-1, nu[i-1], i, nu[i])
		}
	}
	s.nu, s.fnu = nu, fnu
	return nil
}

// SetSpectrumFile reads an explicit spectrum from a two-column text table:
// frequency in Hz in the first column, flux in the second.
func (s *Spectrum) SetSpectrumFile(path string) error {
	cols, err := table.ReadTable(path, []int{0, 1}, nil)
	if err != nil {
		return err
	}
	return s.SetSpectrum(cols[0], cols[1])
}

// SetTemperature sets a blackbody temperature in K.
func (s *Spectrum) SetTemperature(t float64) error {
	if t <= 0 {
		return fmt.Errorf("spectrum: temperature must be positive, found %g", t)
	}
	s.temperature = t
	return nil
}

// ResolvedSpectrum is the representation chosen for a source at finalize
// time.
type ResolvedSpectrum struct {
	Kind        SpectrumKind
	Nu, Fnu     []float64
	Temperature float64
}

// Resolve applies the priority rule: an explicit spectrum beats a
// temperature, which beats the dust emissivity fallback. The fallback is
// only available when the model holds at least one density field.
func (s *Spectrum) Resolve(name string, dustPresent bool) (ResolvedSpectrum, error) {
	switch {
	case s.nu != nil:
		return ResolvedSpectrum{
			Kind: SpectrumExplicit, Nu: s.nu, Fnu: s.fnu,
		}, nil
	case s.temperature > 0:
		return ResolvedSpectrum{
			Kind: SpectrumTemperature, Temperature: s.temperature,
		}, nil
	case dustPresent:
		return ResolvedSpectrum{Kind: SpectrumLocalDust}, nil
	}
	return ResolvedSpectrum{}, &MissingSpectralDefinitionError{name}
}
