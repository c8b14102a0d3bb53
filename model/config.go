package model

import (
	"fmt"
)

// Photon-count keys accepted by SetNPhotons. Which keys are required at
// finalize depends on the run mode and on which components the model
// holds; see Config.checkInit.
const (
	PhotonInitial           = "initial"
	PhotonImaging           = "imaging"
	PhotonImagingSources    = "imaging_sources"
	PhotonImagingDust       = "imaging_dust"
	PhotonRaytracingSources = "raytracing_sources"
	PhotonRaytracingDust    = "raytracing_dust"
	PhotonStats             = "stats"
)

// InvalidConfigurationError reports a missing required photon-count key, a
// key set in a mode that does not use it, or an invalid scalar setting.
type InvalidConfigurationError struct {
	Setting string
	Msg     string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("configuration, %s: %s", e.Setting, e.Msg)
}

// Config is the solver configuration of a model. Zero photon counts mean
// unset. The zero value is usable after defaults are applied by
// defaultConfig.
type Config struct {
	NInitial           int64
	NImaging           int64
	NImagingSources    int64
	NImagingDust       int64
	NRaytracingSources int64
	NRaytracingDust    int64
	NStats             int64

	NInitialIterations int
	Raytracing         bool
	Monochromatic      bool
	PDA                bool
	MRW                bool
	MRWGamma           float64
	MaxInteractions    int64
	KillOnAbsorb       bool
	OutputBytes        int
}

func defaultConfig() Config {
	return Config{
		NInitialIterations: 5,
		MRWGamma:           1,
		MaxInteractions:    1000000,
		OutputBytes:        8,
	}
}

// SetNPhotons sets the photon count for one named key. Counts that are
// irrelevant to the run mode may simply never be set.
func (c *Config) SetNPhotons(key string, n int64) error {
	if n <= 0 {
		return &InvalidConfigurationError{key, fmt.Sprintf(
			"need a positive photon count, found %d", n)}
	}
	switch key {
	case PhotonInitial:
		c.NInitial = n
	case PhotonImaging:
		c.NImaging = n
	case PhotonImagingSources:
		c.NImagingSources = n
	case PhotonImagingDust:
		c.NImagingDust = n
	case PhotonRaytracingSources:
		c.NRaytracingSources = n
	case PhotonRaytracingDust:
		c.NRaytracingDust = n
	case PhotonStats:
		c.NStats = n
	default:
		return &InvalidConfigurationError{key,
			"not a recognized photon count key"}
	}
	return nil
}

// SetNInitialIterations sets how many specific-energy iterations the
// solver runs before imaging.
func (c *Config) SetNInitialIterations(n int) error {
	if n < 0 {
		return &InvalidConfigurationError{"n_initial_iterations",
			fmt.Sprintf("need a nonnegative count, found %d", n)}
	}
	c.NInitialIterations = n
	return nil
}

// SetRaytracing toggles the raytracing stage.
func (c *Config) SetRaytracing(on bool) { c.Raytracing = on }

// SetMonochromatic toggles monochromatic mode, which splits the imaging
// photon budget into source and dust parts.
func (c *Config) SetMonochromatic(on bool) { c.Monochromatic = on }

// SetPDA toggles the partial diffusion approximation.
func (c *Config) SetPDA(on bool) { c.PDA = on }

// SetMRW toggles the modified random walk. gamma scales the MRW trigger
// criterion; 0 means the default of 1.
func (c *Config) SetMRW(on bool, gamma float64) error {
	if gamma < 0 {
		return &InvalidConfigurationError{"mrw_gamma", fmt.Sprintf(
			"need a nonnegative gamma, found %g", gamma)}
	}
	c.MRW = on
	if gamma == 0 {
		gamma = 1
	}
	c.MRWGamma = gamma
	return nil
}

// SetMaxInteractions caps the interaction count of a single photon before
// it is killed.
func (c *Config) SetMaxInteractions(n int64) error {
	if n <= 0 {
		return &InvalidConfigurationError{"max_interactions", fmt.Sprintf(
			"need a positive count, found %d", n)}
	}
	c.MaxInteractions = n
	return nil
}

// SetKillOnAbsorb makes the solver kill photons on absorption instead of
// re-emitting them.
func (c *Config) SetKillOnAbsorb(on bool) { c.KillOnAbsorb = on }

// SetOutputBytes selects the floating point width of written arrays: 4 or
// 8 bytes.
func (c *Config) SetOutputBytes(n int) error {
	if n != 4 && n != 8 {
		return &InvalidConfigurationError{"output_bytes", fmt.Sprintf(
			"expected 4 or 8, found %d", n)}
	}
	c.OutputBytes = n
	return nil
}

// checkInit cross-validates the photon counts against the run mode and
// the populated components. A key is required whenever the component
// consuming it is present; keys tied to the inactive imaging mode must be
// left unset.
func (c *Config) checkInit(dustPresent, sourcesPresent bool) error {
	if c.OutputBytes != 4 && c.OutputBytes != 8 {
		return &InvalidConfigurationError{"output_bytes", fmt.Sprintf(
			"expected 4 or 8, found %d", c.OutputBytes)}
	}

	if dustPresent && c.NInitial == 0 {
		return c.missing(PhotonInitial,
			"the model contains density fields")
	}

	if c.Monochromatic {
		if c.NImaging != 0 {
			return &InvalidConfigurationError{PhotonImaging,
				"must not be set in monochromatic mode; use " +
					"'imaging_sources' and 'imaging_dust'"}
		}
		if sourcesPresent && c.NImagingSources == 0 {
			return c.missing(PhotonImagingSources,
				"the run is monochromatic and the model contains sources")
		}
		if dustPresent && c.NImagingDust == 0 {
			return c.missing(PhotonImagingDust,
				"the run is monochromatic and the model contains "+
					"density fields")
		}
	} else {
		if c.NImagingSources != 0 || c.NImagingDust != 0 {
			return &InvalidConfigurationError{PhotonImagingSources,
				"'imaging_sources' and 'imaging_dust' are only " +
					"meaningful in monochromatic mode; use 'imaging'"}
		}
		if c.NImaging == 0 {
			return c.missing(PhotonImaging, "the imaging stage always runs")
		}
	}

	if c.Raytracing {
		if sourcesPresent && c.NRaytracingSources == 0 {
			return c.missing(PhotonRaytracingSources,
				"raytracing is enabled and the model contains sources")
		}
		if dustPresent && c.NRaytracingDust == 0 {
			return c.missing(PhotonRaytracingDust,
				"raytracing is enabled and the model contains "+
					"density fields")
		}
	}

	return nil
}

func (c *Config) missing(key, why string) error {
	return &InvalidConfigurationError{key, fmt.Sprintf(
		"photon count %q is required because %s", key, why)}
}
