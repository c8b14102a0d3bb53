package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/indebetouw/hyperion/source"
)

func writeSetup(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "setup.cfg")
	if err := os.WriteFile(path, []byte(body), 0666); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return path
}

const fullSetup = `[model]
Name = disk

[spherical]
RWalls = 0 1e15 1e16 1e17
ThetaWalls = 0 1.5707963 3.1415926
PhiWalls = 0 6.2831853

[density "envelope"]
Dust = kmh.dst
Value = 1e-18
SublimationMode = fast
SublimationTemperature = 1600
MinimumTemperature = 10

[pointsource "star"]
Luminosity = 3.846e33
Position = 0 0 0
Temperature = 5778

[sphericalsource "companion"]
Luminosity = 1e33
Position = 7e16 0 0
Radius = 2e11
LimbDarkening = true
Temperature = 4000

[config]
NInitial = 100000
NImaging = 100000
NInitialIterations = 5
Raytracing = true
NRaytracingSources = 50000
NRaytracingDust = 50000
OutputBytes = 4
`

func TestLoadSetup(t *testing.T) {
	m, err := LoadSetup(writeSetup(t, fullSetup))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if m.Name != "disk" {
		t.Errorf("Expected name 'disk', got %q.", m.Name)
	}
	if shape := m.Grid.Shape(); shape != [3]int{3, 2, 1} {
		t.Errorf("Expected shape [3 2 1], got %v.", shape)
	}

	if len(m.Fields) != 1 {
		t.Fatalf("Expected 1 density field, got %d.", len(m.Fields))
	}
	d := m.Fields[0]
	if d.Dust.Path() != "kmh.dst" {
		t.Errorf("Expected dust path 'kmh.dst', got %q.", d.Dust.Path())
	}
	mode, temperature := d.Dust.Sublimation()
	if mode != "fast" || temperature != 1600 {
		t.Errorf("Expected (fast, 1600), got (%s, %g).", mode, temperature)
	}
	if d.MinimumTemperature != 10 {
		t.Errorf("Expected a 10 K clamp, got %g.", d.MinimumTemperature)
	}
	if d.Data.Array.Values[0] != 1e-18 {
		t.Errorf("Expected a constant 1e-18 fill, got %g.",
			d.Data.Array.Values[0])
	}

	if len(m.Sources) != 2 {
		t.Fatalf("Expected 2 sources, got %d.", len(m.Sources))
	}
	star, ok := m.Sources[0].(*source.PointSource)
	if !ok {
		t.Fatalf("Expected the point source first, got %T.", m.Sources[0])
	}
	if star.Name != "star" || star.Luminosity != 3.846e33 {
		t.Errorf("Expected star with L = 3.846e33, got %q with L = %g.",
			star.Name, star.Luminosity)
	}
	companion, ok := m.Sources[1].(*source.SphericalSource)
	if !ok {
		t.Fatalf("Expected the spherical source second, got %T.",
			m.Sources[1])
	}
	if !companion.LimbDarkening || companion.Radius != 2e11 {
		t.Errorf("Expected a limb-darkened companion of radius 2e11.")
	}

	if m.Config.NInitial != 100000 || m.Config.OutputBytes != 4 {
		t.Errorf("Expected the [config] section to be applied.")
	}
	if !m.Config.Raytracing {
		t.Errorf("Expected raytracing to be enabled.")
	}

	// The loaded model passes the full validation pass.
	if err := m.Finalize(); err != nil {
		t.Errorf("Expected the loaded model to finalize, got: %v", err)
	}
}

func TestLoadSetupExampleFile(t *testing.T) {
	m, err := LoadSetup(writeSetup(t, ExampleSetupFile))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := m.Finalize(); err != nil {
		t.Errorf("Expected the example setup to finalize, got: %v", err)
	}
}

func TestLoadSetupErrors(t *testing.T) {
	table := []struct {
		name, body string
	}{
		{"missing name", "[cartesian]\nXWalls = 0 1\nYWalls = 0 1\nZWalls = 0 1\n"},
		{"no grid", "[model]\nName = m\n"},
		{"two grids", "[model]\nName = m\n" +
			"[cartesian]\nXWalls = 0 1\nYWalls = 0 1\nZWalls = 0 1\n" +
			"[spherical]\nRWalls = 0 1\nThetaWalls = 0 1\nPhiWalls = 0 1\n"},
		{"bad wall token", "[model]\nName = m\n" +
			"[cartesian]\nXWalls = 0 potato\nYWalls = 0 1\nZWalls = 0 1\n"},
		{"non-monotonic walls", "[model]\nName = m\n" +
			"[cartesian]\nXWalls = 1 0\nYWalls = 0 1\nZWalls = 0 1\n"},
		{"density without dust", "[model]\nName = m\n" +
			"[cartesian]\nXWalls = 0 1\nYWalls = 0 1\nZWalls = 0 1\n" +
			"[density \"a\"]\nValue = 1e-18\n"},
		{"spectrum and temperature", "[model]\nName = m\n" +
			"[cartesian]\nXWalls = 0 1\nYWalls = 0 1\nZWalls = 0 1\n" +
			"[pointsource \"s\"]\nLuminosity = 1\nTemperature = 5000\n" +
			"SpectrumFile = spec.txt\n"},
	}

	for i, test := range table {
		if _, err := LoadSetup(writeSetup(t, test.body)); err == nil {
			t.Errorf("%d) Expected %s to fail.", i, test.name)
		}
	}
}
