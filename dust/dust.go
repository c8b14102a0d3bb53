/*package dust holds opaque references to externally computed dust optical
properties. The optical properties themselves are never interpreted here: a
reference is either a file path or a caller-supplied descriptor object, and
the only structured state attached to it is the sublimation policy.
*/
package dust

import (
	"fmt"
)

// Sublimation modes. Cap, Slow, and Fast require a sublimation temperature
// in K; None ignores it.
const (
	None = "none"
	Cap  = "cap"
	Slow = "slow"
	Fast = "fast"
)

// SublimationModeError reports an unrecognized sublimation mode or a
// missing sublimation temperature.
type SublimationModeError struct {
	Mode string
	Msg  string
}

func (e *SublimationModeError) Error() string {
	return fmt.Sprintf("sublimation mode %q: %s", e.Mode, e.Msg)
}

// Reference is an opaque handle to a dust descriptor plus its sublimation
// policy. It becomes immutable once bound to a density field.
type Reference struct {
	path       string
	descriptor interface{}

	mode        string
	temperature float64

	frozen bool
}

// NewReference points at a dust properties file on disk.
func NewReference(path string) *Reference {
	return &Reference{path: path, mode: None}
}

// NewDescriptor wraps a pre-built dust descriptor object. The object is
// never inspected.
func NewDescriptor(obj interface{}) *Reference {
	return &Reference{descriptor: obj, mode: None}
}

// Path returns the file path, or "" for descriptor-backed references.
func (r *Reference) Path() string { return r.path }

// Descriptor returns the wrapped object, or nil for path-backed
// references.
func (r *Reference) Descriptor() interface{} { return r.descriptor }

// Sublimation returns the current policy.
func (r *Reference) Sublimation() (mode string, temperature float64) {
	return r.mode, r.temperature
}

// SetSublimation sets the sublimation policy. mode must be one of none,
// cap, slow, or fast; the temperature, in K, is required for the last
// three and ignored for none. Fails once the reference has been bound to a
// density field.
func (r *Reference) SetSublimation(mode string, temperature float64) error {
	if r.frozen {
		return &SublimationModeError{mode,
			"reference is already bound to a density field"}
	}

	switch mode {
	case None:
		r.mode, r.temperature = None, 0
		return nil
	case Cap, Slow, Fast:
		if temperature <= 0 {
			return &SublimationModeError{mode, fmt.Sprintf(
				"need a positive sublimation temperature, found %g",
				temperature)}
		}
		r.mode, r.temperature = mode, temperature
		return nil
	}
	return &SublimationModeError{mode,
		"expected one of 'none', 'cap', 'slow', 'fast'"}
}

// Freeze makes the reference immutable. Called when the reference is
// attached to a density field.
func (r *Reference) Freeze() { r.frozen = true }
