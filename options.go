package asn1

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/jacoelho/asn1/errors"
	"github.com/jacoelho/asn1/internal/codec"
	"github.com/jacoelho/asn1/internal/gser"
)

// DefaultCodec is the codec used when none is selected.
const DefaultCodec = gser.Name

// Codec names sharing the compiled type contract that have no backend yet.
var plannedCodecs = []string{"ber", "der", "jer", "oer", "per", "uper", "xer"}

type stringOption struct {
	value string
	set   bool
}

func (o stringOption) resolved(fallback string) string {
	if !o.set {
		return fallback
	}
	return o.value
}

// CompileOptions configures schema compilation.
type CompileOptions struct {
	logger *slog.Logger
	codec  stringOption
}

// EncodeOptions configures one encode call.
type EncodeOptions = codec.EncodeOptions

type resolvedCompileOptions struct {
	backend codec.Backend
	logger  *slog.Logger
}

// NewCompileOptions returns a default, valid compile options value.
func NewCompileOptions() CompileOptions {
	return CompileOptions{}
}

// NewEncodeOptions returns default encode options: compact layout and a
// value name derived from the type name.
func NewEncodeOptions() EncodeOptions {
	return codec.NewEncodeOptions()
}

// WithCodec selects the codec compiled types are bound to.
func (o CompileOptions) WithCodec(name string) CompileOptions {
	o.codec = stringOption{value: name, set: true}
	return o
}

// WithLogger sets the logger receiving compiler debug records (nil discards).
func (o CompileOptions) WithLogger(logger *slog.Logger) CompileOptions {
	o.logger = logger
	return o
}

// Codec returns the selected codec name.
func (o CompileOptions) Codec() string {
	return o.codec.resolved(DefaultCodec)
}

// Validate validates compile options values.
func (o CompileOptions) Validate() error {
	_, err := o.withDefaults()
	return err
}

func (o CompileOptions) withDefaults() (resolvedCompileOptions, error) {
	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	backend, err := backendFor(o.Codec())
	if err != nil {
		return resolvedCompileOptions{}, err
	}
	return resolvedCompileOptions{backend: backend, logger: logger}, nil
}

func backendFor(name string) (codec.Backend, error) {
	switch {
	case name == gser.Name:
		return gser.Backend{}, nil
	case slices.Contains(plannedCodecs, name):
		return nil, errors.NewUnsupportedf(name, "Codec '%s' is not yet implemented.", name)
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}
