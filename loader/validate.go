package loader

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Du4lity5151/DestinationSol/engine/errs"
	"github.com/Du4lity5151/DestinationSol/engine/faction"
	"github.com/Du4lity5151/DestinationSol/engine/state"
	"github.com/Du4lity5151/DestinationSol/types"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

const schemaBase = "https://destinationsol.org/schemas/"

// schemas holds the compiled asset schemas by short name.
type schemas struct {
	byName map[string]*jsonschema.Schema
}

func compileSchemas() (*schemas, error) {
	entries, err := fs.ReadDir(schemaFS, "schemas")
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	for _, e := range entries {
		data, err := schemaFS.ReadFile("schemas/" + e.Name())
		if err != nil {
			return nil, err
		}
		if err := c.AddResource(schemaBase+e.Name(), bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("schema %s: %w", e.Name(), err)
		}
	}
	sc := &schemas{byName: make(map[string]*jsonschema.Schema, len(entries))}
	for _, e := range entries {
		s, err := c.Compile(schemaBase + e.Name())
		if err != nil {
			return nil, fmt.Errorf("schema %s: %w", e.Name(), err)
		}
		sc.byName[strings.TrimSuffix(e.Name(), ".schema.json")] = s
	}
	return sc, nil
}

// read loads document, validates it against the named schema and decodes
// it into v. It reports false when the document does not exist.
func (sc *schemas) read(fsys fs.FS, document, schema string, v any) (bool, error) {
	data, err := fs.ReadFile(fsys, document)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", document, err)
	}
	if err := sc.check(document, schema, data); err != nil {
		return false, err
	}
	return true, decodeInto(document, data, v)
}

// check validates raw JSON against the named schema. Violations carry the
// instance pointer of the most specific failure.
func (sc *schemas) check(document, schema string, data []byte) error {
	s, ok := sc.byName[schema]
	if !ok {
		return errs.MissingAssetf("schema %q not found", schema)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return errs.Schema(document, "", "malformed JSON: "+err.Error())
	}
	if err := s.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			leaf := deepest(ve)
			return errs.Schema(document, leaf.InstanceLocation, leaf.Message)
		}
		return errs.Schema(document, "", err.Error())
	}
	return nil
}

// deepest follows the first cause chain down to a leaf.
func deepest(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}

// ValidationError collects every cross-reference error found after
// loading.
type ValidationError struct {
	Errors   []error
	Warnings []string
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("validation failed with %d error(s):\n  %s", len(e.Errors), strings.Join(msgs, "\n  "))
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error {
	return e.Errors
}

// validate checks the loaded definitions for referential integrity.
// Warnings are logged; errors are returned together.
func validate(defs *state.Defs, logger *slog.Logger) error {
	ve := &ValidationError{}

	// Factions: well-known ids, relation targets, override names.
	if _, err := faction.NewRegistry(defs.Factions, defs.Relations, defs.Events, slog.New(slog.NewTextHandler(io.Discard, nil))); err != nil {
		ve.Errors = append(ve.Errors, err)
	}

	// Ship designs should name known hulls.
	for _, d := range defs.Factions {
		for _, h := range d.ShipDesigns {
			if _, ok := defs.Hull(h); !ok {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf("faction %q builds unknown hull %q", d.ID, h))
			}
		}
	}

	// Galaxy.
	if len(defs.Systems) == 0 {
		ve.Errors = append(ve.Errors, errs.MissingAssetf("no solar systems defined"))
	}
	if defs.MainStation != nil && defs.MainStation.Hull.Type != types.HullStation {
		ve.Warnings = append(ve.Warnings, fmt.Sprintf("main station hull %q is not a station hull", defs.MainStation.Hull.ID))
	}

	for _, w := range ve.Warnings {
		logger.Warn(w)
	}
	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}
