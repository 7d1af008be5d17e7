// ABOUTME: Validated decoding of import files into a store bundle
// ABOUTME: Accepts wrapped {metadata, data} or bare documents in JSON or YAML

package exchange

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/harper/carlog/internal/models"
	"github.com/harper/carlog/internal/store"
	"gopkg.in/yaml.v3"
)

// ErrInvalidFormat marks an import document with an unusable shape.
var ErrInvalidFormat = errors.New("invalid import format")

// ImportError explains why an import was rejected. Key names the offending
// data type, or is empty when the document as a whole is unusable.
type ImportError struct {
	Key    string
	Reason string
	Err    error
}

func (e *ImportError) Error() string {
	msg := e.Reason
	if e.Key != "" {
		msg = e.Key + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return "import rejected: " + msg
}

// Unwrap returns the underlying decode error, if any.
func (e *ImportError) Unwrap() error { return e.Err }

// Is makes every ImportError match ErrInvalidFormat.
func (e *ImportError) Is(target error) bool { return target == ErrInvalidFormat }

func invalid(key, reason string) *ImportError {
	return &ImportError{Key: key, Reason: reason}
}

// Imported is a decoded import together with whatever metadata it carried.
type Imported struct {
	Bundle   store.ImportBundle
	Metadata *Metadata
}

// DecodeImport validates a JSON import document. Nothing is returned unless
// every present data type decodes cleanly.
func DecodeImport(raw []byte) (*Imported, error) {
	var top map[string]any
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, &ImportError{Reason: "not a JSON object", Err: err}
	}
	return decodeTop(top)
}

// DecodeImportYAML validates a YAML import document.
func DecodeImportYAML(raw []byte) (*Imported, error) {
	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, &ImportError{Reason: "not a YAML document", Err: err}
	}
	// Round-trip through JSON so numbers and keys look the same as a JSON import.
	asJSON, err := json.Marshal(generic)
	if err != nil {
		return nil, &ImportError{Reason: "unsupported YAML content", Err: err}
	}
	return DecodeImport(asJSON)
}

// ReadImportFile decodes path, choosing YAML for .yaml and .yml files.
func ReadImportFile(path string) (*Imported, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // user-supplied import path
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeImportYAML(raw)
	}
	return DecodeImport(raw)
}

func decodeTop(top map[string]any) (*Imported, error) {
	if top == nil {
		return nil, invalid("", "document is empty")
	}
	out := &Imported{}
	payload := top
	if wrapped, ok := top["data"]; ok {
		m, ok := wrapped.(map[string]any)
		if !ok {
			return nil, invalid("data", "must be an object")
		}
		payload = m
		if meta, ok := top["metadata"]; ok {
			raw, err := json.Marshal(meta)
			if err == nil {
				var md Metadata
				if json.Unmarshal(raw, &md) == nil {
					out.Metadata = &md
				}
			}
		}
	}

	found := false
	for key := range payload {
		if slices.Contains(AllTypes, key) {
			found = true
			break
		}
	}
	if !found {
		return nil, invalid("", "no recognised data types")
	}

	primary := false
	for _, key := range store.CollectionKeys {
		v, ok := payload[key]
		if !ok {
			continue
		}
		primary = true
		list, ok := v.([]any)
		if !ok {
			return nil, invalid(key, "must be an array")
		}
		for i, entry := range list {
			if _, ok := entry.(map[string]any); !ok {
				return nil, invalid(key, fmt.Sprintf("entry %d must be an object", i))
			}
		}
	}

	if primary {
		doc := make(map[string]any, len(store.CollectionKeys)+1)
		for _, key := range store.CollectionKeys {
			if v, ok := payload[key]; ok {
				doc[key] = v
			}
		}
		if v, ok := payload["schemaVersion"]; ok {
			doc["schemaVersion"] = v
		}
		store.UpgradeDocument(doc)
		data, errs := store.DecodeDocument(doc)
		if len(errs) > 0 {
			first := errs[0]
			return nil, &ImportError{Key: first.Key, Reason: fmt.Sprintf("entry %d is malformed", first.Index), Err: first.Err}
		}
		out.Bundle.Data = &data
	}

	if v, ok := payload[TypeCategories]; ok {
		cats, err := decodeCategories(v)
		if err != nil {
			return nil, err
		}
		out.Bundle.Categories = cats
	}

	if v, ok := payload[TypeFuelOptions]; ok {
		opts, err := decodeFuelOptions(v)
		if err != nil {
			return nil, err
		}
		out.Bundle.FuelOptions = opts
	}
	return out, nil
}

func stringList(v any) ([]string, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(list))
	for _, e := range list {
		s, ok := e.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

func decodeCategories(v any) (models.Categories, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, invalid(TypeCategories, "must be an object")
	}
	cats := make(models.Categories, len(m))
	for name, items := range m {
		list, ok := stringList(items)
		if !ok {
			return nil, invalid(TypeCategories, fmt.Sprintf("category %q must list item names", name))
		}
		cats[name] = list
	}
	return cats, nil
}

// decodeFuelOptions leaves absent lists nil so the store backfills them.
func decodeFuelOptions(v any) (*models.FuelOptions, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, invalid(TypeFuelOptions, "must be an object")
	}
	var opts models.FuelOptions
	fields := map[string]*[]string{
		"fuelTypes":      &opts.FuelTypes,
		"paymentMethods": &opts.PaymentMethods,
		"gasStations":    &opts.GasStations,
		"locations":      &opts.Locations,
	}
	for key, dst := range fields {
		raw, ok := m[key]
		if !ok || raw == nil {
			continue
		}
		list, ok := stringList(raw)
		if !ok {
			return nil, invalid(TypeFuelOptions, key+" must be a list of names")
		}
		*dst = list
	}
	return &opts, nil
}
