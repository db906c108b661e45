package openf1

import (
	_ "embed"
	"fmt"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"
)

// Endpoint names used by the analysis.
const (
	EndpointLaps     = "laps"
	EndpointStints   = "stints"
	EndpointSessions = "sessions"
	EndpointWeather  = "weather"
	EndpointDrivers  = "drivers"
)

type Endpoint struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Fields      []string `yaml:"fields"`
}

// HasField reports whether name may be used as filter parameter.
func (e Endpoint) HasField(name string) bool {
	_, found := slices.BinarySearch(e.Fields, name)
	return found
}

//go:embed schema.yaml
var schemaData []byte

var schema = mustLoadSchema(schemaData)

func mustLoadSchema(data []byte) map[string]Endpoint {
	ret, err := loadSchema(data)
	if err != nil {
		panic(err)
	}
	return ret
}

func loadSchema(data []byte) (map[string]Endpoint, error) {
	var doc struct {
		Endpoints []Endpoint `yaml:"endpoints"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse endpoint schema: %w", err)
	}
	ret := make(map[string]Endpoint, len(doc.Endpoints))
	for _, e := range doc.Endpoints {
		if _, dup := ret[e.Name]; dup {
			return nil, fmt.Errorf("duplicate endpoint %q in schema", e.Name)
		}
		e.Fields = slices.Clone(e.Fields)
		sort.Strings(e.Fields)
		ret[e.Name] = e
	}
	return ret, nil
}

// Endpoints returns all known endpoints sorted by name.
func Endpoints() []Endpoint {
	ret := make([]Endpoint, 0, len(schema))
	for _, e := range schema {
		ret = append(ret, copyEndpoint(e))
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Name < ret[j].Name })
	return ret
}

func LookupEndpoint(name string) (Endpoint, error) {
	e, ok := schema[name]
	if !ok {
		return Endpoint{}, fmt.Errorf("%w: %s", ErrUnknownEndpoint, name)
	}
	return copyEndpoint(e), nil
}

// ValidateRequest checks the endpoint and every parameter field against the
// known schema.
func ValidateRequest(endpoint string, params Params) error {
	e, err := LookupEndpoint(endpoint)
	if err != nil {
		return err
	}
	for _, f := range params {
		if !e.HasField(f.Field) {
			return fmt.Errorf("%w: %s for endpoint %s", ErrUnknownParameter, f.Field, endpoint)
		}
		if !f.Op.valid() {
			return fmt.Errorf("%w: %q for parameter %s", ErrInvalidOperator, f.Op, f.Field)
		}
	}
	return nil
}

func copyEndpoint(e Endpoint) Endpoint {
	e.Fields = slices.Clone(e.Fields)
	return e
}
