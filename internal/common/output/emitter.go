package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for an output format the Emitter does not support
var ErrUnknownFormat = errors.New("unknown output format")

// Format selects how records are written
type Format string

const (
	FormatText Format = "text"
	FormatNull Format = "null"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var formats = map[Format]bool{
	FormatText: true,
	FormatNull: true,
	FormatJSON: true,
	FormatYAML: true,
}

// Formats returns the supported format names, sorted
func Formats() []string {
	names := make([]string, 0, len(formats))
	for f := range formats {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !formats[f] {
		return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, s, strings.Join(Formats(), ", "))
	}
	return f, nil
}

// Record is one normalized result line.
// Reason names the input that produced it (usually the package argument).
type Record struct {
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Value  string `json:"value" yaml:"value"`
}

// Emitter writes records in a single format
type Emitter struct {
	Format Format
	Writer io.Writer

	yamlEnc *yaml.Encoder
}

// NewEmitter creates an Emitter writing to w
func NewEmitter(format Format, w io.Writer) *Emitter {
	return &Emitter{Format: format, Writer: w}
}

// Emit writes a single record
func (e *Emitter) Emit(r Record) error {
	switch e.Format {
	case FormatText, "":
		_, err := fmt.Fprintln(e.Writer, r.Value)
		return err
	case FormatNull:
		_, err := fmt.Fprint(e.Writer, r.Value+"\x00")
		return err
	case FormatJSON:
		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		_, err = e.Writer.Write(append(data, '\n'))
		return err
	case FormatYAML:
		if e.yamlEnc == nil {
			e.yamlEnc = yaml.NewEncoder(e.Writer)
			e.yamlEnc.SetIndent(2)
		}
		return e.yamlEnc.Encode(r)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, e.Format)
	}
}

// EmitAll writes one record per value, all sharing the same reason
func (e *Emitter) EmitAll(reason string, values []string) error {
	for _, v := range values {
		if err := e.Emit(Record{Reason: reason, Value: v}); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes any buffered encoder state
func (e *Emitter) Close() error {
	if e.yamlEnc != nil {
		err := e.yamlEnc.Close()
		e.yamlEnc = nil
		return err
	}
	return nil
}
