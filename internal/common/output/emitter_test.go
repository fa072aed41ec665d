package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"gopkg.in/yaml.v3"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"null", FormatNull, false},
		{"msgpack", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("ParseFormat(%q) error = %v, want ErrUnknownFormat", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormat(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEmitterText(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(FormatText, &buf)

	if err := e.EmitAll("dev-lang/python", []string{"ssl", "sqlite"}); err != nil {
		t.Fatalf("EmitAll() error = %v", err)
	}

	if got := buf.String(); got != "ssl\nsqlite\n" {
		t.Errorf("text output = %q", got)
	}
}

func TestEmitterJSONLines(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(FormatJSON, &buf)

	if err := e.Emit(Record{Reason: "sys-apps/portage", Value: "/usr/bin/emerge"}); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	if err := e.Emit(Record{Value: "17"}); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}

	want := `{"reason":"sys-apps/portage","value":"/usr/bin/emerge"}` + "\n" + `{"value":"17"}` + "\n"
	if got := buf.String(); got != want {
		t.Errorf("json output = %q, want %q", got, want)
	}

	var r Record
	first := strings.SplitN(buf.String(), "\n", 2)[0]
	if err := json.Unmarshal([]byte(first), &r); err != nil {
		t.Fatalf("invalid JSON line: %v", err)
	}
}

func TestEmitterYAMLDocuments(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(FormatYAML, &buf)

	if err := e.EmitAll("dev-db/postgresql", []string{"17", "16"}); err != nil {
		t.Fatalf("EmitAll() error = %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	dec := yaml.NewDecoder(&buf)
	var got []Record
	for {
		var r Record
		err := dec.Decode(&r)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		got = append(got, r)
	}

	if len(got) != 2 || got[0].Value != "17" || got[1].Value != "16" || got[1].Reason != "dev-db/postgresql" {
		t.Errorf("decoded records = %+v", got)
	}
}

func TestEmitterUnknownFormat(t *testing.T) {
	e := NewEmitter("msgpack", io.Discard)
	if err := e.Emit(Record{Value: "x"}); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Emit() error = %v, want ErrUnknownFormat", err)
	}
}

func TestEmitterNullSeparatesValues(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	valueGen := gen.SliceOf(gen.AlphaString())

	properties.Property("splitting null output yields the emitted values", prop.ForAll(
		func(values []string) bool {
			var buf bytes.Buffer
			e := NewEmitter(FormatNull, &buf)
			if err := e.EmitAll("", values); err != nil {
				return false
			}
			out := buf.String()
			if len(values) == 0 {
				return out == ""
			}
			parts := strings.Split(strings.TrimSuffix(out, "\x00"), "\x00")
			if len(parts) != len(values) {
				return false
			}
			for i := range values {
				if parts[i] != values[i] {
					return false
				}
			}
			return true
		},
		valueGen,
	))

	properties.TestingRun(t)
}
