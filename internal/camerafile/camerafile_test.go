package camerafile

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"occupancy/internal/model"
)

var sample = []model.CameraConfig{
	{IP: "192.168.1.10", Username: "admin", Password: "one"},
	{IP: "192.168.1.11", Username: "admin", Password: "two"},
}

func TestEncodeDecode_JSON(t *testing.T) {
	data, err := Encode(sample, FormatJSON)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !strings.Contains(string(data), `    "ip": "192.168.1.10"`) {
		t.Errorf("Expected 4-space indented JSON, got:\n%s", data)
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !reflect.DeepEqual(decoded, sample) {
		t.Errorf("Expected %+v, got %+v", sample, decoded)
	}
}

func TestDecode_YAML(t *testing.T) {
	data := []byte(`
- ip: 10.0.0.5
  username: operator
  password: hunter2
`)

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	want := []model.CameraConfig{{IP: "10.0.0.5", Username: "operator", Password: "hunter2"}}
	if !reflect.DeepEqual(decoded, want) {
		t.Errorf("Expected %+v, got %+v", want, decoded)
	}
}

func TestEncode_YAML(t *testing.T) {
	data, err := Encode(sample[:1], FormatYAML)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !strings.Contains(string(data), "ip: 192.168.1.10") {
		t.Errorf("Unexpected YAML:\n%s", data)
	}
}

func TestDecode_Invalid(t *testing.T) {
	inputs := []string{
		`{"ip": "not a list"}`,
		`[{"ip": "10.0.0.1", "username": "admin"}]`,
		`[{"ip": " ", "username": "admin", "password": "x"}]`,
		`- ip: [unterminated`,
		``,
		"   \n",
		`null`,
		`~`,
	}

	for _, in := range inputs {
		if _, err := Decode([]byte(in)); !errors.Is(err, ErrInvalidFile) {
			t.Errorf("Decode(%q) error = %v, expected ErrInvalidFile", in, err)
		}
	}
}

func TestDecode_EmptyList(t *testing.T) {
	decoded, err := Decode([]byte(`[]`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if decoded == nil || len(decoded) != 0 {
		t.Errorf("Expected an empty list, got %#v", decoded)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"yaml", FormatYAML},
		{".yml", FormatYAML},
		{"JSON", FormatJSON},
		{"", FormatJSON},
		{"xml", FormatJSON},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.in); got != tt.want {
			t.Errorf("ParseFormat(%q) = %s, expected %s", tt.in, got, tt.want)
		}
	}
}
