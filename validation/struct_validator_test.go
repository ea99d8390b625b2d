package validation

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/kbukum/streamkit/errors"
)

type execution struct {
	Workers          int    `mapstructure:"workers" validate:"gte=0,lte=64"`
	MinPartitionSize int    `mapstructure:"min_partition_size" validate:"gte=1"`
	Mode             string `mapstructure:"mode" validate:"omitempty,oneof=sequential parallel"`
	NoTag            int    `validate:"gte=0"`
}

type wrapper struct {
	Execution execution `mapstructure:"execution"`
}

func TestValidate_Valid(t *testing.T) {
	cfg := execution{Workers: 4, MinPartitionSize: 1, Mode: "parallel"}
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_FieldErrors(t *testing.T) {
	tests := []struct {
		name      string
		cfg       execution
		wantField string
		wantMsg   string
	}{
		{"workers too high", execution{Workers: 100, MinPartitionSize: 1}, "workers", "must be at most 64"},
		{"workers negative", execution{Workers: -1, MinPartitionSize: 1}, "workers", "must be at least 0"},
		{"partition zero", execution{MinPartitionSize: 0}, "min_partition_size", "must be at least 1"},
		{"bad mode", execution{MinPartitionSize: 1, Mode: "turbo"}, "mode", "must be one of: sequential parallel"},
		{"snake case fallback", execution{MinPartitionSize: 1, NoTag: -1}, "no_tag", "must be at least 0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if !stderrors.Is(err, errors.ErrInvalidConfig) {
				t.Errorf("expected INVALID_CONFIG, got %v", err)
			}
			appErr, _ := errors.AsAppError(err)
			if appErr.Details["field"] != tc.wantField {
				t.Errorf("expected field %q, got %v", tc.wantField, appErr.Details["field"])
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("expected message containing %q, got %q", tc.wantMsg, err.Error())
			}
		})
	}
}

func TestValidate_NestedNamespace(t *testing.T) {
	err := Validate(wrapper{Execution: execution{Workers: 1}})
	if err == nil {
		t.Fatal("expected error")
	}
	appErr, _ := errors.AsAppError(err)
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 1 {
		t.Fatalf("expected one field error, got %v", appErr.Details["fields"])
	}
	if fields[0].Field != "execution.min_partition_size" {
		t.Errorf("expected nested path, got %q", fields[0].Field)
	}
}

func TestValidate_NonStruct(t *testing.T) {
	err := Validate(42)
	if !stderrors.Is(err, errors.ErrInvalidConfig) {
		t.Errorf("expected INVALID_CONFIG for non-struct input, got %v", err)
	}
}

func TestToSnakeCase(t *testing.T) {
	if got := toSnakeCase("MinPartitionSize"); got != "min_partition_size" {
		t.Errorf("got %q", got)
	}
}
