package services_test

import (
	"errors"
	"strings"
	"testing"

	"socialfactory/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalService, "caption_generation", "complete", "request failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"caption_generation", "complete", "request failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestDetailsClassifiesMarkers(t *testing.T) {
	cases := []struct {
		marker error
		kind   services.ErrorKind
	}{
		{services.ErrValidation, services.KindValidation},
		{services.ErrConfiguration, services.KindConfiguration},
		{services.ErrTimeout, services.KindTimeout},
		{services.ErrExternalService, services.KindExternalService},
		{services.ErrNotFound, services.KindNotFound},
		{nil, services.KindTransient},
	}
	for _, tc := range cases {
		err := services.Wrap(tc.marker, "step", "op", "failed", nil)
		if details := services.Details(err); details.Kind != tc.kind {
			t.Fatalf("expected kind %s, got %s", tc.kind, details.Kind)
		}
	}
}

func TestDetailsCarriesHint(t *testing.T) {
	hint := "set llm.api_key in the config"
	err := services.WithHint(
		services.Wrap(services.ErrConfiguration, "script_generation", "prepare", "api key missing", nil),
		hint,
	)
	details := services.Details(err)
	if details.Hint != hint {
		t.Fatalf("expected hint %q, got %q", hint, details.Hint)
	}
	if details.Kind != services.KindConfiguration {
		t.Fatalf("expected configuration kind, got %s", details.Kind)
	}
}

func TestDetailsNil(t *testing.T) {
	if details := services.Details(nil); details.Message != "" || details.Cause != nil {
		t.Fatalf("expected zero details for nil error, got %+v", details)
	}
}
