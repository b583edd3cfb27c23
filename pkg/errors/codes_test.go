package errors

import (
	stdErrors "errors"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code        Code
		publicMsg   string
		retryable   bool
		userVisible bool
		detailsOK   bool
	}{
		{code: CodeValidation, publicMsg: "validation failed", detailsOK: true},
		{code: CodeLogic, publicMsg: "invalid operation", detailsOK: true},
		{code: CodeNetwork, publicMsg: "Failed to fetch products", retryable: true, userVisible: true},
		{code: CodeNoResults, publicMsg: "No products found", userVisible: true},
		{code: CodeNotFound, publicMsg: "resource not found", userVisible: true},
		{code: CodeInternal, publicMsg: "internal error", retryable: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.UserVisible != tt.userVisible {
			t.Fatalf("code %s expected user visible %v got %v", tt.code, tt.userVisible, meta.UserVisible)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.PublicMessage != "internal error" {
		t.Fatalf("expected internal fallback, got %q", meta.PublicMessage)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing id")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing id" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "id"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("expected details to stick")
	}

	cause := stdErrors.New("underlying")
	wrapped := Wrap(CodeNetwork, cause, "fetch products")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("expected wrapped cause to unwrap")
	}
	if !IsCode(wrapped, CodeNetwork) {
		t.Fatalf("expected IsCode to match network")
	}
	if IsCode(wrapped, CodeValidation) {
		t.Fatalf("IsCode matched the wrong code")
	}
}

func TestFailureMessage(t *testing.T) {
	if got := FailureMessage(New(CodeNetwork, "dial tcp refused")); got != "Failed to fetch products" {
		t.Fatalf("network failure should use the public message, got %q", got)
	}
	if got := FailureMessage(New(CodeNoResults, "")); got != "No products found" {
		t.Fatalf("no-results failure message mismatch: %q", got)
	}
	if got := FailureMessage(New(CodeValidation, "quantity must be numeric")); got != "quantity must be numeric" {
		t.Fatalf("details-allowed codes should expose their message, got %q", got)
	}
	if got := FailureMessage(stdErrors.New("plain")); got != "internal error" {
		t.Fatalf("untyped errors should fall back to internal, got %q", got)
	}
}

func TestDumpCollectsChain(t *testing.T) {
	cause := stdErrors.New("connection reset")
	err := Wrap(CodeNetwork, cause, "list products")

	d := Dump(err)
	if d.Code != CodeNetwork {
		t.Fatalf("expected network code in dump, got %s", d.Code)
	}
	if len(d.Chain) != 2 {
		t.Fatalf("expected 2 chain entries, got %d", len(d.Chain))
	}
}

func TestDumpNil(t *testing.T) {
	if d := Dump(nil); d.TopMessage != "" || d.Code != "" || d.Chain != nil {
		t.Fatalf("expected zero dump for nil error, got %+v", d)
	}
}
