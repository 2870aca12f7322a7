package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/casamichael/shopping-backend/pkg/errors"
)

type samplePayload struct {
	Name  string  `json:"name" validate:"required,max=10"`
	Price float64 `json:"price" validate:"required,gt=0"`
}

func TestDecodeJSONBodyValid(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Mug","price":9.5}`))

	var payload samplePayload
	if err := DecodeJSONBody(req, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Name != "Mug" || payload.Price != 9.5 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Mug","price":1,"extra":true}`))

	var payload samplePayload
	err := DecodeJSONBody(req, &payload)
	if err == nil {
		t.Fatal("expected unknown field to be rejected")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyValidationDetailsUseJSONNames(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"","price":0}`))

	var payload samplePayload
	err := DecodeJSONBody(req, &payload)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("unexpected details shape: %T", typed.Details())
	}
	if details["name"] != "is required" {
		t.Fatalf("unexpected name message: %q", details["name"])
	}
	if details["price"] != "is required" {
		t.Fatalf("unexpected price message: %q", details["price"])
	}
}

func TestParseQueryIntBounds(t *testing.T) {
	req := httptest.NewRequest("GET", "/?page=3", nil)
	value, err := ParseQueryInt(req, "page", 1, 1, 100)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if value != 3 {
		t.Fatalf("expected 3, got %d", value)
	}

	req = httptest.NewRequest("GET", "/", nil)
	value, err = ParseQueryInt(req, "page", 1, 1, 100)
	if err != nil || value != 1 {
		t.Fatalf("expected default 1, got %d (%v)", value, err)
	}

	req = httptest.NewRequest("GET", "/?page=0", nil)
	if _, err := ParseQueryInt(req, "page", 1, 1, 100); err == nil {
		t.Fatal("expected out-of-range rejection")
	}

	req = httptest.NewRequest("GET", "/?page=abc", nil)
	if _, err := ParseQueryInt(req, "page", 1, 1, 100); err == nil {
		t.Fatal("expected non-numeric rejection")
	}
}

func TestParsePathUUID(t *testing.T) {
	id := uuid.New()
	parsed, err := ParsePathUUID(id.String(), "orderID")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed != id {
		t.Fatalf("expected %s, got %s", id, parsed)
	}

	if _, err := ParsePathUUID("nope", "orderID"); err == nil {
		t.Fatal("expected invalid uuid rejection")
	}
}
