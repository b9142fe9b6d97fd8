// Excursio - Personalized Travel Experience Recommendations
// Copyright 2026 Excursio Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/excursio/excursio

package validation

import (
	"errors"
	"strings"
	"testing"
)

type sampleRequest struct {
	UserID string `validate:"required"`
	Limit  int    `validate:"omitempty,min=1,max=100"`
	Tier   string `validate:"omitempty,oneof=low medium high"`
}

func TestValidateStructOK(t *testing.T) {
	req := sampleRequest{UserID: "alice", Limit: 10, Tier: "low"}
	if err := ValidateStruct(&req); err != nil {
		t.Errorf("valid struct rejected: %v", err)
	}
}

func TestValidateStructFailures(t *testing.T) {
	tests := []struct {
		name      string
		req       sampleRequest
		wantField string
	}{
		{"missing required", sampleRequest{Limit: 10}, "UserID"},
		{"over max", sampleRequest{UserID: "a", Limit: 500}, "Limit"},
		{"bad enum", sampleRequest{UserID: "a", Tier: "platinum"}, "Tier"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.req)
			if err == nil {
				t.Fatal("expected validation error")
			}

			var ve *RequestValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error type = %T", err)
			}
			if len(ve.Errors()) != 1 || ve.Errors()[0].Field() != tt.wantField {
				t.Errorf("errors = %v, want single failure on %s", ve.Errors(), tt.wantField)
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("message %q does not name the field", err.Error())
			}
		})
	}
}

func TestValidateStructMultipleFailures(t *testing.T) {
	req := sampleRequest{Limit: 500, Tier: "platinum"}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var ve *RequestValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error type = %T", err)
	}
	if len(ve.Errors()) != 3 {
		t.Errorf("failure count = %d, want 3", len(ve.Errors()))
	}
	if !strings.Contains(err.Error(), ";") {
		t.Errorf("combined message should join failures: %q", err.Error())
	}
}

func TestValidatorSingleton(t *testing.T) {
	if Validator() != Validator() {
		t.Error("Validator() should return the same instance")
	}
}
