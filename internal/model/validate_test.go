package model

import (
	"strings"
	"testing"
	"time"
)

func validUnit() *Unit {
	return &Unit{
		ID:        "unit-01-schema",
		Status:    UnitPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestValidateUnit_Valid(t *testing.T) {
	if err := ValidateUnit(validUnit()); err != nil {
		t.Errorf("ValidateUnit(valid) = %v, want nil", err)
	}
}

func TestValidateUnit_Errors(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(*Unit)
		field  string
	}{
		{"empty id", func(u *Unit) { u.ID = "" }, "id"},
		{"uppercase id", func(u *Unit) { u.ID = "Unit-01" }, "id"},
		{"bad status", func(u *Unit) { u.Status = "done" }, "status"},
		{"bad dependency id", func(u *Unit) { u.DependsOn = []string{"../../etc"} }, "depends_on"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			u := validUnit()
			tc.mutate(u)
			err := ValidateUnit(u)
			if err == nil {
				t.Fatal("ValidateUnit() = nil, want error")
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("error %q does not mention field %q", err, tc.field)
			}
		})
	}
}

func TestValidateIntent_CompletedAtConsistency(t *testing.T) {
	now := time.Now()
	for _, tc := range []struct {
		name    string
		status  IntentStatus
		stamped bool
		wantErr bool
	}{
		{"active without timestamp", IntentActive, false, false},
		{"active with timestamp", IntentActive, true, true},
		{"completed with timestamp", IntentCompleted, true, false},
		{"completed without timestamp", IntentCompleted, false, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			in := &Intent{Slug: "checkout-flow", Title: "Checkout flow", Status: tc.status, Created: now}
			if tc.stamped {
				in.CompletedAt = &now
			}
			err := ValidateIntent(in)
			if tc.wantErr && err == nil {
				t.Error("ValidateIntent() = nil, want error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("ValidateIntent() = %v, want nil", err)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	ve := &ValidationError{Errors: []FieldError{
		{Field: "id", Message: "is required"},
		{Field: "status", Message: `invalid value "done"`},
	}}
	got := ve.Error()
	want := `validation failed: id: is required; status: invalid value "done"`
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
