package domain

import (
	"errors"
	"testing"
)

func TestRegistration_Validate(t *testing.T) {
	full := Registration{Username: "jdoe", Password: "secret", Email: "j@example.com", FullName: "Jane Doe", DOB: "1990-01-01"}

	tests := []struct {
		name string
		mut  func(r *Registration)
		ok   bool
	}{
		{name: "complete", mut: func(*Registration) {}, ok: true},
		{name: "blank username", mut: func(r *Registration) { r.Username = "  " }},
		{name: "no password", mut: func(r *Registration) { r.Password = "" }},
		{name: "no email", mut: func(r *Registration) { r.Email = "" }},
		{name: "no full name", mut: func(r *Registration) { r.FullName = "\t" }},
		{name: "no dob", mut: func(r *Registration) { r.DOB = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reg := full
			tc.mut(&reg)
			err := reg.Validate()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrRegistrationIncomplete) {
				t.Fatalf("expected ErrRegistrationIncomplete, got %v", err)
			}
		})
	}
}
