package service

import (
	"testing"

	"medicare/internal/domain"
)

func TestValidEmail(t *testing.T) {
	valid := []string{"john@example.com", "a.b_c%d+e-f@mail-host.co.uk", "x@y.io"}
	invalid := []string{"", "john", "john@", "@example.com", "a@@b.com", "a@b", "a@b.c", "a@b.c0m", "a b@c.com", "a@.com", "a@ex_ample.com"}
	for _, e := range valid {
		if !ValidEmail(e) {
			t.Errorf("%q should be valid", e)
		}
	}
	for _, e := range invalid {
		if ValidEmail(e) {
			t.Errorf("%q should be invalid", e)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		password string
		want     error
	}{
		{"Ab1!", domain.ErrPasswordShort},
		{"abcdef1!", domain.ErrPasswordUpper},
		{"ABCDEF1!", domain.ErrPasswordLower},
		{"Abcdefg!", domain.ErrPasswordDigit},
		{"Abcdef12", domain.ErrPasswordSpecial},
		{"Abcdef1=", nil},
		{"Secret1!", nil},
	}
	for _, tc := range cases {
		if got := ValidatePassword(tc.password); got != tc.want {
			t.Errorf("%q: expected %v, got %v", tc.password, tc.want, got)
		}
	}
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(100)
	if h.cost < 4 {
		t.Fatalf("out of range cost must fall back to the default")
	}
	h = NewPasswordHasher(4)
	hash, err := h.Hash("Secret1!")
	if err != nil {
		t.Fatal(err)
	}
	if !h.Verify("Secret1!", hash) || h.Verify("Secret1?", hash) || h.Verify("Secret1!", "plain") {
		t.Fatalf("verify mismatch")
	}
}
