package importer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapErrorPgCodes(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		wantCode string
	}{
		{"unique violation", "23505", "DB001"},
		{"foreign key violation", "23503", "DB002"},
		{"not null violation", "23502", "DB003"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fmt.Errorf("create company: %w", &pgconn.PgError{Code: tt.code})
			msg := MapError(err)
			if msg.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", msg.Code, tt.wantCode)
			}
			if msg.Message == "" || msg.Action == "" {
				t.Errorf("incomplete message: %+v", msg)
			}
		})
	}
}

func TestMapErrorPatterns(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"empty file", errors.New("empty file"), "IMP001"},
		{"no data rows", errors.New("no data rows after header"), "IMP002"},
		{"unknown company field", errors.New(`unknown company field: "revenue"`), "IMP003"},
		{"unknown contact field", errors.New(`unknown contact field: "nickname"`), "IMP003"},
		{"unknown mode", errors.New(`unknown import mode: "bulk"`), "IMP004"},
		{"csv parse", errors.New("parse CSV: record on line 3"), "IMP005"},
		{"connection refused", errors.New("dial tcp: connection refused"), "DB004"},
		{"deadline", errors.New("context deadline exceeded"), "DB005"},
		{"rate limit", errors.New("rate limit exceeded"), "RATE001"},
		{"fallback", errors.New("something inscrutable"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapError(tt.err).Code; got != tt.wantCode {
				t.Errorf("code = %q, want %q", got, tt.wantCode)
			}
		})
	}
}

func TestMapErrorUnknownPgCodeFallsThrough(t *testing.T) {
	// An unmapped SQLSTATE should fall through to pattern matching, not
	// be swallowed.
	err := &pgconn.PgError{Code: "57014", Message: "canceling statement due to statement timeout"}
	if got := MapError(err).Code; got != "DB005" {
		t.Errorf("code = %q, want DB005", got)
	}
}

func TestParseMode(t *testing.T) {
	for _, valid := range []string{"companies", "contacts", "mixed"} {
		mode, err := ParseMode(valid)
		if err != nil {
			t.Errorf("ParseMode(%q): %v", valid, err)
		}
		if string(mode) != valid {
			t.Errorf("mode = %q, want %q", mode, valid)
		}
	}

	for _, invalid := range []string{"", "Companies", "bulk"} {
		if _, err := ParseMode(invalid); err == nil {
			t.Errorf("ParseMode(%q) accepted", invalid)
		}
	}
}
