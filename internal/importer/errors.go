package importer

// errors.go maps technical errors to user-facing messages with codes
// users can quote to support staff.
//
// Codes:
//
//	DB001 - duplicate key / unique constraint violation
//	DB002 - foreign key violation
//	DB003 - required database field missing
//	DB004 - connection failure
//	DB005 - operation timed out
//	IMP001 - empty file
//	IMP002 - no data rows after header
//	IMP003 - unknown or malformed field mapping
//	IMP004 - unknown import mode
//	IMP005 - not a valid CSV file
//	RATE001 - rate limited
//	ERR000 - fallback
//
// Postgres errors are matched by SQLSTATE via pgconn; everything else
// falls back to case-insensitive substring matching, first match wins.

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// UserMessage provides user-friendly error information with actionable
// guidance.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var pgCodeMessages = map[string]UserMessage{
	"23505": {
		Message: "A record with this value already exists",
		Action:  "Check for duplicate entries in your CSV",
		Code:    "DB001",
	},
	"23503": {
		Message: "Referenced record does not exist",
		Action:  "Ensure companies are imported before their contacts",
		Code:    "DB002",
	},
	"23502": {
		Message: "A required field is missing",
		Action:  "Ensure required columns are mapped and filled",
		Code:    "DB003",
	},
}

// Specific patterns before general ones; first match wins.
var errorPatterns = []errorPattern{
	{"no data rows", UserMessage{
		Message: "The file has no data rows after the header",
		Action:  "Add at least one data row below the header",
		Code:    "IMP002",
	}},
	{"empty file", UserMessage{
		Message: "The uploaded file is empty",
		Action:  "Upload a CSV file with a header and data rows",
		Code:    "IMP001",
	}},
	{"unknown company field", UserMessage{
		Message: "The field mapping references an unknown company field",
		Action:  "Check the column mapping against the import template",
		Code:    "IMP003",
	}},
	{"unknown contact field", UserMessage{
		Message: "The field mapping references an unknown contact field",
		Action:  "Check the column mapping against the import template",
		Code:    "IMP003",
	}},
	{"unknown import mode", UserMessage{
		Message: "The import mode is not recognized",
		Action:  "Use companies, contacts, or mixed",
		Code:    "IMP004",
	}},
	{"parse csv", UserMessage{
		Message: "The file is not a valid CSV",
		Action:  "Ensure the file is comma-separated with consistent quoting",
		Code:    "IMP005",
	}},
	{"connection refused", UserMessage{
		Message: "Unable to reach the database",
		Action:  "Please try again in a few moments",
		Code:    "DB004",
	}},
	{"connection reset", UserMessage{
		Message: "The database connection was interrupted",
		Action:  "Please try again",
		Code:    "DB004",
	}},
	{"context deadline exceeded", UserMessage{
		Message: "The operation timed out",
		Action:  "Try a smaller file or try again later",
		Code:    "DB005",
	}},
	{"timeout", UserMessage{
		Message: "The operation timed out",
		Action:  "Try a smaller file or try again later",
		Code:    "DB005",
	}},
	{"rate limit", UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}},
}

// MapError converts any error into a UserMessage suitable for clients.
// The technical error should still be logged server-side.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{Message: "OK", Code: ""}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if msg, ok := pgCodeMessages[pgErr.Code]; ok {
			return msg
		}
	}

	text := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(text, ep.pattern) {
			return ep.msg
		}
	}

	return UserMessage{
		Message: "An unexpected error occurred",
		Action:  "Please try again or contact support",
		Code:    "ERR000",
	}
}
