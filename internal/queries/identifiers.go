package queries

import (
	"regexp"
	"strings"

	libinjection "github.com/corazawaf/libinjection-go"

	"erd_visualizer/internal/apperrors"
)

const maxIdentifierLength = 255

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_-]*$`)

// ValidateIdentifier rejects catalog and schema names that are not plain identifiers.
// Rejected values are fingerprinted with libinjection so callers can log probable attacks.
func ValidateIdentifier(kind, value string) error {
	if len(value) <= maxIdentifierLength && identifierPattern.MatchString(value) {
		return nil
	}

	invalid := &apperrors.InvalidIdentifierError{Kind: kind, Value: value}
	if isSQLi, fingerprint := libinjection.IsSQLi(value); isSQLi {
		invalid.Fingerprint = string(fingerprint)
	}
	return invalid
}

func quoteBacktick(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func quoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}
