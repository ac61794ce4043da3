package query

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TokenIntent is the fixed intent marker of inbound query tokens.
const TokenIntent = "forecast"

// ErrBadToken is returned for tokens that do not follow the canonical
// encoding.
var ErrBadToken = errors.New("malformed query token")

// Token is the decoded form of a colon-delimited inbound query token. The
// encoding is fixed to one canonical field order:
//
//	forecast:<YYYY-MM-DD>:<city>
//
// with the intent marker first. Field positions drifted across earlier
// revisions of the system; decoding into named fields (rather than
// positional indexing at call sites) pins the order in one place.
type Token struct {
	Intent string
	Date   time.Time
	City   string
}

// ParseToken decodes a token. The city is the remainder after the second
// delimiter and may itself contain spaces.
func ParseToken(s string) (Token, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return Token{}, fmt.Errorf("%w: want 3 colon-delimited fields, got %d", ErrBadToken, len(parts))
	}
	if parts[0] != TokenIntent {
		return Token{}, fmt.Errorf("%w: unknown intent %q", ErrBadToken, parts[0])
	}
	date, err := time.Parse("2006-01-02", parts[1])
	if err != nil {
		return Token{}, fmt.Errorf("%w: bad date %q", ErrBadToken, parts[1])
	}
	city := strings.TrimSpace(parts[2])
	if city == "" {
		return Token{}, fmt.Errorf("%w: empty city", ErrBadToken)
	}
	return Token{Intent: parts[0], Date: date, City: city}, nil
}

// EncodeToken renders a token in the canonical encoding, for keyboards and
// tests.
func EncodeToken(date time.Time, city string) string {
	return fmt.Sprintf("%s:%s:%s", TokenIntent, date.Format("2006-01-02"), city)
}
