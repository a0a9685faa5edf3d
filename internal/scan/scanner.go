package scan

import (
	"iter"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

// Character classes for URL matching. A URL interior may contain punctuation
// that must not appear as the final character, so sentence-terminating
// characters ("visit http://example.com.") are left out of the match.
const (
	urlInterior = `A-Za-z0-9/\-_%?&.=:;+,#~`
	urlTrailing = `A-Za-z0-9/\-_%&=+,#`

	domainLabel = `[A-Za-z0-9_%-]+`
	mailtoUser  = `[A-Za-z0-9_-]+`
	mailtoHost  = `[0-9A-Za-z_.-]*[0-9A-Za-z]`
)

// guessTLDs is the closed set of TLDs accepted when guessing that bare
// domain-looking text (no scheme) is a URL.
var guessTLDs = []string{"biz", "com", "edu", "info", "org"}

// Scanner finds URL-like substrings in free-form text.
type Scanner struct {
	urlPattern *regexp.Regexp
}

// NewScanner returns a Scanner. extraTLDs extends the closed TLD set used
// for bare-domain guessing.
func NewScanner(extraTLDs []string) *Scanner {
	tlds := make([]string, 0, len(guessTLDs)+len(extraTLDs))
	tlds = append(tlds, guessTLDs...)
	for _, tld := range extraTLDs {
		tlds = append(tlds, regexp.QuoteMeta(strings.ToLower(tld)))
	}
	return &Scanner{urlPattern: compileURLPattern(tlds)}
}

// compileURLPattern builds the combined matcher: http(s) URLs, guessed bare
// domains, and mailto addresses, optionally wrapped in <...> or <URL:...> as
// seen in quoted or logged text. The wrapper is matched but not captured.
func compileURLPattern(tlds []string) *regexp.Regexp {
	return regexp.MustCompile(
		`(?:<(?:URL:)?)?(` +
			`https?://[` + urlInterior + `]+[` + urlTrailing + `]` +
			`|` + domainLabel + `(?:\.` + domainLabel + `)*\.(?:` + strings.Join(tlds, "|") + `)\b` +
			`|mailto:` + mailtoUser + `@` + mailtoHost +
			`)>?`)
}

// URLs scans text left to right and yields every URL-like substring, with
// any <...> wrapper stripped. The sequence is lazy and consume-once;
// re-scanning means calling URLs again.
func (s *Scanner) URLs(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		rest := text
		for {
			m := s.urlPattern.FindStringSubmatchIndex(rest)
			if m == nil {
				return
			}
			if !yield(rest[m[2]:m[3]]) {
				return
			}
			rest = rest[m[1]:]
		}
	}
}

// displayHost converts a punycode (xn--) hostname to its Unicode form for
// report display. The input is returned unchanged if it does not decode.
func displayHost(host string) string {
	if !strings.Contains(host, "xn--") {
		return host
	}
	uni, err := idna.ToUnicode(host)
	if err != nil {
		return host
	}
	return uni
}
