package scan

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// RawQuery pairs an extracted encoded query string with a human-readable
// label for where it was found.
type RawQuery struct {
	Location string
	Encoded  string
}

// DecodedQuery is a RawQuery after URL-decoding.
type DecodedQuery struct {
	Location string
	Params   []Param
}

// NoQueryError reports a URL-shaped string that carried no query component.
// These are collected, not raised: they are shown to the user only when no
// extraction strategy produced anything.
type NoQueryError struct {
	URL string
}

func (e *NoQueryError) Error() string {
	return fmt.Sprintf("no query in %s", e.URL)
}

var (
	logLinePattern  = regexp.MustCompile(`GET ([^?\s]*)\?(\S*) HTTP`)
	postDataPattern = regexp.MustCompile(`(?m)^POSTDATA=(.*)$`)
	hostLinePattern = regexp.MustCompile(`(?m)^Host=(.*)$`)
)

// QueriesFromURLs extracts queries from scanned URLs. A URL without a query
// component yields a NoQueryError instead of a query; the location label is
// the URL with query and fragment stripped.
func (s *Scanner) QueriesFromURLs(text string) ([]RawQuery, []*NoQueryError) {
	var queries []RawQuery
	var failures []*NoQueryError
	for raw := range s.URLs(text) {
		u, err := url.Parse(raw)
		if err != nil || u.RawQuery == "" {
			failures = append(failures, &NoQueryError{URL: raw})
			continue
		}
		encoded := u.RawQuery
		u.RawQuery = ""
		u.Fragment = ""
		queries = append(queries, RawQuery{Location: urlLocation(u), Encoded: encoded})
	}
	return queries, failures
}

// QueriesFromLogs extracts queries from HTTP-access-log request lines of the
// form "GET <path>?<query> HTTP"; the path is the location label.
func QueriesFromLogs(text string) []RawQuery {
	var queries []RawQuery
	for _, m := range logLinePattern.FindAllStringSubmatch(text, -1) {
		queries = append(queries, RawQuery{Location: m[1], Encoded: m[2]})
	}
	return queries
}

// QueriesFromPostData extracts queries from captured POST bodies: every
// "POSTDATA=<value>" line yields one query, labeled with the value of the
// nearest preceding "Host=<value>" line, or the literal "POSTDATA" when no
// host line precedes it.
func QueriesFromPostData(text string) []RawQuery {
	var queries []RawQuery
	prev := 0
	for _, m := range postDataPattern.FindAllStringSubmatchIndex(text, -1) {
		location := "POSTDATA"
		hosts := hostLinePattern.FindAllStringSubmatch(text[prev:m[0]], -1)
		if len(hosts) > 0 {
			if host := strings.TrimRight(hosts[len(hosts)-1][1], "\r"); host != "" {
				location = displayHost(host)
			}
		}
		queries = append(queries, RawQuery{
			Location: location,
			Encoded:  strings.TrimRight(text[m[2]:m[3]], "\r"),
		})
		prev = m[1]
	}
	return queries
}

// ExtractQueries runs all three extraction strategies over text and decodes
// the results. A query that decodes to zero parameters is treated as absent
// at that extraction point.
func (s *Scanner) ExtractQueries(text string) ([]DecodedQuery, []*NoQueryError) {
	raws, failures := s.QueriesFromURLs(text)
	raws = append(raws, QueriesFromLogs(text)...)
	raws = append(raws, QueriesFromPostData(text)...)

	var queries []DecodedQuery
	for _, raw := range raws {
		params := DecodeQuery(raw.Encoded)
		if len(params) == 0 {
			continue
		}
		queries = append(queries, DecodedQuery{Location: raw.Location, Params: params})
	}
	return queries, failures
}

func urlLocation(u *url.URL) string {
	if host := u.Hostname(); host != "" {
		if uni := displayHost(host); uni != host {
			u.Host = strings.Replace(u.Host, host, uni, 1)
		}
	}
	return u.String()
}
