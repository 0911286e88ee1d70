package handler

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/sakif/code-cards/internal/apperror"
)

// BODY VALIDATION:
// Request-body fields are decoded into pointer fields so "absent" and
// "present but empty" stay distinguishable. Each endpoint declares its
// required fields once; missing() reports EVERY absent field in the
// declared order, so the client sees the full list in one round trip.

// requiredField pairs a wire name with the decoded pointer for it.
type requiredField struct {
	name  string
	value any // *string or json.RawMessage-backed pointer
}

// missing returns the names of all fields whose pointer is nil.
func missing(fields []requiredField) []string {
	var names []string
	for _, f := range fields {
		switch v := f.value.(type) {
		case *string:
			if v == nil {
				names = append(names, f.name)
			}
		case *json.RawMessage:
			if v == nil || *v == nil {
				names = append(names, f.name)
			}
		}
	}
	return names
}

// decodeBody decodes a JSON object body into dst, translating any decode
// failure (malformed JSON, wrong top-level type) into the standard
// request-body validation error.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.MalformedBody()
	}
	return nil
}

// parseParent coerces a comment's parent field to an integer card id.
// Accepted encodings are a JSON integer and a numeric string — anything
// else (floats, objects, "abc") is not convertible.
func parseParent(raw json.RawMessage) (int, bool) {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if id, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return id, true
		}
	}
	return 0, false
}

// parseIDList parses a comma-separated (optionally space-padded) ids query
// parameter. Tokens that don't parse as integers match nothing and are
// dropped; the request itself still succeeds with whatever ids remain.
func parseIDList(param string) []int {
	ids := []int{}
	for _, token := range strings.Split(param, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(token))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
