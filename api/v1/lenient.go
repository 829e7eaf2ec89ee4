// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package v1

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// isAbsent returns whether a raw JSON value was either missing from the
// payload or explicitly null.
func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// unquote returns the contents of a JSON string and true, or false if the
// raw value is not a JSON string.
func unquote(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// lenientFloat decodes a JSON number or a numeric JSON string into a
// float64. The default is returned, and a warning logged, if the value is
// neither or is not finite.
func lenientFloat(field string, raw json.RawMessage, def float64) float64 {
	if isAbsent(raw) {
		return def
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	if s, ok := unquote(raw); ok {
		f, err := strconv.ParseFloat(s, 64)
		if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
	}
	log.Warnf("%v: cannot decode %s as a number; using %v",
		field, raw, def)
	return def
}

// lenientInt decodes a JSON number or a numeric JSON string into an int.
// Whole floating point values such as 3.0 are accepted. The default is
// returned, and a warning logged, if the value is neither.
func lenientInt(field string, raw json.RawMessage, def int) int {
	if isAbsent(raw) {
		return def
	}
	s := string(raw)
	if q, ok := unquote(raw); ok {
		s = q
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int(f)) {
		return int(f)
	}
	log.Warnf("%v: cannot decode %s as an integer; using %v",
		field, raw, def)
	return def
}

// lenientString decodes a JSON string, or a JSON number rendered in its
// shortest form, into a string. The default is returned, and a warning
// logged, if the value is neither.
func lenientString(field string, raw json.RawMessage, def string) string {
	if isAbsent(raw) {
		return def
	}
	if s, ok := unquote(raw); ok {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if i, err := n.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		if f, err := n.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	log.Warnf("%v: cannot decode %s as a string; using %q",
		field, raw, def)
	return def
}
