// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing request bodies and path
// parameters shared by the handlers.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"timesheet/internal/core"
)

// maxBodyBytes caps every request body; the largest payload is a base64 resource.
const maxBodyBytes = 8 << 20

var errBadBody = errors.New("invalid request body")

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON objects and form-encoded data.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	trimmed := strings.TrimSpace(string(p.body))
	if trimmed == "" {
		p.formData = url.Values{}
		return nil
	}

	if trimmed[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal([]byte(trimmed), &p.jsonData); err != nil {
			p.err = fmt.Errorf("%w: %v", errBadBody, err)
		}
		return p.err
	}

	p.formData, p.err = url.ParseQuery(trimmed)
	if p.err != nil {
		p.err = fmt.Errorf("%w: %v", errBadBody, p.err)
	}
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// Has reports whether the key was sent at all.
func (p *RequestBodyParser) Has(key string) bool {
	if p.jsonData != nil {
		_, ok := p.jsonData[key]
		return ok
	}
	return p.formData != nil && p.formData.Has(key)
}

// GetBool parses a boolean field. Missing keys yield def.
func (p *RequestBodyParser) GetBool(key string, def bool) (bool, error) {
	if !p.Has(key) {
		return def, nil
	}
	b, err := strconv.ParseBool(p.Get(key))
	if err != nil {
		return def, fmt.Errorf("%w: %s must be true or false", errBadBody, key)
	}
	return b, nil
}

// GetInt parses an integer field.
func (p *RequestBodyParser) GetInt(key string) (int, error) {
	n, err := strconv.Atoi(p.Get(key))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", errBadBody, key)
	}
	return n, nil
}

// GetStrings returns a JSON array of strings or every value of a repeated
// form field.
func (p *RequestBodyParser) GetStrings(key string) []string {
	var out []string
	if p.jsonData != nil {
		if list, ok := p.jsonData[key].([]any); ok {
			for _, v := range list {
				if s := sanitizeInput(stringValue(v)); s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	}
	for _, v := range p.formData[key] {
		if s := sanitizeInput(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// GetRaw returns the raw body bytes.
func (p *RequestBodyParser) GetRaw() []byte {
	return p.body
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// stringValue converts a decoded JSON value to string.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// decodeJSON decodes a JSON object body into dst.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return nil
}

// pathWeek parses the {week} path value. Any day of the week is accepted.
func pathWeek(r *http.Request) (core.Week, error) {
	return core.ParseWeek(r.PathValue("week"))
}

// pathYear parses the {year} path value.
func pathYear(r *http.Request) (int, error) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil || year < 1 || year > 9999 {
		return 0, fmt.Errorf("%w: year %q", errBadPath, r.PathValue("year"))
	}
	return year, nil
}

// pathYearMonth parses the {year} and {month} path values.
func pathYearMonth(r *http.Request) (int, time.Month, error) {
	year, err := pathYear(r)
	if err != nil {
		return 0, 0, err
	}
	month, err := strconv.Atoi(r.PathValue("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("%w: month %q", errBadPath, r.PathValue("month"))
	}
	return year, time.Month(month), nil
}

var errBadPath = errors.New("invalid path parameter")
