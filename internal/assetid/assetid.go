// Package assetid composes and validates the structured asset identifier
// IHUB/<financialYear>/<assetCode>/<location>/<serial>.
package assetid

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// Prefix is the fixed first segment of every identifier.
	Prefix = "IHUB"
	// Placeholder marks a segment whose source value is still missing.
	Placeholder = "--"
	// AutoSerial is the sentinel a client sends to mean "let the server assign".
	AutoSerial = "AUTO"

	numSegments = 5
	codeLen     = 3
)

var (
	yearPattern   = regexp.MustCompile(`^\d{4}-\d{2}$`)
	codePattern   = regexp.MustCompile(`^[A-Z]{1,3}-*$`)
	serialPattern = regexp.MustCompile(`^\d{3,}$`)
	letterOnly    = regexp.MustCompile(`[^A-Za-z]`)
)

// AssetCode derives the 3-letter code from an asset name: the first three
// alphabetic characters, uppercased, padded with '-' when fewer are available.
func AssetCode(assetName string) string {
	letters := letterOnly.ReplaceAllString(assetName, "")
	letters = strings.ToUpper(letters)
	if len(letters) > codeLen {
		letters = letters[:codeLen]
	}
	for len(letters) < codeLen {
		letters += "-"
	}
	return letters
}

// FormatSerial renders a serial zero-padded to three digits. Serials beyond
// 999 keep their full width.
func FormatSerial(n int64) string {
	return fmt.Sprintf("%03d", n)
}

// Compose builds the full identifier. Empty inputs render as the placeholder
// segment so a partially-specified ID is still displayable; such an ID will
// not pass Validate. The location is uppercased.
func Compose(financialYear, assetName, location string, serial int64) string {
	fy := strings.TrimSpace(financialYear)
	if fy == "" {
		fy = Placeholder
	}

	code := Placeholder
	if strings.TrimSpace(assetName) != "" {
		code = AssetCode(assetName)
	}

	loc := strings.ToUpper(strings.TrimSpace(location))
	if loc == "" {
		loc = Placeholder
	}

	return strings.Join([]string{Prefix, fy, code, loc, FormatSerial(serial)}, "/")
}

// ComposeAuto builds an identifier with the AUTO serial sentinel in place of
// a number, for submissions that defer serial assignment to the server.
func ComposeAuto(financialYear, assetName, location string) string {
	id := Compose(financialYear, assetName, location, 0)
	return id[:strings.LastIndex(id, "/")+1] + AutoSerial
}

// Validate checks that id is a fully-specified identifier: exactly five
// segments, IHUB prefix, no placeholder segment, a YYYY-YY financial year and
// a numeric serial (or the AUTO sentinel). The error names every offending
// component so the caller can surface a field-level message.
func Validate(id string) error {
	segs := strings.Split(id, "/")
	if len(segs) != numSegments {
		return fmt.Errorf("uniqueId must have %d segments separated by '/', got %d", numSegments, len(segs))
	}
	if segs[0] != Prefix {
		return fmt.Errorf("uniqueId must start with %q", Prefix)
	}

	var missing []string
	if segs[1] == Placeholder || !yearPattern.MatchString(segs[1]) {
		missing = append(missing, "financialYear")
	}
	if segs[2] == Placeholder || !codePattern.MatchString(segs[2]) {
		missing = append(missing, "assetCode")
	}
	if segs[3] == Placeholder {
		missing = append(missing, "location")
	}
	if segs[4] != AutoSerial && !serialPattern.MatchString(segs[4]) {
		missing = append(missing, "serial")
	}
	if len(missing) > 0 {
		return fmt.Errorf("uniqueId is missing or malformed in: %s", strings.Join(missing, ", "))
	}
	return nil
}

// HasAutoSerial reports whether the identifier defers serial assignment.
func HasAutoSerial(id string) bool {
	return strings.HasSuffix(id, "/"+AutoSerial)
}

// ValidateLocation checks that a location can appear as an identifier
// segment. A '/' would change the segment count and the placeholder would
// make the identifier read as incomplete, so both are rejected before they
// can be baked into a stored ID.
func ValidateLocation(location string) error {
	loc := strings.ToUpper(strings.TrimSpace(location))
	if loc == "" {
		return fmt.Errorf("location must not be empty")
	}
	if loc == Placeholder {
		return fmt.Errorf("location must not be the %q placeholder", Placeholder)
	}
	if strings.Contains(loc, "/") {
		return fmt.Errorf("location must not contain '/'")
	}
	return nil
}

// ValidateFinancialYear checks the YYYY-YY form, e.g. "2024-25".
func ValidateFinancialYear(fy string) error {
	if !yearPattern.MatchString(fy) {
		return fmt.Errorf("financialYear must have the form YYYY-YY, e.g. 2024-25")
	}
	return nil
}

// ReplaceLocation rewrites only the location segment of a well-formed
// identifier; year, asset code and serial are never touched.
func ReplaceLocation(id, newLocation string) (string, error) {
	segs := strings.Split(id, "/")
	if len(segs) != numSegments || segs[0] != Prefix {
		return "", fmt.Errorf("malformed uniqueId %q", id)
	}
	if err := ValidateLocation(newLocation); err != nil {
		return "", err
	}
	segs[3] = strings.ToUpper(strings.TrimSpace(newLocation))
	return strings.Join(segs, "/"), nil
}

// Serial extracts the numeric serial segment of a well-formed identifier.
func Serial(id string) (string, error) {
	segs := strings.Split(id, "/")
	if len(segs) != numSegments {
		return "", fmt.Errorf("malformed uniqueId %q", id)
	}
	if !serialPattern.MatchString(segs[4]) {
		return "", fmt.Errorf("uniqueId %q has no numeric serial", id)
	}
	return segs[4], nil
}
