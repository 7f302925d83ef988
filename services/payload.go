package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"storefront/models"

	"github.com/shopspring/decimal"
)

const (
	msgRequired   = "This field is required."
	msgNull       = "This field may not be null."
	msgBlank      = "This field may not be blank."
	msgNotString  = "Not a valid string."
	msgNotInteger = "A valid integer is required."
	msgNotNumber  = "A valid number is required."
)

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// decodeString reports a field error and returns false when raw is not a JSON string.
func decodeString(raw json.RawMessage, field string, errs *models.FieldErrors) (string, bool) {
	if isNull(raw) {
		errs.Add(field, msgNull)
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		errs.Add(field, msgNotString)
		return "", false
	}
	return s, true
}

// decodeTitle trims and enforces a non-blank value of at most maxLen characters.
func decodeTitle(raw json.RawMessage, field string, maxLen int, errs *models.FieldErrors) (string, bool) {
	s, ok := decodeString(raw, field, errs)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		errs.Add(field, msgBlank)
		return "", false
	}
	if utf8.RuneCountInString(s) > maxLen {
		errs.Add(field, "Ensure this field has no more than "+strconv.Itoa(maxLen)+" characters.")
		return "", false
	}
	return s, true
}

// decodeInt accepts a JSON integer or a string holding one, within the INTEGER column range.
func decodeInt(raw json.RawMessage, field string, errs *models.FieldErrors) (int, bool) {
	if isNull(raw) {
		errs.Add(field, msgNull)
		return 0, false
	}
	n, ok := parseInt(raw)
	if !ok {
		errs.Add(field, msgNotInteger)
		return 0, false
	}
	return n, intInRange(n, field, errs)
}

func parseInt(raw json.RawMessage) (int, bool) {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n, true
		}
	}
	return 0, false
}

func intInRange(n int, field string, errs *models.FieldErrors) bool {
	switch {
	case n > models.MaxIntValue:
		errs.Add(field, fmt.Sprintf("Ensure this value is less than or equal to %d.", models.MaxIntValue))
		return false
	case n < models.MinIntValue:
		errs.Add(field, fmt.Sprintf("Ensure this value is greater than or equal to %d.", models.MinIntValue))
		return false
	}
	return true
}

// decodeDecimal accepts a JSON number or a numeric string.
func decodeDecimal(raw json.RawMessage, field string, errs *models.FieldErrors) (decimal.Decimal, bool) {
	if isNull(raw) {
		errs.Add(field, msgNull)
		return decimal.Zero, false
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(bytes.TrimSpace(raw)); err != nil {
		errs.Add(field, msgNotNumber)
		return decimal.Zero, false
	}
	return d, true
}
