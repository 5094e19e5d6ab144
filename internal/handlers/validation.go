package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"time"

	"fintrack/internal/money"
	"fintrack/internal/services"
)

var (
	errAmountRequired = errors.New("amount is required")
	errInvalidMonth   = errors.New("month and year must be given together, month between 1 and 12")
)

// parseAmount accepts a JSON number or a numeric string holding a positive
// whole number of minor units.
func parseAmount(raw json.RawMessage) (int64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, errAmountRequired
	}
	literal := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &literal); err != nil {
			return 0, money.ErrInvalidAmount
		}
	}
	return money.ParsePositiveMinor(literal)
}

// parsePeriod reads the optional month/year query pair. Neither given means
// the default period.
func parsePeriod(query url.Values) (*services.Period, error) {
	rawMonth, rawYear := query.Get("month"), query.Get("year")
	if rawMonth == "" && rawYear == "" {
		return nil, nil
	}
	if rawMonth == "" || rawYear == "" {
		return nil, errInvalidMonth
	}
	month, err := strconv.Atoi(rawMonth)
	if err != nil || month < 1 || month > 12 {
		return nil, errInvalidMonth
	}
	year, err := strconv.Atoi(rawYear)
	if err != nil || year < 1 || year > 9999 {
		return nil, errInvalidMonth
	}
	return &services.Period{Year: year, Month: time.Month(month)}, nil
}
