// Package core implements the amortization engine: parameter validation,
// payment derivation, schedule generation and yearly aggregation. Every
// function here is pure; the engine keeps no state between calls.
//
// This file contains the parsing helpers used at the form boundary to
// turn raw text fields into validated LoanParameters.
package core

import (
	"strconv"
	"strings"
)

// RawParameters holds unparsed form fields. Empty Balloon means no
// balloon; the other fields are required.
type RawParameters struct {
	Principal         string
	AnnualRatePercent string
	TermYears         string
	Balloon           string
}

// ParseLoanParameters normalizes raw field values into LoanParameters,
// accepting both dot and comma decimal separators. The returned
// parameters are already validated; any failure maps to the sentinel
// error for the offending field.
func ParseLoanParameters(raw RawParameters) (LoanParameters, error) {
	principal, err := parseAmount(raw.Principal)
	if err != nil {
		return LoanParameters{}, ErrInvalidPrincipal
	}
	rate, err := parseAmount(raw.AnnualRatePercent)
	if err != nil {
		return LoanParameters{}, ErrInvalidRate
	}
	years, err := strconv.Atoi(strings.TrimSpace(raw.TermYears))
	if err != nil {
		return LoanParameters{}, ErrInvalidTerm
	}

	balloon := 0.0
	if strings.TrimSpace(raw.Balloon) != "" {
		balloon, err = parseAmount(raw.Balloon)
		if err != nil {
			return LoanParameters{}, ErrInvalidBalloon
		}
	}

	p := LoanParameters{
		Principal:         principal,
		AnnualRatePercent: rate,
		TermYears:         years,
		Balloon:           balloon,
	}
	if err := p.Validate(); err != nil {
		return LoanParameters{}, err
	}
	return p, nil
}

// parseAmount parses a decimal string, normalizing a decimal comma to a
// dot first.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if !isFinite(v) {
		return 0, strconv.ErrRange
	}
	return v, nil
}
