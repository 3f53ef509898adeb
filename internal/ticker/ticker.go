// Package ticker detects probable NSE ticker symbols in headline text
// and normalizes user-supplied symbols.
package ticker

import (
	"regexp"
	"strings"
)

// NSESuffix is the Yahoo Finance suffix for National Stock Exchange listings.
const NSESuffix = ".NS"

// tokenPattern matches maximal runs of 2-6 consecutive uppercase ASCII
// letters bounded by word boundaries. All-caps English words ("CEO",
// "IPO") will false-positive; they are weeded out downstream when the
// fundamentals lookup fails, not here.
var tokenPattern = regexp.MustCompile(`\b[A-Z]{2,6}\b`)

// Detect returns candidate ticker symbols for a headline, in order of
// first appearance. Each matched token yields two candidates: the bare
// token and the token with the .NS suffix. Duplicate tokens in the
// title yield duplicate candidates.
func Detect(title string) []string {
	tokens := tokenPattern.FindAllString(title, -1)
	candidates := make([]string, 0, 2*len(tokens))
	for _, t := range tokens {
		candidates = append(candidates, t, t+NSESuffix)
	}
	return candidates
}

// Common NSE ticker aliases and normalizations.
var tickerAliases = map[string]string{
	"RELIANCE":    "RELIANCE",
	"RIL":         "RELIANCE",
	"TCS":         "TCS",
	"INFOSYS":     "INFY",
	"INFY":        "INFY",
	"HDFCBANK":    "HDFCBANK",
	"HDFC BANK":   "HDFCBANK",
	"ICICIBANK":   "ICICIBANK",
	"ICICI BANK":  "ICICIBANK",
	"SBIN":        "SBIN",
	"SBI":         "SBIN",
	"BHARTIARTL":  "BHARTIARTL",
	"AIRTEL":      "BHARTIARTL",
	"ITC":         "ITC",
	"LT":          "LT",
	"L&T":         "LT",
	"TATAMOTORS":  "TATAMOTORS",
	"TATA MOTORS": "TATAMOTORS",
	"TATASTEEL":   "TATASTEEL",
	"TATA STEEL":  "TATASTEEL",
	"WIPRO":       "WIPRO",
	"HCLTECH":     "HCLTECH",
	"HCL TECH":    "HCLTECH",
	"MARUTI":      "MARUTI",
	"KOTAKBANK":   "KOTAKBANK",
	"KOTAK":       "KOTAKBANK",
	"AXISBANK":    "AXISBANK",
	"AXIS BANK":   "AXISBANK",
	"SUNPHARMA":   "SUNPHARMA",
	"SUN PHARMA":  "SUNPHARMA",
	"HINDUNILVR":  "HINDUNILVR",
	"HUL":         "HINDUNILVR",
	"ONGC":        "ONGC",
}

// Normalize normalizes a user-input ticker to the canonical NSE format.
// It handles aliases, uppercasing, and whitespace.
func Normalize(symbol string) string {
	symbol = strings.TrimSpace(strings.ToUpper(symbol))

	// Remove $ prefix if present (common in chat)
	symbol = strings.TrimPrefix(symbol, "$")

	if canonical, ok := tickerAliases[symbol]; ok {
		return canonical
	}
	return symbol
}

// ToYahoo converts an NSE ticker to Yahoo Finance format by appending .NS.
func ToYahoo(symbol string) string {
	symbol = Normalize(symbol)
	if strings.HasSuffix(symbol, NSESuffix) || strings.HasSuffix(symbol, ".BO") {
		return symbol
	}
	return symbol + NSESuffix
}

// FromYahoo strips the .NS or .BO suffix to get the NSE/BSE ticker.
func FromYahoo(yfSymbol string) string {
	yfSymbol = strings.TrimSuffix(yfSymbol, NSESuffix)
	yfSymbol = strings.TrimSuffix(yfSymbol, ".BO")
	return yfSymbol
}
