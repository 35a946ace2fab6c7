// Package parser turns free-text workout input into numeric tuples.
package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vladimiradmaev/fitness-helper/internal/domain"
)

// LineError describes one rejected input line; Line is 1-based
type LineError struct {
	Line   int
	Input  string
	Reason string
}

func (e LineError) Error() string {
	return fmt.Sprintf("Строка %d: %s '%s'", e.Line, e.Reason, e.Input)
}

const (
	reasonFormat  = "неверный формат"
	reasonTokens  = "нужно ровно два числа"
	reasonRange   = "значение вне диапазона"
	reasonMissing = "недостаточно данных"
)

var separators = strings.NewReplacer(
	"/", " ",
	"х", " ", // cyrillic
	"Х", " ",
	"x", " ",
	"X", " ",
	"×", " ",
	"*", " ",
)

// StrengthBatch is the result of parsing a multi-line set entry
type StrengthBatch struct {
	Sets   []domain.Set
	Errors []LineError
}

// ParseStrengthSets accepts lines like "50 12", "52,5x10" or "60/8".
// Blank lines are skipped; valid lines are kept even when others fail.
func ParseStrengthSets(text string) StrengthBatch {
	var batch StrengthBatch
	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		set, reason := parseSetLine(line)
		if reason != "" {
			batch.Errors = append(batch.Errors, LineError{Line: i + 1, Input: line, Reason: reason})
			continue
		}
		batch.Sets = append(batch.Sets, set)
	}
	return batch
}

// splitSet separates weight from reps. A comma is a decimal mark, except in a
// single token like "55,10" where it is the only separator.
func splitSet(line string) []string {
	fields := strings.Fields(separators.Replace(line))
	if len(fields) == 1 && strings.Count(fields[0], ",") == 1 {
		fields = strings.Split(fields[0], ",")
	}
	for i, f := range fields {
		fields[i] = strings.ReplaceAll(f, ",", ".")
	}
	return fields
}

func parseSetLine(line string) (domain.Set, string) {
	fields := splitSet(line)
	switch {
	case len(fields) < 2:
		return domain.Set{}, reasonMissing
	case len(fields) > 2:
		return domain.Set{}, reasonTokens
	}

	weight, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return domain.Set{}, reasonFormat
	}
	reps, err := strconv.Atoi(fields[1])
	if err != nil {
		return domain.Set{}, reasonFormat
	}
	if !finite(weight) || weight < 0 || reps <= 0 {
		return domain.Set{}, reasonRange
	}
	return domain.Set{Weight: weight, Reps: reps}, ""
}

// ParseCardio reads "<minutes> <value>" where the value meaning comes from format
func ParseCardio(text string, format domain.CardioFormat) (domain.CardioPayload, error) {
	line := strings.TrimSpace(text)
	fields := strings.Fields(strings.ReplaceAll(line, ",", "."))
	if len(fields) != 2 {
		return domain.CardioPayload{}, LineError{Line: 1, Input: line, Reason: reasonTokens}
	}

	minutes, err := strconv.Atoi(fields[0])
	if err != nil {
		return domain.CardioPayload{}, LineError{Line: 1, Input: line, Reason: reasonFormat}
	}
	value, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return domain.CardioPayload{}, LineError{Line: 1, Input: line, Reason: reasonFormat}
	}
	if minutes <= 0 || !finite(value) || value <= 0 {
		return domain.CardioPayload{}, LineError{Line: 1, Input: line, Reason: reasonRange}
	}

	return domain.CardioPayload{DurationMin: minutes, Format: format, Value: value}, nil
}

// finite rejects the NaN and Inf spellings strconv.ParseFloat accepts
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
