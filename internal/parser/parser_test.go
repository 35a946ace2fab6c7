package parser

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/fitness-helper/internal/domain"
)

func TestParseStrengthSets_MixedBatch(t *testing.T) {
	batch := ParseStrengthSets("50 12\n55,10\nabc")

	require.Len(t, batch.Sets, 2)
	assert.Equal(t, domain.Set{Weight: 50, Reps: 12}, batch.Sets[0])
	assert.Equal(t, domain.Set{Weight: 55, Reps: 10}, batch.Sets[1])

	require.Len(t, batch.Errors, 1)
	assert.Equal(t, 3, batch.Errors[0].Line)
	assert.Equal(t, "abc", batch.Errors[0].Input)
	assert.Equal(t, "Строка 3: недостаточно данных 'abc'", batch.Errors[0].Error())
}

func TestParseStrengthSets_Separators(t *testing.T) {
	tests := []struct {
		input string
		want  domain.Set
	}{
		{"52,5 10", domain.Set{Weight: 52.5, Reps: 10}},
		{"52.5x10", domain.Set{Weight: 52.5, Reps: 10}},
		{"52,5x10", domain.Set{Weight: 52.5, Reps: 10}},
		{"55,10", domain.Set{Weight: 55, Reps: 10}},
		{"60х8", domain.Set{Weight: 60, Reps: 8}},
		{"60 / 8", domain.Set{Weight: 60, Reps: 8}},
		{"  0   15  ", domain.Set{Weight: 0, Reps: 15}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			batch := ParseStrengthSets(tt.input)
			require.Empty(t, batch.Errors)
			require.Len(t, batch.Sets, 1)
			assert.Equal(t, tt.want, batch.Sets[0])
		})
	}
}

func TestParseStrengthSets_Rejections(t *testing.T) {
	tests := []struct {
		input  string
		reason string
	}{
		{"50 12 3", reasonTokens},
		{"50 12.5", reasonFormat},
		{"fifty 12", reasonFormat},
		{"-5 10", reasonRange},
		{"50 0", reasonRange},
		{"50", reasonMissing},
		{"NaN 10", reasonRange},
		{"inf 5", reasonRange},
		{"-Infinity 5", reasonRange},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			batch := ParseStrengthSets(tt.input)
			assert.Empty(t, batch.Sets)
			require.Len(t, batch.Errors, 1)
			assert.Equal(t, tt.reason, batch.Errors[0].Reason)
		})
	}
}

func TestParseStrengthSets_BlankLinesKeepNumbering(t *testing.T) {
	batch := ParseStrengthSets("50 12\n\n  \nbad line here\n")
	require.Len(t, batch.Sets, 1)
	require.Len(t, batch.Errors, 1)
	assert.Equal(t, 4, batch.Errors[0].Line)
}

func TestParseStrengthSets_CountsIndependentOfOrder(t *testing.T) {
	good := []string{"50 12", "55,10", "60x8", "20/15", "42.5 9"}
	bad := []string{"abc", "1 2 3", "x", "10 ten"}

	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		k := rng.Intn(len(good) + 1)
		m := rng.Intn(len(bad) + 1)
		lines := append(append([]string{}, good[:k]...), bad[:m]...)
		rng.Shuffle(len(lines), func(i, j int) { lines[i], lines[j] = lines[j], lines[i] })

		batch := ParseStrengthSets(strings.Join(lines, "\n"))
		assert.Len(t, batch.Sets, k, fmt.Sprintf("round %d", round))
		assert.Len(t, batch.Errors, m, fmt.Sprintf("round %d", round))
	}
}

func TestParseCardio(t *testing.T) {
	p, err := ParseCardio("30 3000", domain.CardioDistance)
	require.NoError(t, err)
	assert.Equal(t, 30, p.DurationMin)
	meters, ok := p.Distance()
	assert.True(t, ok)
	assert.Equal(t, 3000.0, meters)
	_, ok = p.Speed()
	assert.False(t, ok)

	p, err = ParseCardio("25 10,5", domain.CardioSpeed)
	require.NoError(t, err)
	speed, ok := p.Speed()
	assert.True(t, ok)
	assert.Equal(t, 10.5, speed)
	assert.Equal(t, "25 минут, 10.5 км/ч", p.Details())

	for _, input := range []string{"30", "30 5 5", "half 5", "30.5 5", "0 5", "30 -1"} {
		_, err := ParseCardio(input, domain.CardioDistance)
		assert.Error(t, err, input)
	}

	for _, input := range []string{"30 NaN", "30 inf", "30 +Inf"} {
		_, err := ParseCardio(input, domain.CardioDistance)
		var lineErr LineError
		require.ErrorAs(t, err, &lineErr, input)
		assert.Equal(t, reasonRange, lineErr.Reason, input)
	}
}
