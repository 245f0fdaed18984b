package console

import (
	"bytes"
	"strings"
	"testing"

	"nontransitive/dice"
	"nontransitive/probability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatProbability(t *testing.T) {
	tests := []struct {
		wins, total int
		want        string
	}{
		{20, 36, "0.56"},
		{5, 8, "0.63"},
		{1, 8, "0.13"},
		{1, 3, "0.33"},
		{2, 3, "0.67"},
		{0, 5, "0.00"},
		{4, 4, "1.00"},
		{0, 0, "0.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatProbability(tt.wins, tt.total), "%d/%d", tt.wins, tt.total)
	}
}

func TestRenderTable(t *testing.T) {
	set, err := dice.ParseSet([]string{"2,2,4,4,9,9", "6,8,1,1,8,6", "7,5,3,7,5,3"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderTable(&buf, probability.Compute(set)))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, []string{"Dice", "1", "Dice", "2", "Dice", "3"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"Dice", "1", "-", "0.56", "0.44"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"Dice", "2", "0.44", "-", "0.56"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"Dice", "3", "0.56", "0.44", "-"}, strings.Fields(lines[3]))
}
