package cli

import (
	"bytes"
	"testing"

	"leadcredit/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestQuoteCommand(t *testing.T) {
	out, err := runCLI(t, "quote", "--value", "39000", "--level", "2", "--exclusive=false")
	require.NoError(t, err)
	assert.Equal(t, "Shared with up to 2 other companies: 3 base + 3 competition = 6 credits\n", out)

	out, err = runCLI(t, "quote", "--value", "120000", "--level", "4", "--exclusive")
	require.NoError(t, err)
	assert.Contains(t, out, "= 15 credits")
}

func TestQuoteCommandRejectsBadInput(t *testing.T) {
	_, err := runCLI(t, "quote", "--value", "lots", "--level", "2", "--exclusive=false")
	assert.Error(t, err)

	_, err = runCLI(t, "quote", "--value", "39000", "--level", "7", "--exclusive=false")
	assert.ErrorIs(t, err, util.ErrInvalidCompetitionLevel)
}

func TestParseAmount(t *testing.T) {
	n, err := parseAmount("-5")
	require.NoError(t, err)
	assert.Equal(t, int64(-5), n)

	_, err = parseAmount("5.5")
	assert.ErrorIs(t, err, util.ErrInvalidInput)
}

func TestArgumentValidation(t *testing.T) {
	_, err := runCLI(t, "balance")
	assert.Error(t, err)

	_, err = runCLI(t, "lead", "hide", "abc")
	assert.Error(t, err)
}
