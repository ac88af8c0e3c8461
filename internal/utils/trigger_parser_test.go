package utils

import (
	"testing"

	"github.com/hiiragi-dev/kakera-ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTriggerLoanFamily(t *testing.T) {
	for _, content := range []string{
		"$give <@111222333> 500",
		"$givek <@111222333> 500",
		"$GIVE <@111222333> 500",
		"$lend <@!111222333> 500",
	} {
		trig, ok := ParseTrigger(content)
		require.True(t, ok, "expected trigger: %s", content)
		assert.Equal(t, domain.ActionLoan, trig.Kind)
		assert.Equal(t, "111222333", trig.TargetID)
		assert.Equal(t, int64(500), trig.Amount)
	}
}

func TestParseTriggerRepayFamily(t *testing.T) {
	for _, content := range []string{
		"$take <@111222333> 250",
		"$takek <@111222333> 250",
		"$collect <@!111222333> 250",
	} {
		trig, ok := ParseTrigger(content)
		require.True(t, ok, "expected trigger: %s", content)
		assert.Equal(t, domain.ActionRepay, trig.Kind)
		assert.Equal(t, int64(250), trig.Amount)
	}
}

func TestParseTriggerRejections(t *testing.T) {
	for _, content := range []string{
		"",
		"give <@111> 500",          // missing sigil
		"$!give <@111> 500",        // exempt marker
		"$steal <@111> 500",        // unknown verb
		"$give <@111>",             // missing amount
		"$give 500 <@111>",         // wrong field order
		"$give <@111> 0",           // non-positive amount
		"$give <@111> -20",         // negative amount
		"$give <@111> 5.5",         // non-integer amount
		"$give <@111> 500 please",  // trailing token
		"$give @someone 500",       // not a mention token
		"$give <@abc> 500",         // non-numeric mention
		"$give <@111> five",        // non-numeric amount
	} {
		_, ok := ParseTrigger(content)
		assert.False(t, ok, "expected no trigger: %q", content)
	}
}

func TestConfirmationMatches(t *testing.T) {
	assert.True(t, ConfirmationMatches("Hiiragi received 500 kakera!", "kakera", 500))
	assert.True(t, ConfirmationMatches("500 KAKERA transferred", "kakera", 500))

	// Keyword missing
	assert.False(t, ConfirmationMatches("Hiiragi received 500 gems!", "kakera", 500))
	// Amount missing
	assert.False(t, ConfirmationMatches("Hiiragi received kakera!", "kakera", 500))
	// Amount must match as an exact digit run, not a substring
	assert.False(t, ConfirmationMatches("Hiiragi received 1500 kakera!", "kakera", 500))
	assert.False(t, ConfirmationMatches("Hiiragi received 5000 kakera!", "kakera", 500))
	// Amount at end of message
	assert.True(t, ConfirmationMatches("kakera paid out: 500", "kakera", 500))
}

func TestFormatKakera(t *testing.T) {
	assert.Equal(t, "0", FormatKakera(0))
	assert.Equal(t, "999", FormatKakera(999))
	assert.Equal(t, "1,000", FormatKakera(1000))
	assert.Equal(t, "1,234,567", FormatKakera(1234567))
	assert.Equal(t, "-12,345", FormatKakera(-12345))
}
