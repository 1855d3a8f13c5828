package genpassword

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateLettersOnly(t *testing.T) {
	pw := Generate("gena10")
	assert.Len(t, pw, 10)
	for _, c := range pw {
		assert.True(t, strings.ContainsRune(letterTable, c))
	}
}

func TestGenerateMixedTables(t *testing.T) {
	pw := Generate("gena1@08")
	assert.Len(t, pw, 8)
	for _, c := range pw {
		assert.True(t, strings.ContainsRune(letterTable+numberTable+symbolTable, c))
	}
}

func TestGenerateZeroLength(t *testing.T) {
	assert.Equal(t, "", Generate("gena00"))
}

func TestGenerateUnknownTableLetterReturnsRuleUnchanged(t *testing.T) {
	rule := "genx05"
	assert.Equal(t, rule, Generate(rule))
}

func TestGenerateNonDecimalLengthReturnsRuleUnchanged(t *testing.T) {
	rule := "genaXX"
	assert.Equal(t, rule, Generate(rule))
}

func TestGenerateShortRuleReturnsUnchanged(t *testing.T) {
	assert.Equal(t, "gen05", Generate("gen05"))
	assert.Equal(t, "plain-password", Generate("plain-password"))
}

func TestGenerateIsVaried(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		seen[Generate("gena112")] = true
	}
	assert.Greater(t, len(seen), 1)
}
