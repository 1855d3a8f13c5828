// Package genpassword implements the "gen<tables><length>" password
// generation rule string: an auxiliary capability that needs no open
// database.
package genpassword

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
)

const (
	letterTable = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	numberTable = "0123456789"
	symbolTable = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
)

// Generate expands a rule string of the form "gen<tables><length>" into a
// password sampled uniformly from the character tables the middle letters
// select ('a' = letters, '1' = digits, '@' = symbols), with the last two
// characters read as a decimal length. Any rule that doesn't fit this
// shape — no "gen" prefix, a non-decimal length suffix, or an unknown
// table letter — is returned unchanged, so callers can detect
// non-generation by equality with the input.
func Generate(rule string) string {
	l := len(rule)
	if l <= 5 || !strings.HasPrefix(rule, "gen") {
		return rule
	}
	length, err := strconv.Atoi(rule[l-2:])
	if err != nil {
		return rule
	}

	var table strings.Builder
	for _, c := range rule[3 : l-2] {
		switch c {
		case 'a':
			table.WriteString(letterTable)
		case '1':
			table.WriteString(numberTable)
		case '@':
			table.WriteString(symbolTable)
		default:
			return rule
		}
	}
	chars := []rune(table.String())
	if len(chars) == 0 {
		return rule
	}

	result := make([]rune, length)
	for i := range result {
		idx, err := randomIndex(len(chars))
		if err != nil {
			return rule
		}
		result[i] = chars[idx]
	}
	return string(result)
}

func randomIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
