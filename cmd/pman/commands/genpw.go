package commands

import (
	"github.com/go-pman/pman/internal/genpassword"
)

// RunGenPw expands a "gen<tables><length>" rule into a sampled password
// and prints it. No database is needed.
func RunGenPw(rule string, io IOTuple) error {
	outputText(io.Writer, "%s\n", genpassword.Generate(rule))
	return nil
}
