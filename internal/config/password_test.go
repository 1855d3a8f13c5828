package config

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordPrompterReadsLineFromNonTerminalReader(t *testing.T) {
	var out bytes.Buffer
	prompter := NewPasswordPrompter(&out, strings.NewReader("hunter2\n"))
	password, err := prompter.Prompt("password: ")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", password)
	assert.Contains(t, out.String(), "password: ")
}

func TestPasswordPrompterTrimsTrailingCRLF(t *testing.T) {
	prompter := NewPasswordPrompter(&bytes.Buffer{}, strings.NewReader("secret\r\n"))
	password, err := prompter.Prompt("password: ")
	require.NoError(t, err)
	assert.Equal(t, "secret", password)
}

func TestPasswordPrompterHandlesMissingTrailingNewline(t *testing.T) {
	prompter := NewPasswordPrompter(&bytes.Buffer{}, strings.NewReader("secret"))
	password, err := prompter.Prompt("password: ")
	require.NoError(t, err)
	assert.Equal(t, "secret", password)
}

func TestPasswordPrompterSharesReaderAcrossPrompts(t *testing.T) {
	prompter := NewPasswordPrompter(&bytes.Buffer{}, strings.NewReader("first\nsecond\n"))
	first, err := prompter.Prompt("1: ")
	require.NoError(t, err)
	second, err := prompter.Prompt("2: ")
	require.NoError(t, err)
	assert.Equal(t, "first", first)
	assert.Equal(t, "second", second)
}
