package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("  hello world  \n"))

	got, err := GetSimpleText(r, "Say something", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Contains(t, out.String(), "Say something")
}

func TestGetSimpleText_PartialLineBeforeEOF(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("no newline"))

	got, err := GetSimpleText(r, "Prompt", &out)
	require.NoError(t, err)
	assert.Equal(t, "no newline", got)
}

func TestGetInt(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("abc\n42\n"))

	got, err := GetInt(r, "Quantity", 0, &out)
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Contains(t, out.String(), "whole number")
}

func TestGetInt_EmptyUsesFallback(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("\n"))

	got, err := GetInt(r, "Quantity", 7, &out)
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestGetAmount(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("nope\n12.50\n"))

	got, err := GetAmount(r, "Price", &out)
	require.NoError(t, err)
	assert.Equal(t, "12.5", got.String())
}

func TestGetPassword_UsesStub(t *testing.T) {
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })
	readPassword = func(fd int) ([]byte, error) { return []byte("s3cret"), nil }

	var out bytes.Buffer
	pw, err := GetPassword(&out)
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret"), pw)
	assert.Contains(t, out.String(), "Enter password")
}
