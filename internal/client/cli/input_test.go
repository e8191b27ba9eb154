package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("  hello world \n"), "Name?", &out)
	require.NoError(t, err)
	require.Equal(t, "hello world", got)
	require.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	require.Equal(t, "lastline", got)
}

func TestGetSimpleText_EmptyInputIsError(t *testing.T) {
	var out bytes.Buffer
	_, err := GetSimpleText(rdr(""), "Name?", &out)
	require.Error(t, err)
}

func TestGetMultiline_DoubleEnter(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "unix newlines", input: "a\nb\n\n\n", want: "a\nb"},
		{name: "crlf", input: "a\r\nb\r\n\r\n", want: "a\nb"},
		{name: "immediate blank line", input: "\n", want: ""},
		{name: "eof without blank line", input: "a\nb", want: "a\nb"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetMultiline(rdr(tc.input), "Enter text", &out)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestGetPassword(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) { return []byte("s3cret"), nil }

	var out bytes.Buffer
	pw, err := GetPassword("Confirm password", &out)
	require.NoError(t, err)
	require.Equal(t, "s3cret", string(pw))
	require.Equal(t, "Confirm password: \n", out.String())
}

func TestGetPassword_Error(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) {
		return nil, errors.New("boom")
	}
	var out bytes.Buffer
	_, err := GetPassword("Password", &out)
	require.Error(t, err)
}
