package menu

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminal_ReadLine(t *testing.T) {
	term := NewTerminal(strings.NewReader("first\r\nsecond\n\nlast"), io.Discard)

	for _, want := range []string{"first", "second", "", "last"} {
		got, err := term.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := term.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}

func TestTerminal_PlainWhenNotATerminal(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader(""), &out)

	term.Println(Title, "Main Menu")
	term.Print(Warning, "careful ")
	term.Println(Success, "done")

	assert.Equal(t, "Main Menu\ncareful done\n", out.String())
}

func TestTerminal_StyledWithColorProfile(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader(""), &out, WithColorProfile(termenv.ANSI))

	term.Println(Success, "'Salt' has been added.")
	term.Println(Plain, "plain")

	assert.Contains(t, out.String(), "\x1b[")
	assert.Contains(t, out.String(), "'Salt' has been added.")
	assert.True(t, strings.HasSuffix(out.String(), "\nplain\n"))
}
