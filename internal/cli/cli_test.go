package cli

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	if stdin != "" {
		root.SetIn(strings.NewReader(stdin))
	}
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestParseCommandAcceptsValidExpression(t *testing.T) {
	out, err := runCLI(t, "", "parse", "/a/b[c = 1]")
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)
}

func TestParseCommandRejectsSyntaxError(t *testing.T) {
	_, err := runCLI(t, "", "parse", "///")
	assert.Error(t, err)
}

func TestEvalCommandAgainstFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "doc-*.xml")
	require.NoError(t, err)
	_, err = f.WriteString(`<root><item>hello</item></root>`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	out, err := runCLI(t, "", "eval", "--file", f.Name(), "/root/item")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
}

func TestEvalCommandWithoutFile(t *testing.T) {
	out, err := runCLI(t, "", "eval", "1 + 2")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

func TestEvalCommandEmptySequence(t *testing.T) {
	out, err := runCLI(t, "", "eval", "()")
	require.NoError(t, err)
	assert.Equal(t, "()\n", out)
}

func TestNamespaceFlagParsing(t *testing.T) {
	n := &nsFlag{}
	require.NoError(t, n.Set("h=http://example.com/html"))
	assert.Equal(t, "http://example.com/html", n.m["h"])
	assert.Error(t, n.Set("no-equals-sign"))
}
