package batch

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "4433555 555666#\n\n8 88777444666*664#\n   \n999#222\n"

func TestProcessText(t *testing.T) {
	var out bytes.Buffer
	sum, err := Process(context.Background(), strings.NewReader(sample), &out, FormatText)
	require.NoError(t, err)

	assert.Equal(t, Summary{Decoded: 3, Skipped: 2}, sum)
	assert.Equal(t, "HELLO\nTURING\nY\n", out.String())
}

func TestProcessJSON(t *testing.T) {
	var out bytes.Buffer
	_, err := Process(context.Background(), strings.NewReader(sample), &out, FormatJSON)
	require.NoError(t, err)

	var got []Record
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var rec Record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		got = append(got, rec)
	}

	want := []Record{
		{Line: 1, Input: "4433555 555666#", Output: "HELLO"},
		{Line: 3, Input: "8 88777444666*664#", Output: "TURING"},
		{Line: 5, Input: "999#222", Output: "Y"},
	}
	assert.Equal(t, want, got)
}

func TestProcessEmpty(t *testing.T) {
	var out bytes.Buffer
	sum, err := Process(context.Background(), strings.NewReader(""), &out, FormatJSON)
	require.NoError(t, err)
	assert.Zero(t, sum.Decoded)
	assert.Empty(t, out.String())
}

func TestProcessCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Process(ctx, strings.NewReader("2\n"), &bytes.Buffer{}, FormatText)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
	assert.Equal(t, "json", f.String())

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	_, err = ParseFormat("csv")
	assert.Error(t, err)
}

func TestProcessLongLine(t *testing.T) {
	// Longer than bufio.Scanner's default 64 KiB token limit.
	input := strings.Repeat("7", 70000) + "#\n22"

	var out bytes.Buffer
	sum, err := Process(context.Background(), strings.NewReader(input), &out, FormatText)
	require.NoError(t, err)
	assert.Equal(t, Summary{Decoded: 2}, sum)
	assert.Equal(t, "S\nB\n", out.String())
}

func TestProcessCRLF(t *testing.T) {
	var out bytes.Buffer
	_, err := Process(context.Background(), strings.NewReader("22\r\n33\r\n"), &out, FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"input":"22"`)
	assert.NotContains(t, out.String(), `\r`)
}

func TestProcessReadErrorKeepsWrittenRecords(t *testing.T) {
	in := io.MultiReader(
		strings.NewReader("22\n"),
		iotest.ErrReader(errors.New("device unplugged")),
	)

	var out bytes.Buffer
	sum, err := Process(context.Background(), in, &out, FormatText)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device unplugged")
	assert.Equal(t, 1, sum.Decoded)
	assert.Equal(t, "B\n", out.String())
}

// cancelAfterFirstLine cancels once the first line has been read.
type cancelAfterFirstLine struct {
	r      io.Reader
	cancel context.CancelFunc
}

func (c *cancelAfterFirstLine) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if bytes.IndexByte(p[:n], '\n') >= 0 {
		c.cancel()
	}
	return n, err
}

func TestProcessCanceledMidStreamKeepsWrittenRecords(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// One byte per read so the second line is never reached before cancel.
	in := &cancelAfterFirstLine{r: iotest.OneByteReader(strings.NewReader("22\n33\n")), cancel: cancel}

	var out bytes.Buffer
	sum, err := Process(ctx, in, &out, FormatJSON)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, sum.Decoded)
	assert.JSONEq(t, `{"line":1,"input":"22","output":"B"}`, strings.TrimSpace(out.String()))
}
