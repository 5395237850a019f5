package shell_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"ChainStore/internal/shell"
)

func TestPromptReader(t *testing.T) {
	var prompts bytes.Buffer
	r := shell.NewPromptReader(strings.NewReader("data.csv\r\nchains\nlast"), &prompts, shell.InputFilePrompt)

	line, err := r.ReadLine()
	require.NoError(t, err)
	require.Equal(t, "data.csv", line)

	r.SetPrompt(shell.Prompt)
	line, err = r.ReadLine()
	require.NoError(t, err)
	require.Equal(t, "chains", line)

	line, err = r.ReadLine()
	require.NoError(t, err)
	require.Equal(t, "last", line)

	_, err = r.ReadLine()
	require.True(t, errors.Is(err, io.EOF))
	require.Equal(t, "Input file: > > > ", prompts.String())
}

type scriptedReader struct {
	lines []string
	errs  []error
}

func (s *scriptedReader) SetPrompt(string) {}

func (s *scriptedReader) ReadLine() (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line, err := s.lines[0], s.errs[0]
	s.lines, s.errs = s.lines[1:], s.errs[1:]
	return line, err
}

func TestRun_InterruptDiscardsLine(t *testing.T) {
	var out bytes.Buffer
	p := &shell.Processor{Catalog: scenario(t), Out: &out}

	r := &scriptedReader{
		lines: []string{"selection A", "chains"},
		errs:  []error{shell.ErrInterrupt, nil},
	}
	require.NoError(t, p.Run(r))
	require.Equal(t, "A\nB\n", out.String())
}

func TestRun_ReadError(t *testing.T) {
	boom := errors.New("tty gone")
	p := &shell.Processor{Catalog: scenario(t), Out: io.Discard}

	err := p.Run(&scriptedReader{lines: []string{""}, errs: []error{boom}})
	require.ErrorIs(t, err, boom)
}
