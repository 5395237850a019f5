package shell

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

const (
	Prompt          = "> "
	InputFilePrompt = "Input file: "
)

// ErrInterrupt is returned by ReadLine when the user pressed Ctrl-C.
var ErrInterrupt = errors.New("interrupted")

// LineReader yields one line per call without the trailing newline.
// It returns io.EOF when input ends.
type LineReader interface {
	ReadLine() (string, error)
	SetPrompt(prompt string)
}

// PromptReader writes a prompt to W and reads a line from R.
type PromptReader struct {
	R      *bufio.Reader
	W      io.Writer
	prompt string
}

func NewPromptReader(r io.Reader, w io.Writer, prompt string) *PromptReader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &PromptReader{R: br, W: w, prompt: prompt}
}

func (p *PromptReader) SetPrompt(prompt string) { p.prompt = prompt }

func (p *PromptReader) ReadLine() (string, error) {
	if p.prompt != "" {
		if _, err := io.WriteString(p.W, p.prompt); err != nil {
			return "", err
		}
	}

	line, err := p.R.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// InteractiveConfig configures a terminal line editor.
type InteractiveConfig struct {
	HistoryFile string
	// Chains and Products feed tab completion; either may be nil.
	Chains   func() []string
	Products func() []string
	Stdin    io.ReadCloser
	Stdout   io.Writer
}

// Interactive is a LineReader over a readline terminal with history and
// completion.
type Interactive struct {
	rl *readline.Instance
}

func NewInteractive(cfg InteractiveConfig) (*Interactive, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          Prompt,
		HistoryFile:     cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       CmdQuit,
		AutoComplete:    newCompleter(cfg.Chains, cfg.Products),
		Stdin:           cfg.Stdin,
		Stdout:          cfg.Stdout,
	})
	if err != nil {
		return nil, err
	}
	return &Interactive{rl: rl}, nil
}

func (i *Interactive) ReadLine() (string, error) {
	line, err := i.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", ErrInterrupt
	}
	return line, err
}

func (i *Interactive) SetPrompt(prompt string) { i.rl.SetPrompt(prompt) }

func (i *Interactive) Close() error { return i.rl.Close() }

// IsTerminal reports whether fd is a terminal.
func IsTerminal(fd int) bool { return readline.IsTerminal(fd) }

func newCompleter(chains, products func() []string) *readline.PrefixCompleter {
	dyn := func(src func() []string) readline.DynamicCompleteFunc {
		return func(string) []string {
			if src == nil {
				return nil
			}
			return src()
		}
	}

	return readline.NewPrefixCompleter(
		readline.PcItem(CmdQuit),
		readline.PcItem(CmdChains),
		readline.PcItem(CmdStores, readline.PcItemDynamic(dyn(chains))),
		readline.PcItem(CmdSelection, readline.PcItemDynamic(dyn(chains))),
		readline.PcItem(CmdCheapest, readline.PcItemDynamic(dyn(products))),
		readline.PcItem(CmdProducts),
	)
}
