package shell

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"time"

	"go.uber.org/zap"

	"ChainStore/internal/catalog"
	"ChainStore/pkg/kit"
)

const (
	msgOutOfStockEverywhere = "The product is temporarily out of stock everywhere"
	msgNotInSelection       = "The product is not part of product selection"

	outcomeOK      = "ok"
	outcomeError   = "error"
	outcomeInvalid = "invalid"

	// unknown commands share one label value
	labelUnknown = "unknown"
)

// Querier is the read side of a catalog.
type Querier interface {
	Chains() iter.Seq[string]
	Stores(chain string) ([]string, error)
	Selection(chain, store string) ([]catalog.Listing, error)
	Cheapest(product string) catalog.Cheapest
	Products() []string
}

// Processor executes command lines against Catalog and writes results to Out.
// Log and Metrics may be nil.
type Processor struct {
	Catalog Querier
	Out     io.Writer
	Log     *zap.Logger
	Metrics *kit.CommandMetrics
}

// Run reads lines from r until quit or end of input. An interrupted line is
// discarded. Run returns nil on quit and on io.EOF.
func (p *Processor) Run(r LineReader) error {
	for {
		line, err := r.ReadLine()
		switch {
		case errors.Is(err, ErrInterrupt):
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return fmt.Errorf("read command: %w", err)
		}

		if p.Execute(line) {
			return nil
		}
	}
}

// Execute runs a single line and reports whether it was quit.
// Errors are printed as one "Error: ..." line; they never stop the loop.
func (p *Processor) Execute(line string) (quit bool) {
	start := time.Now()
	log := p.logger()

	cmd, err := Parse(line)
	if err != nil {
		label := labelUnknown
		var ae *ArityError
		if errors.As(err, &ae) {
			label = ae.Command
		}
		log.Info("rejected command", zap.String("line", line), zap.Error(err))
		p.Metrics.Observe(label, outcomeInvalid, time.Since(start))
		p.write(errorLine(err))
		return false
	}
	if cmd.Name == "" {
		return false
	}
	if cmd.Name == CmdQuit {
		p.Metrics.Observe(cmd.Name, outcomeOK, time.Since(start))
		return true
	}

	var buf bytes.Buffer
	outcome := outcomeOK
	if err := p.dispatch(&buf, cmd); err != nil {
		outcome = outcomeError
		log.Info("command failed", zap.Stringer("command", cmd), zap.Error(err))
		buf.Write(errorLine(err))
	}
	p.write(buf.Bytes())

	d := time.Since(start)
	p.Metrics.Observe(cmd.Name, outcome, d)
	log.Debug("command executed",
		zap.String("command", cmd.Name),
		zap.String("outcome", outcome),
		zap.Duration("duration", d),
	)
	return false
}

func (p *Processor) dispatch(w *bytes.Buffer, cmd Command) error {
	switch cmd.Name {
	case CmdChains:
		for name := range p.Catalog.Chains() {
			writeLine(w, name)
		}

	case CmdStores:
		stores, err := p.Catalog.Stores(cmd.Args[0])
		if err != nil {
			return err
		}
		for _, s := range stores {
			writeLine(w, s)
		}

	case CmdSelection:
		listings, err := p.Catalog.Selection(cmd.Args[0], cmd.Args[1])
		if err != nil {
			return err
		}
		for _, l := range listings {
			writeLine(w, l.Name+" "+l.Price.String())
		}

	case CmdCheapest:
		res := p.Catalog.Cheapest(cmd.Args[0])
		switch res.Status {
		case catalog.Found:
			writeLine(w, res.PriceString()+" euros")
			for _, loc := range res.Locations {
				writeLine(w, loc.Chain+" "+loc.Store)
			}
		case catalog.OutOfStockEverywhere:
			writeLine(w, msgOutOfStockEverywhere)
		default:
			writeLine(w, msgNotInSelection)
		}

	case CmdProducts:
		for _, name := range p.Catalog.Products() {
			writeLine(w, name)
		}
	}
	return nil
}

func (p *Processor) write(b []byte) {
	if len(b) == 0 {
		return
	}
	if _, err := p.Out.Write(b); err != nil {
		p.logger().Warn("write output", zap.Error(err))
	}
}

func (p *Processor) logger() *zap.Logger {
	if p.Log == nil {
		return zap.NewNop()
	}
	return p.Log
}

func writeLine(w *bytes.Buffer, s string) {
	w.WriteString(s)
	w.WriteByte('\n')
}

func errorLine(err error) []byte {
	return []byte("Error: " + errorText(err) + "\n")
}

// errorText drops wrapping context so users see the bare message.
func errorText(err error) string {
	for _, target := range []error{catalog.ErrUnknownChain, catalog.ErrUnknownStore} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}
