package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// Display prints one line per step. On a TTY the running step is animated
// with a spinner; elsewhere only the final line is printed.
type Display struct {
	mu      sync.Mutex
	out     io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols
	spin    *spinner.Spinner
}

// NewDisplay returns a Display writing to out.
func NewDisplay(out io.Writer, caps TerminalCapabilities) *Display {
	return &Display{out: out, caps: caps, symbols: SelectSymbols(caps)}
}

// Start begins a step. A step already running is stopped without a result.
func (d *Display) Start(message string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	if !d.caps.IsTTY {
		return
	}
	s := spinner.New(spinner.CharSets[d.symbols.SpinnerSet], 100*time.Millisecond, spinner.WithWriter(d.out))
	s.Suffix = " " + message
	s.Start()
	d.spin = s
}

// Succeed ends the running step with a checkmark.
func (d *Display) Succeed(message string) {
	d.finish(d.symbols.Checkmark, color.FgGreen, message)
}

// Fail ends the running step with a failure marker.
func (d *Display) Fail(message string) {
	d.finish(d.symbols.Failure, color.FgRed, message)
}

func (d *Display) finish(symbol string, attr color.Attribute, message string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	if d.caps.SupportsColor {
		symbol = color.New(attr).Sprint(symbol)
	}
	fmt.Fprintf(d.out, "%s %s\n", symbol, message)
}

func (d *Display) stopLocked() {
	if d.spin != nil {
		d.spin.Stop()
		d.spin = nil
	}
}
