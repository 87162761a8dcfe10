package printer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Dispatcher resolves a printer and walks the transport chain until one
// trusted strategy delivers the payload.
type Dispatcher struct {
	runner   CommandRunner
	resolver PortResolver
	chain    []Transport

	// TempDir is where payload files are staged. Defaults to os.TempDir().
	TempDir string
}

// NewDispatcher wires a dispatcher from its collaborators.
func NewDispatcher(r CommandRunner, res PortResolver, chain []Transport) *Dispatcher {
	return &Dispatcher{
		runner:   r,
		resolver: res,
		chain:    chain,
		TempDir:  os.TempDir(),
	}
}

// Dispatch writes the payload to a temp file, resolves the printer endpoint
// and tries each available transport in order. The temp file is deleted on
// success and retained on failure so the job can be replayed by hand with
// `copy /b`. A failed dispatch returns a Result, not an error; errors are
// reserved for local staging problems.
func (d *Dispatcher) Dispatch(ctx context.Context, printerName string, payload []byte, prefix, ext string) (*Result, error) {
	path := filepath.Join(d.TempDir, fmt.Sprintf("%s_%d_%s.%s",
		prefix, time.Now().UnixNano(), uuid.New().String()[:8], ext))
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return nil, fmt.Errorf("stage payload: %w", err)
	}

	desc := d.resolver.Resolve(ctx, printerName)
	res := &Result{
		Printer: printerName,
		Port:    orUnknown(desc.Port),
		Share:   orUnknown(desc.ShareName),
		State:   StateNotAttempted,
	}

	var lastErr error
	for _, t := range d.chain {
		if !t.Available(desc) {
			continue
		}
		res.State = StateAttempting

		tctx, cancel := context.WithTimeout(ctx, t.Timeout())
		err := t.Send(tctx, d.runner, desc, path)
		cancel()

		if err != nil {
			res.Attempts = append(res.Attempts, Attempt{Strategy: t.Name(), Error: err.Error()})
			lastErr = err
			continue
		}
		if !t.Trusted() {
			res.Attempts = append(res.Attempts, Attempt{
				Strategy:  t.Name(),
				Error:     ErrUntrusted.Error(),
				Untrusted: true,
			})
			lastErr = ErrUntrusted
			continue
		}

		res.Attempts = append(res.Attempts, Attempt{Strategy: t.Name()})
		res.Success = true
		res.State = StateSucceeded
		os.Remove(path)
		return res, nil
	}

	res.State = StateFailed
	res.TempFile = path
	res.Message = failureMessage(printerName, desc, lastErr, path)
	return res, nil
}

func failureMessage(name string, desc Descriptor, lastErr error, path string) string {
	detail := "no delivery strategy was applicable"
	if lastErr != nil {
		detail = lastErr.Error()
	}
	return fmt.Sprintf(
		"failed to print to %q (port=%s share=%s): %s. "+
			"Check that the printer driver is set to RAW mode. "+
			`The payload was kept at %s; retry manually with: copy /b "%s" "\\localhost\%s"`,
		name, orUnknown(desc.Port), orUnknown(desc.ShareName), detail, path, path, name)
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
