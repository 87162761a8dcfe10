package printer

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

type fakeResolver struct {
	desc Descriptor
}

func (f fakeResolver) Resolve(ctx context.Context, name string) Descriptor {
	d := f.desc
	d.Name = name
	return d
}

type fakeTransport struct {
	name      string
	available bool
	trusted   bool
	err       error
	calls     *[]string
}

func (f fakeTransport) Name() string                { return f.name }
func (f fakeTransport) Available(d Descriptor) bool { return f.available }
func (f fakeTransport) Trusted() bool               { return f.trusted }
func (f fakeTransport) Timeout() time.Duration      { return time.Second }

func (f fakeTransport) Send(ctx context.Context, r CommandRunner, d Descriptor, path string) error {
	*f.calls = append(*f.calls, f.name)
	return f.err
}

type nopRunner struct{}

func (nopRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	return "", nil
}

func newTestDispatcher(t *testing.T, chain []Transport) *Dispatcher {
	t.Helper()
	d := NewDispatcher(nopRunner{}, fakeResolver{}, chain)
	d.TempDir = t.TempDir()
	return d
}

func TestDispatchStopsAtFirstTrustedSuccess(t *testing.T) {
	var calls []string
	chain := []Transport{
		fakeTransport{name: "a", available: true, trusted: true, err: errors.New("boom"), calls: &calls},
		fakeTransport{name: "b", available: true, trusted: true, calls: &calls},
		fakeTransport{name: "c", available: true, trusted: true, calls: &calls},
	}
	d := newTestDispatcher(t, chain)

	res, err := d.Dispatch(context.Background(), "POS-80C", []byte("data"), "receipt", "pdf")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !res.Success || res.State != StateSucceeded {
		t.Fatalf("expected success, got %+v", res)
	}
	if strings.Join(calls, ",") != "a,b" {
		t.Fatalf("call order = %v, want a then b and no c", calls)
	}
	if res.TempFile != "" {
		t.Fatalf("successful dispatch must not surface a temp file")
	}
}

func TestDispatchSkipsUnavailableTransports(t *testing.T) {
	var calls []string
	chain := []Transport{
		fakeTransport{name: "skipped", available: false, trusted: true, calls: &calls},
		fakeTransport{name: "used", available: true, trusted: true, calls: &calls},
	}
	d := newTestDispatcher(t, chain)

	if _, err := d.Dispatch(context.Background(), "P", []byte("x"), "receipt", "pdf"); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if strings.Join(calls, ",") != "used" {
		t.Fatalf("unavailable transport ran: %v", calls)
	}
}

func TestDispatchUntrustedNeverSucceeds(t *testing.T) {
	var calls []string
	chain := []Transport{
		fakeTransport{name: "shell-print", available: true, trusted: false, calls: &calls},
	}
	d := newTestDispatcher(t, chain)

	res, err := d.Dispatch(context.Background(), "P", []byte("x"), "receipt", "pdf")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if res.Success {
		t.Fatalf("untrusted transport flipped the result to success")
	}
	if res.State != StateFailed {
		t.Fatalf("state = %v, want FAILED", res.State)
	}
	if len(res.Attempts) != 1 || !res.Attempts[0].Untrusted {
		t.Fatalf("untrusted attempt not recorded: %+v", res.Attempts)
	}
}

func TestDispatchKeepsTempFileOnFailure(t *testing.T) {
	var calls []string
	chain := []Transport{
		fakeTransport{name: "a", available: true, trusted: true, err: errors.New("offline"), calls: &calls},
	}
	d := newTestDispatcher(t, chain)

	res, err := d.Dispatch(context.Background(), "P", []byte("payload"), "receipt", "pdf")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if res.Success {
		t.Fatalf("expected failure")
	}
	if res.TempFile == "" {
		t.Fatalf("failed dispatch must retain the temp file")
	}
	if _, statErr := os.Stat(res.TempFile); statErr != nil {
		t.Fatalf("retained temp file missing: %v", statErr)
	}
	if !strings.Contains(res.Message, "RAW mode") || !strings.Contains(res.Message, "copy /b") {
		t.Fatalf("failure message missing recovery hints: %s", res.Message)
	}
}

func TestDispatchDeletesTempFileOnSuccess(t *testing.T) {
	var calls []string
	chain := []Transport{
		fakeTransport{name: "a", available: true, trusted: true, calls: &calls},
	}
	d := newTestDispatcher(t, chain)

	if _, err := d.Dispatch(context.Background(), "P", []byte("x"), "receipt", "pdf"); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	entries, err := os.ReadDir(d.TempDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("temp file not cleaned up: %v", entries)
	}
}

func TestDispatchNoApplicableTransport(t *testing.T) {
	d := newTestDispatcher(t, []Transport{
		fakeTransport{name: "a", available: false, calls: new([]string)},
	})
	res, err := d.Dispatch(context.Background(), "P", []byte("x"), "receipt", "pdf")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if res.Success || res.State != StateFailed {
		t.Fatalf("expected failure with no applicable transports, got %+v", res)
	}
	if res.Port != "Unknown" || res.Share != "Unknown" {
		t.Fatalf("empty endpoint fields must surface as Unknown: %+v", res)
	}
}

func TestDefaultChainOrder(t *testing.T) {
	want := []string{"direct-port", "unc-share", "unc-printer-name", "raw-spooler", "usb-retry", "shell-print"}
	chain := DefaultChain()
	if len(chain) != len(want) {
		t.Fatalf("chain length = %d, want %d", len(chain), len(want))
	}
	for i, tr := range chain {
		if tr.Name() != want[i] {
			t.Fatalf("chain[%d] = %s, want %s", i, tr.Name(), want[i])
		}
	}
	if chain[len(chain)-1].Trusted() {
		t.Fatalf("shell PRINT must be untrusted")
	}
	for _, tr := range chain {
		if tr.Timeout() < 5*time.Second || tr.Timeout() > 20*time.Second {
			t.Fatalf("%s timeout %v outside 5-20s", tr.Name(), tr.Timeout())
		}
	}
}
