package printer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Transport is one delivery strategy for a rendered payload file. Available
// gates the strategy on what port resolution learned; Trusted marks whether
// an apparently clean run can be believed (the shell PRINT command cannot:
// it may hand the file to a driver that reformats raw bytes).
type Transport interface {
	Name() string
	Available(d Descriptor) bool
	Trusted() bool
	Timeout() time.Duration
	Send(ctx context.Context, r CommandRunner, d Descriptor, path string) error
}

// DefaultChain returns the delivery strategies in their fixed order: cheap
// direct copies first, the spooler API next, the lossy shell PRINT last.
func DefaultChain() []Transport {
	return []Transport{
		directPortTransport{},
		uncShareTransport{},
		uncNameTransport{},
		rawSpoolerTransport{},
		usbRetryTransport{},
		shellPrintTransport{},
	}
}

// copyToTarget runs `copy /b` and verifies the shell actually reported a
// copied file; cmd.exe exits zero on some failures.
func copyToTarget(ctx context.Context, r CommandRunner, path, target string) error {
	out, err := r.Run(ctx, "cmd", "/c", fmt.Sprintf(`copy /b "%s" "%s"`, path, target))
	if err != nil {
		return fmt.Errorf("copy to %s: %w (%s)", target, err, strings.TrimSpace(out))
	}
	if !copyReportedSuccess(out) {
		return fmt.Errorf("copy to %s: no file copied (%s)", target, strings.TrimSpace(out))
	}
	return nil
}

func copyReportedSuccess(out string) bool {
	return strings.Contains(out, "file(s) copied") && !strings.Contains(out, "0 file(s) copied")
}

// --- 1. Direct raw port ---

type directPortTransport struct{}

func (directPortTransport) Name() string            { return "direct-port" }
func (directPortTransport) Trusted() bool           { return true }
func (directPortTransport) Timeout() time.Duration  { return 10 * time.Second }
func (directPortTransport) Available(d Descriptor) bool {
	return hasRawPortPrefix(d.Port)
}

func (directPortTransport) Send(ctx context.Context, r CommandRunner, d Descriptor, path string) error {
	return copyToTarget(ctx, r, path, d.Port)
}

// --- 2. UNC share (localhost, hostname, loopback) ---

type uncShareTransport struct{}

func (uncShareTransport) Name() string           { return "unc-share" }
func (uncShareTransport) Trusted() bool          { return true }
func (uncShareTransport) Timeout() time.Duration { return 15 * time.Second }
func (uncShareTransport) Available(d Descriptor) bool {
	return d.ShareName != ""
}

func (uncShareTransport) Send(ctx context.Context, r CommandRunner, d Descriptor, path string) error {
	hosts := []string{"localhost"}
	if hn, err := os.Hostname(); err == nil && hn != "" {
		hosts = append(hosts, hn)
	}
	hosts = append(hosts, "127.0.0.1")

	var lastErr error
	for _, host := range hosts {
		target := fmt.Sprintf(`\\%s\%s`, host, d.ShareName)
		if err := copyToTarget(ctx, r, path, target); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

// --- 3. UNC by printer name ---

type uncNameTransport struct{}

func (uncNameTransport) Name() string               { return "unc-printer-name" }
func (uncNameTransport) Trusted() bool              { return true }
func (uncNameTransport) Timeout() time.Duration     { return 10 * time.Second }
func (uncNameTransport) Available(d Descriptor) bool { return d.Name != "" }

func (uncNameTransport) Send(ctx context.Context, r CommandRunner, d Descriptor, path string) error {
	return copyToTarget(ctx, r, path, fmt.Sprintf(`\\localhost\%s`, d.Name))
}

// --- 4. Raw spooler API via generated PowerShell ---

type rawSpoolerTransport struct{}

func (rawSpoolerTransport) Name() string               { return "raw-spooler" }
func (rawSpoolerTransport) Trusted() bool              { return true }
func (rawSpoolerTransport) Timeout() time.Duration     { return 20 * time.Second }
func (rawSpoolerTransport) Available(d Descriptor) bool { return d.Name != "" }

// winspoolScript writes the payload straight into the spooler as a RAW
// datatype job, bypassing any driver rendering.
const winspoolScript = `Add-Type @"
using System;
using System.IO;
using System.Runtime.InteropServices;

public class RawPrinterHelper
{
    [StructLayout(LayoutKind.Sequential, CharSet = CharSet.Ansi)]
    public class DOCINFOA
    {
        [MarshalAs(UnmanagedType.LPStr)] public string pDocName;
        [MarshalAs(UnmanagedType.LPStr)] public string pOutputFile;
        [MarshalAs(UnmanagedType.LPStr)] public string pDataType;
    }

    [DllImport("winspool.Drv", EntryPoint = "OpenPrinterA", SetLastError = true, CharSet = CharSet.Ansi)]
    public static extern bool OpenPrinter(string szPrinter, out IntPtr hPrinter, IntPtr pd);
    [DllImport("winspool.Drv", EntryPoint = "ClosePrinter", SetLastError = true)]
    public static extern bool ClosePrinter(IntPtr hPrinter);
    [DllImport("winspool.Drv", EntryPoint = "StartDocPrinterA", SetLastError = true, CharSet = CharSet.Ansi)]
    public static extern bool StartDocPrinter(IntPtr hPrinter, int level, [In] DOCINFOA di);
    [DllImport("winspool.Drv", EntryPoint = "EndDocPrinter", SetLastError = true)]
    public static extern bool EndDocPrinter(IntPtr hPrinter);
    [DllImport("winspool.Drv", EntryPoint = "StartPagePrinter", SetLastError = true)]
    public static extern bool StartPagePrinter(IntPtr hPrinter);
    [DllImport("winspool.Drv", EntryPoint = "EndPagePrinter", SetLastError = true)]
    public static extern bool EndPagePrinter(IntPtr hPrinter);
    [DllImport("winspool.Drv", EntryPoint = "WritePrinter", SetLastError = true)]
    public static extern bool WritePrinter(IntPtr hPrinter, IntPtr pBytes, int dwCount, out int dwWritten);

    public static bool SendFileToPrinter(string printerName, string filePath)
    {
        byte[] bytes = File.ReadAllBytes(filePath);
        IntPtr hPrinter;
        if (!OpenPrinter(printerName, out hPrinter, IntPtr.Zero)) return false;
        DOCINFOA di = new DOCINFOA();
        di.pDocName = "Raw Print Job";
        di.pDataType = "RAW";
        bool ok = false;
        if (StartDocPrinter(hPrinter, 1, di))
        {
            if (StartPagePrinter(hPrinter))
            {
                IntPtr unmanaged = Marshal.AllocHGlobal(bytes.Length);
                Marshal.Copy(bytes, 0, unmanaged, bytes.Length);
                int written;
                ok = WritePrinter(hPrinter, unmanaged, bytes.Length, out written);
                Marshal.FreeHGlobal(unmanaged);
                EndPagePrinter(hPrinter);
            }
            EndDocPrinter(hPrinter);
        }
        ClosePrinter(hPrinter);
        return ok;
    }
}
"@
if ([RawPrinterHelper]::SendFileToPrinter('%s', '%s')) { Write-Output "SUCCESS" } else { Write-Output "FAILURE" }
`

func (rawSpoolerTransport) Send(ctx context.Context, r CommandRunner, d Descriptor, path string) error {
	script := fmt.Sprintf(winspoolScript, psQuote(d.Name), psQuote(path))
	scriptPath := filepath.Join(os.TempDir(), fmt.Sprintf("rawprint_%d.ps1", time.Now().UnixNano()))
	if err := os.WriteFile(scriptPath, []byte(script), 0o600); err != nil {
		return fmt.Errorf("write spooler script: %w", err)
	}
	defer os.Remove(scriptPath)

	out, err := r.Run(ctx, "powershell", "-NoProfile", "-ExecutionPolicy", "Bypass", "-File", scriptPath)
	if err != nil {
		return fmt.Errorf("spooler script: %w (%s)", err, strings.TrimSpace(out))
	}
	if !strings.Contains(out, "SUCCESS") {
		return fmt.Errorf("spooler rejected the job (%s)", strings.TrimSpace(out))
	}
	return nil
}

// --- 5. USB retry ---

type usbRetryTransport struct{}

func (usbRetryTransport) Name() string           { return "usb-retry" }
func (usbRetryTransport) Trusted() bool          { return true }
func (usbRetryTransport) Timeout() time.Duration { return 10 * time.Second }
func (usbRetryTransport) Available(d Descriptor) bool {
	return strings.HasPrefix(strings.ToUpper(d.Port), "USB")
}

// Send retries the direct copy once; USB receipt printers drop the first
// write after waking from sleep.
func (usbRetryTransport) Send(ctx context.Context, r CommandRunner, d Descriptor, path string) error {
	if err := copyToTarget(ctx, r, path, d.Port); err == nil {
		return nil
	}
	time.Sleep(500 * time.Millisecond)
	return copyToTarget(ctx, r, path, d.Port)
}

// --- 6. Shell PRINT command (untrusted) ---

type shellPrintTransport struct{}

func (shellPrintTransport) Name() string               { return "shell-print" }
func (shellPrintTransport) Trusted() bool              { return false }
func (shellPrintTransport) Timeout() time.Duration     { return 5 * time.Second }
func (shellPrintTransport) Available(d Descriptor) bool { return d.Name != "" }

func (shellPrintTransport) Send(ctx context.Context, r CommandRunner, d Descriptor, path string) error {
	out, err := r.Run(ctx, "cmd", "/c", fmt.Sprintf(`print /D:"%s" "%s"`, d.Name, path))
	if err != nil {
		return fmt.Errorf("print command: %w (%s)", err, strings.TrimSpace(out))
	}
	return nil
}

// ErrUntrusted marks a transport run that completed without a verifiable
// delivery.
var ErrUntrusted = errors.New("command completed but delivery cannot be verified")
