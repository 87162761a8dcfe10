package printer

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"
)

const listTimeout = 8 * time.Second

// Columns is the character capacity of the printer's two built-in fonts.
type Columns struct {
	FontA int `json:"fontA"`
	FontB int `json:"fontB"`
}

// ReceiptProfile describes the paper roll a receipt printer drives.
type ReceiptProfile struct {
	Roll             string  `json:"roll"`
	PrintableWidthMM float64 `json:"printableWidthMm"`
	Columns          Columns `json:"columns"`
}

// Info is one discovered printer as exposed to API clients.
type Info struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	IsDefault      bool           `json:"isDefault"`
	Status         string         `json:"status"`
	DriverName     string         `json:"driverName,omitempty"`
	PortName       string         `json:"portName,omitempty"`
	ShareName      string         `json:"shareName,omitempty"`
	LanguageHint   string         `json:"languageHint"`
	ReceiptProfile ReceiptProfile `json:"receiptProfile"`
}

// Lister enumerates the printers installed on the host.
type Lister interface {
	List(ctx context.Context) ([]Info, error)
}

type osLister struct {
	runner CommandRunner
}

// NewLister returns the CIM/Get-Printer backed lister.
func NewLister(r CommandRunner) Lister {
	return &osLister{runner: r}
}

type rawPrinter struct {
	Name          string `json:"Name"`
	Default       bool   `json:"Default"`
	WorkOffline   bool   `json:"WorkOffline"`
	PrinterStatus *int   `json:"PrinterStatus"`
	DriverName    string `json:"DriverName"`
	PortName      string `json:"PortName"`
	ShareName     string `json:"ShareName"`
}

func (l *osLister) List(ctx context.Context) ([]Info, error) {
	raws := l.viaCIM(ctx)
	if len(raws) == 0 {
		raws = l.viaGetPrinter(ctx)
	}
	return normalizeAndSort(raws), nil
}

func (l *osLister) viaCIM(ctx context.Context) []rawPrinter {
	cctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()
	script := "Get-CimInstance Win32_Printer | " +
		"Select-Object Name,Default,WorkOffline,PrinterStatus,DriverName,PortName,ShareName | " +
		"ConvertTo-Json -Depth 2"
	out, err := l.runner.Run(cctx, "powershell", "-NoProfile", "-Command", script)
	if err != nil {
		return nil
	}
	return parsePrinterJSON(out)
}

// viaGetPrinter is the fallback when CIM is unavailable; Get-Printer does not
// flag the default printer, so that comes from the user registry hive.
func (l *osLister) viaGetPrinter(ctx context.Context) []rawPrinter {
	gctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()
	script := "Get-Printer | Select-Object Name,DriverName,PortName,ShareName | ConvertTo-Json -Depth 2"
	out, err := l.runner.Run(gctx, "powershell", "-NoProfile", "-Command", script)
	if err != nil {
		return nil
	}
	raws := parsePrinterJSON(out)
	if len(raws) == 0 {
		return nil
	}

	def := l.defaultFromRegistry(ctx)
	for i := range raws {
		raws[i].Default = raws[i].Name == def
	}
	return raws
}

func (l *osLister) defaultFromRegistry(ctx context.Context) string {
	rctx, cancel := context.WithTimeout(ctx, resolveTimeout)
	defer cancel()
	out, err := l.runner.Run(rctx, "reg", "query",
		`HKCU\Software\Microsoft\Windows NT\CurrentVersion\Windows`, "/v", "Device")
	if err != nil {
		return ""
	}
	// Value looks like: Device  REG_SZ  POS-80C,winspool,Ne01:
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "REG_SZ") {
			continue
		}
		parts := strings.SplitN(line, "REG_SZ", 2)
		val := strings.TrimSpace(parts[1])
		if i := strings.Index(val, ","); i > 0 {
			return val[:i]
		}
		return val
	}
	return ""
}

func parsePrinterJSON(out string) []rawPrinter {
	out = strings.TrimSpace(out)
	if out == "" {
		return nil
	}
	var many []rawPrinter
	if err := json.Unmarshal([]byte(out), &many); err == nil {
		return many
	}
	var one rawPrinter
	if err := json.Unmarshal([]byte(out), &one); err == nil && one.Name != "" {
		return []rawPrinter{one}
	}
	return nil
}

// normalizeAndSort dedupes by name, fills derived fields and orders the list
// with the default printer first, then alphabetically.
func normalizeAndSort(raws []rawPrinter) []Info {
	seen := make(map[string]bool)
	infos := make([]Info, 0, len(raws))
	for _, r := range raws {
		name := strings.TrimSpace(r.Name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		infos = append(infos, Info{
			ID:             name,
			Name:           name,
			IsDefault:      r.Default,
			Status:         statusOf(r),
			DriverName:     cleanField(r.DriverName),
			PortName:       cleanField(r.PortName),
			ShareName:      cleanField(r.ShareName),
			LanguageHint:   DeriveLanguageHint(r.DriverName, name),
			ReceiptProfile: DeriveReceiptProfile(name),
		})
	}
	sort.SliceStable(infos, func(i, j int) bool {
		if infos[i].IsDefault != infos[j].IsDefault {
			return infos[i].IsDefault
		}
		return infos[i].Name < infos[j].Name
	})
	return infos
}

func statusOf(r rawPrinter) string {
	if r.WorkOffline {
		return "offline"
	}
	if r.PrinterStatus == nil {
		return "available"
	}
	switch *r.PrinterStatus {
	case 0, 3:
		return "available"
	default:
		return "unknown"
	}
}

// DeriveLanguageHint guesses the printer language from driver and name.
// Zebra-family drivers speak ZPL; generic text and common receipt drivers
// speak ESC/POS; anything else gets "generic".
func DeriveLanguageHint(driver, name string) string {
	s := strings.ToLower(driver + " " + name)
	for _, kw := range []string{"zdesigner", "zebra", "zpl"} {
		if strings.Contains(s, kw) {
			return "zpl"
		}
	}
	for _, kw := range []string{"generic", "text only", "escpos", "esc/pos", "80mm", "58mm", "pos-80", "pos-58", "receipt"} {
		if strings.Contains(s, kw) {
			return "escpos"
		}
	}
	return "generic"
}

// DeriveReceiptProfile maps a printer name onto a roll profile. 58mm models
// are narrower and carry fewer columns; everything else is treated as the
// common 80mm roll.
func DeriveReceiptProfile(name string) ReceiptProfile {
	s := strings.ToLower(name)
	if strings.Contains(s, "58") {
		return ReceiptProfile{
			Roll:             "58mm",
			PrintableWidthMM: 48,
			Columns:          Columns{FontA: 32, FontB: 42},
		}
	}
	return ReceiptProfile{
		Roll:             "80mm",
		PrintableWidthMM: 72,
		Columns:          Columns{FontA: 48, FontB: 64},
	}
}
