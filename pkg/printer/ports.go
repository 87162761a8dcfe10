package printer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const resolveTimeout = 5 * time.Second

// PortResolver looks up the OS port and share name for a printer. Resolution
// is best effort: on any failure it returns a descriptor carrying just the
// name and the dispatch chain works with whatever transports remain viable.
type PortResolver interface {
	Resolve(ctx context.Context, name string) Descriptor
}

type osPortResolver struct {
	runner CommandRunner
}

// NewPortResolver returns the PowerShell/WMIC backed resolver.
func NewPortResolver(r CommandRunner) PortResolver {
	return &osPortResolver{runner: r}
}

func (p *osPortResolver) Resolve(ctx context.Context, name string) Descriptor {
	d := Descriptor{Name: name}

	rctx, cancel := context.WithTimeout(ctx, resolveTimeout)
	defer cancel()

	script := fmt.Sprintf(
		"Get-Printer -Name '%s' | Select-Object PortName,ShareName | ConvertTo-Json",
		psQuote(name),
	)
	if out, err := p.runner.Run(rctx, "powershell", "-NoProfile", "-Command", script); err == nil {
		d.Port, d.ShareName = parseGetPrinterJSON(out)
	}

	if d.Port == "" && d.ShareName == "" {
		wctx, cancel := context.WithTimeout(ctx, resolveTimeout)
		defer cancel()
		query := fmt.Sprintf("wmic printer where name='%s' get PortName,ShareName /format:csv",
			strings.ReplaceAll(name, "'", ""))
		if out, err := p.runner.Run(wctx, "cmd", "/c", query); err == nil {
			d.Port, d.ShareName = parseWMICPrinterCSV(out)
		}
	}

	return promoteShareAsPort(d)
}

// psQuote doubles single quotes for embedding in a PowerShell literal.
func psQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func parseGetPrinterJSON(out string) (port, share string) {
	out = strings.TrimSpace(out)
	if out == "" {
		return "", ""
	}
	type entry struct {
		PortName  string `json:"PortName"`
		ShareName string `json:"ShareName"`
	}
	var one entry
	if err := json.Unmarshal([]byte(out), &one); err == nil {
		return cleanField(one.PortName), cleanField(one.ShareName)
	}
	var many []entry
	if err := json.Unmarshal([]byte(out), &many); err == nil && len(many) > 0 {
		return cleanField(many[0].PortName), cleanField(many[0].ShareName)
	}
	return "", ""
}

// parseWMICPrinterCSV reads the header row to locate the PortName/ShareName
// columns, since WMIC orders CSV columns alphabetically.
func parseWMICPrinterCSV(out string) (port, share string) {
	var header []string
	portIdx, shareIdx := -1, -1
	for _, raw := range strings.Split(out, "\n") {
		row := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		if row == "" {
			continue
		}
		cols := strings.Split(row, ",")
		if header == nil {
			if !strings.Contains(row, "PortName") {
				continue
			}
			header = cols
			for i, h := range header {
				switch strings.TrimSpace(h) {
				case "PortName":
					portIdx = i
				case "ShareName":
					shareIdx = i
				}
			}
			continue
		}
		if portIdx >= 0 && portIdx < len(cols) {
			port = cleanField(cols[portIdx])
		}
		if shareIdx >= 0 && shareIdx < len(cols) {
			share = cleanField(cols[shareIdx])
		}
		if port != "" || share != "" {
			return port, share
		}
	}
	return port, share
}

func cleanField(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "null") {
		return ""
	}
	return s
}

// hasRawPortPrefix reports whether a value names a directly writable local
// port (USB001, COM3, LPT1, ...).
func hasRawPortPrefix(s string) bool {
	up := strings.ToUpper(s)
	return strings.HasPrefix(up, "USB") ||
		strings.HasPrefix(up, "COM") ||
		strings.HasPrefix(up, "LPT")
}

// promoteShareAsPort fills an empty port from a share name that looks like a
// raw port. Some drivers expose the physical port only through the share.
func promoteShareAsPort(d Descriptor) Descriptor {
	if d.Port == "" && hasRawPortPrefix(d.ShareName) {
		d.Port = d.ShareName
	}
	return d
}
