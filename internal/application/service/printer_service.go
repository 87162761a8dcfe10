package service

import (
	"context"

	"github.com/acestudios/print-server/pkg/printer"
)

// PrinterService exposes the host's installed printers.
type PrinterService struct {
	lister printer.Lister
}

func NewPrinterService(l printer.Lister) *PrinterService {
	return &PrinterService{lister: l}
}

// List returns the installed printers with the default first, each annotated
// with a language hint and a receipt profile.
func (s *PrinterService) List(ctx context.Context) ([]printer.Info, error) {
	return s.lister.List(ctx)
}
