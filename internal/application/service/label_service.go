package service

import (
	"context"
	"fmt"

	"github.com/acestudios/print-server/internal/config"
	"github.com/acestudios/print-server/pkg/apperror"
	"github.com/acestudios/print-server/pkg/zpl"
)

const zplPreviewLimit = 1000

// LabelService generates ZPL label batches and sends them to a printer.
type LabelService struct {
	dispatcher dispatcher
	cfg        *config.Config
}

func NewLabelService(d dispatcher, cfg *config.Config) *LabelService {
	return &LabelService{dispatcher: d, cfg: cfg}
}

// PrintLabelsResult is the outcome of a label batch dispatch. ZPLPreview is
// the head of the generated markup for client-side debugging.
type PrintLabelsResult struct {
	Success    bool   `json:"success"`
	Printer    string `json:"printer"`
	Labels     int    `json:"labels"`
	Message    string `json:"message,omitempty"`
	ZPLPreview string `json:"zplPreview,omitempty"`
	TempFile   string `json:"tempFile,omitempty"`
}

// withDefaults fills unset options from the server's label config.
func (s *LabelService) withDefaults(o zpl.Options) zpl.Options {
	if o.Paper == "" {
		o.Paper = zpl.Paper(s.cfg.Labels.Paper)
	}
	if o.DPI == 0 {
		o.DPI = s.cfg.Labels.DPI
	}
	if o.Copies < 1 {
		o.Copies = s.cfg.Labels.Copies
	}
	return o
}

// GenerateZPL produces the label markup without touching a printer.
func (s *LabelService) GenerateZPL(o zpl.Options) (string, error) {
	if len(o.Items) == 0 {
		return "", apperror.NewBadRequestError("at least one label item is required")
	}
	code, err := zpl.Generate(s.withDefaults(o))
	if err != nil {
		return "", apperror.NewBadRequestError(err.Error())
	}
	return code, nil
}

// PrintLabels generates the batch and dispatches it as one ZPL payload.
func (s *LabelService) PrintLabels(ctx context.Context, printerName string, o zpl.Options) (*PrintLabelsResult, error) {
	if printerName == "" {
		return nil, apperror.NewBadRequestError("printer name is required")
	}
	code, err := s.GenerateZPL(o)
	if err != nil {
		return nil, err
	}

	res, err := s.dispatcher.Dispatch(ctx, printerName, []byte(code), "zpl_label", "zpl")
	if err != nil {
		return nil, err
	}

	labels := len(o.Items) * s.withDefaults(o).Copies
	out := &PrintLabelsResult{
		Success:    res.Success,
		Printer:    printerName,
		Labels:     labels,
		ZPLPreview: preview(code),
	}
	if res.Success {
		out.Message = fmt.Sprintf("Sent %d label(s) to %s", labels, printerName)
	} else {
		out.Message = res.Message
		out.TempFile = res.TempFile
	}
	return out, nil
}

func preview(code string) string {
	if len(code) > zplPreviewLimit {
		return code[:zplPreviewLimit]
	}
	return code
}
