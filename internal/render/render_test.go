package render

import (
	"errors"
	"testing"
)

func TestValidatePDF(t *testing.T) {
	tests := []struct {
		name    string
		buf     []byte
		wantErr bool
	}{
		{"valid header", []byte("%PDF-1.7\n...rest"), false},
		{"minimal signature", []byte("%PDF"), false},
		{"html error page", []byte("<!DOCTYPE html><html>..."), true},
		{"empty buffer", nil, true},
		{"signature not at start", []byte("x%PDF-1.4"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePDF(tt.buf)
			if tt.wantErr && !errors.Is(err, ErrInvalidOutput) {
				t.Errorf("expected ErrInvalidOutput, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestReportOptionsFixedPageSetup(t *testing.T) {
	opts := ReportOptions()

	if !opts.Landscape {
		t.Error("reports print landscape")
	}
	if !opts.PrintBackground {
		t.Error("reports keep background graphics")
	}
	if opts.Margin != 0 {
		t.Errorf("reports print with zero margins, got %v", opts.Margin)
	}
	if opts.PaperWidth != 8.27 || opts.PaperHeight != 11.69 {
		t.Errorf("expected A4 paper, got %vx%v", opts.PaperWidth, opts.PaperHeight)
	}
}
