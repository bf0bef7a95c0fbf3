package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/ironsheep/image-editor-mcp/internal/config"
	"github.com/ironsheep/image-editor-mcp/internal/segment"
)

type fakeModel struct {
	closed int
}

func (m *fakeModel) Infer(_ context.Context, in *segment.Tensor) (*segment.Tensor, error) {
	return in, nil
}

func (m *fakeModel) Close() error {
	m.closed++
	return nil
}

func useModel(t *testing.T, m model, err error) {
	t.Helper()
	prev := openModel
	openModel = func(string) (model, error) { return m, err }
	t.Cleanup(func() { openModel = prev })
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_ClosesModel(t *testing.T) {
	tests := []struct {
		name    string
		limit   int
		input   string
		wantErr bool
	}{
		{"serves until input ends", 0, `{"jsonrpc":"2.0","id":1,"method":"ping"}` + "\n", false},
		{"editor creation fails", -1, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &fakeModel{}
			useModel(t, m, nil)

			cfg := config.New()
			cfg.Segmentation.Model = "u2net.onnx"
			cfg.HistoryLimit = tt.limit

			var out bytes.Buffer
			err := run(cfg, quietLogger(), strings.NewReader(tt.input), &out)
			if (err != nil) != tt.wantErr {
				t.Fatalf("run error = %v, wantErr %v", err, tt.wantErr)
			}
			if m.closed != 1 {
				t.Errorf("model closed %d times, want 1", m.closed)
			}
		})
	}
}

func TestRun_MissingModelStillServes(t *testing.T) {
	useModel(t, nil, errors.New("no such file"))

	cfg := config.New()
	cfg.Segmentation.Model = "missing.onnx"

	var out bytes.Buffer
	in := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}` + "\n")
	if err := run(cfg, quietLogger(), in, &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(out.String(), `"id":1`) {
		t.Errorf("no response to ping, got %q", out.String())
	}
}
