package utils

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"escpos-printer/internal/config"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LoggingConfig
		wantErr bool
	}{
		{"console stderr", config.LoggingConfig{Level: "info", Format: "console", Output: "stderr"}, false},
		{"json stdout", config.LoggingConfig{Level: "debug", Format: "json", Output: "stdout"}, false},
		{"rotating file", config.LoggingConfig{Level: "warn", Format: "json", Output: filepath.Join(t.TempDir(), "logs", "escpos.log"), MaxSize: 1}, false},
		{"bad level", config.LoggingConfig{Level: "chatty"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(&tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewLogger() error = %v, wantErr %v", err, tt.wantErr)
			}
			if logger != nil {
				logger.Info("hello")
				_ = CloseLogger(logger)
			}
		})
	}
}

func TestPrinterLoggerFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	pl := NewPrinterLogger(zap.New(core), "TM-T20", "SERIAL")

	if pl.SessionID() == "" {
		t.Fatal("empty session id")
	}

	pl.LogCommand([]byte{0x1b, '@'})
	pl.LogOperation("barcode", 3*time.Millisecond, nil)
	pl.LogOperation("image", time.Millisecond, errors.New("paper out"))

	entries := logs.AllUntimed()
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}

	cmd := entries[0].ContextMap()
	if cmd["hex"] != "1b 40" || cmd["session_id"] != pl.SessionID() || cmd["printer_model"] != "TM-T20" {
		t.Errorf("command entry = %v", cmd)
	}
	if entries[1].Level != zapcore.InfoLevel || entries[1].ContextMap()["success"] != true {
		t.Errorf("success entry = %+v", entries[1])
	}
	if entries[2].Level != zapcore.ErrorLevel || entries[2].ContextMap()["error"] != "paper out" {
		t.Errorf("failure entry = %+v", entries[2])
	}
}

func TestLogCommandSkippedAboveDebug(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	pl := NewPrinterLogger(zap.New(core), "", "")

	pl.LogCommand(make([]byte, 100))
	if logs.Len() != 0 {
		t.Errorf("command logged at info level")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate(make([]byte, 40), 32); len(got) != 32 {
		t.Errorf("len = %d", len(got))
	}
	if got := truncate([]byte{1}, 32); len(got) != 1 {
		t.Errorf("len = %d", len(got))
	}
}
