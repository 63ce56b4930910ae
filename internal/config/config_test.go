package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync/atomic"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return configFile
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Input.StartPage != 8 {
		t.Errorf("expected start page 8, got %d", cfg.Input.StartPage)
	}
	if cfg.Resolve.TitleWindow != 30 {
		t.Errorf("expected title window 30, got %d", cfg.Resolve.TitleWindow)
	}
	if cfg.Output.Files.ArticlesDir != "articulos" {
		t.Errorf("expected articulos, got %s", cfg.Output.Files.ArticlesDir)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("defaults match DefaultConfig", func(t *testing.T) {
		mgr, err := NewManager(writeConfig(t, "\n"))
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		got, want := mgr.Get(), DefaultConfig()
		if !reflect.DeepEqual(got, want) {
			t.Errorf("default entries and DefaultConfig disagree:\n got %+v\nwant %+v", got, want)
		}
	})

	t.Run("loads from config file", func(t *testing.T) {
		configFile := writeConfig(t, `
input:
  pdf: codigo_penal.pdf
layout:
  gutter: 5
`)
		mgr, err := NewManager(configFile)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}

		cfg := mgr.Get()
		if cfg.Input.PDF != "codigo_penal.pdf" {
			t.Errorf("expected codigo_penal.pdf, got %s", cfg.Input.PDF)
		}
		if cfg.Layout.Gutter != 5 {
			t.Errorf("expected gutter 5, got %v", cfg.Layout.Gutter)
		}
		// keys not in the file keep their defaults
		if cfg.Layout.FullWidthRatio != 0.8 {
			t.Errorf("expected full width ratio 0.8, got %v", cfg.Layout.FullWidthRatio)
		}
		if mgr.ConfigFileUsed() != configFile {
			t.Errorf("ConfigFileUsed = %s", mgr.ConfigFileUsed())
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("LEXSPLIT_INPUT_START_PAGE", "12")
		mgr, err := NewManager(writeConfig(t, "\n"))
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		if mgr.Get().Input.StartPage != 12 {
			t.Errorf("expected start page 12, got %d", mgr.Get().Input.StartPage)
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		if _, err := NewManager(writeConfig(t, "input: [unclosed")); err == nil {
			t.Error("expected error for malformed config")
		}
	})
}

func TestManager_SetReset(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	if err := mgr.Set("resolve.title_window", "12"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if mgr.Get().Resolve.TitleWindow != 12 {
		t.Errorf("expected 12, got %d", mgr.Get().Resolve.TitleWindow)
	}

	if err := mgr.Reset("resolve.title_window"); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if mgr.Get().Resolve.TitleWindow != 30 {
		t.Errorf("expected 30 after reset, got %d", mgr.Get().Resolve.TitleWindow)
	}

	if err := mgr.Set("no.such.key", 1); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("expected ErrUnknownKey, got %v", err)
	}
	if err := mgr.Reset("no.such.key"); !errors.Is(err, ErrNoDefault) {
		t.Errorf("expected ErrNoDefault, got %v", err)
	}

	v, err := mgr.Value("input.engine")
	if err != nil || v != "tabula" {
		t.Errorf("Value(input.engine) = %v, %v", v, err)
	}
}

func TestManager_Save(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	if err := mgr.Set("input.pdf", "codigo.pdf"); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "saved.yaml")
	if err := mgr.Save(out); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	reloaded, err := NewManager(out)
	if err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if reloaded.Get().Input.PDF != "codigo.pdf" {
		t.Errorf("expected codigo.pdf, got %s", reloaded.Get().Input.PDF)
	}
}

func TestManager_OnChange_Multiple(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})

	mgr.mu.RLock()
	if len(mgr.callbacks) != 3 {
		t.Errorf("expected 3 callbacks, got %d", len(mgr.callbacks))
	}
	mgr.mu.RUnlock()
}

func TestManager_Get_ThreadSafe(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				cfg := mgr.Get()
				_ = cfg.Input.PDF
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestManager_WatchConfig(t *testing.T) {
	configFile := writeConfig(t, `
input:
  pdf: initial.pdf
`)
	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	if got := mgr.Get().Input.PDF; got != "initial.pdf" {
		t.Errorf("initial value mismatch: expected initial.pdf, got %s", got)
	}

	var callbackCount atomic.Int32
	var lastValue atomic.Value

	mgr.OnChange(func(cfg *Config) {
		callbackCount.Add(1)
		lastValue.Store(cfg.Input.PDF)
	})

	mgr.WatchConfig()

	// Give fsnotify time to set up the watcher
	time.Sleep(100 * time.Millisecond)

	newContent := `
input:
  pdf: updated.pdf
`
	if err := os.WriteFile(configFile, []byte(newContent), 0644); err != nil {
		t.Fatalf("failed to write updated config file: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if callbackCount.Load() > 0 {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	if callbackCount.Load() == 0 {
		t.Error("callback was not invoked after config file change")
	}
	if got := mgr.Get().Input.PDF; got != "updated.pdf" {
		t.Errorf("config not updated: expected updated.pdf, got %s", got)
	}
	if v := lastValue.Load(); v != "updated.pdf" {
		t.Errorf("callback received wrong value: expected updated.pdf, got %v", v)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}
	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("failed to load written default: %v", err)
	}
	if !reflect.DeepEqual(mgr.Get(), DefaultConfig()) {
		t.Errorf("written default does not round-trip: %+v", mgr.Get())
	}
}
