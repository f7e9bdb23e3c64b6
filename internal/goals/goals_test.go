package goals

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultsWithoutFile(t *testing.T) {
	p, err := NewProvider("")
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	r := p.Current()
	if r.Calories.Max != 2000 {
		t.Errorf("calories max = %v, want 2000", r.Calories.Max)
	}
	if r.Sugar.Min != 0 {
		t.Errorf("sugar min = %v, want 0", r.Sugar.Min)
	}
}

func TestMissingFileFallsBackToDefaults(t *testing.T) {
	p, err := NewProvider(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if p.Current() != Defaults() {
		t.Error("missing file should yield defaults")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goals.yaml")
	content := "calories:\n  min: 300\n  max: 900\nprotein:\n  min: 20\n  max: 60\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := NewProvider(path)
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	r := p.Current()
	if r.Calories.Min != 300 || r.Calories.Max != 900 {
		t.Errorf("calories = %+v", r.Calories)
	}
	if r.Protein.Max != 60 {
		t.Errorf("protein max = %v, want 60", r.Protein.Max)
	}
	// Unset nutrients keep defaults.
	if r.Fat != Defaults().Fat {
		t.Errorf("fat = %+v, want default", r.Fat)
	}
}

func TestReloadBadFileKeepsCurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goals.yaml")
	if err := os.WriteFile(path, []byte("calories: {min: 100, max: 500}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := NewProvider(path)
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	if err := os.WriteFile(path, []byte(":\tnot yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := p.Reload(); err == nil {
		t.Fatal("reload of bad yaml should fail")
	}
	if p.Current().Calories.Max != 500 {
		t.Errorf("bad reload changed ranges: %+v", p.Current().Calories)
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "goals.yaml")
	if err := os.WriteFile(path, []byte("calories: {min: 0, max: 1000}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := NewProvider(path)
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = Watch(ctx, p, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	}()

	// Give the watcher a moment to register.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(path, []byte("calories: {min: 0, max: 1234}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if p.Current().Calories.Max == 1234 {
			cancel()
			<-done
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("watcher did not pick up the file change")
}
