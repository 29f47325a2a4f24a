package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestResolveLogFilePathDefaultDir(t *testing.T) {
	tmpDir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("get wd failed: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(oldWD)
	})
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}

	got, err := resolveLogFilePath(Options{})
	if err != nil {
		t.Fatalf("resolve default log path failed: %v", err)
	}
	if filepath.Base(got) != defaultLogFilename {
		t.Fatalf("log filename want %s got %s", defaultLogFilename, filepath.Base(got))
	}
	if filepath.Base(filepath.Dir(got)) != defaultLogDirName {
		t.Fatalf("log dir want %s got %s", defaultLogDirName, filepath.Dir(got))
	}
	if _, err := os.Stat(got); err != nil {
		t.Fatalf("expected log file to be created: %v", err)
	}
}

func TestNewReleaseWritesJSONToFile(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("release", Options{Dir: tmpDir, Filename: "release.log"})
	log.Info("commission_compute_done")
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(tmpDir, "release.log"))
	if err != nil {
		t.Fatalf("read release log failed: %v", err)
	}
	text := string(content)
	if !strings.Contains(text, `"message":"commission_compute_done"`) {
		t.Fatalf("expected json message field, got=%s", text)
	}
	if !strings.Contains(text, `"level":"info"`) {
		t.Fatalf("expected lowercase level, got=%s", text)
	}
	if !strings.Contains(text, `"service":"settlement"`) {
		t.Fatalf("expected service field, got=%s", text)
	}
}

func TestNewRespectsConfiguredLevel(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("release", Options{Level: "WARN", Dir: tmpDir, Filename: "warn.log"})
	log.Info("fee_policy_cache_hit")
	log.Warn("fee_policy_cache_invalidate_failed")
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(tmpDir, "warn.log"))
	if err != nil {
		t.Fatalf("read warn log failed: %v", err)
	}
	text := string(content)
	if strings.Contains(text, "fee_policy_cache_hit") {
		t.Fatalf("info entry should be filtered at warn level, got=%s", text)
	}
	if !strings.Contains(text, "fee_policy_cache_invalidate_failed") {
		t.Fatalf("warn entry missing, got=%s", text)
	}

	if lvl := resolveLevel("nonsense", true); lvl.Level() != zap.DebugLevel {
		t.Fatalf("invalid level in debug mode should fall back to debug, got %s", lvl.Level())
	}
}

func TestNewDebugDoesNotWriteFile(t *testing.T) {
	tmpDir := t.TempDir()
	log := New(" Debug ", Options{Dir: tmpDir, Filename: "debug.log"})
	log.Info("debug-log-test")
	_ = log.Sync()

	if _, err := os.Stat(filepath.Join(tmpDir, "debug.log")); !os.IsNotExist(err) {
		t.Fatalf("debug mode should not create log file")
	}
}

func TestZFallsBackWithoutInit(t *testing.T) {
	saved := L
	L = nil
	t.Cleanup(func() { L = saved })

	if Z() == nil {
		t.Fatalf("fallback logger should not be nil")
	}
	if SW("request_id", "r-1") == nil {
		t.Fatalf("sugared logger with fields should not be nil")
	}
}

func TestPositiveOr(t *testing.T) {
	if got := positiveOr(0, 7); got != 7 {
		t.Fatalf("zero want fallback 7 got %d", got)
	}
	if got := positiveOr(-3, 7); got != 7 {
		t.Fatalf("negative want fallback 7 got %d", got)
	}
	if got := positiveOr(12, 7); got != 12 {
		t.Fatalf("positive want 12 got %d", got)
	}
}
