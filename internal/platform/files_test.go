package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test_dir", "nested")

	// Directory should not exist initially
	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestGetHomeDownloadsDir(t *testing.T) {
	if isAndroid() {
		t.Skip("android layout")
	}

	downloadsDir, err := GetHomeDownloadsDir()
	if err != nil {
		t.Fatalf("Failed to get downloads directory: %v", err)
	}

	if filepath.Base(downloadsDir) != "Downloads" {
		t.Errorf("Expected directory to end with 'Downloads', got: %s", downloadsDir)
	}
}

func TestGetHomeDownloadsDir_Android(t *testing.T) {
	t.Setenv("ANDROID_DATA", "/data")

	dir, err := GetHomeDownloadsDir()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if dir != AndroidDownloadsDir {
		t.Errorf("Expected %s, got %s", AndroidDownloadsDir, dir)
	}
}

func TestOpenFolder_NonExistent(t *testing.T) {
	err := OpenFolder(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("Expected error for missing folder")
	}
	if !strings.Contains(err.Error(), "folder does not exist") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestOpenFolder_File(t *testing.T) {
	file := filepath.Join(t.TempDir(), "a.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := OpenFolder(file); err == nil {
		t.Error("Expected error when opening a file as folder")
	}
}

func stubRunner(t *testing.T) *[][]string {
	t.Helper()
	var calls [][]string
	original := commandRunner
	commandRunner = func(name string, args ...string) error {
		calls = append(calls, append([]string{name}, args...))
		return nil
	}
	t.Cleanup(func() { commandRunner = original })
	return &calls
}

func TestOpenFolder_RunsFileManager(t *testing.T) {
	if runtime.GOOS != OSDarwin && runtime.GOOS != OSWindows {
		t.Skip("file manager availability varies on this platform")
	}
	calls := stubRunner(t)
	dir := t.TempDir()

	if err := OpenFolder(dir); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(*calls) != 1 {
		t.Fatalf("Expected one command, got %d", len(*calls))
	}
	if last := (*calls)[0][len((*calls)[0])-1]; last != dir {
		t.Errorf("Expected folder %s as last argument, got %s", dir, last)
	}
}

func TestRevealFile_NonExistent(t *testing.T) {
	err := RevealFile(filepath.Join(t.TempDir(), "nonexistent.mp4"))
	if err == nil {
		t.Fatal("Expected error for non-existent file")
	}
	if !strings.Contains(err.Error(), "file does not exist") {
		t.Errorf("Error message should contain 'file does not exist', got: %v", err)
	}
}
