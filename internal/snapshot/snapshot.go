// Package snapshot keeps rolling copies of the session file so a bad
// load or a destructive correction can be undone.
package snapshot

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const (
	// MaxSnapshots is the number of snapshots kept per session file.
	MaxSnapshots = 10
	// DirName is the directory created next to the session file.
	DirName = "snapshots"
	// FilePrefix marks snapshot files.
	FilePrefix = "allocprep-"

	timestampFormat = "20060102-150405"
)

// Info describes one snapshot on disk.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager snapshots a single session file. SQLite sessions are copied
// with VACUUM INTO; JSON sessions are plain file copies.
type Manager struct {
	sessionPath string
	dir         string
}

// NewManager creates a snapshot manager for the given session file.
func NewManager(sessionPath string) *Manager {
	return &Manager{
		sessionPath: sessionPath,
		dir:         filepath.Join(filepath.Dir(sessionPath), DirName),
	}
}

// Dir returns the snapshot directory.
func (m *Manager) Dir() string {
	return m.dir
}

func (m *Manager) isSQLite() bool {
	return !strings.HasSuffix(m.sessionPath, ".json")
}

func (m *Manager) suffix() string {
	if m.isSQLite() {
		return ".db"
	}
	return ".json"
}

// Create writes a new snapshot and rotates old ones past the retention
// limit.
func (m *Manager) Create() (string, error) {
	return m.create(false)
}

func (m *Manager) create(skipRotation bool) (string, error) {
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	if _, err := os.Stat(m.sessionPath); os.IsNotExist(err) {
		return "", fmt.Errorf("session file does not exist: %s", m.sessionPath)
	}

	timestamp := time.Now().Format(timestampFormat)
	path := filepath.Join(m.dir, FilePrefix+timestamp+m.suffix())
	for counter := 1; ; counter++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique snapshot name")
		}
		path = filepath.Join(m.dir, fmt.Sprintf("%s%s-%d%s", FilePrefix, timestamp, counter, m.suffix()))
	}

	if err := m.copySession(path); err != nil {
		return "", fmt.Errorf("failed to snapshot session: %w", err)
	}

	if !skipRotation {
		if err := m.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to rotate old snapshots: %v\n", err)
		}
	}
	return path, nil
}

func (m *Manager) copySession(destPath string) error {
	if !m.isSQLite() {
		return copyFile(m.sessionPath, destPath)
	}

	src, err := sql.Open("sqlite", m.sessionPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open session database: %w", err)
	}
	defer src.Close()

	var count int
	if err := src.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("session database appears to be corrupted: %w", err)
	}

	// VACUUM INTO produces a clean copy even with the session open
	// elsewhere. Fall back to a plain copy if it is unsupported.
	if _, err := src.Exec("VACUUM INTO ?", destPath); err != nil {
		src.Close()
		return copyFile(m.sessionPath, destPath)
	}
	return nil
}

// List returns the snapshots for this session, newest first.
func (m *Manager) List() ([]Info, error) {
	if _, err := os.Stat(m.dir); os.IsNotExist(err) {
		return []Info{}, nil
	}

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot directory: %w", err)
	}

	var snapshots []Info
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, FilePrefix) || !strings.HasSuffix(name, m.suffix()) {
			continue
		}

		stamp := strings.TrimSuffix(strings.TrimPrefix(name, FilePrefix), m.suffix())
		// Drop the collision counter if present.
		if parts := strings.Split(stamp, "-"); len(parts) == 3 {
			stamp = parts[0] + "-" + parts[1]
		}
		timestamp, err := time.Parse(timestampFormat, stamp)
		if err != nil {
			continue
		}

		path := filepath.Join(m.dir, name)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		snapshots = append(snapshots, Info{Path: path, Timestamp: timestamp, Size: info.Size()})
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Timestamp.After(snapshots[j].Timestamp)
	})
	return snapshots, nil
}

func (m *Manager) rotate() error {
	snapshots, err := m.List()
	if err != nil {
		return err
	}
	for i := MaxSnapshots; i < len(snapshots); i++ {
		if err := os.Remove(snapshots[i].Path); err != nil {
			return fmt.Errorf("failed to remove old snapshot %s: %w", snapshots[i].Path, err)
		}
	}
	return nil
}

// Restore replaces the session file with a snapshot. The current
// session is snapshotted first so the restore itself can be undone.
func (m *Manager) Restore(snapshotPath string) error {
	if _, err := os.Stat(snapshotPath); os.IsNotExist(err) {
		return fmt.Errorf("snapshot does not exist: %s", snapshotPath)
	}
	if m.isSQLite() {
		if err := verifySQLite(snapshotPath); err != nil {
			return fmt.Errorf("snapshot is corrupted or invalid: %w", err)
		}
	}

	if _, err := os.Stat(m.sessionPath); err == nil {
		kept, err := m.create(true)
		if err != nil {
			return fmt.Errorf("failed to snapshot current session before restore: %w", err)
		}
		fmt.Printf("Kept current session as %s\n", filepath.Base(kept))
	}

	// Copy to a temp file and rename so the swap is atomic.
	tempPath := m.sessionPath + ".restore.tmp"
	if err := copyFile(snapshotPath, tempPath); err != nil {
		return fmt.Errorf("failed to copy snapshot: %w", err)
	}
	if err := os.Rename(tempPath, m.sessionPath); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove temporary file %s: %v\n", tempPath, removeErr)
		}
		return fmt.Errorf("failed to restore session: %w", err)
	}
	return nil
}

func verifySQLite(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	var count int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count)
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := destFile.ReadFrom(sourceFile); err != nil {
		return err
	}
	return destFile.Sync()
}
