// Package backup copies the uploads folder into dated snapshots once a day.
package backup

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

const stampLayout = "2006-01-02_15-04-05"

// Config says what to copy, where, when and for how long to keep it.
type Config struct {
	SrcDir    string
	BackupDir string
	Retention time.Duration
	Hour      int
	Minute    int
}

// NextRun is the first hour:minute strictly after now.
func NextRun(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

// Run snapshots every day at the configured time until ctx is done.
func Run(ctx context.Context, cfg Config) {
	for {
		next := NextRun(time.Now(), cfg.Hour, cfg.Minute)
		log.Printf("⏳ Next uploads backup scheduled at: %s", next.Format("2006-01-02 15:04:05"))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Println("🛑 Backup scheduler stopped")
			return
		case <-timer.C:
		}

		if dest, err := Snapshot(cfg.SrcDir, cfg.BackupDir, time.Now()); err != nil {
			log.Printf("❌ Failed to back up uploads: %v", err)
		} else {
			log.Printf("✅ Uploads backed up to %s", dest)
		}
		Cleanup(cfg.BackupDir, cfg.Retention, time.Now())
	}
}

// Snapshot copies srcDir into a timestamped folder under backupDir.
func Snapshot(srcDir, backupDir string, at time.Time) (string, error) {
	dest := filepath.Join(backupDir, at.Format(stampLayout))
	if err := copyDir(srcDir, dest); err != nil {
		return "", err
	}
	return dest, nil
}

func copyDir(src, dest string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dest, 0755); err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		destPath := filepath.Join(dest, entry.Name())

		if entry.IsDir() {
			err = copyDir(srcPath, destPath)
		} else {
			err = copyFile(srcPath, destPath)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

// Cleanup removes snapshot folders last modified before now-retention and
// returns how many were removed.
func Cleanup(backupDir string, retention time.Duration, now time.Time) int {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		log.Printf("❌ Failed to read backup directory: %v", err)
		return 0
	}

	cutoff := now.Add(-retention)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folderPath := filepath.Join(backupDir, entry.Name())
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(folderPath); err != nil {
			log.Printf("❌ Failed to remove old backup %s: %v", folderPath, err)
			continue
		}
		log.Printf("🗑️ Removed old backup: %s", folderPath)
		removed++
	}
	return removed
}
