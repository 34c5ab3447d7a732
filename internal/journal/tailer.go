// Package journal implements the log tailer (C1) and event codec (C2):
// discovering and streaming the game's line-delimited JSON journal
// files, and decoding each line into a tagged Event.
package journal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// pollInterval is the EOF retry pause for Tail.
const pollInterval = 50 * time.Millisecond

// LineFunc is called once per line read, without its trailing newline.
type LineFunc func(line []byte) error

// LatestJournal scans dir for regular files whose name contains
// "Journal", sorts lexicographically (journal file names embed an
// ISO-8601 timestamp segment, so lexicographic order is chronological),
// and returns the last one. Returns ("", nil) if dir has no journals.
func LatestJournal(dir string) (string, error) {
	all, err := AllJournals(dir)
	if err != nil {
		return "", err
	}
	if len(all) == 0 {
		return "", nil
	}
	return all[len(all)-1], nil
}

// AllJournals scans dir for regular files whose name contains
// "Journal", lexicographically sorted.
func AllJournals(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("io: reading journal directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.Contains(e.Name(), "Journal") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
	}
	return paths, nil
}

// ReadOnce reads path line-by-line from the start, invoking cb for
// each line, and returns on EOF. Used for historical backfill.
func ReadOnce(path string, cb LineFunc) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("io: opening journal %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		if err := cb(scanner.Bytes()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("io: reading journal %s: %w", path, err)
	}
	return nil
}

// Tail reads path line-by-line from the start, then continues
// following the file: on EOF it sleeps ~50ms and retries until ctx is
// cancelled. Rotation is not handled here — callers choose the active
// file to follow (the session façade re-evaluates LatestJournal
// between sessions, not mid-tail).
func Tail(ctx context.Context, path string, cb LineFunc) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("io: opening journal %s: %w", path, err)
	}
	defer f.Close()

	reader := bufio.NewReaderSize(f, 64*1024)
	limiter := rate.NewLimiter(rate.Every(pollInterval), 1)

	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			trimmed := strings.TrimRight(string(line), "\r\n")
			if trimmed != "" {
				if cbErr := cb([]byte(trimmed)); cbErr != nil {
					return cbErr
				}
			}
		}

		if err == nil {
			continue
		}
		if err != io.EOF {
			return fmt.Errorf("io: tailing journal %s: %w", path, err)
		}

		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if waitErr := limiter.Wait(ctx); waitErr != nil {
			return nil
		}
	}
}
