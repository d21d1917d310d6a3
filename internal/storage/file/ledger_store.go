// Package file stores team ledgers as line-oriented text files, one per team.
package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"cap-ledger/internal/domain"
	"cap-ledger/internal/storage"
)

// maxLineBytes bounds a single ledger line.
const maxLineBytes = 1 << 20

// LedgerStore implements storage.LedgerStore on <dir>/<TEAM>.txt files.
// Files are only ever read or opened with O_APPEND.
type LedgerStore struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex // per-team write locks
}

// NewLedgerStore creates a store rooted at dir, which must already exist.
func NewLedgerStore(dir string) (*LedgerStore, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("ledger directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("ledger directory %s is not a directory", dir)
	}
	return &LedgerStore{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

// Dir returns the ledger directory.
func (s *LedgerStore) Dir() string {
	return s.dir
}

// Path returns the ledger file for team.
func (s *LedgerStore) Path(team string) string {
	return filepath.Join(s.dir, team+".txt")
}

// ReadAll returns the team's entries in file order. A missing file is an empty ledger.
func (s *LedgerStore) ReadAll(_ context.Context, team string) ([]*domain.LedgerEntry, error) {
	if team == "" {
		return nil, storage.ErrInvalidInput
	}
	return s.read(team)
}

// Append adds one entry. Returns ErrDuplicateEntry if the date is already logged.
func (s *LedgerStore) Append(ctx context.Context, e *domain.LedgerEntry) error {
	if e == nil {
		return storage.ErrInvalidInput
	}
	return s.AppendBulk(ctx, e.Team, []*domain.LedgerEntry{e})
}

// AppendBulk appends entries for one team. Duplicates are detected before
// the file is opened for writing, so a failed call leaves the file untouched.
func (s *LedgerStore) AppendBulk(_ context.Context, team string, entries []*domain.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if team == "" {
		return storage.ErrInvalidInput
	}

	lock := s.teamLock(team)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.read(team)
	if err != nil {
		return err
	}

	dates := make(map[domain.Date]struct{}, len(existing)+len(entries))
	for _, e := range existing {
		dates[e.Date] = struct{}{}
	}
	for _, e := range entries {
		if e == nil || e.Team != team {
			return storage.ErrInvalidInput
		}
		if _, exists := dates[e.Date]; exists {
			return fmt.Errorf("%s %s: %w", team, e.Date, storage.ErrDuplicateEntry)
		}
		dates[e.Date] = struct{}{}
	}

	path := s.Path(team)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger %s: %w", path, err)
	}

	unterminated, err := missingFinalNewline(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("inspect ledger %s: %w", path, err)
	}

	w := bufio.NewWriter(f)
	if unterminated {
		if err := w.WriteByte('\n'); err != nil {
			f.Close()
			return fmt.Errorf("write ledger %s: %w", path, err)
		}
	}
	for _, e := range entries {
		if _, err := w.WriteString(EncodeEntry(e) + "\n"); err != nil {
			f.Close()
			return fmt.Errorf("write ledger %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush ledger %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close ledger %s: %w", path, err)
	}
	return nil
}

func (s *LedgerStore) read(team string) ([]*domain.LedgerEntry, error) {
	path := s.Path(team)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}
	defer f.Close()

	var entries []*domain.LedgerEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		e, err := DecodeEntry(team, line)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, lineNo, err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s line %d: %w: %v", path, lineNo+1, storage.ErrCorruptLedger, err)
	}

	return entries, nil
}

// missingFinalNewline reports whether a non-empty file lacks a trailing newline.
func missingFinalNewline(f *os.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return false, nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return false, err
	}
	return last[0] != '\n', nil
}

func (s *LedgerStore) teamLock(team string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[team]
	if !ok {
		l = &sync.Mutex{}
		s.locks[team] = l
	}
	return l
}

var _ storage.LedgerStore = (*LedgerStore)(nil)
