// Package store keeps a flat JSON object on disk and updates single keys in it.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Store is a JSON object file. Keys set with Set are written by Save; all
// other keys are preserved as they were read.
type Store struct {
	Path string

	values  map[string]json.RawMessage
	staged  map[string]json.RawMessage
	existed bool
	stat    os.FileInfo // as of the last load or save; nil when missing
	watcher *fsnotify.Watcher
}

// Open reads the object at path. A missing file yields an empty store.
// Open also starts watching the file so Save can notice concurrent edits;
// a watcher that cannot start only disables that check.
func Open(path string) (*Store, error) {
	s := &Store{Path: path, staged: make(map[string]json.RawMessage)}
	if err := s.load(); err != nil {
		return nil, err
	}
	s.watcher = watchFile(path)
	return s, nil
}

// Len returns the number of keys read from disk.
func (s *Store) Len() int {
	return len(s.values)
}

// Existed reports whether the file was present when last read.
func (s *Store) Existed() bool {
	return s.existed
}

// Get returns the string stored under key, if it is one.
func (s *Store) Get(key string) (string, bool) {
	raw, ok := s.staged[key]
	if !ok {
		raw, ok = s.values[key]
	}
	if !ok {
		return "", false
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	return v, true
}

// Set stages a string value for key.
func (s *Store) Set(key, value string) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}
	s.staged[key] = raw
	return nil
}

// Save rewrites the whole file, pretty-printed with sorted keys. If the file
// changed on disk since it was read, it is read again first so keys written
// by someone else survive. Save returns the number of keys written.
func (s *Store) Save() (int, error) {
	if s.changedOnDisk() {
		if err := s.load(); err != nil {
			return 0, fmt.Errorf("reloading changed file: %w", err)
		}
	}

	merged := make(map[string]json.RawMessage, len(s.values)+len(s.staged))
	for k, v := range s.values {
		merged[k] = v
	}
	for k, v := range s.staged {
		merged[k] = v
	}

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("encoding json file %s: %w", s.Path, err)
	}
	if err := writeFile(s.Path, data); err != nil {
		return 0, fmt.Errorf("writing json file %s: %w", s.Path, err)
	}

	s.values = merged
	s.staged = make(map[string]json.RawMessage)
	s.existed = true
	s.stat, _ = os.Stat(s.Path)
	return len(merged), nil
}

// Close stops watching the file.
func (s *Store) Close() error {
	if s.watcher == nil {
		return nil
	}
	err := s.watcher.Close()
	s.watcher = nil
	return err
}

func (s *Store) load() error {
	s.stat, _ = os.Stat(s.Path)
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		s.values = make(map[string]json.RawMessage)
		s.existed = false
		s.stat = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading json file %s: %w", s.Path, err)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return fmt.Errorf("json file %s: unexpected JSON value: want object, got %s", s.Path, typeErr.Value)
		}
		return fmt.Errorf("json file %s: %w", s.Path, err)
	}
	if obj == nil {
		return fmt.Errorf("json file %s: unexpected JSON value: null", s.Path)
	}
	s.values = obj
	s.existed = true
	return nil
}

// writeFile replaces the file at path through a temp file in the same
// directory. Symlinks are followed so the link survives and its target is
// updated; an existing file keeps its permissions.
func writeFile(path string, data []byte) error {
	resolved, err := resolvePath(path, maxSymlinks)
	if err != nil {
		return err
	}
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(resolved); err == nil {
		mode = fi.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(resolved), "."+filepath.Base(resolved)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), resolved)
}

// maxSymlinks bounds symlink resolution, as the kernel does for ELOOP.
const maxSymlinks = 40

// resolvePath follows symlinks in path. Unlike filepath.EvalSymlinks it also
// resolves a link whose final target does not exist yet.
func resolvePath(path string, depth int) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	fi, lerr := os.Lstat(path)
	if lerr != nil || fi.Mode()&os.ModeSymlink == 0 {
		// Nothing at path yet; it is created as a regular file.
		return path, nil
	}
	if depth == 0 {
		return "", fmt.Errorf("%s: too many levels of symbolic links", path)
	}
	target, err := os.Readlink(path)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return resolvePath(target, depth-1)
}

// watchFile watches the directory holding path. Watching the directory
// rather than the file also catches the file being created or replaced.
func watchFile(path string) *fsnotify.Watcher {
	w, err := fsnotify.NewBufferedWatcher(64)
	if err != nil {
		return nil
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil
	}
	return w
}

// changedOnDisk reports whether the file differs from what was last read or
// written: its size or modification time changed, or a pending watcher event
// touched it. It never blocks.
func (s *Store) changedOnDisk() bool {
	changed := s.statChanged()
	if s.watcher == nil {
		return changed
	}
	target := filepath.Clean(s.Path)
	for {
		select {
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return changed
			}
			if filepath.Clean(ev.Name) == target && ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				changed = true
			}
		case _, ok := <-s.watcher.Errors:
			if !ok {
				return changed
			}
			// An overflowed or failed watch may have lost events.
			changed = true
		default:
			return changed
		}
	}
}

// statChanged compares the current file metadata with the recorded one.
func (s *Store) statChanged() bool {
	fi, err := os.Stat(s.Path)
	if err != nil {
		return s.stat != nil
	}
	if s.stat == nil {
		return true
	}
	return fi.Size() != s.stat.Size() || !fi.ModTime().Equal(s.stat.ModTime())
}
