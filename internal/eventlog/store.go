package eventlog

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/office-controller/internal/config"
)

// Store persists received entries.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	Load(ctx context.Context) ([]Entry, error)
}

// FileStore appends entries to a JSON-lines file.
// Each line is the protojson form of the entry's wire message.
type FileStore struct {
	// path is the filesystem location of the store.
	path string
	// mu serialises appends and reads.
	mu sync.Mutex
}

var _ Store = (*FileStore)(nil)

// ErrNotFound is returned when the store file does not exist yet.
var ErrNotFound = errors.New("event log not found")

const maxLineSize = 1 << 20

// NewFileStore creates a store that appends to the provided path.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: filepath.Clean(path),
	}
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

// Append writes one entry as a single line.
func (s *FileStore) Append(_ context.Context, entry Entry) error {
	msg, err := entry.ToStruct()
	if err != nil {
		return err
	}

	data, err := protojson.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, config.DefaultFilePermissions)
	if err != nil {
		return fmt.Errorf("open event log: %w", err)
	}

	if _, err = file.Write(append(data, '\n')); err != nil {
		_ = file.Close()

		return fmt.Errorf("write event log: %w", err)
	}

	if err = file.Close(); err != nil {
		return fmt.Errorf("close event log: %w", err)
	}

	return nil
}

// Load reads every entry in append order.
func (s *FileStore) Load(_ context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contents, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read event log: %w", err)
	}

	var (
		entries []Entry
		scanner = bufio.NewScanner(bytes.NewReader(contents))
		line    int
	)

	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)

	for scanner.Scan() {
		line++

		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var msg structpb.Struct
		if err = protojson.Unmarshal(raw, &msg); err != nil {
			return nil, fmt.Errorf("decode event log line %d: %w", line, err)
		}

		entry, err := EntryFromStruct(&msg)
		if err != nil {
			return nil, fmt.Errorf("event log line %d: %w", line, err)
		}

		entries = append(entries, entry)
	}

	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan event log: %w", err)
	}

	return entries, nil
}
