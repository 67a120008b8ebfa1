package stage

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/pithecene-io/terrace/iox"
)

// Journal framing constants. Entries are tiny; the cap guards against a
// corrupt length prefix swallowing the rest of the file.
const (
	// MaxEntrySize is the maximum journal entry size including the
	// length prefix.
	MaxEntrySize = 64 * 1024
	// LengthPrefixSize is the size of the length prefix in bytes.
	LengthPrefixSize = 4
)

// Entry is one audited transition attempt. Both successes and failures
// are journaled: the audit trail must explain why a folder is where it
// is, including the moves that did not happen.
type Entry struct {
	Timestamp   string `msgpack:"timestamp"` // ISO 8601
	RunFolder   string `msgpack:"run_folder"`
	From        string `msgpack:"from"`
	To          string `msgpack:"to"`
	Source      string `msgpack:"source"`
	Destination string `msgpack:"destination"`
	OK          bool   `msgpack:"ok"`
	Message     string `msgpack:"message,omitempty"`
	Actor       string `msgpack:"actor,omitempty"`
}

// Journal appends transition records to a file as length-prefixed
// msgpack frames (4-byte big-endian prefix). Append-only; a reader can
// replay the full move history of a staging area.
type Journal struct {
	path string
}

// NewJournal returns a journal writing to the file at path. The file is
// created on first append.
func NewJournal(path string) *Journal {
	return &Journal{path: path}
}

// Append encodes the entry and appends it as one frame.
func (j *Journal) Append(entry Entry) error {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	payload, err := msgpack.Marshal(&entry)
	if err != nil {
		return fmt.Errorf("journal: encode entry: %w", err)
	}
	if len(payload)+LengthPrefixSize > MaxEntrySize {
		return fmt.Errorf("journal: entry size %d exceeds maximum %d", len(payload), MaxEntrySize)
	}

	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("journal: open %s: %w", j.path, err)
	}
	defer iox.DiscardClose(f)

	var prefix [LengthPrefixSize]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(payload)))
	if _, err := f.Write(prefix[:]); err != nil {
		return fmt.Errorf("journal: write prefix: %w", err)
	}
	if _, err := f.Write(payload); err != nil {
		return fmt.Errorf("journal: write payload: %w", err)
	}
	return nil
}

// ReadEntries decodes every entry in the journal file at path, in
// append order. A truncated trailing frame is an error: the journal is
// an audit record and silent loss would defeat it.
func ReadEntries(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}
	defer iox.DiscardClose(f)

	var entries []Entry
	for {
		var prefix [LengthPrefixSize]byte
		_, err := io.ReadFull(f, prefix[:])
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return nil, fmt.Errorf("journal: truncated length prefix: %w", err)
		}

		size := binary.BigEndian.Uint32(prefix[:])
		if size > MaxEntrySize-LengthPrefixSize {
			return nil, fmt.Errorf("journal: entry size %d exceeds maximum %d", size, MaxEntrySize)
		}

		payload := make([]byte, size)
		if _, err := io.ReadFull(f, payload); err != nil {
			return nil, fmt.Errorf("journal: truncated payload: %w", err)
		}

		var entry Entry
		if err := msgpack.Unmarshal(payload, &entry); err != nil {
			return nil, fmt.Errorf("journal: decode entry: %w", err)
		}
		entries = append(entries, entry)
	}
}
