package dataservice

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
)

var (
	createTempFile = os.CreateTemp
	renameFile     = os.Rename
)

// A file record is fileRecordMagic, the uvarint length of the service key,
// the key itself, then the record body. Carrying the key makes every file
// self-describing, so a name collision reads as a miss instead of another
// service's data.
var fileRecordMagic = []byte("DSF2")

const fileRecordExt = ".record"

var errCorruptFileRecord = errors.New("dataservice: corrupt file record")

type fileStore struct {
	dir string
}

func newFileStore(dir string) Store {
	if dir == "" {
		dir = defaultFileDir()
	}
	_ = os.MkdirAll(dir, 0o755)
	return &fileStore{dir: dir}
}

func (s *fileStore) Driver() Driver {
	return DriverFile
}

func (s *fileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	path := s.path(key)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	storedKey, body, err := parseFileRecord(data)
	if err != nil {
		_ = os.Remove(path)
		return nil, false, err
	}
	if storedKey != key {
		return nil, false, nil
	}
	return body, true, nil
}

// Set writes through a temp file and renames it into place so readers never
// observe a partially written record.
func (s *fileStore) Set(_ context.Context, key string, value []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	tmp, err := createTempFile(s.dir, "record-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	_, err = tmp.Write(fileRecord(key, value))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = renameFile(tmpPath, s.path(key))
	}
	if err != nil {
		_ = os.Remove(tmpPath)
	}
	return err
}

func (s *fileStore) Delete(_ context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *fileStore) DeleteMany(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if err := s.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// Flush removes record files only; anything else in the directory is left alone.
func (s *fileStore) Flush(_ context.Context) error {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != fileRecordExt {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

func (s *fileStore) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+fileRecordExt)
}

func fileRecord(key string, body []byte) []byte {
	out := make([]byte, 0, len(fileRecordMagic)+binary.MaxVarintLen64+len(key)+len(body))
	out = append(out, fileRecordMagic...)
	out = binary.AppendUvarint(out, uint64(len(key)))
	out = append(out, key...)
	return append(out, body...)
}

func parseFileRecord(data []byte) (string, []byte, error) {
	if !bytes.HasPrefix(data, fileRecordMagic) {
		return "", nil, errCorruptFileRecord
	}
	rest := data[len(fileRecordMagic):]
	n, width := binary.Uvarint(rest)
	if width <= 0 || n > uint64(len(rest)-width) {
		return "", nil, errCorruptFileRecord
	}
	rest = rest[width:]
	return string(rest[:n]), rest[n:], nil
}
