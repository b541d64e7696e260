package dataservice

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/goforj/dataservice/storecore"
)

// CompressionCodec represents a record compression algorithm.
type CompressionCodec = storecore.CompressionCodec

const (
	CompressionNone = storecore.CompressionNone
	CompressionGzip = storecore.CompressionGzip
)

var (
	ErrValueTooLarge      = errors.New("dataservice: record exceeds max size")
	ErrUnsupportedCodec   = errors.New("dataservice: unsupported compression codec")
	ErrCorruptCompression = errors.New("dataservice: corrupt compressed record")
)

// Compressed records start with shapeHeader and one algorithm byte. Bodies
// without the header are returned as stored, so records written before
// compression was turned on stay readable.
var shapeHeader = []byte("DSZ1")

const shapeAlgoGzip = 'g'

// shapingStore compresses records and enforces a size limit on top of any
// Store. The limit applies to the record both before and after compression.
type shapingStore struct {
	inner   Store
	codec   CompressionCodec
	max     int
	writers sync.Pool
}

func newShapingStore(inner Store, codec CompressionCodec, max int) Store {
	if codec == "" {
		codec = CompressionNone
	}
	if codec == CompressionNone && max <= 0 {
		return inner
	}
	return &shapingStore{inner: inner, codec: codec, max: max}
}

func (s *shapingStore) Driver() Driver { return s.inner.Driver() }

func (s *shapingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	body, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok {
		return nil, ok, err
	}
	out, err := unshape(body)
	if err != nil {
		return nil, false, fmt.Errorf("record %q: %w", key, err)
	}
	return out, true, nil
}

func (s *shapingStore) Set(ctx context.Context, key string, value []byte) error {
	out, err := s.shape(value)
	if err != nil {
		return fmt.Errorf("record %q: %w", key, err)
	}
	return s.inner.Set(ctx, key, out)
}

func (s *shapingStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

func (s *shapingStore) DeleteMany(ctx context.Context, keys ...string) error {
	return s.inner.DeleteMany(ctx, keys...)
}

func (s *shapingStore) Flush(ctx context.Context) error {
	return s.inner.Flush(ctx)
}

func (s *shapingStore) shape(value []byte) ([]byte, error) {
	if err := s.fits(len(value)); err != nil {
		return nil, err
	}
	switch s.codec {
	case CompressionNone:
		return value, nil
	case CompressionGzip:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCodec, s.codec)
	}

	var buf bytes.Buffer
	buf.Write(shapeHeader)
	buf.WriteByte(shapeAlgoGzip)
	zw := s.gzipWriter(&buf)
	defer s.writers.Put(zw)
	if _, err := zw.Write(value); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	if err := s.fits(buf.Len()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *shapingStore) fits(n int) error {
	if s.max > 0 && n > s.max {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrValueTooLarge, n, s.max)
	}
	return nil
}

func (s *shapingStore) gzipWriter(w io.Writer) *gzip.Writer {
	if zw, ok := s.writers.Get().(*gzip.Writer); ok {
		zw.Reset(w)
		return zw
	}
	zw, _ := gzip.NewWriterLevel(w, gzip.BestSpeed)
	return zw
}

func unshape(body []byte) ([]byte, error) {
	n := len(shapeHeader)
	if len(body) <= n || !bytes.Equal(body[:n], shapeHeader) {
		return body, nil
	}
	if body[n] != shapeAlgoGzip {
		return nil, fmt.Errorf("%w: algorithm %q", ErrUnsupportedCodec, body[n])
	}
	zr, err := gzip.NewReader(bytes.NewReader(body[n+1:]))
	if err != nil {
		return nil, ErrCorruptCompression
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, ErrCorruptCompression
	}
	return out, nil
}
