package dataservice

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
)

var (
	encryptionMagic = []byte("ENC1")

	ErrEncryptionKey = errors.New("dataservice: encryption key must be 16, 24, or 32 bytes")
	ErrDecryptFailed = errors.New("dataservice: decrypt failed")
)

type encryptingStore struct {
	inner Store
	aead  cipher.AEAD
}

func newEncryptingStore(inner Store, key []byte) (Store, error) {
	if len(key) == 0 {
		return inner, nil
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, ErrEncryptionKey
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &encryptingStore{inner: inner, aead: aead}, nil
}

func (s *encryptingStore) Driver() Driver { return s.inner.Driver() }

func (s *encryptingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	body, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok {
		return body, ok, err
	}
	plain, err := s.decrypt(key, body)
	if err != nil {
		return nil, false, err
	}
	return plain, true, nil
}

func (s *encryptingStore) Set(ctx context.Context, key string, value []byte) error {
	enc, err := s.encrypt(key, value)
	if err != nil {
		return err
	}
	return s.inner.Set(ctx, key, enc)
}

func (s *encryptingStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

func (s *encryptingStore) DeleteMany(ctx context.Context, keys ...string) error {
	return s.inner.DeleteMany(ctx, keys...)
}

func (s *encryptingStore) Flush(ctx context.Context) error {
	return s.inner.Flush(ctx)
}

// encrypt binds the record key as additional data, so a ciphertext copied to
// another key fails to open.
func (s *encryptingStore) encrypt(key string, plain []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	ct := s.aead.Seal(nil, nonce, plain, []byte(key))
	buf := make([]byte, 0, len(encryptionMagic)+len(nonce)+len(ct))
	buf = append(buf, encryptionMagic...)
	buf = append(buf, byte(len(nonce)))
	buf = append(buf, nonce...)
	buf = append(buf, ct...)
	return buf, nil
}

// decrypt rejects records without the envelope so a plaintext value planted in
// the backend cannot hydrate a service.
func (s *encryptingStore) decrypt(key string, in []byte) ([]byte, error) {
	offset := len(encryptionMagic) + 1
	if len(in) < offset || !bytes.Equal(in[:len(encryptionMagic)], encryptionMagic) {
		return nil, ErrDecryptFailed
	}
	nonceLen := int(in[len(encryptionMagic)])
	if nonceLen != s.aead.NonceSize() || len(in) < offset+nonceLen {
		return nil, ErrDecryptFailed
	}
	plain, err := s.aead.Open(nil, in[offset:offset+nonceLen], in[offset+nonceLen:], []byte(key))
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plain, nil
}
