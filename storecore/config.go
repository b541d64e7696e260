package storecore

// BaseConfig contains shared, backend-agnostic driver configuration.
type BaseConfig struct {
	Prefix        string
	Compression   CompressionCodec
	MaxValueBytes int
	EncryptionKey []byte
}
