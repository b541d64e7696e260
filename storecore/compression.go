package storecore

// CompressionCodec represents a value compression algorithm applied to stored records.
type CompressionCodec string

const (
	CompressionNone CompressionCodec = "none"
	CompressionGzip CompressionCodec = "gzip"
)
