package storage

import "io"

// BlobStore holds exam media (extracted images) outside the database.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	DeletePrefix(prefix string) error // drop all of one exam's media
}
