package storage

import "context"

// Storage keeps tileset files and their previews in buckets. Objects are
// addressed by bucket and the file name returned in UploadResponse.
type Storage interface {
	Upload(ctx context.Context, object *UploadObject) (*UploadResponse, error)

	// BulkUpload returns the responses in the order of objects, or an error
	// when any of them failed.
	BulkUpload(ctx context.Context, objects []*UploadObject) ([]*UploadResponse, error)

	// Download returns the content of an object uploaded before.
	Download(ctx context.Context, bucket, fileName string) ([]byte, error)
}

// UploadObject is stored under Prefix/FileName in Bucket.
type UploadObject struct {
	Bucket   string
	Prefix   string
	FileName string
	Mime     string
	Data     []byte
}

// UploadResponse carries the public url and the key of a stored object.
type UploadResponse struct {
	Url      string
	FileName string
}
