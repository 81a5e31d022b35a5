package media

import "context"

// File is an image received from a client, fully read into memory.
// Uploads are small (5 MiB cap at the HTTP layer) so buffering is fine.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Upload points at a stored object: a public URL for clients and the
// storage key needed to delete the object later
type Upload struct {
	URL string
	Key string
}

// Store is the media host the service uploads images to
type Store interface {
	Upload(ctx context.Context, file File) (Upload, error)
	Delete(ctx context.Context, key string) error
}
