package media

import "context"

// Uploader pushes a local image file to blob storage and returns its public
// URL. Implementations should treat repeated uploads of the same file as
// independent objects; callers only keep the returned URL.
type Uploader interface {
	Upload(ctx context.Context, localPath, folder string) (string, error)
}
