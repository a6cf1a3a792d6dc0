package relay

import (
	"fmt"
	"path/filepath"
	"time"
)

// BlobReference locates the uploaded audio in the blob store. Keys are
// {prefix}{epochMillis}_{basename}; two uploads of the same name within one
// millisecond collide.
type BlobReference struct {
	Key string
	URI string
}

// BlobKey builds the destination key for filename at time now
func BlobKey(prefix, filename string, now time.Time) string {
	return fmt.Sprintf("%s%d_%s", prefix, now.UnixMilli(), filepath.Base(filename))
}
