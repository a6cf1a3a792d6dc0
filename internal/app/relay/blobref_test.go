package relay

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBlobKey(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	assert.Equal(t, "audio/1700000000123_talk.mp3", BlobKey("audio/", "talk.mp3", now))
	assert.Equal(t, "audio/1700000000123_talk.mp3", BlobKey("audio/", "/tmp/uploads/x/talk.mp3", now))
	assert.Equal(t, "1700000000123_talk.mp3", BlobKey("", "talk.mp3", now))
}

func TestBlobKey_Format(t *testing.T) {
	key := BlobKey("audio/", "voice note.mp3", time.Now())
	assert.Regexp(t, regexp.MustCompile(`^audio/\d+_voice note\.mp3$`), key)
}
