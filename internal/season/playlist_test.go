package season

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaylist(t *testing.T) {
	tracks := Playlist()
	require.Len(t, tracks, 8)
	for i, tr := range tracks {
		assert.Equal(t, i+1, tr.ID)
		assert.NotEmpty(t, tr.Title)
		assert.Equal(t, int(tr.Length/time.Second), tr.Seconds)
	}
	assert.Equal(t, "4:02", tracks[4].Duration)
	assert.Equal(t, 242, tracks[4].Seconds)

	tracks[0].Title = "changed"
	assert.Equal(t, "Jingle Bells (Lo-fi Remix)", Playlist()[0].Title)
}

func TestPlaylistLength(t *testing.T) {
	assert.Equal(t, 30*time.Minute+9*time.Second, PlaylistLength())
}
