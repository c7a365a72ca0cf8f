package season

import (
	"fmt"
	"time"
)

// Track is one song of the festive playlist. The site links to the audio;
// only the catalog is served.
type Track struct {
	ID       int           `json:"id"`
	Title    string        `json:"title"`
	Artist   string        `json:"artist"`
	Length   time.Duration `json:"-"`
	Duration string        `json:"duration"`
	Seconds  int           `json:"seconds"`
	Emoji    string        `json:"emoji"`
}

func track(id int, title, artist string, mins, secs int, emoji string) Track {
	d := time.Duration(mins)*time.Minute + time.Duration(secs)*time.Second
	return Track{
		ID:       id,
		Title:    title,
		Artist:   artist,
		Length:   d,
		Duration: fmt.Sprintf("%d:%02d", mins, secs),
		Seconds:  int(d / time.Second),
		Emoji:    emoji,
	}
}

var playlist = []Track{
	track(1, "Jingle Bells (Lo-fi Remix)", "Chill Beats", 3, 24, "🔔"),
	track(2, "Silent Night (Piano Version)", "Christmas Classics", 4, 12, "🌙"),
	track(3, "We Wish You a Merry Christmas", "Holiday Orchestra", 2, 58, "🎄"),
	track(4, "Let It Snow (Jazz Cover)", "Winter Jazz Trio", 3, 45, "❄️"),
	track(5, "Carol of the Bells (Electronic)", "Techno Christmas", 4, 2, "🔔"),
	track(6, "O Holy Night (Acoustic)", "Acoustic Christmas", 5, 18, "⭐"),
	track(7, "Deck the Halls (8-bit Version)", "Retro Christmas", 2, 34, "🎮"),
	track(8, "Winter Wonderland (Chill)", "Ambient Christmas", 3, 56, "🏔️"),
}

// Playlist returns the festive playlist in play order.
func Playlist() []Track {
	return append([]Track(nil), playlist...)
}

// PlaylistLength is the total running time of the playlist.
func PlaylistLength() time.Duration {
	var total time.Duration
	for _, t := range playlist {
		total += t.Length
	}
	return total
}
