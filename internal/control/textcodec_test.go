package control

import (
	"testing"
	"time"
)

func TestControlRoundTrip(t *testing.T) {
	cases := []Control{
		PP(None),
		PP(Some(true)),
		PP(Some(false)),
		StopMsg(),
		Next(1),
		Next(2),
		Prev(2),
		PrevNoneMsg(),
		CloseMsg(),
		ShuffleMsg(),
		SetVolumeMsg(0.5),
		VolUp(),
		VolDown(),
		MuteMsg(None),
		MuteMsg(Some(true)),
		Jump(3),
		Load(LoadOptions{}),
		Load(LoadOptions{RemoveMissing: true}),
		Load(LoadOptions{AddToPlaylist: SomeAddPolicy(PolicyEnd)}),
		Load(LoadOptions{RemoveMissing: true, AddToPlaylist: SomeAddPolicy(PolicyNext)}),
		Seek(83*time.Second + 400*time.Millisecond),
		Seek(0),
		FFwd(5 * time.Second),
		Rwd(90 * time.Second),
		Sort(SongOrder{Field: Artist, ReverseFlag: false, Simple: false}),
		Sort(SongOrder{Field: Album, ReverseFlag: true, Simple: true}),
		Pop(2),
		Pop(0),
		FlattenMsg(0),
		SetAddPolicy(PolicyMixIn),
		SaveMsg(),
	}

	for _, want := range cases {
		s := want.Format()
		got, err := ParseControl(s)
		if err != nil {
			t.Fatalf("ParseControl(%q): %v", s, err)
		}
		if got != want {
			t.Errorf("round trip mismatch for %q: got %+v, want %+v", s, got, want)
		}
	}
}

func TestPrevSongDoublePressScenario(t *testing.T) {
	// spec.md §8 scenario 1: PrevSong(None) formats/parses as "ps".
	s := PrevNoneMsg().Format()
	if s != "ps" {
		t.Fatalf("expected canonical form %q, got %q", "ps", s)
	}
	got, err := ParseControl(s)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !got.PrevNone {
		t.Fatalf("expected PrevNone semantics")
	}
}

func TestSeekDurationFormatParse(t *testing.T) {
	cases := map[time.Duration]string{
		0:                                      "0",
		83*time.Second + 400*time.Millisecond: "1:23.4",
		3661 * time.Second:                     "1:01:1",
	}
	for d, want := range cases {
		got := formatDuration(d)
		if got != want {
			t.Errorf("formatDuration(%v) = %q, want %q", d, got, want)
		}
		parsed, err := ParseDuration(got)
		if err != nil {
			t.Fatalf("ParseDuration(%q): %v", got, err)
		}
		if parsed != d {
			t.Errorf("ParseDuration(%q) = %v, want %v", got, parsed, d)
		}
	}
}

func TestDataControlRoundTrip(t *testing.T) {
	q := Query{
		Filter: []FilterTerm{{Field: "artist", Substring: "Boards"}},
		Order:  SongOrder{Field: Album, Simple: true},
	}
	cases := []DataControl{
		AliasMsg("favs"),
		SetMsg(q),
		PushMsg(q),
		PushWithCurMsg(q),
		QueueMsg(q),
		PlayNextMsg(q),
		RestartMsg("/usr/bin/uampd"),
		ReorderMsg([]int{2, 0, 1}),
		PlayTmpMsg("/tmp/song.flac"),
	}

	for _, want := range cases {
		s := want.Format()
		got, err := ParseDataControl(s)
		if err != nil {
			t.Fatalf("ParseDataControl(%q): %v", s, err)
		}
		if got.Kind != want.Kind {
			t.Fatalf("kind mismatch for %q", s)
		}
	}
}

func TestReorderPlaylistStackCanonicalForm(t *testing.T) {
	d := ReorderMsg([]int{2, 0, 1})
	if d.Format() != "rps=2,0,1" {
		t.Fatalf("unexpected canonical form: %q", d.Format())
	}
}

func TestQueryRoundTrip(t *testing.T) {
	q := Query{
		Filter: []FilterTerm{
			{Field: "artist", Substring: "Boards of Canada"},
			{Field: "album", Substring: "Geogaddi"},
		},
		Order: SongOrder{Field: Track, Simple: true},
	}
	s := FormatQuery(q)
	got, err := ParseQuery(s)
	if err != nil {
		t.Fatalf("ParseQuery(%q): %v", s, err)
	}
	if len(got.Filter) != 2 || got.Order.Field != Track {
		t.Fatalf("query did not round-trip: %+v", got)
	}
}
