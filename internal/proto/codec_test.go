package proto

import (
	"bytes"
	"testing"

	"github.com/famish99/uampd/internal/control"
	"github.com/famish99/uampd/internal/errs"
	"github.com/famish99/uampd/internal/library"
)

func roundTrip(t *testing.T, msg Message) Message {
	t.Helper()
	payload, err := Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(payload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return decoded
}

func TestRoundTripSimpleKinds(t *testing.T) {
	cases := []Message{
		Ping(),
		Success(),
		SubscribeMsg(),
		WaitExit(1500),
		ErrorMsg(errs.InvalidOperation, "task already running"),
	}
	for _, msg := range cases {
		got := roundTrip(t, msg)
		if got.Kind != msg.Kind {
			t.Fatalf("kind mismatch: want %v got %v", msg.Kind, got.Kind)
		}
	}
}

func TestRoundTripControl(t *testing.T) {
	got := roundTrip(t, ControlMsg(control.Next(2)))
	if got.Kind != KindControl || got.Control.Kind != control.NextSong || got.Control.Count != 2 {
		t.Fatalf("unexpected round trip: %+v", got)
	}
}

func TestRoundTripDataControl(t *testing.T) {
	d := control.ReorderMsg([]int{2, 0, 1})
	got := roundTrip(t, DataControlMsg(d))
	if got.Kind != KindDataControl || got.Data.Kind != control.ReorderPlaylistStack {
		t.Fatalf("unexpected round trip: %+v", got)
	}
	if len(got.Data.Order) != 3 || got.Data.Order[0] != 2 {
		t.Fatalf("expected order [2 0 1], got %v", got.Data.Order)
	}
}

func TestRoundTripInfo(t *testing.T) {
	info := Info{
		State: "playing", Volume: 0.75, Mute: false,
		HasCurrent: true, CurrentSongID: 42,
		PlaylistLen: 10, StackDepth: 2, AddPolicy: "end",
	}
	got := roundTrip(t, InfoMsg(info))
	if got.Info != info {
		t.Fatalf("info round trip mismatch: want %+v got %+v", info, got.Info)
	}
}

func TestRoundTripSongList(t *testing.T) {
	songs := []library.Song{
		{Path: "/a.flac", Title: "A", Artist: "Art", Year: 2001},
		{Path: "/b.mp3", Title: "B", Deleted: true},
	}
	got := roundTrip(t, SongListMsg(songs))
	if len(got.Songs) != 2 || got.Songs[0].Title != "A" || !got.Songs[1].Deleted {
		t.Fatalf("unexpected song list round trip: %+v", got.Songs)
	}
}

func TestRoundTripSub(t *testing.T) {
	got := roundTrip(t, SubMessage(SubMsg{Kind: SubTmpSong, Path: "/tmp/x.mp3"}))
	if got.Sub.Kind != SubTmpSong || got.Sub.Path != "/tmp/x.mp3" {
		t.Fatalf("unexpected sub round trip: %+v", got.Sub)
	}

	got = roundTrip(t, SubMessage(SubMsg{Kind: SubVolume, Info: Info{Volume: 0.3}}))
	if got.Sub.Kind != SubVolume || got.Sub.Info.Volume != 0.3 {
		t.Fatalf("unexpected sub round trip: %+v", got.Sub)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	msg := ControlMsg(control.SetVolumeMsg(0.5))
	payload, err := Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteFrame(&buf, payload); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	read, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if !bytes.Equal(read, payload) {
		t.Fatalf("frame payload mismatch")
	}
}

func TestReadFrameRejectsOversizedLength(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF})
	if _, err := ReadFrame(&buf); errs.KindOf(err) != errs.Serde {
		t.Fatalf("expected Serde error for oversized frame, got %v", err)
	}
}
