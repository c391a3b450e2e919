// Package control implements the two closed control-message sum types
// from spec.md §3/§4.1: Control (trivially copyable, primitive payloads,
// flows through the hot path without allocation) and DataControl (owns
// strings/paths/queries, moved rather than copied).
package control

import "time"

// Kind identifies a Control variant.
type Kind int

const (
	PlayPause Kind = iota
	Stop
	NextSong
	PrevSong
	Close
	Shuffle
	SetVolume
	VolumeUp
	VolumeDown
	Mute
	PlaylistJump
	LoadNewSongs
	SeekTo
	FastForward
	Rewind
	SortPlaylist
	PopPlaylist
	Flatten
	SetPlaylistAddPolicy
	Save
)

// AddPolicy is where new songs are spliced into a playlist, spec.md §3/GLOSSARY.
type AddPolicy int

const (
	PolicyEnd AddPolicy = iota
	PolicyNext
	PolicyMixIn
	PolicyNone
)

// TriState represents an optional boolean toggle: PlayPause(Some(true))
// forces play, PlayPause(Some(false)) forces pause, PlayPause(None) toggles.
type TriState struct {
	Valid bool
	Value bool
}

// Some constructs a present TriState.
func Some(v bool) TriState { return TriState{Valid: true, Value: v} }

// None is the absent TriState, used for "toggle" semantics.
var None = TriState{}

// OptInt represents an optional signed count, used by PrevSong(None) vs
// PrevSong(Some(n)).
type OptInt struct {
	Valid bool
	Value int
}

// SomeInt constructs a present OptInt.
func SomeInt(v int) OptInt { return OptInt{Valid: true, Value: v} }

// NoneInt is the absent OptInt.
var NoneInt = OptInt{}

// OptAddPolicy represents an optional AddPolicy, used by LoadOptions'
// "queue newly scanned songs into the live playlist" knob (spec.md §4.5
// "Outputs a LibraryLoadResult containing ... an optional add-policy").
type OptAddPolicy struct {
	Valid bool
	Value AddPolicy
}

// SomeAddPolicy constructs a present OptAddPolicy.
func SomeAddPolicy(p AddPolicy) OptAddPolicy { return OptAddPolicy{Valid: true, Value: p} }

// NoneAddPolicy is the absent OptAddPolicy: newly scanned songs are left
// out of every live playlist.
var NoneAddPolicy = OptAddPolicy{}

// Control is a trivially-copyable command. Exactly one of the typed
// payload fields is meaningful, selected by Kind — this mirrors a Rust
// enum's tagged union using Go's zero-allocation struct-of-fields idiom
// rather than an interface, keeping Control safe to pass by value through
// the hot path per spec.md §3.
type Control struct {
	Kind Kind

	PlayPauseTo  TriState
	Count        int // NextSong(n) / PrevSong(Some(n)) / PopPlaylist(n) / Flatten(n)
	PrevNone     bool // true selects PrevSong(None) semantics over Count
	Volume       float64
	PlaylistIdx  int
	LoadOptions  LoadOptions
	SeekDuration time.Duration
	SortOrder    SongOrder
	AddPolicyVal AddPolicy
	MuteTo       TriState
}

// LoadOptions parameterizes Control(LoadNewSongs).
type LoadOptions struct {
	RemoveMissing bool
	// AddToPlaylist, when valid, queues every song the scan newly finds
	// (appended or reclaimed into a tombstoned slot) into every live
	// playlist under this policy (spec.md §4.5), the way the ground
	// truth's LoadOpts.add_to_playlist does.
	AddToPlaylist OptAddPolicy
}

// PP builds a Control(PlayPause).
func PP(to TriState) Control { return Control{Kind: PlayPause, PlayPauseTo: to} }

// StopMsg builds a Control(Stop).
func StopMsg() Control { return Control{Kind: Stop} }

// Next builds a Control(NextSong(n)).
func Next(n int) Control { return Control{Kind: NextSong, Count: n} }

// Prev builds a Control(PrevSong(Some(n))).
func Prev(n int) Control { return Control{Kind: PrevSong, Count: n} }

// PrevNoneMsg builds a Control(PrevSong(None)): collapse-to-restart semantics.
func PrevNoneMsg() Control { return Control{Kind: PrevSong, PrevNone: true} }

// CloseMsg builds a Control(Close).
func CloseMsg() Control { return Control{Kind: Close} }

// ShuffleMsg builds a Control(Shuffle).
func ShuffleMsg() Control { return Control{Kind: Shuffle} }

// SetVolumeMsg builds a Control(SetVolume(v)).
func SetVolumeMsg(v float64) Control { return Control{Kind: SetVolume, Volume: v} }

// VolUp builds a Control(VolumeUp).
func VolUp() Control { return Control{Kind: VolumeUp} }

// VolDown builds a Control(VolumeDown).
func VolDown() Control { return Control{Kind: VolumeDown} }

// MuteMsg builds a Control(Mute(to)).
func MuteMsg(to TriState) Control { return Control{Kind: Mute, MuteTo: to} }

// Jump builds a Control(PlaylistJump(i)).
func Jump(i int) Control { return Control{Kind: PlaylistJump, PlaylistIdx: i} }

// Load builds a Control(LoadNewSongs(opts)).
func Load(opts LoadOptions) Control { return Control{Kind: LoadNewSongs, LoadOptions: opts} }

// Seek builds a Control(SeekTo(d)).
func Seek(d time.Duration) Control { return Control{Kind: SeekTo, SeekDuration: d} }

// FFwd builds a Control(FastForward).
func FFwd(d time.Duration) Control { return Control{Kind: FastForward, SeekDuration: d} }

// Rwd builds a Control(Rewind).
func Rwd(d time.Duration) Control { return Control{Kind: Rewind, SeekDuration: d} }

// Sort builds a Control(SortPlaylist(ord)).
func Sort(ord SongOrder) Control { return Control{Kind: SortPlaylist, SortOrder: ord} }

// Pop builds a Control(PopPlaylist(n)).
func Pop(n int) Control { return Control{Kind: PopPlaylist, Count: n} }

// FlattenMsg builds a Control(Flatten(n)).
func FlattenMsg(n int) Control { return Control{Kind: Flatten, Count: n} }

// SetAddPolicy builds a Control(SetPlaylistAddPolicy(p)).
func SetAddPolicy(p AddPolicy) Control { return Control{Kind: SetPlaylistAddPolicy, AddPolicyVal: p} }

// SaveMsg builds a non-closing Control(Save).
func SaveMsg() Control { return Control{Kind: Save} }
