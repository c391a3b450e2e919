package proto

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/famish99/uampd/internal/control"
	"github.com/famish99/uampd/internal/errs"
	"github.com/famish99/uampd/internal/library"
)

// Kind identifies which Message variant a frame carries (spec.md §6).
type Kind int

const (
	KindPing Kind = iota
	KindWaitExit
	KindSuccess
	KindError
	KindControl
	KindDataControl
	KindInfo
	KindQuery
	KindSongList
	KindSubscribe
	KindSub
)

// Info answers the protocol's Info request: a snapshot of player state
// (spec.md §6 grammar, Info{...}).
type Info struct {
	State         string
	Volume        float64
	Mute          bool
	HasCurrent    bool
	CurrentSongID uint32
	PlaylistLen   int
	StackDepth    int
	AddPolicy     string
}

// SubMsg is one push-channel delta (spec.md §4.7): playback, set-volume,
// set-mute, playlist set/push/pop, reorder, seek, quitting, restarting,
// tmp-song, each distinguished by Kind with only the relevant fields set.
type SubMsg struct {
	Kind SubKind

	Info Info   // Playback / PlaylistSet / PlaylistJump / StackChanged / PolicyChanged
	Path string // TmpSong
}

// SubKind enumerates the delta kinds a subscriber may receive.
type SubKind int

const (
	SubPlayback SubKind = iota
	SubVolume
	SubMute
	SubPlaylistSet
	SubPlaylistJump
	SubStackChanged
	SubPolicyChanged
	SubSeek
	SubQuitting
	SubRestarting
	SubTmpSong
)

// Message is the closed wire sum type of spec.md §6. Exactly one of the
// typed payload fields is meaningful, selected by Kind — the same
// tagged-struct idiom as msgbus.Msg and control.Control, chosen so the
// server's dispatch can switch on Kind without a type assertion.
type Message struct {
	Kind Kind

	WaitExitMs uint64
	ErrKind    errs.Kind
	ErrMsg     string
	Control    control.Control
	Data       control.DataControl
	Info       Info
	Query      control.Query
	Songs      []library.Song
	Sub        SubMsg
}

// Ping builds a Message(Ping).
func Ping() Message { return Message{Kind: KindPing} }

// WaitExit builds a Message(WaitExit(ms)).
func WaitExit(ms uint64) Message { return Message{Kind: KindWaitExit, WaitExitMs: ms} }

// Success builds a Message(Success).
func Success() Message { return Message{Kind: KindSuccess} }

// ErrorMsg builds a Message(Error{kind, msg}).
func ErrorMsg(k errs.Kind, msg string) Message {
	return Message{Kind: KindError, ErrKind: k, ErrMsg: msg}
}

// ControlMsg builds a Message(Control(c)).
func ControlMsg(c control.Control) Message { return Message{Kind: KindControl, Control: c} }

// DataControlMsg builds a Message(DataControl(d)).
func DataControlMsg(d control.DataControl) Message { return Message{Kind: KindDataControl, Data: d} }

// InfoMsg builds a Message(Info{...}).
func InfoMsg(info Info) Message { return Message{Kind: KindInfo, Info: info} }

// QueryMsg builds a Message(Query{filter, order}).
func QueryMsg(q control.Query) Message { return Message{Kind: KindQuery, Query: q} }

// SongListMsg builds a Message(SongList[...]).
func SongListMsg(songs []library.Song) Message { return Message{Kind: KindSongList, Songs: songs} }

// SubscribeMsg builds a Message(Subscribe).
func SubscribeMsg() Message { return Message{Kind: KindSubscribe} }

// SubMessage builds a Message(Sub(delta)).
func SubMessage(delta SubMsg) Message { return Message{Kind: KindSub, Sub: delta} }

// Encode serializes msg into a self-describing byte payload (not yet
// length-framed; callers pass the result to WriteFrame).
func Encode(msg Message) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(byte(msg.Kind))

	switch msg.Kind {
	case KindPing, KindSuccess, KindSubscribe:
		// no payload

	case KindWaitExit:
		writeUint64(&buf, msg.WaitExitMs)

	case KindError:
		buf.WriteByte(byte(msg.ErrKind))
		writeString(&buf, msg.ErrMsg)

	case KindControl:
		writeString(&buf, msg.Control.Format())

	case KindDataControl:
		writeString(&buf, msg.Data.Format())

	case KindInfo:
		encodeInfo(&buf, msg.Info)

	case KindQuery:
		writeString(&buf, control.FormatQuery(msg.Query))

	case KindSongList:
		writeUint32(&buf, uint32(len(msg.Songs)))
		for _, s := range msg.Songs {
			encodeSong(&buf, s)
		}

	case KindSub:
		buf.WriteByte(byte(msg.Sub.Kind))
		switch msg.Sub.Kind {
		case SubTmpSong:
			writeString(&buf, msg.Sub.Path)
		default:
			encodeInfo(&buf, msg.Sub.Info)
		}

	default:
		return nil, errs.New(errs.Serde, fmt.Sprintf("unknown message kind %d", msg.Kind))
	}

	return buf.Bytes(), nil
}

// Decode parses a payload produced by Encode (or ReadFrame) back into a Message.
func Decode(payload []byte) (Message, error) {
	r := bytes.NewReader(payload)
	kindByte, err := r.ReadByte()
	if err != nil {
		return Message{}, errs.Wrap(errs.Serde, "failed to read message marker", err)
	}
	kind := Kind(kindByte)

	switch kind {
	case KindPing:
		return Ping(), nil
	case KindSuccess:
		return Success(), nil
	case KindSubscribe:
		return SubscribeMsg(), nil

	case KindWaitExit:
		ms, err := readUint64(r)
		if err != nil {
			return Message{}, err
		}
		return WaitExit(ms), nil

	case KindError:
		kb, err := r.ReadByte()
		if err != nil {
			return Message{}, errs.Wrap(errs.Serde, "failed to read error kind", err)
		}
		msg, err := readString(r)
		if err != nil {
			return Message{}, err
		}
		return ErrorMsg(errs.Kind(kb), msg), nil

	case KindControl:
		s, err := readString(r)
		if err != nil {
			return Message{}, err
		}
		c, perr := control.ParseControl(s)
		if perr != nil {
			return Message{}, errs.Wrap(errs.Serde, "failed to parse control message", perr)
		}
		return ControlMsg(c), nil

	case KindDataControl:
		s, err := readString(r)
		if err != nil {
			return Message{}, err
		}
		d, perr := control.ParseDataControl(s)
		if perr != nil {
			return Message{}, errs.Wrap(errs.Serde, "failed to parse data control message", perr)
		}
		return DataControlMsg(d), nil

	case KindInfo:
		info, err := decodeInfo(r)
		if err != nil {
			return Message{}, err
		}
		return InfoMsg(info), nil

	case KindQuery:
		s, err := readString(r)
		if err != nil {
			return Message{}, err
		}
		q, perr := control.ParseQuery(s)
		if perr != nil {
			return Message{}, errs.Wrap(errs.Serde, "failed to parse query", perr)
		}
		return QueryMsg(q), nil

	case KindSongList:
		n, err := readUint32(r)
		if err != nil {
			return Message{}, err
		}
		songs := make([]library.Song, 0, n)
		for i := uint32(0); i < n; i++ {
			s, err := decodeSong(r)
			if err != nil {
				return Message{}, err
			}
			songs = append(songs, s)
		}
		return SongListMsg(songs), nil

	case KindSub:
		kb, err := r.ReadByte()
		if err != nil {
			return Message{}, errs.Wrap(errs.Serde, "failed to read sub kind", err)
		}
		sub := SubMsg{Kind: SubKind(kb)}
		if sub.Kind == SubTmpSong {
			sub.Path, err = readString(r)
			if err != nil {
				return Message{}, err
			}
		} else {
			sub.Info, err = decodeInfo(r)
			if err != nil {
				return Message{}, err
			}
		}
		return SubMessage(sub), nil
	}

	return Message{}, errs.New(errs.Serde, fmt.Sprintf("unknown message marker %d", kindByte))
}

func encodeInfo(buf *bytes.Buffer, info Info) {
	writeString(buf, info.State)
	writeFloat64(buf, info.Volume)
	writeBool(buf, info.Mute)
	writeBool(buf, info.HasCurrent)
	writeUint32(buf, info.CurrentSongID)
	writeUint32(buf, uint32(info.PlaylistLen))
	writeUint32(buf, uint32(info.StackDepth))
	writeString(buf, info.AddPolicy)
}

func decodeInfo(r *bytes.Reader) (Info, error) {
	var info Info
	var err error
	if info.State, err = readString(r); err != nil {
		return Info{}, err
	}
	if info.Volume, err = readFloat64(r); err != nil {
		return Info{}, err
	}
	if info.Mute, err = readBool(r); err != nil {
		return Info{}, err
	}
	if info.HasCurrent, err = readBool(r); err != nil {
		return Info{}, err
	}
	if info.CurrentSongID, err = readUint32(r); err != nil {
		return Info{}, err
	}
	n, err := readUint32(r)
	if err != nil {
		return Info{}, err
	}
	info.PlaylistLen = int(n)
	if n, err = readUint32(r); err != nil {
		return Info{}, err
	}
	info.StackDepth = int(n)
	if info.AddPolicy, err = readString(r); err != nil {
		return Info{}, err
	}
	return info, nil
}

func encodeSong(buf *bytes.Buffer, s library.Song) {
	writeString(buf, s.Path)
	writeString(buf, s.Title)
	writeString(buf, s.Artist)
	writeString(buf, s.Album)
	writeUint32(buf, uint32(s.Year))
	writeUint32(buf, uint32(s.Disc))
	writeUint32(buf, uint32(s.Track))
	writeUint32(buf, uint32(s.Length))
	writeString(buf, s.Genre)
	writeBool(buf, s.Deleted)
}

func decodeSong(r *bytes.Reader) (library.Song, error) {
	var s library.Song
	var err error
	if s.Path, err = readString(r); err != nil {
		return s, err
	}
	if s.Title, err = readString(r); err != nil {
		return s, err
	}
	if s.Artist, err = readString(r); err != nil {
		return s, err
	}
	if s.Album, err = readString(r); err != nil {
		return s, err
	}
	var n uint32
	if n, err = readUint32(r); err != nil {
		return s, err
	}
	s.Year = int(n)
	if n, err = readUint32(r); err != nil {
		return s, err
	}
	s.Disc = int(n)
	if n, err = readUint32(r); err != nil {
		return s, err
	}
	s.Track = int(n)
	if n, err = readUint32(r); err != nil {
		return s, err
	}
	s.Length = int(n)
	if s.Genre, err = readString(r); err != nil {
		return s, err
	}
	if s.Deleted, err = readBool(r); err != nil {
		return s, err
	}
	return s, nil
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, errs.Wrap(errs.Serde, "failed to read uint32", err)
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func readUint64(r *bytes.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, errs.Wrap(errs.Serde, "failed to read uint64", err)
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

func writeFloat64(buf *bytes.Buffer, v float64) {
	writeUint64(buf, math.Float64bits(v))
}

func readFloat64(r *bytes.Reader) (float64, error) {
	bits, err := readUint64(r)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

func writeBool(buf *bytes.Buffer, v bool) {
	if v {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}

func readBool(r *bytes.Reader) (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, errs.Wrap(errs.Serde, "failed to read bool", err)
	}
	return b != 0, nil
}

func writeString(buf *bytes.Buffer, s string) {
	writeUint32(buf, uint32(len(s)))
	buf.WriteString(s)
}

func readString(r *bytes.Reader) (string, error) {
	n, err := readUint32(r)
	if err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", errs.Wrap(errs.Serde, "failed to read string bytes", err)
	}
	return string(b), nil
}
