package control

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Format renders a Control to its canonical short string (spec.md §6):
// pp, pp=play, pp=pause, ns=2, v=0.5, seek=1:23.4, etc.
func (c Control) Format() string {
	switch c.Kind {
	case PlayPause:
		if !c.PlayPauseTo.Valid {
			return "pp"
		}
		if c.PlayPauseTo.Value {
			return "pp=play"
		}
		return "pp=pause"
	case Stop:
		return "stop"
	case NextSong:
		if c.Count == 1 {
			return "ns"
		}
		return fmt.Sprintf("ns=%d", c.Count)
	case PrevSong:
		if c.PrevNone {
			return "ps"
		}
		return fmt.Sprintf("ps=%d", c.Count)
	case Close:
		return "close"
	case Shuffle:
		return "shuffle"
	case SetVolume:
		return fmt.Sprintf("v=%s", formatFloat(c.Volume))
	case VolumeUp:
		return "vu"
	case VolumeDown:
		return "vd"
	case Mute:
		if !c.MuteTo.Valid {
			return "mute"
		}
		if c.MuteTo.Value {
			return "mute=on"
		}
		return "mute=off"
	case PlaylistJump:
		return fmt.Sprintf("pj=%d", c.PlaylistIdx)
	case LoadNewSongs:
		var parts []string
		if c.LoadOptions.RemoveMissing {
			parts = append(parts, "rm")
		}
		if c.LoadOptions.AddToPlaylist.Valid {
			parts = append(parts, "policy:"+formatAddPolicy(c.LoadOptions.AddToPlaylist.Value))
		}
		if len(parts) == 0 {
			return "load"
		}
		return "load=" + strings.Join(parts, ",")
	case SeekTo:
		return fmt.Sprintf("seek=%s", formatDuration(c.SeekDuration))
	case FastForward:
		return fmt.Sprintf("ff=%s", formatDuration(c.SeekDuration))
	case Rewind:
		return fmt.Sprintf("rw=%s", formatDuration(c.SeekDuration))
	case SortPlaylist:
		return fmt.Sprintf("sort=%s", formatSongOrder(c.SortOrder))
	case PopPlaylist:
		return fmt.Sprintf("pop=%d", c.Count)
	case Flatten:
		return fmt.Sprintf("flat=%d", c.Count)
	case SetPlaylistAddPolicy:
		return fmt.Sprintf("policy=%s", formatAddPolicy(c.AddPolicyVal))
	case Save:
		return "save"
	default:
		return "?"
	}
}

// ParseControl parses the canonical short string form back into a Control.
func ParseControl(s string) (Control, error) {
	name, arg, hasArg := strings.Cut(s, "=")

	switch name {
	case "pp":
		if !hasArg {
			return PP(None), nil
		}
		switch arg {
		case "play":
			return PP(Some(true)), nil
		case "pause":
			return PP(Some(false)), nil
		}
		return Control{}, fmt.Errorf("invalid pp argument: %q", arg)
	case "stop":
		return StopMsg(), nil
	case "ns":
		if !hasArg {
			return Next(1), nil
		}
		n, err := strconv.Atoi(arg)
		if err != nil {
			return Control{}, fmt.Errorf("invalid ns argument: %q", arg)
		}
		return Next(n), nil
	case "ps":
		if !hasArg {
			return PrevNoneMsg(), nil
		}
		n, err := strconv.Atoi(arg)
		if err != nil {
			return Control{}, fmt.Errorf("invalid ps argument: %q", arg)
		}
		return Prev(n), nil
	case "close":
		return CloseMsg(), nil
	case "shuffle":
		return ShuffleMsg(), nil
	case "v":
		f, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return Control{}, fmt.Errorf("invalid v argument: %q", arg)
		}
		return SetVolumeMsg(f), nil
	case "vu":
		return VolUp(), nil
	case "vd":
		return VolDown(), nil
	case "mute":
		if !hasArg {
			return MuteMsg(None), nil
		}
		switch arg {
		case "on":
			return MuteMsg(Some(true)), nil
		case "off":
			return MuteMsg(Some(false)), nil
		}
		return Control{}, fmt.Errorf("invalid mute argument: %q", arg)
	case "pj":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return Control{}, fmt.Errorf("invalid pj argument: %q", arg)
		}
		return Jump(n), nil
	case "load":
		var opts LoadOptions
		if hasArg {
			for _, tok := range strings.Split(arg, ",") {
				switch {
				case tok == "rm":
					opts.RemoveMissing = true
				case strings.HasPrefix(tok, "policy:"):
					p, err := parseAddPolicy(strings.TrimPrefix(tok, "policy:"))
					if err != nil {
						return Control{}, err
					}
					opts.AddToPlaylist = SomeAddPolicy(p)
				default:
					return Control{}, fmt.Errorf("unknown load option: %q", tok)
				}
			}
		}
		return Load(opts), nil
	case "seek":
		d, err := ParseDuration(arg)
		if err != nil {
			return Control{}, err
		}
		return Seek(d), nil
	case "ff":
		d, err := ParseDuration(arg)
		if err != nil {
			return Control{}, err
		}
		return FFwd(d), nil
	case "rw":
		d, err := ParseDuration(arg)
		if err != nil {
			return Control{}, err
		}
		return Rwd(d), nil
	case "sort":
		ord, err := parseSongOrder(arg)
		if err != nil {
			return Control{}, err
		}
		return Sort(ord), nil
	case "pop":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return Control{}, fmt.Errorf("invalid pop argument: %q", arg)
		}
		return Pop(n), nil
	case "flat":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return Control{}, fmt.Errorf("invalid flat argument: %q", arg)
		}
		return FlattenMsg(n), nil
	case "policy":
		p, err := parseAddPolicy(arg)
		if err != nil {
			return Control{}, err
		}
		return SetAddPolicy(p), nil
	case "save":
		return SaveMsg(), nil
	}
	return Control{}, fmt.Errorf("unknown control message: %q", s)
}

// ParseDuration parses the "[[h:]m:]s[.frac]" form described in spec.md §6.
func ParseDuration(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid duration: %q", s)
	}
	var total float64
	for _, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration component %q in %q", p, s)
		}
		total = total*60 + v
	}
	return time.Duration(total * float64(time.Second)), nil
}

// formatDuration renders a duration as "h:m:s.frac", trimming leading
// zero components the same way the canonical parser accepts them.
func formatDuration(d time.Duration) string {
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	seconds := (d % time.Minute).Seconds()

	switch {
	case hours > 0:
		return fmt.Sprintf("%d:%02d:%s", hours, minutes, formatSeconds(seconds))
	case minutes > 0:
		return fmt.Sprintf("%d:%s", minutes, formatSeconds(seconds))
	default:
		return formatSeconds(seconds)
	}
}

func formatSeconds(s float64) string {
	out := strconv.FormatFloat(s, 'f', -1, 64)
	return out
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var fieldNames = map[Field]string{
	Same: "same", Reverse: "rev", Randomize: "rand", Path: "path",
	Title: "title", Artist: "artist", Album: "album", Track: "track",
	Disc: "disc", Year: "year", Length: "length", Genre: "genre",
}

var fieldByName = func() map[string]Field {
	m := make(map[string]Field, len(fieldNames))
	for f, name := range fieldNames {
		m[name] = f
	}
	return m
}()

func formatSongOrder(o SongOrder) string {
	var b strings.Builder
	b.WriteString(fieldNames[o.Field])
	if o.ReverseFlag {
		b.WriteString(",rev")
	}
	if o.Simple {
		b.WriteString(",simple")
	}
	return b.String()
}

func parseSongOrder(s string) (SongOrder, error) {
	parts := strings.Split(s, ",")
	field, ok := fieldByName[parts[0]]
	if !ok {
		return SongOrder{}, fmt.Errorf("unknown sort field: %q", parts[0])
	}
	ord := SongOrder{Field: field}
	for _, flag := range parts[1:] {
		switch flag {
		case "rev":
			ord.ReverseFlag = true
		case "simple":
			ord.Simple = true
		default:
			return SongOrder{}, fmt.Errorf("unknown sort flag: %q", flag)
		}
	}
	return ord, nil
}

func formatAddPolicy(p AddPolicy) string {
	switch p {
	case PolicyEnd:
		return "end"
	case PolicyNext:
		return "next"
	case PolicyMixIn:
		return "mixin"
	default:
		return "none"
	}
}

func parseAddPolicy(s string) (AddPolicy, error) {
	switch s {
	case "end":
		return PolicyEnd, nil
	case "next":
		return PolicyNext, nil
	case "mixin":
		return PolicyMixIn, nil
	case "none":
		return PolicyNone, nil
	}
	return 0, fmt.Errorf("unknown add policy: %q", s)
}

// Format renders a DataControl to its canonical short string form, e.g.
// "sp=<query>" for Set, "push=<query>" for Push, "rps=2,0,1" for
// ReorderPlaylistStack.
func (d DataControl) Format() string {
	switch d.Kind {
	case Alias:
		return "alias=" + d.AliasName
	case Set:
		return "sp=" + FormatQuery(d.Query)
	case Push:
		return "push=" + FormatQuery(d.Query)
	case PushWithCurPlaylist:
		return "pushcur=" + FormatQuery(d.Query)
	case Queue:
		return "queue=" + FormatQuery(d.Query)
	case PlayNext:
		return "playnext=" + FormatQuery(d.Query)
	case Restart:
		return "restart=" + d.RestartExe
	case ReorderPlaylistStack:
		return "rps=" + joinInts(d.Order)
	case PlayTmp:
		return "tmp=" + d.Path
	default:
		return "?"
	}
}

// ParseDataControl parses the canonical short string form of a DataControl.
func ParseDataControl(s string) (DataControl, error) {
	name, arg, hasArg := strings.Cut(s, "=")
	if !hasArg {
		return DataControl{}, fmt.Errorf("missing argument in %q", s)
	}
	switch name {
	case "alias":
		return AliasMsg(arg), nil
	case "sp":
		q, err := ParseQuery(arg)
		if err != nil {
			return DataControl{}, err
		}
		return SetMsg(q), nil
	case "push":
		q, err := ParseQuery(arg)
		if err != nil {
			return DataControl{}, err
		}
		return PushMsg(q), nil
	case "pushcur":
		q, err := ParseQuery(arg)
		if err != nil {
			return DataControl{}, err
		}
		return PushWithCurMsg(q), nil
	case "queue":
		q, err := ParseQuery(arg)
		if err != nil {
			return DataControl{}, err
		}
		return QueueMsg(q), nil
	case "playnext":
		q, err := ParseQuery(arg)
		if err != nil {
			return DataControl{}, err
		}
		return PlayNextMsg(q), nil
	case "restart":
		return RestartMsg(arg), nil
	case "rps":
		order, err := parseInts(arg)
		if err != nil {
			return DataControl{}, err
		}
		return ReorderMsg(order), nil
	case "tmp":
		return PlayTmpMsg(arg), nil
	}
	return DataControl{}, fmt.Errorf("unknown data control message: %q", s)
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ",")
}

func parseInts(s string) ([]int, error) {
	fields := strings.Split(s, ",")
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q in %q", f, s)
		}
		out = append(out, n)
	}
	return out, nil
}

// FormatQuery renders a Query to its canonical string form:
// "field:substring field2:substring2;order".
func FormatQuery(q Query) string {
	var terms []string
	for _, t := range q.Filter {
		if t.Field == "" {
			terms = append(terms, t.Substring)
		} else {
			terms = append(terms, t.Field+":"+t.Substring)
		}
	}
	out := strings.Join(terms, " ")
	if q.Order.Field != Same {
		out += ";" + formatSongOrder(q.Order)
	}
	return out
}

// ParseQuery parses the canonical query string form.
func ParseQuery(s string) (Query, error) {
	filterPart, orderPart, hasOrder := strings.Cut(s, ";")

	var q Query
	for _, tok := range strings.Fields(filterPart) {
		field, sub, has := strings.Cut(tok, ":")
		if !has {
			q.Filter = append(q.Filter, FilterTerm{Substring: tok})
		} else {
			q.Filter = append(q.Filter, FilterTerm{Field: field, Substring: sub})
		}
	}
	if hasOrder {
		ord, err := parseSongOrder(orderPart)
		if err != nil {
			return Query{}, err
		}
		q.Order = ord
	}
	return q, nil
}
