package control

// DataKind identifies a DataControl variant.
type DataKind int

const (
	Alias DataKind = iota
	Set
	Push
	PushWithCurPlaylist
	Queue
	PlayNext
	Restart
	ReorderPlaylistStack
	PlayTmp
)

// DataControl owns heavier payloads (strings, paths, queries) and is
// moved rather than copied, per spec.md §3.
type DataControl struct {
	Kind DataKind

	AliasName   string
	Query       Query
	RestartExe  string
	Order       []int
	Path        string
}

// AliasMsg builds a DataControl(Alias(name)).
func AliasMsg(name string) DataControl { return DataControl{Kind: Alias, AliasName: name} }

// SetMsg builds a DataControl(Set(q)): replace the current playlist with
// the query's results.
func SetMsg(q Query) DataControl { return DataControl{Kind: Set, Query: q} }

// PushMsg builds a DataControl(Push(q)): push a new playlist from q.
func PushMsg(q Query) DataControl { return DataControl{Kind: Push, Query: q} }

// PushWithCurMsg builds a DataControl(PushWithCurPlaylist(q)).
func PushWithCurMsg(q Query) DataControl {
	return DataControl{Kind: PushWithCurPlaylist, Query: q}
}

// QueueMsg builds a DataControl(Queue(q)): append to the current playlist.
func QueueMsg(q Query) DataControl { return DataControl{Kind: Queue, Query: q} }

// PlayNextMsg builds a DataControl(PlayNext(q)): insert after current.
func PlayNextMsg(q Query) DataControl { return DataControl{Kind: PlayNext, Query: q} }

// RestartMsg builds a DataControl(Restart(exePath)).
func RestartMsg(exe string) DataControl { return DataControl{Kind: Restart, RestartExe: exe} }

// ReorderMsg builds a DataControl(ReorderPlaylistStack(order)).
func ReorderMsg(order []int) DataControl {
	return DataControl{Kind: ReorderPlaylistStack, Order: order}
}

// PlayTmpMsg builds a DataControl(PlayTmp(path)).
func PlayTmpMsg(path string) DataControl { return DataControl{Kind: PlayTmp, Path: path} }
