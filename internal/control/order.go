package control

// Field selects the primary sort key for a SongOrder (spec.md §4.8).
type Field int

const (
	Same Field = iota
	Reverse
	Randomize
	Path
	Title
	Artist
	Album
	Track
	Disc
	Year
	Length
	Genre
)

// SongOrder specifies a playlist sort: a primary field, whether to
// reverse it, and whether to apply it "simply" (strictly by the main
// field) or with field-specific tie-breakers (spec.md §4.8).
type SongOrder struct {
	Field   Field
	ReverseFlag bool
	Simple  bool
}
