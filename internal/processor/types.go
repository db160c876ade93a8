package processor

import (
	"time"

	"github.com/palemoky/songbook-catalog/internal/classifier"
	"github.com/palemoky/songbook-catalog/internal/database"
)

// State is a step of one ingestion run
type State int

const (
	StateCheckExists State = iota
	StateFetchPage
	StateAccumulate
	StatePersist
	StateDone
	StateSkip
)

func (s State) String() string {
	switch s {
	case StateCheckExists:
		return "CHECK_EXISTS"
	case StateFetchPage:
		return "FETCH_PAGE"
	case StateAccumulate:
		return "ACCUMULATE"
	case StatePersist:
		return "PERSIST"
	case StateDone:
		return "DONE"
	case StateSkip:
		return "SKIP"
	default:
		return "UNKNOWN"
	}
}

// Outcome is how a run ended without error
type Outcome int

const (
	// OutcomeSkipped means the product code was already present
	OutcomeSkipped Outcome = iota
	// OutcomeDone means the book and its tracks were persisted
	OutcomeDone
)

func (o Outcome) String() string {
	if o == OutcomeDone {
		return "done"
	}
	return "skipped"
}

// Result summarizes one ingestion run
type Result struct {
	Code           string
	RunID          string
	Outcome        Outcome
	BookID         int64
	BookName       string
	DeclaredTracks int
	Pages          int
	Tracks         int
	SongsCreated   int
	SongsFailed    int
	Links          int
	Duration       time.Duration
	Err            error // set by RunAll when the run failed
}

// credit pairs an entity kind with the candidate names of one track
type credit struct {
	kind  database.EntityKind
	names []string
}

// credits lists the candidate names of a track in persistence order
func credits(track classifier.Track) []credit {
	return []credit{
		{database.KindArtist, track.Performers},
		{database.KindLyricist, track.Lyricists},
		{database.KindSongwriter, track.Composers},
		{database.KindArranger, track.Arrangers},
	}
}
