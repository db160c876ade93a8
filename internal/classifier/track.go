package classifier

// Track is the typed record extracted for one row of a listing page.
type Track struct {
	Title      string
	Notes      []string
	Performers []string
	Lyricists  []string
	Composers  []string
	Arrangers  []string
	Grade      string
}

// RawTrack is the text of one listing row before classification.
type RawTrack struct {
	Title         string
	Performer     string
	MainFragments []string
	SubFragments  []string
}

// Memo returns the notes flattened into one space separated string.
func (t Track) Memo() string {
	return JoinNotes(t.Notes)
}

// GradeValue returns the grade, or nil when the row carried none.
func (t Track) GradeValue() *string {
	if IsAbsent(t.Grade) {
		return nil
	}
	grade := t.Grade
	return &grade
}

// Build classifies a raw row and expands its multi-valued fields.
func (s Splitter) Build(raw RawTrack) Track {
	fields := Classify(raw.MainFragments, raw.Title, raw.Performer)

	return Track{
		Title:      raw.Title,
		Notes:      fields.Notes,
		Performers: s.SplitPerformers(raw.Performer),
		Lyricists:  SplitNames(fields.Lyricist),
		Composers:  SplitNames(fields.Composer),
		Arrangers:  SplitNames(fields.Arranger),
		Grade:      Grade(raw.SubFragments),
	}
}
