// Package classifier turns the loosely marked-up text of a listing row into
// typed track fields.
package classifier

import "strings"

// Inline label tokens used by the listing to mark role boundaries.
const (
	LyricistLabel = "作詞："
	ComposerLabel = "作曲："
	ArrangerLabel = "編曲："
	GradeLabel    = "グレード："
	GradeSuffix   = "級"
)

// Mode is the scan state of the field classifier.
type Mode int

const (
	ModePlain Mode = iota
	ModeAwaitingLyricist
	ModeAwaitingComposer
)

func (m Mode) String() string {
	switch m {
	case ModeAwaitingLyricist:
		return "awaiting_lyricist"
	case ModeAwaitingComposer:
		return "awaiting_composer"
	default:
		return "plain"
	}
}

// Fields holds the single-valued role strings and notes found in a main block.
// Roles that never appear keep the None sentinel.
type Fields struct {
	Notes    []string
	Lyricist string
	Composer string
	Arranger string
}

// Classify scans the fragments of a track's main block once, left to right.
//
// Fragments repeating the title are dropped; fragments repeating the performer
// are dropped only before any role label has been seen. The lyricist and
// composer labels switch the mode and are consumed, and the text that follows
// is attributed to that role until the next label. A fragment containing the
// arranger label is handled in every mode and never changes it.
func Classify(fragments []string, title, performer string) Fields {
	fields := Fields{
		Notes:    []string{},
		Lyricist: None,
		Composer: None,
		Arranger: None,
	}

	mode := ModePlain
	for _, text := range fragments {
		if strings.Contains(title, text) || (mode == ModePlain && strings.Contains(performer, text)) {
			continue
		}

		switch {
		case text == LyricistLabel:
			mode = ModeAwaitingLyricist
		case text == ComposerLabel:
			mode = ModeAwaitingComposer
		case strings.Contains(text, ArrangerLabel):
			fields.Arranger = strings.TrimSpace(strings.ReplaceAll(text, ArrangerLabel, ""))
		case mode == ModeAwaitingLyricist:
			fields.Lyricist = strings.TrimSpace(text)
		case mode == ModeAwaitingComposer:
			fields.Composer = strings.TrimSpace(text)
		default:
			fields.Notes = append(fields.Notes, text)
		}
	}

	return fields
}

// Grade extracts the proficiency level from the fragments of a sub block.
// The value after GradeLabel is kept with the trailing unit suffix removed.
func Grade(fragments []string) string {
	for _, text := range fragments {
		_, value, found := strings.Cut(text, GradeLabel)
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		return strings.TrimSpace(strings.TrimSuffix(value, GradeSuffix))
	}
	return None
}
