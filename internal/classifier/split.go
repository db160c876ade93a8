package classifier

import "strings"

// NameSeparator separates multiple names inside one role field.
const NameSeparator = "/"

// DefaultUnsplittable lists names that contain the separator themselves.
var DefaultUnsplittable = []string{"DISH//"}

// Splitter expands delimited role fields into candidate names.
type Splitter struct {
	unsplittable []string
}

// NewSplitter creates a splitter that keeps the given tokens intact when
// splitting performer fields.
func NewSplitter(unsplittable []string) Splitter {
	tokens := make([]string, 0, len(unsplittable))
	for _, token := range unsplittable {
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return Splitter{unsplittable: tokens}
}

// SplitPerformers splits a performer field. Each unsplittable token found in
// the text is emitted first and removed before the generic split runs.
func (s Splitter) SplitPerformers(text string) []string {
	names := []string{}
	for _, token := range s.unsplittable {
		if strings.Contains(text, token) {
			names = append(names, token)
			text = strings.ReplaceAll(text, token, "")
		}
	}
	if text != "" {
		names = append(names, strings.Split(text, NameSeparator)...)
	}
	return names
}

// SplitNames splits a lyricist, composer or arranger field.
func SplitNames(text string) []string {
	return strings.Split(text, NameSeparator)
}
