package classifier

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestSplitPerformers(t *testing.T) {
	splitter := NewSplitter(DefaultUnsplittable)

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"unsplittable token kept intact", "DISH//Foo/Bar", []string{"DISH//", "Foo", "Bar"}},
		{"unsplittable token alone", "DISH//", []string{"DISH//"}},
		{"plain split", "Ado/Vaundy", []string{"Ado", "Vaundy"}},
		{"single name", "LiSA", []string{"LiSA"}},
		{"absent performer", "none", []string{"none"}},
		{"empty performer", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitter.SplitPerformers(tt.input))
		})
	}
}

func TestSplitPerformersWithoutTokens(t *testing.T) {
	splitter := NewSplitter(nil)
	assert.Equal(t, []string{"DISH", "", "Foo", "Bar"}, splitter.SplitPerformers("DISH//Foo/Bar"))
}

func TestSplitNames(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, SplitNames("A/B"))
	assert.Equal(t, []string{"none"}, SplitNames(None))
	assert.Equal(t, []string{"DISH", "", "x"}, SplitNames("DISH//x"))
}

func TestBuild(t *testing.T) {
	splitter := NewSplitter(DefaultUnsplittable)

	raw := RawTrack{
		Title:     "猫",
		Performer: "DISH//",
		MainFragments: []string{
			"猫", "DISH//", "ドラマ主題歌",
			"作詞：", "あいみょん",
			"作曲：", "あいみょん",
			"編曲：X/Y",
		},
		SubFragments: []string{"グレード：5級"},
	}

	want := Track{
		Title:      "猫",
		Notes:      []string{"ドラマ主題歌"},
		Performers: []string{"DISH//"},
		Lyricists:  []string{"あいみょん"},
		Composers:  []string{"あいみょん"},
		Arrangers:  []string{"X", "Y"},
		Grade:      "5",
	}

	got := splitter.Build(raw)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "ドラマ主題歌", got.Memo())
	assert.Equal(t, "5", *got.GradeValue())
}

func TestTrackMemoAndGrade(t *testing.T) {
	track := Track{Notes: []string{"TVアニメ", "オープニング"}, Grade: None}
	assert.Equal(t, "TVアニメ オープニング", track.Memo())
	assert.Nil(t, track.GradeValue())

	assert.Equal(t, "", Track{}.Memo())
}

func TestIsAbsent(t *testing.T) {
	for _, v := range []string{"", "  ", "none", "NONE", " None "} {
		assert.True(t, IsAbsent(v), v)
	}
	for _, v := range []string{"nonet", "Ado", "n"} {
		assert.False(t, IsAbsent(v), v)
	}
}

func TestTrimAllWhitespace(t *testing.T) {
	assert.Equal(t, "ピアノソロ上級J-POP", TrimAllWhitespace(" ピアノソロ\n上級　J-POP\t"))
	assert.Equal(t, "a b", NormalizeText("  a   b "))
	assert.Equal(t, []string{"a", "b c"}, NormalizeTextArray([]string{" a ", "", " b  c"}))
}
