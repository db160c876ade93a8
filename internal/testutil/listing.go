package testutil

import (
	"fmt"
	"html"
	"strings"
)

// ListingRow describes one track row of a fake product listing page.
// Empty fields are left out of the markup.
type ListingRow struct {
	Title     string
	Performer string
	Notes     []string
	Lyricist  string
	Composer  string
	Arranger  string
	Grade     string
}

// ListingPage renders a product detail page shaped like the publisher's listing
func ListingPage(bookName string, declared int, rows []ListingRow) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html><html><head><title>detail</title></head><body>\n")
	fmt.Fprintf(&b, "<h1><span itemprop=\"name\">%s</span></h1>\n", html.EscapeString(bookName))
	fmt.Fprintf(&b, "<p>収録曲数：<span itemprop=\"numTracks\">%d</span>曲</p>\n", declared)
	b.WriteString("<table><tbody>\n")

	for _, row := range rows {
		b.WriteString(`<tr itemprop="track" itemscope>` + "\n<td class=\"main\">\n")
		fmt.Fprintf(&b, "<a href=\"#\"><span itemprop=\"name\">%s</span></a>\n", html.EscapeString(row.Title))
		if row.Performer != "" {
			fmt.Fprintf(&b, "<a itemprop=\"byArtist\" href=\"#\">%s</a>\n", html.EscapeString(row.Performer))
		}
		for _, note := range row.Notes {
			fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(note))
		}
		if row.Lyricist != "" || row.Composer != "" {
			b.WriteString("<p>")
			if row.Lyricist != "" {
				fmt.Fprintf(&b, "<span>作詞：</span>%s ", html.EscapeString(row.Lyricist))
			}
			if row.Composer != "" {
				fmt.Fprintf(&b, "<span>作曲：</span>%s", html.EscapeString(row.Composer))
			}
			b.WriteString("</p>\n")
		}
		if row.Arranger != "" {
			fmt.Fprintf(&b, "<p>編曲：%s</p>\n", html.EscapeString(row.Arranger))
		}
		b.WriteString("</td>\n<td class=\"sub\">")
		if row.Grade != "" {
			fmt.Fprintf(&b, "<p>グレード：%s</p>", html.EscapeString(row.Grade))
		}
		b.WriteString("<p>定価：1,980円</p></td>\n</tr>\n")
	}

	b.WriteString("</tbody></table>\n</body></html>\n")
	return b.String()
}

// ListingRows builds n numbered rows sharing one performer
func ListingRows(n int, prefix, performer string) []ListingRow {
	rows := make([]ListingRow, n)
	for i := range rows {
		rows[i] = ListingRow{
			Title:     fmt.Sprintf("%s%02d", prefix, i+1),
			Performer: performer,
			Grade:     "5級",
		}
	}
	return rows
}
