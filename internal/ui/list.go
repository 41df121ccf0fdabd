package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/comix/internal/models"
	"github.com/sahilm/fuzzy"
)

var (
	_ list.Item     = comicItem{}
	_ fuzzy.Source = comicSource{}
)

// comicItem wraps [models.Comic] to implement [list.Item].
type comicItem struct {
	comic models.Comic
}

func (i comicItem) FilterValue() string { return i.comic.Title + " " + i.comic.Author }
func (i comicItem) Title() string       { return i.comic.Title }
func (i comicItem) Description() string {
	parts := []string{}
	if i.comic.Author != "" {
		parts = append(parts, i.comic.Author)
	}
	if i.comic.Genre != "" {
		parts = append(parts, i.comic.Genre)
	}
	if i.comic.Year != 0 {
		parts = append(parts, fmt.Sprint(i.comic.Year))
	}
	return strings.Join(parts, " • ")
}

func comicItems(comics []models.Comic) []list.Item {
	items := make([]list.Item, len(comics))
	for i, c := range comics {
		items[i] = comicItem{comic: c}
	}
	return items
}

// comicSource adapts a column to [fuzzy.Source].
type comicSource []models.Comic

func (s comicSource) String(i int) string { return s[i].Title + " " + s[i].Author + " " + s[i].Genre }
func (s comicSource) Len() int            { return len(s) }

// filterComics returns the comics matching pattern, best match first. An empty pattern keeps every comic.
func filterComics(comics []models.Comic, pattern string) []models.Comic {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return comics
	}

	matches := fuzzy.FindFrom(pattern, comicSource(comics))
	out := make([]models.Comic, len(matches))
	for i, m := range matches {
		out[i] = comics[m.Index]
	}
	return out
}
