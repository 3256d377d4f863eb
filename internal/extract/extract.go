// Package extract maps a detail page to a catalog.MovieRecord.
//
// Every lookup is optional: a missing node leaves its field unknown and
// extraction as a whole never fails on absent markup.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/JakeFAU/movie-catalog-scraper/internal/catalog"
)

const postIDPrefix = "post-"

// Parse builds a document from raw HTML and extracts it.
func Parse(body []byte, sourceURL string) (catalog.MovieRecord, *string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return catalog.MovieRecord{}, nil, fmt.Errorf("parse detail page: %w", err)
	}
	rec, postID := Extract(doc, sourceURL)
	return rec, postID, nil
}

// Extract maps doc to a partial record plus the page's post identifier.
// The post identifier is only used to drive embed resolution.
func Extract(doc *goquery.Document, sourceURL string) (catalog.MovieRecord, *string) {
	rec := catalog.NewMovieRecord(sourceURL)

	rec.Name = textOf(FindFirst(doc, RoleTitle))

	img := FindFirst(doc, RoleThumbnail).Find("img").First()
	if src := attrOf(img, "src"); src != nil {
		full := StripSizeSuffix(*src)
		rec.Poster = &full
	}
	rec.PosterAlt = attrOf(img, "alt")

	rec.Genres = texts(FindFirst(doc, RoleGenres).Find(`a[rel~="category"]`))
	rec.Tags = texts(FindFirst(doc, RoleTags).Find(`a[rel~="tag"]`))
	rec.Quality = textOf(FindFirst(doc, RoleQuality).Find("a").First())
	rec.Duration = textOf(FindFirst(doc, RoleRuntime))
	rec.Language = textOf(FindFirst(doc, RoleLanguage))

	if raw := textOf(FindFirst(doc, RoleRating)); raw != nil {
		rec.Rating = ParseRating(*raw)
	}

	rec.ReleaseDate = textOf(FindFirst(doc, RoleReleaseDate))
	if rec.ReleaseDate != nil {
		rec.Year = ParseReleaseYear(*rec.ReleaseDate)
	}

	rec.Description = textOf(FindFirst(doc, RoleDescription).Find("p").First())
	rec.DownloadLinks = downloadLinks(FindFirst(doc, RoleDownloads))

	return rec, postID(FindFirst(doc, RoleArticle))
}

func downloadLinks(container *goquery.Selection) []catalog.DownloadLink {
	links := []catalog.DownloadLink{}
	container.Find("li").Each(func(_ int, li *goquery.Selection) {
		a := li.Find("a").First()
		if !Present(a) {
			return
		}
		label := a.Clone()
		label.Find("span").Remove()
		links = append(links, catalog.DownloadLink{
			Label: strings.TrimSpace(label.Text()),
			URL:   attrOf(a, "href"),
		})
	})
	return links
}

func postID(article *goquery.Selection) *string {
	id := attrOf(article, "id")
	if id == nil || !strings.HasPrefix(*id, postIDPrefix) {
		return nil
	}
	v := strings.TrimPrefix(*id, postIDPrefix)
	if v == "" {
		return nil
	}
	return &v
}
