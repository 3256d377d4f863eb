package extract

import "github.com/PuerkitoBio/goquery"

// Role names an element of a detail page that the extractor reads.
type Role string

// Detail page roles.
const (
	RoleTitle       Role = "title"
	RoleThumbnail   Role = "thumbnail"
	RoleGenres      Role = "genres"
	RoleTags        Role = "tags"
	RoleQuality     Role = "quality"
	RoleRuntime     Role = "runtime"
	RoleRating      Role = "rating"
	RoleArticle     Role = "article"
	RoleDescription Role = "description"
	RoleReleaseDate Role = "release_date"
	RoleLanguage    Role = "language"
	RoleDownloads   Role = "downloads"
)

var roleSelectors = map[Role]string{
	RoleTitle:       "h1.entry-title",
	RoleThumbnail:   "figure.pull-left",
	RoleGenres:      "span.gmr-movie-genre",
	RoleTags:        "span.tags-links",
	RoleQuality:     "span.gmr-movie-quality",
	RoleRuntime:     "span.gmr-movie-runtime",
	RoleRating:      `span[itemprop="ratingValue"]`,
	RoleArticle:     "article",
	RoleDescription: `div.entry-content.entry-content-single[itemprop="description"]`,
	RoleReleaseDate: "time",
	RoleLanguage:    `span[property="inLanguage"]`,
	RoleDownloads:   "div#download",
}

// Selector returns the CSS selector bound to a role.
func Selector(role Role) string {
	return roleSelectors[role]
}

// FindFirst returns the first node playing role, or an empty selection.
func FindFirst(doc *goquery.Document, role Role) *goquery.Selection {
	return doc.Find(Selector(role)).First()
}

// FindAll returns every node playing role in document order.
func FindAll(doc *goquery.Document, role Role) *goquery.Selection {
	return doc.Find(Selector(role))
}

// Present reports whether sel matched at least one node.
func Present(sel *goquery.Selection) bool {
	return sel != nil && sel.Length() > 0
}
