package syndication

import (
	"context"
	"encoding/xml"
	"time"

	"github.com/zivana-montessori/core/internal/models"
	"github.com/zivana-montessori/core/internal/pkg/markdown"
)

type feedItem struct {
	Title   string
	Link    string
	GUID    string
	Author  string
	PubDate time.Time
	Summary string
	HTML    string
}

// feedItems returns the newest published articles.
func (h *Handler) feedItems(ctx context.Context) ([]feedItem, error) {
	var articles []models.ArticleModel
	err := h.db.WithContext(ctx).
		Where("published = ?", true).
		Order("published_at DESC").
		Limit(feedLimit).
		Find(&articles).Error
	if err != nil {
		return nil, err
	}
	items := make([]feedItem, len(articles))
	for i, a := range articles {
		pub := a.CreatedAt
		if a.PublishedAt != nil {
			pub = *a.PublishedAt
		}
		items[i] = feedItem{
			Title:   a.Title,
			Link:    articleURL(h.siteURL, a.ID),
			GUID:    a.ID,
			Author:  a.Author,
			PubDate: pub,
			Summary: markdown.Excerpt(a.Content, 280),
			HTML:    markdown.Render(a.Content),
		}
	}
	return items, nil
}

func articleURL(base, id string) string {
	return base + "/artikel/" + id
}

type cdata struct {
	Text string `xml:",cdata"`
}

type rssDoc struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	Author      string `xml:"author,omitempty"`
	PubDate     string `xml:"pubDate"`
	Description cdata  `xml:"description"`
}

func buildRSS(site string, now time.Time, items []feedItem) ([]byte, error) {
	doc := rssDoc{
		Version: "2.0",
		Channel: rssChannel{
			Title:         siteTitle,
			Link:          site,
			Description:   siteDescription,
			Language:      "id",
			LastBuildDate: now.Format(time.RFC1123Z),
			Items:         make([]rssItem, len(items)),
		},
	}
	for i, it := range items {
		doc.Channel.Items[i] = rssItem{
			Title:       it.Title,
			Link:        it.Link,
			GUID:        it.GUID,
			Author:      it.Author,
			PubDate:     it.PubDate.Format(time.RFC1123Z),
			Description: cdata{it.HTML},
		}
	}
	return marshalXML(doc)
}

type atomDoc struct {
	XMLName  xml.Name    `xml:"http://www.w3.org/2005/Atom feed"`
	Title    string      `xml:"title"`
	Subtitle string      `xml:"subtitle"`
	Link     atomLink    `xml:"link"`
	Updated  string      `xml:"updated"`
	ID       string      `xml:"id"`
	Entries  []atomEntry `xml:"entry"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomContent struct {
	Type string `xml:"type,attr"`
	Text string `xml:",cdata"`
}

type atomEntry struct {
	Title   string      `xml:"title"`
	Link    atomLink    `xml:"link"`
	ID      string      `xml:"id"`
	Updated string      `xml:"updated"`
	Author  atomAuthor  `xml:"author"`
	Summary string      `xml:"summary"`
	Content atomContent `xml:"content"`
}

func buildAtom(site string, now time.Time, items []feedItem) ([]byte, error) {
	doc := atomDoc{
		Title:    siteTitle,
		Subtitle: siteDescription,
		Link:     atomLink{Href: site},
		Updated:  now.Format(time.RFC3339),
		ID:       site + "/",
		Entries:  make([]atomEntry, len(items)),
	}
	for i, it := range items {
		doc.Entries[i] = atomEntry{
			Title:   it.Title,
			Link:    atomLink{Href: it.Link},
			ID:      it.Link,
			Updated: it.PubDate.Format(time.RFC3339),
			Author:  atomAuthor{Name: it.Author},
			Summary: it.Summary,
			Content: atomContent{Type: "html", Text: it.HTML},
		}
	}
	return marshalXML(doc)
}

func marshalXML(v any) ([]byte, error) {
	out, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
