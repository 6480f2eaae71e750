package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aluiziolira/go-scrape-threads/models"
)

// ParseDetail enriches entry from its detail page.
//
// A missing content container returns a StructureError; callers treat it as
// the end of the detail phase. Title, score and comments are strict and
// return FieldError or ParseError.
func ParseDetail(html string, entry models.Entry, t Table) (models.Post, error) {
	doc, err := newDocument(html)
	if err != nil {
		return models.Post{}, err
	}

	contentRule := t.Rule(DetailContent)
	container := doc.Find(contentRule.Selector).First()
	if container.Length() == 0 {
		return models.Post{}, StructureError{Key: contentRule.Key, Selector: contentRule.Selector, URL: entry.URL}
	}

	var paragraphs []string
	container.Find(t.Rule(DetailParagraph).Selector).Each(func(_ int, p *goquery.Selection) {
		paragraphs = append(paragraphs, strings.TrimSpace(p.Text()))
	})

	post := models.NewPost(entry)
	post.Content = strings.Join(paragraphs, " ")

	// Kept as rendered; it may differ in whitespace from the listing title.
	if post.Title, err = required(doc.Selection, t.Rule(DetailTitle), entry.URL); err != nil {
		return models.Post{}, err
	}

	score, err := required(doc.Selection, t.Rule(DetailScore), entry.URL)
	if err != nil {
		return models.Post{}, err
	}
	post.Score = NormalizeScore(score)

	label, err := required(doc.Selection, t.Rule(DetailComments), entry.URL)
	if err != nil {
		return models.Post{}, err
	}
	if post.Comments, err = ParseComments(label); err != nil {
		return models.Post{}, err
	}

	if v, ok := lookup(doc.Selection, t.Rule(DetailTime)); ok {
		post.PostTime = strings.TrimSpace(v)
	}
	if v, ok := lookup(doc.Selection, t.Rule(DetailAuthorName)); ok {
		post.AuthorName = strings.TrimSpace(v)
	}
	if v, ok := lookup(doc.Selection, t.Rule(DetailAuthorURL)); ok {
		post.AuthorURL = strings.TrimSpace(v)
	}

	return post, nil
}
