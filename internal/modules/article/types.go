package article

import (
	"time"

	"github.com/easy-read/core/internal/models"
)

// SummaryDTO is one alternate rendering of a paragraph at a reading level.
type SummaryDTO struct {
	Level int    `json:"level"`
	Text  string `json:"text" binding:"required"`
}

// ParagraphDTO carries a paragraph with its optional image and summaries.
type ParagraphDTO struct {
	Index     int          `json:"index"`
	Header    string       `json:"header"`
	ImageID   *string      `json:"imageId"`
	ImageAlt  string       `json:"imageAlt"`
	ImageCite string       `json:"imageCite"`
	Summaries []SummaryDTO `json:"summaries" binding:"required,min=1"`
}

// SourceDTO carries the article's source metadata.
type SourceDTO struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Link    string `json:"link"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// ArticleDTO is the request body for creating or saving an article. Saving
// replaces the article's collections wholesale, so the full tree is always
// submitted.
type ArticleDTO struct {
	Title       string         `json:"title" binding:"required"`
	Description string         `json:"description"`
	ImageID     *string        `json:"imageId"`
	ImageAlt    string         `json:"imageAlt"`
	ImageCite   string         `json:"imageCite"`
	Source      SourceDTO      `json:"source"`
	Categories  []string       `json:"categories"`
	Paragraphs  []ParagraphDTO `json:"paragraphs" binding:"required,min=1"`
}

type summaryResponse struct {
	ParagraphIndex int    `json:"paragraphIndex"`
	Level          int    `json:"level"`
	Text           string `json:"text"`
}

type paragraphResponse struct {
	Index     int                `json:"index"`
	Header    string             `json:"header"`
	Image     *models.ImageModel `json:"image,omitempty"`
	Summaries []summaryResponse  `json:"summaries"`
}

type articleResponse struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      string              `json:"status"`
	AuthorID    string              `json:"authorId"`
	PublisherID *string             `json:"publisherId"`
	Image       *models.ImageModel  `json:"image,omitempty"`
	Source      SourceDTO           `json:"source"`
	Categories  []string            `json:"categories"`
	Paragraphs  []paragraphResponse `json:"paragraphs"`
}

// listItem is one row in the author's or publisher's article listing.
type listItem struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Status        string             `json:"status"`
	Image         *models.ImageModel `json:"image,omitempty"`
	NoteID        *string            `json:"noteId,omitempty"`
	Slug          *string            `json:"slug,omitempty"`
	IsActive      *bool              `json:"isActive,omitempty"`
	DatePublished *time.Time         `json:"datePublished,omitempty"`
	AuthorName    string             `json:"authorName,omitempty"`
}

// ToResponse flattens an article tree into the API shape. Exported for the
// publishing and public modules, which render the same tree.
func ToResponse(a *models.ArticleModel) articleResponse {
	resp := articleResponse{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Status:      a.Status,
		AuthorID:    a.AuthorID,
		PublisherID: a.PublisherID,
		Image:       a.Image,
	}
	if a.Source != nil {
		resp.Source = SourceDTO{
			Title:   a.Source.Title,
			Author:  a.Source.Author,
			Link:    a.Source.Link,
			Name:    a.Source.Name,
			Contact: a.Source.Contact,
		}
	}
	resp.Categories = make([]string, 0, len(a.Categories))
	for _, cat := range a.Categories {
		resp.Categories = append(resp.Categories, cat.Name)
	}

	byIndex := make(map[int][]summaryResponse)
	for _, s := range a.Summaries {
		byIndex[s.ParagraphIndex] = append(byIndex[s.ParagraphIndex], summaryResponse{
			ParagraphIndex: s.ParagraphIndex,
			Level:          s.Level,
			Text:           s.Text,
		})
	}
	resp.Paragraphs = make([]paragraphResponse, 0, len(a.Paragraphs))
	for _, p := range a.Paragraphs {
		resp.Paragraphs = append(resp.Paragraphs, paragraphResponse{
			Index:     p.Index,
			Header:    p.Header,
			Image:     p.Image,
			Summaries: byIndex[p.Index],
		})
	}
	return resp
}
