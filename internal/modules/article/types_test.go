package article

import (
	"testing"
	"time"

	"github.com/easy-read/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToResponseGroupsSummariesByParagraph(t *testing.T) {
	pub := "pub-1"
	art := &models.ArticleModel{
		Base:        models.Base{ID: "a-1"},
		Title:       "A Day at the Museum",
		Description: "desc",
		Status:      "draft",
		AuthorID:    "u-1",
		PublisherID: &pub,
		Source:      &models.SourceModel{Title: "Original", Link: "https://example.com"},
		Categories: []models.CategoryModel{
			{Name: "culture"},
			{Name: "local"},
		},
		Paragraphs: []models.ParagraphModel{
			{Index: 0, Header: "Intro"},
			{Index: 1, Header: "Body"},
		},
		Summaries: []models.SummaryModel{
			{ParagraphIndex: 0, Level: 1, Text: "easy intro"},
			{ParagraphIndex: 0, Level: 2, Text: "harder intro"},
			{ParagraphIndex: 1, Level: 1, Text: "easy body"},
		},
	}

	resp := ToResponse(art)

	assert.Equal(t, "a-1", resp.ID)
	assert.Equal(t, "Original", resp.Source.Title)
	assert.Equal(t, []string{"culture", "local"}, resp.Categories)

	require.Len(t, resp.Paragraphs, 2)
	assert.Equal(t, "Intro", resp.Paragraphs[0].Header)
	require.Len(t, resp.Paragraphs[0].Summaries, 2)
	assert.Equal(t, "easy intro", resp.Paragraphs[0].Summaries[0].Text)
	assert.Equal(t, "harder intro", resp.Paragraphs[0].Summaries[1].Text)
	require.Len(t, resp.Paragraphs[1].Summaries, 1)
	assert.Equal(t, "easy body", resp.Paragraphs[1].Summaries[0].Text)
}

func TestToResponseHandlesEmptyTree(t *testing.T) {
	resp := ToResponse(&models.ArticleModel{Base: models.Base{ID: "a-1"}, Title: "Untitled"})

	assert.NotNil(t, resp.Categories)
	assert.Empty(t, resp.Categories)
	assert.NotNil(t, resp.Paragraphs)
	assert.Empty(t, resp.Paragraphs)
	assert.Nil(t, resp.Image)
}

func TestSortListingOrdersNewestPublicationFirst(t *testing.T) {
	older := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	items := []listItem{
		{ID: "a", DatePublished: nil},
		{ID: "b", DatePublished: &older},
		{ID: "c", DatePublished: &newer},
		{ID: "d", DatePublished: nil},
	}

	sortListing(items)

	assert.Equal(t, "c", items[0].ID, "newest publication first")
	assert.Equal(t, "b", items[1].ID)
	assert.Equal(t, "d", items[2].ID, "unpublished by id descending")
	assert.Equal(t, "a", items[3].ID)
}

func TestListingLessTreatsPublishedAboveUnpublished(t *testing.T) {
	when := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	published := listItem{ID: "a", DatePublished: &when}
	unpublished := listItem{ID: "z"}

	assert.True(t, listingLess(published, unpublished))
	assert.False(t, listingLess(unpublished, published))
}
