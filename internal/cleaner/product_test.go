package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Felipwz/dataops-governance-lab-TF/internal/domain"
)

func TestCleanProducts_DropsFullDuplicates(t *testing.T) {
	c, _ := newTestCleaner()

	raw := []domain.Product{
		{ID: 1, Name: "Keyboard", Category: "Electronics", Price: 50, Stock: 3, ActiveRaw: "true"},
		{ID: 1, Name: "Keyboard", Category: "Electronics", Price: 50, Stock: 3, ActiveRaw: "true"},
		{ID: 1, Name: "Keyboard", Category: "Electronics", Price: 60, Stock: 3, ActiveRaw: "true"},
	}

	result := c.CleanProducts(raw)

	assert.Len(t, result.Cleaned, 2, "only fully identical rows are duplicates")
	assert.Len(t, result.Dropped, 1)
}

func TestCleanProducts_FixesNegativeValues(t *testing.T) {
	c, sink := newTestCleaner()

	raw := []domain.Product{
		{ID: 2, Name: "Mouse", Category: "Electronics", Price: -19.90, Stock: -5, ActiveRaw: "true"},
	}

	result := c.CleanProducts(raw)

	p := result.Cleaned[0]
	assert.Equal(t, 19.90, p.Price)
	assert.Equal(t, int64(0), p.Stock)

	fields := make(map[string]bool)
	for _, corr := range sink.Corrections {
		fields[corr.Field] = true
	}
	assert.True(t, fields["price"])
	assert.True(t, fields["stock"])
}

func TestCleanProducts_BlankCategoryDefaulted(t *testing.T) {
	c, _ := newTestCleaner()

	raw := []domain.Product{
		{ID: 3, Name: "Cable", Category: "   ", Price: 5, ActiveRaw: "true"},
		{ID: 4, Name: "Desk", Category: "home OFFICE", Price: 200, ActiveRaw: "true"},
	}

	result := c.CleanProducts(raw)

	assert.Equal(t, domain.DefaultCategory, result.Cleaned[0].Category)
	assert.Equal(t, "Home Office", result.Cleaned[1].Category)
}

func TestCleanProducts_ActiveFlagParsing(t *testing.T) {
	c, _ := newTestCleaner()

	raw := []domain.Product{
		{ID: 5, Name: "A", Category: "X", ActiveRaw: "True"},
		{ID: 6, Name: "B", Category: "X", ActiveRaw: "FALSE"},
		{ID: 7, Name: "C", Category: "X", ActiveRaw: "maybe"},
	}

	result := c.CleanProducts(raw)

	assert.True(t, result.Cleaned[0].Active)
	assert.False(t, result.Cleaned[1].Active)
	assert.False(t, result.Cleaned[2].Active, "unrecognized flag defaults to inactive")
}

func TestCleanProducts_ActiveFlagNormalizationLogged(t *testing.T) {
	c, sink := newTestCleaner()

	raw := []domain.Product{
		{ID: 5, Name: "A", Category: "X", ActiveRaw: " true "},
		{ID: 6, Name: "B", Category: "X", ActiveRaw: "FALSE"},
		{ID: 7, Name: "C", Category: "X", ActiveRaw: "true"},
	}

	result := c.CleanProducts(raw)

	assert.Equal(t, "true", result.Cleaned[0].ActiveRaw)
	assert.Equal(t, "false", result.Cleaned[1].ActiveRaw)

	// Every rewrite of the stored flag leaves a correction; the already
	// normalized row leaves none.
	active := make(map[int64]int)
	for _, corr := range sink.Corrections {
		if corr.Field == "active" {
			active[corr.RecordID]++
		}
	}
	assert.Equal(t, 1, active[5], "padded flag rewrite must be audited")
	assert.Equal(t, 1, active[6])
	assert.Zero(t, active[7])
}

func TestCleanProducts_CreationDateParsing(t *testing.T) {
	c, _ := newTestCleaner()

	raw := []domain.Product{
		{ID: 8, Name: "A", Category: "X", ActiveRaw: "true", CreatedAtRaw: "2023-09-10"},
		{ID: 9, Name: "B", Category: "X", ActiveRaw: "true", CreatedAtRaw: "not a date"},
	}

	result := c.CleanProducts(raw)

	assert.NotNil(t, result.Cleaned[0].CreatedAt)
	assert.Nil(t, result.Cleaned[1].CreatedAt, "invalid date is nulled, row is kept")
	assert.Len(t, result.Cleaned, 2)
}

func TestCleanProducts_Idempotent(t *testing.T) {
	c, _ := newTestCleaner()

	raw := []domain.Product{
		{ID: 1, Name: " Keyboard ", Category: "", Price: -10, Stock: -1, ActiveRaw: "TRUE", CreatedAtRaw: "bad"},
	}

	first := c.CleanProducts(raw)

	c2, sink2 := newTestCleaner()
	second := c2.CleanProducts(first.Cleaned)

	assert.Empty(t, sink2.Corrections)
	assert.Equal(t, first.Cleaned, second.Cleaned)
}
