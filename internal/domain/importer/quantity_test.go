package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockbook/internal/domain/ledger"
)

func quantityRow(line int, product, category, qty, date string) RawRow {
	fields := map[string]string{
		FieldProduct:  product,
		FieldCategory: category,
		FieldQuantity: qty,
	}
	if date != "" {
		fields[FieldDate] = date
	}
	return RawRow{Line: line, Fields: fields}
}

func TestPreviewQuantities_MatchesExistingProduct(t *testing.T) {
	catalogKeys := []ledger.ProductKey{
		ledger.NewProductKey("Espresso Beans 1kg", "Coffee"),
	}
	rows := []RawRow{
		quantityRow(1, "espresso beans", "coffee", "12", "05/06/2024"),
	}

	preview := PreviewQuantities(rows, catalogKeys)

	require.Len(t, preview.Updates, 1)
	u := preview.Updates[0]
	assert.True(t, u.Existing)
	assert.Equal(t, "Espresso Beans 1kg", u.Product.Name, "resolved to the catalog identity")
	assert.Equal(t, "espresso beans", u.Imported.Name, "raw sheet identity preserved for review")
	assert.Equal(t, 12, u.Quantity)
	assert.Equal(t, day("2024-06-05"), u.Date)
}

func TestPreviewQuantities_UnmatchedBecomesNewProduct(t *testing.T) {
	rows := []RawRow{
		quantityRow(1, "Hand Grinder", "Equipment", "3", ""),
	}

	preview := PreviewQuantities(rows, nil)

	require.Len(t, preview.Updates, 1)
	u := preview.Updates[0]
	assert.False(t, u.Existing)
	assert.Equal(t, "Hand Grinder", u.Product.Name)
	assert.True(t, u.Date.IsZero(), "date is optional on quantity rows")
}

func TestPreviewQuantities_NoDeduplication(t *testing.T) {
	rows := []RawRow{
		quantityRow(1, "Widget", "Tools", "5", ""),
		quantityRow(2, "Widget", "Tools", "5", ""),
	}

	preview := PreviewQuantities(rows, nil)

	assert.Len(t, preview.Updates, 2, "repeated quantity rows add twice on purpose")
}

func TestPreviewQuantities_CollectsRowErrors(t *testing.T) {
	rows := []RawRow{
		quantityRow(1, "", "Tools", "x", "not a date"),
		quantityRow(2, "Widget", "Tools", "5", ""),
	}

	preview := PreviewQuantities(rows, nil)

	require.Len(t, preview.Updates, 1)
	require.NotEmpty(t, preview.Errors)
	fields := make(map[string]bool)
	for _, e := range preview.Errors {
		assert.Equal(t, 1, e.Row)
		fields[e.Field] = true
	}
	assert.True(t, fields[FieldProduct])
	assert.True(t, fields[FieldQuantity])
	assert.True(t, fields[FieldDate])
}

func TestPreviewQuantities_NegativeQuantityRejected(t *testing.T) {
	rows := []RawRow{
		quantityRow(1, "Widget", "Tools", "-4", ""),
	}

	preview := PreviewQuantities(rows, nil)

	assert.Empty(t, preview.Updates)
	require.Len(t, preview.Errors, 1)
	assert.Equal(t, FieldQuantity, preview.Errors[0].Field)
}
