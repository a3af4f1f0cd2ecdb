package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractEntities(t *testing.T) {
	text := "Call 555-123-4567 or +1 (212) 555-0199, email bob@example.com, " +
		"details at https://example.com/offer and www.example.org. " +
		"Meet on 12/25/2024 or 2024-12-31 at 3:30 PM or 14:45. " +
		"It costs $25.50 or about 30 dollars."

	info := ExtractEntities(text)

	assert.Equal(t, []string{"555-123-4567", "+1 (212) 555-0199"}, info.PhoneNumbers)
	assert.Equal(t, []string{"bob@example.com"}, info.Emails)
	assert.Len(t, info.URLs, 2)
	assert.Equal(t, []string{"12/25/2024", "2024-12-31"}, info.Dates)
	assert.Equal(t, []string{"3:30 PM", "14:45"}, info.Times)
	assert.Equal(t, []string{"$25.50", "30 dollars"}, info.Prices)
}

func TestExtractEntitiesEmpty(t *testing.T) {
	info := ExtractEntities("nothing interesting here")

	assert.Empty(t, info.PhoneNumbers)
	assert.Empty(t, info.Emails)
	assert.Empty(t, info.URLs)
	assert.Empty(t, info.Dates)
	assert.Empty(t, info.Times)
	assert.Empty(t, info.Prices)
}

func TestExtractEntitiesKeepsDuplicatesInOrder(t *testing.T) {
	info := ExtractEntities("ping a@b.co then a@b.co again")
	assert.Equal(t, []string{"a@b.co", "a@b.co"}, info.Emails)
}

func TestExtractPhoneIgnoresDatesAndPrices(t *testing.T) {
	info := ExtractEntities("pay $1000 by 2024-01-15 or 12/25/2024")
	assert.Empty(t, info.PhoneNumbers)
	assert.Equal(t, []string{"$1000"}, info.Prices)
	assert.Equal(t, []string{"2024-01-15", "12/25/2024"}, info.Dates)
}
