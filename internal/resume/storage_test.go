package resume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTextPlain(t *testing.T) {
	content, err := ExtractText([]byte("plain text résumé"), ".txt")
	require.NoError(t, err)
	assert.Equal(t, "plain text résumé", content)
}

func TestExtractTextUnknownExtensionTreatedAsText(t *testing.T) {
	content, err := ExtractText([]byte("markdown résumé"), ".md")
	require.NoError(t, err)
	assert.Equal(t, "markdown résumé", content)
}

func TestExtractTextBrokenPDF(t *testing.T) {
	_, err := ExtractText([]byte("not a pdf at all"), ".pdf")
	assert.Error(t, err)
}
