package docx

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtract_Paragraphs(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>1.</w:t></w:r></w:p>
    <w:p><w:r><w:t>What is 2+2?</w:t></w:r></w:p>
    <w:p><w:r><w:t>A. </w:t></w:r><w:r><w:t>3</w:t></w:r></w:p>
  </w:body>
</w:document>`

	text, err := NewExtractor().Extract(buildDocx(t, doc))
	require.NoError(t, err)
	assert.Equal(t, "1.\nWhat is 2+2?\nA. 3\n", text)
}

func TestExtract_TabsAndBreaks(t *testing.T) {
	doc := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>left</w:t><w:tab/><w:t>right</w:t></w:r></w:p>
    <w:p><w:r><w:t>first</w:t><w:br/><w:t>second</w:t></w:r></w:p>
  </w:body>
</w:document>`

	text, err := NewExtractor().Extract(buildDocx(t, doc))
	require.NoError(t, err)
	assert.Equal(t, "left\tright\nfirst\nsecond\n", text)
}

func TestExtract_IgnoresNonRunText(t *testing.T) {
	// Character data outside w:t runs (formatting metadata) must not leak.
	doc := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:pPr>style-noise</w:pPr><w:r><w:t>kept</w:t></w:r></w:p>
  </w:body>
</w:document>`

	text, err := NewExtractor().Extract(buildDocx(t, doc))
	require.NoError(t, err)
	assert.Equal(t, "kept\n", text)
}

func TestExtract_NotAZip(t *testing.T) {
	_, err := NewExtractor().Extract([]byte("definitely not a zip archive"))
	assert.Error(t, err)
}

func TestExtract_MissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/other.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<x/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = NewExtractor().Extract(buf.Bytes())
	assert.ErrorContains(t, err, "word/document.xml")
}
