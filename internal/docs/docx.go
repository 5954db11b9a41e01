// Package docs generates the downloadable field reference document from the
// label schema, so the download never depends on a checked-in binary file.
package docs

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

const (
	relationshipContent = `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

	contentTypes = `<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`
)

// encodeParagraphs converts plain-text paragraphs into a DOCX payload.
func encodeParagraphs(paragraphs []string) ([]byte, error) {
	if len(paragraphs) == 0 {
		paragraphs = []string{""}
	}
	documentXML, err := buildDocumentXML(paragraphs)
	if err != nil {
		return nil, err
	}

	buffer := &bytes.Buffer{}
	archive := zip.NewWriter(buffer)

	if err := writeZipFile(archive, "[Content_Types].xml", []byte(contentTypes)); err != nil {
		return nil, err
	}
	if err := writeZipFile(archive, "_rels/.rels", []byte(relationshipContent)); err != nil {
		return nil, err
	}
	if err := writeZipFile(archive, "word/document.xml", []byte(documentXML)); err != nil {
		return nil, err
	}

	if err := archive.Close(); err != nil {
		return nil, fmt.Errorf("docx_close: %w", err)
	}
	return buffer.Bytes(), nil
}

func writeZipFile(archive *zip.Writer, name string, data []byte) error {
	writer, err := archive.Create(name)
	if err != nil {
		return fmt.Errorf("docx_zip_entry: %w", err)
	}
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("docx_zip_write: %w", err)
	}
	return nil
}

func buildDocumentXML(paragraphs []string) (string, error) {
	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	builder.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`)
	builder.WriteString(`<w:body>`)
	for _, paragraph := range paragraphs {
		text := strings.ReplaceAll(paragraph, "\r", "")
		if text == "" {
			builder.WriteString(`<w:p/>`)
			continue
		}
		builder.WriteString(`<w:p><w:r>`)
		segments := strings.Split(text, "\n")
		for idx, segment := range segments {
			builder.WriteString(`<w:t>`)
			if err := xml.EscapeText(&builder, []byte(segment)); err != nil {
				return "", fmt.Errorf("docx_escape: %w", err)
			}
			builder.WriteString(`</w:t>`)
			if idx < len(segments)-1 {
				builder.WriteString(`<w:br/>`)
			}
		}
		builder.WriteString(`</w:r></w:p>`)
	}
	builder.WriteString(`<w:sectPr><w:pgSz w:w="12240" w:h="15840"/><w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440"/></w:sectPr>`)
	builder.WriteString(`</w:body></w:document>`)
	return builder.String(), nil
}
