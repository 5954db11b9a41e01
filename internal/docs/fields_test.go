package docs

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestFieldsDocIsValidDocx(t *testing.T) {
	data, err := FieldsDoc()
	if err != nil {
		t.Fatalf("generate doc: %v", err)
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open docx archive: %v", err)
	}

	var document string
	for _, entry := range reader.File {
		if entry.Name != "word/document.xml" {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			t.Fatalf("open document.xml: %v", err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read document.xml: %v", err)
		}
		document = string(content)
	}
	if document == "" {
		t.Fatalf("document.xml missing from archive")
	}

	for _, want := range []string{"申请表详细字段说明", "【项目负责人信息】", "【投融资信息】", "项目类型", "在孵企业"} {
		if !strings.Contains(document, want) {
			t.Fatalf("document missing %q", want)
		}
	}
}

func TestEncodeParagraphsEscapesMarkup(t *testing.T) {
	data, err := encodeParagraphs([]string{"a < b & c"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	for _, entry := range reader.File {
		if entry.Name != "word/document.xml" {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			t.Fatalf("open entry: %v", err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read entry: %v", err)
		}
		if !strings.Contains(string(content), "a &lt; b &amp; c") {
			t.Fatalf("markup not escaped: %s", content)
		}
	}
}
