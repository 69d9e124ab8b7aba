package ingestion

import (
	"bytes"
	"fmt"
	"mime"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Supported resume content types.
const (
	ContentTypePDF   = "application/pdf"
	ContentTypeDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypePlain = "text/plain"
)

// UnsupportedTypeError is returned for resume formats that cannot be read.
type UnsupportedTypeError struct {
	ContentType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported resume type: %q", e.ContentType)
}

// DetectContentType resolves the effective content type from a declared
// type, falling back to the file extension of name.
func DetectContentType(declared, name string) string {
	if declared != "" {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil {
			switch mediaType {
			case ContentTypePDF, ContentTypeDOCX, ContentTypePlain, "text/markdown":
				return mediaType
			}
		}
	}

	switch strings.ToLower(path.Ext(name)) {
	case ".pdf":
		return ContentTypePDF
	case ".docx":
		return ContentTypeDOCX
	case ".txt", ".md":
		return ContentTypePlain
	}
	return declared
}

// ExtractText returns the cleaned plain text of a resume file.
func ExtractText(contentType string, data []byte) (string, error) {
	var (
		text string
		err  error
	)

	switch contentType {
	case ContentTypePlain, "text/markdown":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("resume text is not valid UTF-8")
		}
		text = string(data)
	case ContentTypePDF:
		text, err = extractPDFText(data)
	case ContentTypeDOCX:
		text, err = extractDocxText(data)
	default:
		return "", &UnsupportedTypeError{ContentType: contentType}
	}
	if err != nil {
		return "", err
	}

	return CleanText(text), nil
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read pdf page %d: %w", i, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer func() { _ = doc.Close() }()

	return stripXMLTags(doc.Editable().GetContent()), nil
}

// stripXMLTags reduces WordprocessingML to its text runs, one paragraph per line.
func stripXMLTags(content string) string {
	var sb strings.Builder
	inTag := false
	var tag strings.Builder

	for _, r := range content {
		switch {
		case r == '<':
			inTag = true
			tag.Reset()
		case r == '>' && inTag:
			inTag = false
			if name := tag.String(); name == "/w:p" || strings.HasPrefix(name, "w:br") {
				sb.WriteByte('\n')
			} else if strings.HasPrefix(name, "w:tab") {
				sb.WriteByte(' ')
			}
		case inTag:
			tag.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}
	return htmlUnescaper.Replace(sb.String())
}

var htmlUnescaper = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'")
