package services

import (
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"alfredoptarigan/interview-coach/internal/models"
)

const invalidFileTypeMessage = "Invalid file type. Only TXT and PDF files are allowed."

type DocumentExtractor interface {
	Extract(doc models.UploadedDocument) (string, error)
}

type documentExtractor struct {
	pdfParser PDFParserService
}

func NewDocumentExtractor(pdfParser PDFParserService) DocumentExtractor {
	return &documentExtractor{pdfParser: pdfParser}
}

// Extract implements DocumentExtractor.
func (e *documentExtractor) Extract(doc models.UploadedDocument) (string, error) {
	switch doc.Kind {
	case models.KindPlainText:
		return string(doc.Data), nil
	case models.KindPDF:
		text, err := e.pdfParser.ExtractText(doc.Data)
		if err != nil {
			return "", &models.ExtractionError{Filename: doc.Filename, Err: err}
		}
		return text, nil
	default:
		return "", models.NewValidationError(invalidFileTypeMessage)
	}
}

// ResolveKind maps a declared part content type to a document kind. Generic
// or missing declarations fall back to sniffing the payload.
func ResolveKind(declared string, data []byte) (models.DocumentKind, error) {
	mediaType := ""
	if declared != "" {
		parsed, _, err := mime.ParseMediaType(declared)
		if err != nil {
			return "", models.NewValidationError(invalidFileTypeMessage)
		}
		mediaType = strings.ToLower(parsed)
	}

	switch mediaType {
	case string(models.KindPlainText):
		return models.KindPlainText, nil
	case string(models.KindPDF):
		return models.KindPDF, nil
	case "", "application/octet-stream":
		detected := mimetype.Detect(data)
		switch {
		case detected.Is(string(models.KindPDF)):
			return models.KindPDF, nil
		case detected.Is(string(models.KindPlainText)):
			return models.KindPlainText, nil
		}
	}

	return "", models.NewValidationError(invalidFileTypeMessage)
}
