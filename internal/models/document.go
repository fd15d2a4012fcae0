package models

type DocumentKind string

const (
	KindPlainText DocumentKind = "text/plain"
	KindPDF       DocumentKind = "application/pdf"
)

// UploadedDocument lives only for the duration of one upload request.
type UploadedDocument struct {
	Filename string
	Kind     DocumentKind
	Data     []byte
}
