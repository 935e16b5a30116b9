package dto

type DocumentType string

const (
	DocTypeKTP      DocumentType = "ktp"
	DocTypePassport DocumentType = "passport"
)

// ParseDocumentType maps a request value onto a document type. The empty
// string selects KTP.
func ParseDocumentType(s string) (DocumentType, error) {
	switch DocumentType(s) {
	case "", DocTypeKTP:
		return DocTypeKTP, nil
	case DocTypePassport:
		return DocTypePassport, nil
	}
	return "", ErrUnsupportedDocType
}

// Source names where a result's fields came from.
type Source string

const (
	SourceOCR     Source = "ocr"
	SourceQR      Source = "qr"
	SourcePDFText Source = "pdf_text"
	SourceLLM     Source = "llm"
)
