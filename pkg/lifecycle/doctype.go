package lifecycle

import "fmt"

// DocumentType enumerates the documents a resident can request.
type DocumentType string

const (
	DocBarangayClearance DocumentType = "Barangay Clearance"
	DocResidency         DocumentType = "Certificate of Residency"
	DocIndigency         DocumentType = "Certificate of Indigency"
	DocBusinessPermit    DocumentType = "Business Permit"
	DocGoodMoral         DocumentType = "Good Moral Character Certificate"
	DocSoloParent        DocumentType = "Solo Parent Certificate"
)

// priceTable maps document type to fee in centavos. Indigency and Solo Parent
// certificates are free; free documents skip the payment step at approval.
var priceTable = map[DocumentType]int64{
	DocBarangayClearance: 5000,
	DocResidency:         7500,
	DocIndigency:         0,
	DocBusinessPermit:    25000,
	DocGoodMoral:         10000,
	DocSoloParent:        0,
}

// DocumentTypes lists all known types in display order.
func DocumentTypes() []DocumentType {
	return []DocumentType{
		DocBarangayClearance, DocResidency, DocIndigency,
		DocBusinessPermit, DocGoodMoral, DocSoloParent,
	}
}

// ParseDocumentType validates a raw document type value.
func ParseDocumentType(raw string) (DocumentType, error) {
	if _, ok := priceTable[DocumentType(raw)]; !ok {
		return "", fmt.Errorf("unknown document type %q", raw)
	}
	return DocumentType(raw), nil
}

// PriceFor returns the fee in centavos for a document type. The fee is fixed
// on the request at creation; changing this table never reprices an
// outstanding request.
func PriceFor(t DocumentType) (int64, error) {
	amt, ok := priceTable[t]
	if !ok {
		return 0, fmt.Errorf("unknown document type %q", t)
	}
	return amt, nil
}
