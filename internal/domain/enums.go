package domain

// FileType represents the allowed document types for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF: "application/pdf",
	FileTypeJPG: "image/jpeg",
	FileTypePNG: "image/png",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}

// RecordStatus represents the lifecycle of an invoice record. A record is
// created as processing and transitions exactly once to success or error.
type RecordStatus string

const (
	RecordStatusProcessing RecordStatus = "processing"
	RecordStatusSuccess    RecordStatus = "success"
	RecordStatusError      RecordStatus = "error"
)

// ExpenseCategory is the closed set of expense categories the extractor
// classifies invoices into.
type ExpenseCategory string

const (
	CategoryOfficeSupplies    ExpenseCategory = "Office Supplies"
	CategoryTravel            ExpenseCategory = "Travel"
	CategoryFoodEntertainment ExpenseCategory = "Food & Entertainment"
	CategoryUtilities         ExpenseCategory = "Utilities"
	CategoryInventory         ExpenseCategory = "Inventory"
	CategoryMiscellaneous     ExpenseCategory = "Miscellaneous"
	CategoryUncategorized     ExpenseCategory = "Uncategorized"
)

// Categories returns all expense categories in definition order. Dashboard
// breakdowns and extraction prompts rely on this ordering.
func Categories() []ExpenseCategory {
	return []ExpenseCategory{
		CategoryOfficeSupplies,
		CategoryTravel,
		CategoryFoodEntertainment,
		CategoryUtilities,
		CategoryInventory,
		CategoryMiscellaneous,
		CategoryUncategorized,
	}
}

// ValidCategory reports whether c is a member of the closed category set.
func ValidCategory(c ExpenseCategory) bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// ConfidenceLevel is the extractor's qualitative estimate of extraction
// reliability.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "High"
	ConfidenceMedium ConfidenceLevel = "Medium"
	ConfidenceLow    ConfidenceLevel = "Low"
)

// ValidConfidence reports whether l is a known confidence level.
func ValidConfidence(l ConfidenceLevel) bool {
	switch l {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	}
	return false
}
