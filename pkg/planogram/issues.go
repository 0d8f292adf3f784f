package planogram

import "fmt"

// IssueCode classifies a domain validation failure.
type IssueCode string

// The validation taxonomy. InvalidCoordinate is checked before bounds
// and collision so that NaN coordinates never reach interval math.
const (
	// IssueMissingMetadata: the product's SKU has no reference metadata.
	// Per-product and non-fatal; the product is omitted from render
	// instances but stays in the configuration.
	IssueMissingMetadata IssueCode = "MISSING_METADATA"

	// IssueOutOfBounds: the placement exceeds the fixture extents.
	IssueOutOfBounds IssueCode = "OUT_OF_BOUNDS"

	// IssueCollision: the placement's AABB overlaps another product on
	// the same shelf and depth level, beyond tolerance.
	IssueCollision IssueCode = "COLLISION"

	// IssueInvalidCoordinate: a coordinate or facing field is
	// non-numeric (NaN/Inf) or structurally missing.
	IssueInvalidCoordinate IssueCode = "INVALID_COORDINATE"
)

// Severity of a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one domain validation finding. Issues are values, not Go
// errors: they accumulate into snapshots and never abort processing.
type Issue struct {
	Code      IssueCode `json:"code"`
	Severity  Severity  `json:"severity"`
	ProductID string    `json:"productId,omitempty"`
	SKU       string    `json:"sku,omitempty"`
	Message   string    `json:"message"`
}

func (i Issue) String() string {
	if i.ProductID != "" {
		return fmt.Sprintf("%s [%s]: %s", i.Code, i.ProductID, i.Message)
	}
	return fmt.Sprintf("%s: %s", i.Code, i.Message)
}

// Errorf builds an error-severity issue.
func Errorf(code IssueCode, productID, format string, args ...any) Issue {
	return Issue{
		Code:      code,
		Severity:  SeverityError,
		ProductID: productID,
		Message:   fmt.Sprintf(format, args...),
	}
}

// Warnf builds a warning-severity issue.
func Warnf(code IssueCode, productID, format string, args ...any) Issue {
	return Issue{
		Code:      code,
		Severity:  SeverityWarning,
		ProductID: productID,
		Message:   fmt.Sprintf(format, args...),
	}
}

// ValidationResult splits issues into errors and warnings.
type ValidationResult struct {
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// Valid reports whether the result carries no errors. Warnings do not
// affect validity.
func (r ValidationResult) Valid() bool { return len(r.Errors) == 0 }

// Add routes an issue to the errors or warnings bucket by severity.
func (r *ValidationResult) Add(issues ...Issue) {
	for _, i := range issues {
		if i.Severity == SeverityWarning {
			r.Warnings = append(r.Warnings, i)
		} else {
			r.Errors = append(r.Errors, i)
		}
	}
}

// HasCode reports whether any error carries the given code.
func (r ValidationResult) HasCode(code IssueCode) bool {
	for _, i := range r.Errors {
		if i.Code == code {
			return true
		}
	}
	return false
}
