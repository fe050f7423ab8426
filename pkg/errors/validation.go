package errors

import "unicode"

// maxLabelLength bounds taxon names accepted from external input.
const maxLabelLength = 256

// ValidateLabel validates a taxon label supplied by a caller (CLI flag,
// API request, trait table). Empty labels are rejected because an empty
// name never identifies a tip.
func ValidateLabel(label string) error {
	if label == "" {
		return New(ErrCodeInvalidInput, "label cannot be empty")
	}

	if len(label) > maxLabelLength {
		return New(ErrCodeInvalidInput, "label too long (max %d characters)", maxLabelLength)
	}

	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "label contains invalid control characters")
		}
	}

	return nil
}

// ValidateLabels validates every label and rejects duplicates.
func ValidateLabels(labels []string) error {
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		if err := ValidateLabel(l); err != nil {
			return err
		}
		if seen[l] {
			return New(ErrCodeInvalidInput, "duplicate label %q", l)
		}
		seen[l] = true
	}
	return nil
}
