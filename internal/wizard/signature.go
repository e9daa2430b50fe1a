package wizard

import "strings"

// SignatureResult classifies a signature attempt.
type SignatureResult string

const (
	SignatureValid          SignatureResult = "valid"
	SignatureMissingConsent SignatureResult = "missing_consent"
	SignatureNameMismatch   SignatureResult = "name_mismatch"
)

// ValidateSignature applies the signing policy: the read confirmation must be
// checked, and the typed name must match the signer's legal full name after
// trimming, case-sensitive. Consent is checked first.
func ValidateSignature(typedName string, hasReadConfirmation bool, legalFullName string) SignatureResult {
	if !hasReadConfirmation {
		return SignatureMissingConsent
	}
	if strings.TrimSpace(typedName) != strings.TrimSpace(legalFullName) {
		return SignatureNameMismatch
	}
	return SignatureValid
}
