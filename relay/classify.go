package relay

import "strings"

// Verifier errors that mean the proof itself will never pass.
var proofRejections = map[string]struct{}{
	"InvalidVcAndDiscloseProof":     {},
	"InvalidScope":                  {},
	"InvalidAttestationId":          {},
	"InvalidOlderThan":              {},
	"InvalidForbiddenCountries":     {},
	"InvalidOfacCheck":              {},
	"CurrentDateNotInValidRange":    {},
	"InvalidIdentityCommitmentRoot": {},
}

// classifyRevert maps a revert reason of verifySelfProof to an outcome.
func classifyRevert(reason string) Status {
	if reason == "RegisteredNullifier" {
		return StatusAlreadyVerified
	}
	if _, ok := proofRejections[reason]; ok {
		return StatusProofInvalid
	}
	lower := strings.ToLower(reason)
	switch {
	case strings.Contains(lower, "nullifier"):
		return StatusAlreadyVerified
	case strings.Contains(lower, "proof"),
		strings.Contains(lower, "date of birth"),
		strings.Contains(lower, "attestation"),
		strings.Contains(lower, "scope"):
		return StatusProofInvalid
	default:
		return StatusTransactionFailed
	}
}
