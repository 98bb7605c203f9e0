package server

import "github.com/seanhuang1228/buy4me/relay"

const (
	statusSuccess = "success"
	statusError   = "error"

	msgMissingProof       = "Proof and publicSignals are required"
	msgVerificationFailed = "Verification failed or date of birth not disclosed"
	msgAlreadyVerified    = "Identity already verified"
	msgPending            = "Verification submitted, waiting for confirmation"
	msgVerifyError        = "Error verifying proof"
	msgMethodNotAllowed   = "Method not allowed"

	errMissingUserID   = "Missing or invalid userId"
	errProofNotFound   = "Proof not found for this userId"
	errReadProof       = "Failed to read proof file"
	errMethodNotAllowed = "Method Not Allowed"
)

// VerifySuccessResponse is returned when the identity is verified on chain.
type VerifySuccessResponse struct {
	Status            string                 `json:"status"`
	Result            bool                   `json:"result"`
	Message           string                 `json:"message,omitempty"`
	Outcome           *relay.Outcome         `json:"outcome,omitempty"`
	CredentialSubject map[string]interface{} `json:"credentialSubject"`
}

// VerifyFailureResponse is returned for rejected proofs.
type VerifyFailureResponse struct {
	Status  string                 `json:"status"`
	Result  bool                   `json:"result"`
	Message string                 `json:"message"`
	Outcome *relay.Outcome         `json:"outcome,omitempty"`
	Details map[string]interface{} `json:"details"`
}

// VerifyErrorResponse is returned when the relay itself failed.
type VerifyErrorResponse struct {
	Status  string         `json:"status"`
	Result  bool           `json:"result"`
	Message string         `json:"message"`
	Outcome *relay.Outcome `json:"outcome,omitempty"`
	Error   string         `json:"error"`
}

// ErrorResponse is the plain error body of the proof lookup.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse carries only a message.
type MessageResponse struct {
	Message string `json:"message"`
}
