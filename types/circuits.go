package types

// CircuitID names a proof circuit; verification keys are stored under this name.
type CircuitID string

const (
	// VcAndDiscloseCircuitID is the selective-disclosure circuit whose proofs the relay forwards.
	VcAndDiscloseCircuitID CircuitID = "vc_and_disclose"
)
