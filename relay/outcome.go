package relay

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// Status is the final classification of a relay attempt.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	// StatusAlreadyVerified means the nullifier was used before. Informational.
	StatusAlreadyVerified Status = "already_verified"
	// StatusProofInvalid means the proof was rejected and the user must re-prove.
	StatusProofInvalid Status = "proof_invalid"
	// StatusTransactionFailed is a revert or send failure unrelated to the proof.
	StatusTransactionFailed Status = "transaction_failed"
	// StatusPending means the transaction was broadcast but not mined in time.
	StatusPending Status = "pending"
)

// Stage is a step of the relay state machine.
type Stage string

const (
	StageReceived            Stage = "received"
	StageTransformed         Stage = "transformed"
	StageGasEstimated        Stage = "gas_estimated"
	StageGasEstimationFailed Stage = "gas_estimation_failed"
	StageSubmitted           Stage = "submitted"
	StageConfirmed           Stage = "confirmed"
	StageReverted            Stage = "reverted"
	StagePending             Stage = "pending"
)

// Reasons reported without an on-chain revert.
const (
	ReasonNullifierUsed         = "nullifier already verified"
	ReasonDateOfBirthNotExposed = "date of birth not disclosed"
	ReasonPreVerificationFailed = "proof failed off-chain verification"
)

// Outcome is the result of one Submit call.
type Outcome struct {
	ID           uuid.UUID      `json:"id"`
	Status       Status         `json:"status"`
	Stages       []Stage        `json:"stages"`
	TxHash       string         `json:"txHash,omitempty"`
	GasLimit     uint64         `json:"gasLimit,omitempty"`
	GasEstimated bool           `json:"gasEstimated"`
	Reason       string         `json:"reason,omitempty"`
	UserAddress  common.Address `json:"userAddress"`
	Nullifier    string         `json:"nullifier"`
}

// Verified reports whether the identity behind the proof is verified on chain,
// by this attempt or an earlier one.
func (o *Outcome) Verified() bool {
	return o.Status == StatusConfirmed || o.Status == StatusAlreadyVerified
}

func (o *Outcome) enter(s Stage) {
	o.Stages = append(o.Stages, s)
}
