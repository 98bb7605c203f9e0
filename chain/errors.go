package chain

import (
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
)

// ErrNetworkFailure marks errors where the node could not be reached. Retryable.
var ErrNetworkFailure = errors.New("network failure")

// Custom errors raised by the identity verifier and the pass contracts.
var knownCustomErrors = []string{
	"RegisteredNullifier()",
	"InvalidScope()",
	"InvalidAttestationId()",
	"InvalidVcAndDiscloseProof()",
	"InvalidOlderThan()",
	"InvalidForbiddenCountries()",
	"InvalidOfacCheck()",
	"CurrentDateNotInValidRange()",
	"InvalidIdentityCommitmentRoot()",
	"NotEnoughPayment()",
	"ExceedMaxTicketAmount()",
	"CannotActOnBehalf()",
}

var customErrorBySelector = func() map[[4]byte]string {
	m := make(map[[4]byte]string, len(knownCustomErrors))
	for _, sig := range knownCustomErrors {
		var sel [4]byte
		copy(sel[:], crypto.Keccak256([]byte(sig))[:4])
		m[sel] = strings.TrimSuffix(sig, "()")
	}
	return m
}()

// CustomErrorSelector returns the 4-byte selector of a parameterless custom error.
func CustomErrorSelector(name string) []byte {
	return crypto.Keccak256([]byte(name + "()"))[:4]
}

// IsRevert reports whether err is an EVM revert reported by the node.
func IsRevert(err error) bool {
	if err == nil {
		return false
	}
	if _, ok := revertData(err); ok {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "execution reverted")
}

// RevertReason extracts a human-readable reason from a revert error.
// The second value is false when err carries no revert information.
func RevertReason(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	data, ok := revertData(err)
	if !ok || len(data) < 4 {
		if strings.Contains(strings.ToLower(err.Error()), "execution reverted") {
			msg := err.Error()
			if i := strings.Index(msg, "execution reverted:"); i >= 0 {
				return strings.TrimSpace(msg[i+len("execution reverted:"):]), true
			}
			return "", true
		}
		return "", false
	}
	return DecodeRevert(data), true
}

// DecodeRevert turns revert return data into a reason string.
func DecodeRevert(data []byte) string {
	if reason, err := abi.UnpackRevert(data); err == nil {
		return reason
	}
	if len(data) >= 4 {
		var sel [4]byte
		copy(sel[:], data[:4])
		if name, ok := customErrorBySelector[sel]; ok {
			return name
		}
	}
	return hexutil.Encode(data)
}

func revertData(err error) ([]byte, bool) {
	var de rpc.DataError
	if !errors.As(err, &de) {
		return nil, false
	}
	switch v := de.ErrorData().(type) {
	case string:
		b, decErr := hexutil.Decode(v)
		if decErr != nil {
			return nil, false
		}
		return b, true
	case []byte:
		return v, true
	default:
		return nil, false
	}
}

// IsNetworkError reports whether err means the node was unreachable or the
// transport broke, as opposed to the node answering with an error.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNetworkFailure) {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= 500 || httpErr.StatusCode == 429
	}
	return false
}

// WrapNetwork tags transport failures with ErrNetworkFailure and leaves other
// errors untouched.
func WrapNetwork(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if IsNetworkError(err) && !errors.Is(err, ErrNetworkFailure) {
		return &networkError{msg: msg, cause: err}
	}
	return errors.WithMessage(err, msg)
}

type networkError struct {
	msg   string
	cause error
}

func (e *networkError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.msg, ErrNetworkFailure, e.cause)
}

func (e *networkError) Unwrap() error { return e.cause }

func (e *networkError) Is(target error) bool { return target == ErrNetworkFailure }
