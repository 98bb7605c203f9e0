package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/seanhuang1228/buy4me/identifier"
	"github.com/seanhuang1228/buy4me/pubsignals"
	"github.com/seanhuang1228/buy4me/relay"
	"github.com/seanhuang1228/buy4me/store"
	"github.com/seanhuang1228/buy4me/types"
	"go.uber.org/zap"
)

// verify handles POST /verify.
func (s *Server) verify(c *gin.Context) {
	var bundle types.IdentityProofBundle
	if err := c.ShouldBindJSON(&bundle); err != nil {
		s.logger.Debug("invalid verify body", zap.Error(err))
		c.JSON(http.StatusBadRequest, MessageResponse{Message: msgMissingProof})
		return
	}
	if err := bundle.Validate(); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, types.ErrMissingProof) {
			c.JSON(status, MessageResponse{Message: msgMissingProof})
			return
		}
		c.JSON(status, failure(msgVerificationFailed, nil, err))
		return
	}

	out, err := s.relayer.Submit(c.Request.Context(), &bundle)
	if err != nil {
		if errors.Is(err, relay.ErrMalformedRequest) {
			c.JSON(http.StatusBadRequest, failure(msgVerificationFailed, nil, err))
			return
		}
		s.logger.Error(msgVerifyError, zap.Error(err), zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, VerifyErrorResponse{
			Status:  statusError,
			Result:  false,
			Message: msgVerifyError,
			Outcome: out,
			Error:   err.Error(),
		})
		return
	}

	// replays are answered by nullifier alone, so only a proof the verifier
	// accepted in this request may replace the stored one
	if out.Status == relay.StatusConfirmed {
		s.saveProof(&bundle)
	}

	switch out.Status {
	case relay.StatusConfirmed:
		c.JSON(http.StatusOK, success("", out))
	case relay.StatusAlreadyVerified:
		c.JSON(http.StatusOK, success(msgAlreadyVerified, out))
	case relay.StatusPending:
		c.JSON(http.StatusAccepted, VerifySuccessResponse{
			Status:            statusSuccess,
			Result:            false,
			Message:           msgPending,
			Outcome:           out,
			CredentialSubject: map[string]interface{}{},
		})
	case relay.StatusProofInvalid:
		c.JSON(http.StatusBadRequest, failure(msgVerificationFailed, out, nil))
	default:
		c.JSON(http.StatusInternalServerError, VerifyErrorResponse{
			Status:  statusError,
			Result:  false,
			Message: msgVerifyError,
			Outcome: out,
			Error:   out.Reason,
		})
	}
}

// saveProof stores a confirmed bundle under the user identifier it carries.
func (s *Server) saveProof(bundle *types.IdentityProofBundle) {
	signals, err := pubsignals.Parse(bundle.PublicSignals)
	if err != nil {
		return
	}
	userID := signals.UserAddress().Hex()
	if err := s.store.Save(userID, bundle); err != nil {
		s.logger.Warn("failed to store proof", zap.String("userId", userID), zap.Error(err))
	}
}

// zkProof handles GET /zk-proof?userId=.
func (s *Server) zkProof(c *gin.Context) {
	userID := c.Query("userId")
	if !identifier.IsValid(userID) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: errMissingUserID})
		return
	}
	bundle, err := s.store.Load(userID)
	switch {
	case errors.Is(err, store.ErrProofNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: errProofNotFound})
	case errors.Is(err, store.ErrInvalidUserID):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: errMissingUserID})
	case err != nil:
		s.logger.Error("failed to read proof", zap.String("userId", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: errReadProof})
	default:
		c.JSON(http.StatusOK, bundle)
	}
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "relay": s.relayAddress})
}

func (s *Server) methodNotAllowed(c *gin.Context) {
	if c.Request.URL.Path == "/zk-proof" {
		c.JSON(http.StatusMethodNotAllowed, ErrorResponse{Error: errMethodNotAllowed})
		return
	}
	c.JSON(http.StatusMethodNotAllowed, MessageResponse{Message: msgMethodNotAllowed})
}

func success(message string, out *relay.Outcome) VerifySuccessResponse {
	return VerifySuccessResponse{
		Status:            statusSuccess,
		Result:            true,
		Message:           message,
		Outcome:           out,
		CredentialSubject: map[string]interface{}{},
	}
}

func failure(message string, out *relay.Outcome, err error) VerifyFailureResponse {
	details := map[string]interface{}{}
	if out != nil && out.Reason != "" {
		details["reason"] = out.Reason
	}
	if err != nil {
		details["reason"] = err.Error()
	}
	return VerifyFailureResponse{
		Status:  statusError,
		Result:  false,
		Message: message,
		Outcome: out,
		Details: details,
	}
}
