package verify

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"clinic-voice-be/pkg/session"
)

var (
	ErrInvalidState     = errors.New("no verification code is pending for this session")
	ErrCodeMismatch     = errors.New("verification code does not match")
	ErrCodeExpired      = errors.New("verification code has expired")
	ErrAttemptsExceeded = errors.New("too many failed verification attempts")
)

// Verifier drives the per-session identity state machine. Codes are never
// stored in clear text; only a bcrypt hash lives in the session record.
type Verifier struct {
	maxAttempts int
	codeTTL     time.Duration
	now         func() time.Time
}

func NewVerifier(maxAttempts int, codeTTL time.Duration) *Verifier {
	return &Verifier{
		maxAttempts: maxAttempts,
		codeTTL:     codeTTL,
		now:         time.Now,
	}
}

// SendCode records that a code was issued for the candidate patient and moves
// the session to OTP_SENT. Re-issuing replaces the previous code and resets
// the attempt counter. Issuing from VERIFIED drops the established identity
// first: a session may hold a pending code or a verified patient, never both.
func (v *Verifier) SendCode(sess *session.Session, candidateMRN, code string) error {
	if sess.Verification.State == session.StateVerified {
		sess.ResetVerification()
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	issued := v.now()
	sess.Verification.State = session.StateOTPSent
	sess.Verification.CandidateMRN = candidateMRN
	sess.Verification.CodeHash = string(hash)
	sess.Verification.IssuedAt = &issued
	sess.Verification.AttemptCount = 0
	return nil
}

// VerifyCode checks the submitted code against the pending hash. On success
// the session transitions to VERIFIED and the code material is cleared. A
// mismatch burns one attempt; once attempts run out the verification resets
// to UNVERIFIED and a fresh code must be requested.
func (v *Verifier) VerifyCode(sess *session.Session, code string) error {
	vs := &sess.Verification
	if vs.State != session.StateOTPSent || vs.CodeHash == "" || vs.IssuedAt == nil {
		return ErrInvalidState
	}
	if v.now().Sub(*vs.IssuedAt) > v.codeTTL {
		sess.ResetVerification()
		return ErrCodeExpired
	}
	if err := bcrypt.CompareHashAndPassword([]byte(vs.CodeHash), []byte(code)); err != nil {
		vs.AttemptCount++
		if vs.AttemptCount >= v.maxAttempts {
			sess.ResetVerification()
			return ErrAttemptsExceeded
		}
		return ErrCodeMismatch
	}

	verifiedAt := v.now()
	vs.State = session.StateVerified
	vs.PatientID = vs.CandidateMRN
	vs.VerifiedAt = &verifiedAt
	vs.CodeHash = ""
	vs.IssuedAt = nil
	vs.CandidateMRN = ""
	vs.AttemptCount = 0
	return nil
}

// AttemptsRemaining reports how many tries are left for the pending code.
func (v *Verifier) AttemptsRemaining(sess *session.Session) int {
	remaining := v.maxAttempts - sess.Verification.AttemptCount
	if remaining < 0 {
		return 0
	}
	return remaining
}
