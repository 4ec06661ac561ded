package verify

import (
	"testing"
	"time"

	"clinic-voice-be/pkg/session"

	"github.com/stretchr/testify/assert"
)

func newSession() *session.Session {
	now := time.Now().UTC()
	return &session.Session{
		ID:           "test-session",
		CreatedAt:    now,
		LastActiveAt: now,
		ExpiresAt:    now.Add(24 * time.Hour),
		Verification: session.Verification{State: session.StateUnverified},
	}
}

func TestSendAndVerifyCode(t *testing.T) {
	v := NewVerifier(3, 5*time.Minute)
	sess := newSession()

	assert.NoError(t, v.SendCode(sess, "MRN-5001", "123456"))
	assert.Equal(t, session.StateOTPSent, sess.Verification.State)
	assert.Equal(t, "MRN-5001", sess.Verification.CandidateMRN)
	assert.NotEqual(t, "123456", sess.Verification.CodeHash, "code must not be stored in clear text")

	assert.NoError(t, v.VerifyCode(sess, "123456"))
	assert.Equal(t, session.StateVerified, sess.Verification.State)
	assert.Equal(t, "MRN-5001", sess.Verification.PatientID)
	assert.NotNil(t, sess.Verification.VerifiedAt)
	assert.Empty(t, sess.Verification.CodeHash)
}

func TestVerifyWithoutPendingCode(t *testing.T) {
	v := NewVerifier(3, 5*time.Minute)
	sess := newSession()

	assert.ErrorIs(t, v.VerifyCode(sess, "123456"), ErrInvalidState)
	assert.Equal(t, session.StateUnverified, sess.Verification.State)
}

func TestWrongCodeBurnsAttempts(t *testing.T) {
	v := NewVerifier(3, 5*time.Minute)
	sess := newSession()
	assert.NoError(t, v.SendCode(sess, "MRN-5001", "123456"))

	assert.ErrorIs(t, v.VerifyCode(sess, "000000"), ErrCodeMismatch)
	assert.Equal(t, 2, v.AttemptsRemaining(sess))
	assert.ErrorIs(t, v.VerifyCode(sess, "111111"), ErrCodeMismatch)
	assert.Equal(t, 1, v.AttemptsRemaining(sess))

	// Third failure resets verification entirely.
	assert.ErrorIs(t, v.VerifyCode(sess, "222222"), ErrAttemptsExceeded)
	assert.Equal(t, session.StateUnverified, sess.Verification.State)
	assert.Empty(t, sess.Verification.CodeHash)

	// The correct code no longer works after the reset.
	assert.ErrorIs(t, v.VerifyCode(sess, "123456"), ErrInvalidState)
}

func TestReissueResetsAttempts(t *testing.T) {
	v := NewVerifier(3, 5*time.Minute)
	sess := newSession()
	assert.NoError(t, v.SendCode(sess, "MRN-5001", "123456"))
	assert.ErrorIs(t, v.VerifyCode(sess, "000000"), ErrCodeMismatch)
	assert.ErrorIs(t, v.VerifyCode(sess, "000000"), ErrCodeMismatch)

	assert.NoError(t, v.SendCode(sess, "MRN-5001", "654321"))
	assert.Equal(t, 3, v.AttemptsRemaining(sess))
	assert.NoError(t, v.VerifyCode(sess, "654321"))
	assert.Equal(t, session.StateVerified, sess.Verification.State)
}

func TestReissueFromVerifiedDropsOldIdentity(t *testing.T) {
	v := NewVerifier(3, 5*time.Minute)
	sess := newSession()
	assert.NoError(t, v.SendCode(sess, "MRN-5001", "123456"))
	assert.NoError(t, v.VerifyCode(sess, "123456"))
	sess.PatientContext = &session.PatientContext{PatientID: "MRN-5001", DisplayName: "Test Patient"}

	// Starting verification over for a different patient must not let the
	// old identity ride along with the new pending code.
	assert.NoError(t, v.SendCode(sess, "MRN-5002", "654321"))
	assert.Equal(t, session.StateOTPSent, sess.Verification.State)
	assert.Equal(t, "MRN-5002", sess.Verification.CandidateMRN)
	assert.Empty(t, sess.Verification.PatientID)
	assert.Nil(t, sess.Verification.VerifiedAt)
	assert.Nil(t, sess.PatientContext)
}

func TestExpiredCode(t *testing.T) {
	v := NewVerifier(3, 5*time.Minute)
	sess := newSession()
	assert.NoError(t, v.SendCode(sess, "MRN-5001", "123456"))

	v.now = func() time.Time { return time.Now().Add(6 * time.Minute) }
	assert.ErrorIs(t, v.VerifyCode(sess, "123456"), ErrCodeExpired)
	assert.Equal(t, session.StateUnverified, sess.Verification.State)
}
