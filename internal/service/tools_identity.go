package service

import (
	"context"
	"encoding/json"
	"errors"

	"clinic-voice-be/internal/entity"
	"clinic-voice-be/pkg/events"
	"clinic-voice-be/pkg/session"
	"clinic-voice-be/pkg/toolgate"
	"clinic-voice-be/pkg/verify"
)

type lookupPatientArgs struct {
	MRN   string `json:"mrn"`
	Phone string `json:"phone"`
}

type sendOTPArgs struct {
	MRN string `json:"mrn" validate:"required"`
}

type verifyOTPArgs struct {
	Code string `json:"code" validate:"required"`
}

func (t *Toolset) registerIdentityTools(registry *toolgate.Registry) {
	registry.Register(&toolgate.Tool{
		Name:        "lookup_patient",
		Description: "Look up a patient record by medical record number (MRN) or registered phone number. Returns masked contact details only.",
		Sensitivity: toolgate.SensitivityIdentity,
		Parameters: objectSchema(map[string]interface{}{
			"mrn":   stringProp("Medical record number, e.g. MRN-5001"),
			"phone": stringProp("Registered phone number in international format, e.g. +971501234567"),
		}),
		Handler: t.lookupPatient,
	})

	registry.Register(&toolgate.Tool{
		Name:        "send_otp",
		Description: "Send a one-time verification code by SMS to the patient's registered phone. Call after lookup_patient confirmed the record.",
		Sensitivity: toolgate.SensitivityIdentity,
		Parameters:  objectSchema(map[string]interface{}{"mrn": stringProp("MRN of the patient to verify")}, "mrn"),
		Handler:     t.sendOTP,
	})

	registry.Register(&toolgate.Tool{
		Name:        "verify_otp",
		Description: "Verify the one-time code the caller reads back. On success the session is verified and sensitive operations unlock.",
		Sensitivity: toolgate.SensitivityIdentity,
		Parameters:  objectSchema(map[string]interface{}{"code": stringProp("The code the caller received by SMS")}, "code"),
		Handler:     t.verifyOTP,
	})
}

func (t *Toolset) lookupPatient(ctx context.Context, _ *session.Session, args json.RawMessage) (map[string]interface{}, error) {
	var req lookupPatientArgs
	if err := toolgate.DecodeArgs(args, &req); err != nil {
		return toolgate.InvalidArgs(err), nil
	}
	if req.MRN == "" && req.Phone == "" {
		return map[string]interface{}{
			"error":   "INVALID_ARGUMENTS",
			"message": "provide an MRN or a phone number",
		}, nil
	}

	var patient *entity.Patient
	var err error
	if req.MRN != "" {
		patient, err = t.patientRepo.FindByMRN(ctx, req.MRN)
	} else {
		patient, err = t.patientRepo.FindByPhone(ctx, req.Phone)
	}
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return map[string]interface{}{
			"found":   false,
			"message": "no patient record matched; ask the caller to double-check the details",
		}, nil
	}

	return map[string]interface{}{
		"found":        true,
		"mrn":          patient.MRN,
		"name":         patient.Name,
		"phone_masked": patient.MaskedPhone(),
	}, nil
}

func (t *Toolset) sendOTP(ctx context.Context, sess *session.Session, args json.RawMessage) (map[string]interface{}, error) {
	var req sendOTPArgs
	if err := toolgate.DecodeArgs(args, &req); err != nil {
		return toolgate.InvalidArgs(err), nil
	}

	patient, err := t.patientRepo.FindByMRN(ctx, req.MRN)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return map[string]interface{}{
			"error":   "PATIENT_NOT_FOUND",
			"message": "no patient record for " + req.MRN,
		}, nil
	}

	// Demo deployments pin the code; production wires a code generator here.
	code := t.cfg.OTP.DemoCode
	if err := t.verifier.SendCode(sess, patient.MRN, code); err != nil {
		return nil, err
	}
	if err := t.smsService.SendVerificationCode(patient.Phone, code); err != nil {
		sess.ResetVerification()
		return nil, err
	}

	return map[string]interface{}{
		"status":       "code_sent",
		"phone_masked": patient.MaskedPhone(),
		"expires_in":   t.cfg.OTP.CodeTTL.String(),
		"message":      "ask the caller to read back the code sent to their phone",
	}, nil
}

func (t *Toolset) verifyOTP(ctx context.Context, sess *session.Session, args json.RawMessage) (map[string]interface{}, error) {
	var req verifyOTPArgs
	if err := toolgate.DecodeArgs(args, &req); err != nil {
		return toolgate.InvalidArgs(err), nil
	}

	candidateMRN := sess.Verification.CandidateMRN
	if err := t.verifier.VerifyCode(sess, req.Code); err != nil {
		switch {
		case errors.Is(err, verify.ErrInvalidState):
			return map[string]interface{}{
				"error":   "INVALID_STATE",
				"message": "no code is pending; send one with send_otp first",
			}, nil
		case errors.Is(err, verify.ErrCodeExpired):
			return map[string]interface{}{
				"error":   "CODE_EXPIRED",
				"message": "the code expired; send a fresh one with send_otp",
			}, nil
		case errors.Is(err, verify.ErrAttemptsExceeded):
			return map[string]interface{}{
				"error":   "ATTEMPTS_EXCEEDED",
				"message": "too many wrong codes; verification has been reset, start over with send_otp",
			}, nil
		case errors.Is(err, verify.ErrCodeMismatch):
			return map[string]interface{}{
				"error":              "CODE_MISMATCH",
				"attempts_remaining": t.verifier.AttemptsRemaining(sess),
				"message":            "that code is not correct",
			}, nil
		default:
			return nil, err
		}
	}

	patient, err := t.patientRepo.FindByMRN(ctx, candidateMRN)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		// Record vanished between send and verify; do not leave the session
		// verified against nothing.
		sess.ResetVerification()
		return map[string]interface{}{
			"error":   "PATIENT_NOT_FOUND",
			"message": "the patient record is no longer available",
		}, nil
	}

	sess.PatientContext = &session.PatientContext{
		PatientID:     patient.MRN,
		DisplayName:   patient.Name,
		PhoneLastFour: patient.PhoneLastFour(),
		VerifiedAt:    sess.Verification.VerifiedAt,
	}

	if err := t.publisher.Publish(events.New(events.TypePatientVerified, map[string]interface{}{
		"session_id":  sess.ID,
		"patient_mrn": patient.MRN,
	})); err != nil {
		t.logger.Warn("toolset", "failed to publish verification event", map[string]interface{}{
			"session_id": sess.ID,
			"error":      err.Error(),
		})
	}

	return map[string]interface{}{
		"status":  "verified",
		"name":    patient.Name,
		"message": "identity confirmed; sensitive operations are now available",
	}, nil
}
