package service

import (
	"fmt"

	"github.com/hivetax/hivetax-platform/internal/models"
)

type FlowState string

const (
	FlowIdle         FlowState = "idle"
	FlowMethodChosen FlowState = "method_chosen"
	FlowFormValid    FlowState = "form_valid"
	FlowFormInvalid  FlowState = "form_invalid"
	FlowSubmitting   FlowState = "submitting"
	FlowSettled      FlowState = "settled"
)

// SettlementFlow enforces the settlement lifecycle:
//
//	Idle -> MethodChosen -> FormValid|FormInvalid -> Submitting -> Settled
//
// FormInvalid loops back through MethodChosen on corrected input. Settled is
// terminal; a new transaction starts a new flow.
type SettlementFlow struct {
	state  FlowState
	method models.PaymentMethod
	errors models.FieldErrors
}

func NewSettlementFlow() *SettlementFlow {
	return &SettlementFlow{state: FlowIdle}
}

func (f *SettlementFlow) State() FlowState {
	return f.state
}

func (f *SettlementFlow) Method() models.PaymentMethod {
	return f.method
}

func (f *SettlementFlow) FieldErrors() models.FieldErrors {
	return f.errors
}

// SelectMethod resets the attempt and clears prior validation errors.
func (f *SettlementFlow) SelectMethod(method models.PaymentMethod) error {
	switch f.state {
	case FlowSubmitting, FlowSettled:
		return fmt.Errorf("cannot change payment method in state %q", f.state)
	}

	f.method = method
	f.errors = nil
	f.state = FlowMethodChosen

	return nil
}

// Validate applies the method-specific field rules and moves the flow to
// FormValid or FormInvalid.
func (f *SettlementFlow) Validate(attempt *models.PaymentAttempt) (models.FieldErrors, error) {
	switch f.state {
	case FlowMethodChosen, FlowFormValid, FlowFormInvalid:
	default:
		return nil, fmt.Errorf("cannot validate in state %q", f.state)
	}

	if attempt.Method != f.method {
		return nil, fmt.Errorf("attempt method %q does not match chosen method %q", attempt.Method, f.method)
	}

	f.errors = ValidatePaymentAttempt(attempt)

	if len(f.errors) > 0 {
		f.state = FlowFormInvalid
	} else {
		f.state = FlowFormValid
	}

	return f.errors, nil
}

// BeginSubmit is rejected while any field errors remain.
func (f *SettlementFlow) BeginSubmit() error {
	if f.state != FlowFormValid {
		return fmt.Errorf("cannot submit in state %q", f.state)
	}

	f.state = FlowSubmitting

	return nil
}

func (f *SettlementFlow) Complete() error {
	if f.state != FlowSubmitting {
		return fmt.Errorf("cannot complete in state %q", f.state)
	}

	f.state = FlowSettled

	return nil
}

// Fail returns a failed submission to MethodChosen so the buyer can retry.
func (f *SettlementFlow) Fail() error {
	if f.state != FlowSubmitting {
		return fmt.Errorf("cannot fail in state %q", f.state)
	}

	f.state = FlowMethodChosen

	return nil
}
