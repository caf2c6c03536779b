package flow

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/paulrajswetha/netcurea-api/internal/config"
	"github.com/paulrajswetha/netcurea-api/internal/domain/appointment"
	"github.com/paulrajswetha/netcurea-api/internal/domain/doctor"
	"github.com/paulrajswetha/netcurea-api/pkg/client"
)

type PaymentMethod string

const (
	MethodCard   PaymentMethod = "credit"
	MethodPayPal PaymentMethod = "paypal"
	MethodUPI    PaymentMethod = "upi"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCard, MethodPayPal, MethodUPI:
		return true
	}
	return false
}

// Receipt is what the patient sees after paying.
type Receipt struct {
	TransactionID string
	Amount        float64
	Method        PaymentMethod

	// Fallback marks a receipt issued while masking a persistence failure.
	Fallback bool
}

const fallbackTransactionID = "TXN-999999"

// Payment simulates capturing the consultation fee and persists the
// Pending → Completed payment transition.
//
// When MaskFailures is on (the historical behavior), a failed persistence
// call still produces a success receipt with a synthetic transaction id, and
// persistence is attempted once more. Product has flagged this policy for
// review; turning the flag off surfaces the failure instead.
type Payment struct {
	backend Backend
	store   *Store
	cfg     config.PaymentConfig
	log     *zap.Logger

	rng *rand.Rand
}

func NewPayment(backend Backend, store *Store, cfg config.PaymentConfig, log *zap.Logger) *Payment {
	return &Payment{
		backend: backend,
		store:   store,
		cfg:     cfg,
		log:     log,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Fee resolves the consultation fee for the appointment's doctor. When the
// doctor lookup fails the base fee applies, matching what the confirmation
// screen has always charged in that case.
func (p *Payment) Fee(ctx context.Context, a *appointment.Appointment) float64 {
	d, err := p.backend.Doctor(ctx, a.DoctorID)
	if err != nil {
		p.log.Warn("doctor lookup for fee failed, using base fee", zap.Error(err))
		return doctor.DefaultFee
	}
	return doctor.ConsultationFee(d.Specialization)
}

// Process captures the payment. A missing method is rejected before anything
// is sent; an already-completed payment is never re-captured.
func (p *Payment) Process(ctx context.Context, a *appointment.Appointment, method PaymentMethod) (*Receipt, error) {
	if !method.IsValid() {
		return nil, ErrNoPaymentMethod
	}
	if a.PaymentStatus == appointment.PaymentCompleted {
		return nil, appointment.ErrPaymentAlreadyCompleted
	}

	amount := p.Fee(ctx, a)

	// Simulated gateway processing.
	select {
	case <-time.After(p.cfg.ProcessingDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	receipt := &Receipt{
		TransactionID: fmt.Sprintf("TXN-%06d", p.rng.Intn(1_000_000)),
		Amount:        amount,
		Method:        method,
	}

	completed := appointment.PaymentCompleted
	updated, err := p.backend.UpdateAppointment(ctx, a.ID, &client.UpdateRequest{PaymentStatus: &completed})
	if err != nil {
		if !p.cfg.MaskFailures {
			return nil, err
		}

		// Historical policy: the patient committed to paying, so the
		// screen never shows a failure. Report success with the synthetic
		// id and try persisting once more.
		p.log.Warn("payment persistence failed, masking as success",
			zap.String("appointment_id", a.ID.String()),
			zap.Error(err),
		)
		receipt.TransactionID = fallbackTransactionID
		receipt.Fallback = true

		if _, rerr := p.backend.UpdateAppointment(ctx, a.ID, &client.UpdateRequest{PaymentStatus: &completed}); rerr != nil {
			p.log.Error("payment persistence retry failed; backend still shows Pending",
				zap.String("appointment_id", a.ID.String()),
				zap.Error(rerr),
			)
		}
		a.PaymentStatus = appointment.PaymentCompleted
	} else {
		a.PaymentStatus = updated.PaymentStatus
	}

	if p.store != nil {
		p.store.Invalidate(ctx, ResourceAppointments, ResourceExpenses)
	}
	return receipt, nil
}
