package flow

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/paulrajswetha/netcurea-api/internal/domain/appointment"
)

// BillingSnapshot is the static bill built entirely from already-fetched
// data; rendering it makes no backend call.
type BillingSnapshot struct {
	AppointmentID string
	TokenNumber   int
	PatientName   string
	DoctorName    string
	HospitalName  string
	Date          string
	Time          string
	Status        string
	Notes         string
	Amount        float64
}

// NewBillingSnapshot captures an appointment's final state for the bill.
// Names come from the caller because the snapshot never re-fetches.
func NewBillingSnapshot(a *appointment.Appointment, patientName, doctorName, hospitalName string) *BillingSnapshot {
	cost := a.Cost
	if cost == 0 {
		cost = defaultCost
	}
	notes := a.Notes
	if notes == "" {
		notes = "None"
	}
	return &BillingSnapshot{
		AppointmentID: a.ID.String(),
		TokenNumber:   a.TokenSeq,
		PatientName:   patientName,
		DoctorName:    doctorName,
		HospitalName:  hospitalName,
		Date:          a.Date,
		Time:          a.Time,
		Status:        string(a.Status),
		Notes:         notes,
		Amount:        cost,
	}
}

// RenderPDF writes the bill as a single-page PDF.
func (s *BillingSnapshot) RenderPDF() ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Appointment Bill")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 12)
	lines := []string{
		fmt.Sprintf("Appointment ID: %s", s.AppointmentID),
		fmt.Sprintf("Token Number: %d", s.TokenNumber),
		fmt.Sprintf("Patient: %s", s.PatientName),
		fmt.Sprintf("Doctor: %s", s.DoctorName),
		fmt.Sprintf("Hospital: %s", s.HospitalName),
		fmt.Sprintf("Date: %s", s.Date),
		fmt.Sprintf("Time: %s", s.Time),
		fmt.Sprintf("Status: %s", s.Status),
		fmt.Sprintf("Notes: %s", s.Notes),
		fmt.Sprintf("Amount: INR %.2f", s.Amount),
	}
	for _, line := range lines {
		pdf.Cell(0, 8, line)
		pdf.Ln(10)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering bill: %w", err)
	}
	return buf.Bytes(), nil
}
