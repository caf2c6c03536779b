// Package client is the REST client the workflow engine uses to talk to the
// appointment backend. The backend is authoritative for the slot table; this
// client only translates HTTP outcomes into the error taxonomy the workflows
// branch on.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/paulrajswetha/netcurea-api/internal/config"
	"github.com/paulrajswetha/netcurea-api/internal/domain/appointment"
	"github.com/paulrajswetha/netcurea-api/internal/domain/availability"
	"github.com/paulrajswetha/netcurea-api/internal/domain/doctor"
)

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

type Option func(*Client)

// WithHTTPClient swaps the underlying transport, used by tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithToken sets the bearer token attached to every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromConfig builds a client from the BACKEND_* environment settings.
func FromConfig(cfg config.ClientConfig, opts ...Option) *Client {
	return New(cfg.BaseURL, cfg.Timeout, opts...)
}

// SetToken updates the bearer token after login.
func (c *Client) SetToken(token string) {
	c.token = token
}

type slotTime struct {
	Time string `json:"time"`
}

// Availability fetches the bookable times for a doctor on a date. An empty
// slice means the doctor has no openings; that is not an error.
func (c *Client) Availability(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error) {
	q := url.Values{}
	q.Set("doctor_user_id", doctorID.String())
	q.Set("date", date)

	var slots []slotTime
	if err := c.do(ctx, http.MethodGet, "/availability?"+q.Encode(), nil, &slots); err != nil {
		return nil, err
	}

	times := make([]string, 0, len(slots))
	for _, s := range slots {
		times = append(times, s.Time)
	}
	return times, nil
}

type BookRequest struct {
	DoctorID  uuid.UUID `json:"doctor_user_id"`
	PatientID uuid.UUID `json:"patient_user_id"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Notes     string    `json:"notes"`
}

func (c *Client) BookAppointment(ctx context.Context, req *BookRequest) (*appointment.Appointment, error) {
	var a appointment.Appointment
	if err := c.do(ctx, http.MethodPost, "/appointments", req, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

type UpdateRequest struct {
	Status        *appointment.Status        `json:"status,omitempty"`
	PaymentStatus *appointment.PaymentStatus `json:"payment_status,omitempty"`
}

func (c *Client) UpdateAppointment(ctx context.Context, id uuid.UUID, req *UpdateRequest) (*appointment.Appointment, error) {
	var a appointment.Appointment
	if err := c.do(ctx, http.MethodPut, "/appointments/"+id.String(), req, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) CancelAppointment(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/appointments/"+id.String(), nil, nil)
}

type AppointmentsFilter struct {
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
	Status    *appointment.Status
}

func (c *Client) Appointments(ctx context.Context, f *AppointmentsFilter) ([]*appointment.Appointment, error) {
	q := url.Values{}
	if f != nil {
		if f.DoctorID != nil {
			q.Set("doctor_user_id", f.DoctorID.String())
		}
		if f.PatientID != nil {
			q.Set("patient_user_id", f.PatientID.String())
		}
		if f.Status != nil {
			q.Set("status", string(*f.Status))
		}
	}

	path := "/appointments"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var appts []*appointment.Appointment
	if err := c.do(ctx, http.MethodGet, path, nil, &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

func (c *Client) Doctors(ctx context.Context, hospitalID *uuid.UUID, includeAvailability bool) ([]*doctor.Doctor, error) {
	q := url.Values{}
	if hospitalID != nil {
		q.Set("hospital_user_id", hospitalID.String())
	}
	if includeAvailability {
		q.Set("include_availability", "true")
	}

	path := "/doctors"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var doctors []*doctor.Doctor
	if err := c.do(ctx, http.MethodGet, path, nil, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

func (c *Client) Doctor(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	var d doctor.Doctor
	if err := c.do(ctx, http.MethodGet, "/doctors/"+id.String(), nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) AddSlot(ctx context.Context, date, t string) (*availability.Slot, error) {
	body := map[string]string{"date": date, "time": t}
	var s availability.Slot
	if err := c.do(ctx, http.MethodPost, "/availability", body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) RemoveSlot(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/availability/"+id.String(), nil, nil)
}

type errorBody struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransientError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.mapError(resp)
	}

	if out != nil {
		// Responses either carry the resource directly or wrap it in {"data": ...}.
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return &TransientError{Err: err}
		}
		var wrapped struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Data) > 0 {
			raw = wrapped.Data
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func (c *Client) mapError(resp *http.Response) error {
	var eb errorBody
	_ = json.NewDecoder(resp.Body).Decode(&eb)
	msg := eb.Error
	if msg == "" {
		msg = resp.Status
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, msg)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case resp.StatusCode == http.StatusBadRequest:
		return &ValidationError{Fields: []string{msg}}
	case resp.StatusCode >= 500:
		return &TransientError{Err: fmt.Errorf("%s", msg)}
	default:
		return fmt.Errorf("unexpected response %d: %s", resp.StatusCode, msg)
	}
}
