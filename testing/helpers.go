// Package testing provides fixtures and helpers for testing shroud.
package testing

import (
	"context"
	"sync"
	"testing"

	"github.com/zoobzio/shroud"
)

// TestKey returns a valid 32-byte AES key for testing.
func TestKey() []byte {
	return []byte("32-byte-key-for-aes-256-encrypt!")
}

// TestEncryptor returns an AES encryptor configured for testing.
func TestEncryptor(tb testing.TB) shroud.Encryptor {
	tb.Helper()
	enc, err := shroud.AES(TestKey())
	if err != nil {
		tb.Fatalf("AES() error: %v", err)
	}
	return enc
}

// Recorder is a shroud.Sink that keeps every warning it receives.
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

// Warn records message.
func (r *Recorder) Warn(_ context.Context, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

// Messages returns a copy of the recorded warnings.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

// NewAnonymizer returns an Anonymizer with the encrypt method registered
// under TestKey and a Recorder installed as its sink. Extra options are
// applied last.
func NewAnonymizer(tb testing.TB, opts ...shroud.Option) (*shroud.Anonymizer, *Recorder) {
	tb.Helper()
	rec := &Recorder{}
	base := []shroud.Option{
		shroud.WithTransform(shroud.MethodEncrypt, shroud.Encrypt(TestEncryptor(tb))),
		shroud.WithSink(rec),
	}
	a := shroud.New(append(base, opts...)...)
	tb.Cleanup(func() { _ = a.Close() })
	return a, rec
}

// SimplePatient is a test type with no anonymize tags.
type SimplePatient struct {
	ID   string `json:"id" yaml:"id" bson:"id"`
	Name string `json:"name" yaml:"name" bson:"name"`
}

// Address is nested inside Patient.
type Address struct {
	Street string `json:"street" yaml:"street" bson:"street" anonymize:"redact"`
	City   string `json:"city" yaml:"city" bson:"city"`
	Postal string `json:"postal" yaml:"postal" bson:"postal" anonymize:"mask"`
}

// Patient exercises every built-in method and a nested pointer.
// XML uses the field names as element names.
type Patient struct {
	ID      string   `json:"id" yaml:"id" bson:"id"`
	Name    string   `json:"name" yaml:"name" bson:"name" anonymize:"mask,format=name"`
	Email   string   `json:"email" yaml:"email" bson:"email" anonymize:"mask,format=email"`
	SSN     string   `json:"ssn" yaml:"ssn" bson:"ssn" anonymize:"hash"`
	Age     int      `json:"age" yaml:"age" bson:"age" anonymize:"range,interval=5"`
	Notes   string   `json:"notes" yaml:"notes" bson:"notes" anonymize:"redact"`
	Address *Address `json:"address" yaml:"address" bson:"address"`
}

// SecurePatient carries a reversibly encrypted field.
type SecurePatient struct {
	ID    string `json:"id" yaml:"id" bson:"id"`
	Email string `json:"email" yaml:"email" bson:"email" anonymize:"encrypt"`
}

// SamplePatient returns a fully populated Patient.
func SamplePatient() *Patient {
	return &Patient{
		ID:    "p-100",
		Name:  "Alice Jones",
		Email: "alice@example.com",
		SSN:   "123-45-6789",
		Age:   37,
		Notes: "allergic to penicillin",
		Address: &Address{
			Street: "1 Main St",
			City:   "Springfield",
			Postal: "90210",
		},
	}
}

// AnonymizedPatient returns what the default Anonymizer produces for
// SamplePatient.
func AnonymizedPatient() *Patient {
	ssn, _ := shroud.Hash().Apply("123-45-6789")
	return &Patient{
		ID:    "p-100",
		Name:  "A**** J****",
		Email: "a***@example.com",
		SSN:   ssn.(string),
		Age:   35,
		Notes: shroud.RedactedLiteral,
		Address: &Address{
			Street: shroud.RedactedLiteral,
			City:   "Springfield",
			Postal: "*0210",
		},
	}
}
