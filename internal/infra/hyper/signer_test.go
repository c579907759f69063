package hyper

import "testing"

func TestSigner_Headers(t *testing.T) {
	s := NewSigner("0xabc", "secret-key")
	h := s.Headers([]byte(`{"action":{}}`))

	if h["X-HL-Account"] != "0xabc" {
		t.Errorf("account header = %q", h["X-HL-Account"])
	}
	if h["X-HL-Timestamp"] == "" {
		t.Error("timestamp header missing")
	}
	if len(h["X-HL-Signature"]) != 64 {
		t.Errorf("signature not hex sha256: %q", h["X-HL-Signature"])
	}
}

func TestSigner_SignatureDependsOnBody(t *testing.T) {
	s := NewSigner("0xabc", "secret-key")
	a := s.Headers([]byte("body-a"))
	b := s.Headers([]byte("body-b"))
	if a["X-HL-Signature"] == b["X-HL-Signature"] {
		t.Error("different bodies produced the same signature")
	}
}

func TestSigner_Wipe(t *testing.T) {
	s := NewSigner("0xabc", "secret-key")
	s.Wipe()
	for i, b := range s.privateKey {
		if b != 0 {
			t.Fatalf("key byte %d not wiped", i)
		}
	}
	// Wipe on nil must not panic.
	var nilSigner *Signer
	nilSigner.Wipe()
}
