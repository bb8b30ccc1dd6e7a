package providers

import (
	"testing"

	"github.com/silvertone-audio/duplexvoice/pkg/voice"
)

func TestRegistryRegisterAndNew(t *testing.T) {
	r := &Registry{factories: make(map[string]ResponderFactory)}
	r.Register("noop", func(settings map[string]string) (voice.Responder, error) {
		return nil, nil
	})
	if _, err := r.New("noop", nil); err != nil {
		t.Fatalf("New(noop): %v", err)
	}
	if _, err := r.New("missing", nil); err == nil {
		t.Fatalf("expected an error for an unregistered provider name")
	}
}

func TestRegistryNamesListsRegistered(t *testing.T) {
	r := &Registry{factories: make(map[string]ResponderFactory)}
	r.Register("a", func(settings map[string]string) (voice.Responder, error) { return nil, nil })
	r.Register("b", func(settings map[string]string) (voice.Responder, error) { return nil, nil })
	names := r.Names()
	if len(names) != 2 {
		t.Fatalf("Names() = %v, want 2 entries", names)
	}
}

func TestGetRegistryIsASingleton(t *testing.T) {
	if GetRegistry() != GetRegistry() {
		t.Fatalf("GetRegistry() should return the same instance across calls")
	}
}
