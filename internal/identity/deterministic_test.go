package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDIsStable(t *testing.T) {
	first := DocumentUUID("Hello-World")
	second := DocumentUUID("  hello-world ")
	if first != second {
		t.Fatalf("expected normalized slugs to share an id, got %s and %s", first, second)
	}
	if first == uuid.Nil {
		t.Fatal("expected non-nil uuid")
	}
}

func TestUUIDEmptyKey(t *testing.T) {
	if got := UUID("   "); got != uuid.Nil {
		t.Fatalf("expected nil uuid for empty key, got %s", got)
	}
}

func TestDocumentUUIDNamespacesSlug(t *testing.T) {
	if DocumentUUID("intro") == DocumentUUID("outro") {
		t.Fatal("expected distinct slugs to map to distinct ids")
	}
	if DocumentUUID("intro") == UUID("intro") {
		t.Fatal("expected document ids to be namespaced")
	}
}
