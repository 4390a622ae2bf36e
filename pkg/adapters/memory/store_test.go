package memory_test

import (
	"testing"

	"github.com/tripwell/tripkit/pkg/adapters/memory"
	"github.com/tripwell/tripkit/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunCredentialStoreContract(t, store)
}
