package memory_test

import (
	"testing"

	"github.com/aretw0/raybrush/pkg/adapters/memory"
	"github.com/aretw0/raybrush/pkg/ports"
)

func TestOwnership_Contract(t *testing.T) {
	ports.RunOwnershipRegistryContract(t, memory.NewOwnership())
}
