package settlement

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/vyapaari/collect-backend/pkg/types"
)

// PayerFactory fabricates the payer identity attached when a simulated
// payment settles.
type PayerFactory interface {
	NewQRPayer() types.Payer
}

var (
	payerNames = []string{
		"Rajesh Kumar",
		"Priya Sharma",
		"Amit Patel",
		"Sneha Reddy",
		"Vikram Singh",
	}
	payerCities = []string{
		"Mumbai",
		"Delhi",
		"Bangalore",
		"Chennai",
	}
)

// RandomPayerFactory draws synthetic payer identities from fixed pools.
type RandomPayerFactory struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomPayerFactory builds a factory seeded with the provided source.
func NewRandomPayerFactory(seed int64) *RandomPayerFactory {
	return &RandomPayerFactory{rng: rand.New(rand.NewSource(seed))}
}

// NewQRPayer fabricates a payer that looks like a UPI customer.
func (f *RandomPayerFactory) NewQRPayer() types.Payer {
	f.mu.Lock()
	defer f.mu.Unlock()

	return types.Payer{
		Name:    payerNames[f.rng.Intn(len(payerNames))],
		Phone:   fmt.Sprintf("+91 %d", f.rng.Int63n(9000000000)+1000000000),
		Email:   fmt.Sprintf("customer%d@email.com", f.rng.Intn(1000)),
		Address: payerCities[f.rng.Intn(len(payerCities))] + " Area",
		Channel: "UPI",
	}
}

// WalkInPayer is the sentinel identity recorded for cash collections, where
// no payer details are ever captured.
func WalkInPayer() types.Payer {
	return types.Payer{
		Name:    "Walk-in Customer",
		Phone:   "Not provided",
		Email:   "Not provided",
		Address: "Not provided",
		Channel: "Cash",
	}
}
