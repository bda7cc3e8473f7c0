// Package psp is the seam to the external settlement partner. The real
// processor is out of scope; the simulator accepts submissions and hands
// back a reference the IPN callback later echoes.
package psp

import (
	"context"
	"strings"

	"paygate/internal/models"

	"github.com/google/uuid"
)

type Client interface {
	SubmitPayout(ctx context.Context, payout *models.Payout) (string, error)
}

type Simulator struct{}

func NewSimulator() *Simulator {
	return &Simulator{}
}

// SubmitPayout records the submission and returns the expected PSP
// reference. The simulated partner always accepts; outcomes arrive via
// the IPN callback endpoint.
func (s *Simulator) SubmitPayout(ctx context.Context, payout *models.Payout) (string, error) {
	ref := "PSP-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
	return ref, nil
}
