package checkinstore

import (
	"context"
	"testing"

	"github.com/Marina-Point-YC/raceday-api/internal/adapters/contracttest"
	checkinstoreport "github.com/Marina-Point-YC/raceday-api/internal/ports/out/checkinstore"
)

func TestStore_Contract(t *testing.T) {
	t.Parallel()
	contracttest.RunCheckInStore(t, func(t *testing.T) (checkinstoreport.Store, contracttest.CheckInSeedFunc, contracttest.CleanupFunc) {
		s := NewStore()
		seed := func(_ context.Context, c checkinstoreport.CheckIn) error {
			s.Add(c)
			return nil
		}
		return s, seed, nil
	})
}
