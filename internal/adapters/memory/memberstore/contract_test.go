package memberstore

import (
	"testing"

	"github.com/Marina-Point-YC/raceday-api/internal/adapters/contracttest"
	memberstoreport "github.com/Marina-Point-YC/raceday-api/internal/ports/out/memberstore"
)

func TestStore_Contract(t *testing.T) {
	t.Parallel()
	contracttest.RunMemberStore(t, func(t *testing.T) (memberstoreport.Store, contracttest.CleanupFunc) {
		return NewStore(), nil
	})
}
