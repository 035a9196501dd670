package ops

import (
	"time"

	"github.com/hpungsan/roster/internal/directory"
	"github.com/hpungsan/roster/internal/errors"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	ID   int       // required
	Org  string    // optional, default: DefaultOrg
	AsOf time.Time // optional, default: now
}

// Fetch returns the detail view of one employee.
func Fetch(store *directory.Store, input FetchInput) (*Detail, error) {
	if input.ID <= 0 {
		return nil, errors.NewInvalidRequest("id must be a positive integer")
	}

	st := directory.NewState(store).Select(input.ID)
	rec, ok := st.Selected()
	if !ok {
		return nil, errors.NewNotFound(input.ID)
	}
	return RenderDetail(&rec, asOfOrNow(input.AsOf), input.Org), nil
}
