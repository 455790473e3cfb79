package repokit

import (
	"context"
	"time"

	perr "disasterresponse/internal/platform/errors"
)

type guarder interface {
	Guard(context.Context) error
}

// Guard runs st.Guard under a default 5s deadline when ctx has none and
// maps any failure to an Unavailable error
func Guard(ctx context.Context, st guarder) error {
	if st == nil {
		return perr.Unavailablef("dependency guard: nil store")
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	if err := st.Guard(ctx); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "dependency guard failed")
	}
	return nil
}
