package memres

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
)

// Sentinel error kinds from §7. All allocators compare against these with
// errors.Is; call sites that need extra context wrap them with
// github.com/pkg/errors so the sentinel survives the wrap.
var (
	// ErrOutOfMemory is raised when no block of the requested size exists
	// after any split attempts.
	ErrOutOfMemory = errors.New("memres: out of memory")

	// ErrForeignBlock is raised on Deallocate of a pointer this resource
	// did not hand out.
	ErrForeignBlock = errors.New("memres: foreign block")

	// ErrInvalidArgument covers a zero-sized region or an unrecognized fit
	// mode passed to SetFitMode.
	ErrInvalidArgument = errors.New("memres: invalid argument")
)

// WithContext attaches a message to err while keeping it unwrappable to the
// original sentinel via errors.Is/errors.As.
func WithContext(err error, msg string) error {
	return pkgerrors.Wrap(err, msg)
}
