package modal

import "errors"

var (
	// ErrReadOnly is returned when a field cannot be changed in the current mode.
	ErrReadOnly = errors.New("field is read-only")
	// ErrInvalidTransition is returned when an action does not apply to the
	// current modal state.
	ErrInvalidTransition = errors.New("action not available in this mode")
	// ErrBusy is returned while a save or delete is still in flight.
	ErrBusy = errors.New("an operation is already in progress")
)

// ValidationError reports a draft that cannot be saved. It is raised before
// any network call.
type ValidationError struct {
	Field   Field
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
