package errors

import "fmt"

var (
	ErrNameTaken         = fmt.Errorf("display name already taken")
	ErrNameInvalid       = fmt.Errorf("display name rejected")
	ErrRecipientNotFound = fmt.Errorf("recipient not connected")
	ErrShuttingDown      = fmt.Errorf("server shutting down")
	ErrSessionPanic      = fmt.Errorf("session panic")
)
