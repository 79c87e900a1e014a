package hook

import "fmt"

var (
	// ErrHookTypeEmpty is returned when a hook type is empty.
	ErrHookTypeEmpty = fmt.Errorf("hook type cannot be empty")

	// ErrHookExecution is returned when a script does not compile or aborts at runtime.
	ErrHookExecution = fmt.Errorf("error executing hook")

	// ErrHookScript is returned when a script reports a failure through err.
	ErrHookScript = fmt.Errorf("hook script error")

	// ErrHookLoad is returned when a hooks directory cannot be read.
	ErrHookLoad = fmt.Errorf("failed to load hook")
)
