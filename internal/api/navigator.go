package api

// ViewLogin is the view the pipeline sends the user to when the server
// rejects the stored credential.
const ViewLogin = "auth login"

// Navigator moves the user between views.
type Navigator interface {
	// Current returns the view the user is on.
	Current() string

	// Navigate switches to view.
	Navigate(view string)
}

type nopNavigator struct{}

func (nopNavigator) Current() string { return "" }
func (nopNavigator) Navigate(string) {}
