package cmd

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/rcup/internal/api"
	"github.com/felixgeelhaar/rcup/internal/ux"
)

// navigator maps views onto commands. The current view is the running
// command; navigating to another view prints where to go, once.
type navigator struct {
	mu         sync.Mutex
	current    string
	w          io.Writer
	styles     ux.Styles
	redirected bool
}

func newNavigator(cmd *cobra.Command, styles ux.Styles) *navigator {
	return &navigator{
		current: viewOf(cmd),
		w:       cmd.ErrOrStderr(),
		styles:  styles,
	}
}

// viewOf returns the command path without the binary name, e.g. "auth login".
func viewOf(cmd *cobra.Command) string {
	return strings.TrimSpace(strings.TrimPrefix(cmd.CommandPath(), cmd.Root().Name()))
}

func (n *navigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *navigator) Navigate(view string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == view {
		return
	}
	n.current = view
	if view == api.ViewLogin && !n.redirected {
		n.redirected = true
		fmt.Fprintf(n.w, "%s sign in again with: rcup %s\n", n.styles.Warning.Render("Session expired,"), view)
	}
}

// Redirected reports whether the user was sent to the login view.
func (n *navigator) Redirected() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.redirected
}
