// Package api is the HTTP client for the Russian Cup REST API.
//
// Every request passes through a Pipeline composed at construction time:
// BeforeSend attaches the stored bearer credential, OnError reacts to
// responses the server rejected. A 401 on any endpoint other than the
// token-issuance endpoint clears the stored credential and sends the user to
// the login view once. All other failures are logged and returned to the
// caller; nothing is retried.
package api
