package ui

import "errors"

// ErrInvalidForm is returned by SubmitAdd when the form is incomplete. No request is sent.
var ErrInvalidForm = errors.New("invalid form")
