package likes

import "errors"

var (
	// ErrUsernameRequired indicates the caller has no identified user
	ErrUsernameRequired = errors.New("username is required")

	// ErrPostUnknown indicates the post is neither cached nor supplied as a snapshot
	ErrPostUnknown = errors.New("post not known to cache and no snapshot supplied")
)
