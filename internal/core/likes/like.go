package likes

// LikeResult is the upstream server's verdict after persisting a toggle
type LikeResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}

// ToggleOutcome is what the coordinator reports back to the rendering layer.
// Synced=false means the remote call failed and the visible state was rolled
// back to its pre-toggle values; the UI may show a non-blocking notice.
type ToggleOutcome struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
	Synced    bool `json:"synced"`
}
