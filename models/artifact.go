package models

// PipelineArtifact is a rendered file persisted to object storage.
type PipelineArtifact struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
}

// User is the authenticated caller resolved from a bearer token.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
