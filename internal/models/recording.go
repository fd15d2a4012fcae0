package models

import (
	"io"
	"time"
)

// RecordingUpload is an incoming audio file before it is stored.
type RecordingUpload struct {
	OriginalName string
	ContentType  string
	Size         int64
	Body         io.Reader
}

type Recording struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"originalName"`
	StoredName   string    `json:"storedName"`
	ContentType  string    `json:"contentType"`
	Size         int64     `json:"size"`
	Location     string    `json:"location"`
	CreatedAt    time.Time `json:"createdAt"`
}

type SaveRecordingResponse struct {
	Message   string     `json:"message"`
	Recording *Recording `json:"recording"`
}
