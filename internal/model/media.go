package model

import "time"

type MediaFile struct {
	ID           int64     `json:"id,string"`
	Folder       string    `json:"folder"`
	OriginalName string    `json:"originalName"`
	StoredName   string    `json:"storedName"`
	ContentType  string    `json:"contentType"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	CreatedAt    time.Time `json:"createdAt"`
}
