package model

type Subject struct {
	ID   int64  `json:"subject_id"`
	Name string `json:"subject_name"`
}
