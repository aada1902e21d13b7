package models

// Comment is a pull request comment
type Comment struct {
	ID   int64
	Body string
}
