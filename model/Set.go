package model

// SetBody define the struct of the body
type SetBody struct {
	Id string `json:"id"`
}
