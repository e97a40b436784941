package model

// Post struct defines how post must be
type Post struct {
	Id           string `json:"id"`
	Hash         []any  `json:"hash"`
	Description  string `json:"description"`
	Text         string `json:"text"`
	Like         int64  `json:"like"`
	CommentCount int64  `json:"comment_count"`
	Liked        bool   `json:"liked"`
	Author       string `json:"author"`
	Comments     []any  `json:"comments,omitempty"`
}

// FirstHash returns the hash of the cover image, or an
// empty string if the post has no image
func (p Post) FirstHash() string {
	if len(p.Hash) == 0 {
		return ""
	}

	hash, _ := p.Hash[0].(string)
	return hash
}
