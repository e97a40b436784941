package model

// Profile struct defines user's data architecture
type Profile struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
	Public    bool  `json:"public"`
	Suspended bool  `json:"suspended"`
}

// Gallery is the response of the user route: the profile
// and the posts the viewer is allowed to see
type Gallery struct {
	Profile
	Owner         bool   `json:"owner"`
	CanAccessPost bool   `json:"access_post"`
	Posts         []Post `json:"posts"`
}
