package models

type contextKey string

const ViewerContextKey contextKey = "viewer"

type User struct {
	ID       string `json:"id"`
	Login    string `json:"login"`
	PassHash []byte `json:"pass_hash"`
}

type Viewer struct {
	IsLoggedIn bool   `json:"isLoggedIn"`
	Username   string `json:"username"`
}

func AnonymousViewer() Viewer {
	return Viewer{}
}

func ViewerFor(user *User) Viewer {
	if user == nil {
		return AnonymousViewer()
	}

	return Viewer{IsLoggedIn: true, Username: user.Login}
}
