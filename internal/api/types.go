package api

// User is the account of the signed-in user or a chat member.
type User struct {
	ID          int    `json:"id"`
	FirstName   string `json:"first_name"`
	SecondName  string `json:"second_name"`
	DisplayName string `json:"display_name"`
	Login       string `json:"login"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Avatar      string `json:"avatar"`
	Role        string `json:"role,omitempty"`
}

// Name returns the display name, falling back to the full name and the login.
func (u User) Name() string {
	switch {
	case u.DisplayName != "":
		return u.DisplayName
	case u.FirstName != "" || u.SecondName != "":
		if u.SecondName == "" {
			return u.FirstName
		}
		if u.FirstName == "" {
			return u.SecondName
		}
		return u.FirstName + " " + u.SecondName
	}
	return u.Login
}

// SignInRequest is the body of POST /auth/signin.
type SignInRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// SignUpRequest is the body of POST /auth/signup.
type SignUpRequest struct {
	FirstName  string `json:"first_name"`
	SecondName string `json:"second_name"`
	Login      string `json:"login"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Phone      string `json:"phone"`
}

// ProfileRequest is the body of PUT /user/profile.
type ProfileRequest struct {
	FirstName   string `json:"first_name"`
	SecondName  string `json:"second_name"`
	DisplayName string `json:"display_name"`
	Login       string `json:"login"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

// PasswordRequest is the body of PUT /user/password.
type PasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// LastMessage is the newest message of a chat in the chat list.
type LastMessage struct {
	User    User   `json:"user"`
	Time    string `json:"time"`
	Content string `json:"content"`
}

// Chat is an entry of the chat list.
type Chat struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Avatar      string       `json:"avatar"`
	UnreadCount int          `json:"unread_count"`
	CreatedBy   int          `json:"created_by"`
	LastMessage *LastMessage `json:"last_message"`
}

// ChatsQuery filters GET /chats.
type ChatsQuery struct {
	Offset int
	Limit  int
	Title  string
}

// ChatFile is a file shared in a chat.
type ChatFile struct {
	ID          int    `json:"id"`
	UserID      int    `json:"user_id"`
	Path        string `json:"path"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	ContentSize int    `json:"content_size"`
	UploadDate  string `json:"upload_date"`
}
