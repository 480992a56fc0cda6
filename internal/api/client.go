// Package api is the typed client of the messenger REST API.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/vcrobe/nojs-messenger/internal/transport"
	"github.com/vcrobe/nojs-messenger/logger"
)

// Requester sends one HTTP request. *transport.Client implements it.
type Requester interface {
	Request(ctx context.Context, url string, opts transport.Options) (*transport.Response, error)
}

// Client calls the REST API rooted at a base URL.
type Client struct {
	base string
	http Requester
	log  *logger.Logger
}

// New creates a Client for baseURL, e.g. https://ya-praktikum.tech/api/v2.
func New(baseURL string, r Requester, log *logger.Logger) *Client {
	return &Client{
		base: strings.TrimSuffix(baseURL, "/"),
		http: r,
		log:  logger.OrNop(log).Named("api"),
	}
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string { return c.base }

// call sends a request and decodes a 2xx JSON body into out when out is not
// nil. Non-2xx responses come back as *Error.
func (c *Client) call(ctx context.Context, op, method, path string, data, out any) error {
	resp, err := c.http.Request(ctx, c.base+path, transport.Options{
		Method:  method,
		Data:    data,
		Headers: map[string]string{"Accept": "application/json"},
	})
	if err != nil {
		return fmt.Errorf("api: %s: %w", op, err)
	}
	if err := checkResponse(op, resp); err != nil {
		c.log.Debugw("request rejected", "op", op, "status", resp.Status)
		return err
	}
	if out == nil || resp.Body == "" || resp.Body == "OK" {
		return nil
	}
	if err := resp.JSON(out); err != nil {
		return fmt.Errorf("api: %s: decode response: %w", op, err)
	}
	return nil
}

// SignIn opens a session.
func (c *Client) SignIn(ctx context.Context, req SignInRequest) error {
	return c.call(ctx, "sign in", http.MethodPost, "/auth/signin", req, nil)
}

// SignUp creates an account and opens a session. Returns the new user id.
func (c *Client) SignUp(ctx context.Context, req SignUpRequest) (int, error) {
	var out struct {
		ID int `json:"id"`
	}
	err := c.call(ctx, "sign up", http.MethodPost, "/auth/signup", req, &out)
	return out.ID, err
}

// SignOut closes the session.
func (c *Client) SignOut(ctx context.Context) error {
	return c.call(ctx, "sign out", http.MethodPost, "/auth/logout", nil, nil)
}

// User returns the signed-in user.
func (c *Client) User(ctx context.Context) (*User, error) {
	var u User
	if err := c.call(ctx, "user", http.MethodGet, "/auth/user", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile replaces the profile fields of the signed-in user.
func (c *Client) UpdateProfile(ctx context.Context, req ProfileRequest) (*User, error) {
	var u User
	if err := c.call(ctx, "update profile", http.MethodPut, "/user/profile", req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdatePassword changes the password of the signed-in user.
func (c *Client) UpdatePassword(ctx context.Context, req PasswordRequest) error {
	return c.call(ctx, "update password", http.MethodPut, "/user/password", req, nil)
}

// Chats lists the chats of the signed-in user.
func (c *Client) Chats(ctx context.Context, q ChatsQuery) ([]Chat, error) {
	query := map[string]any{}
	if q.Offset > 0 {
		query["offset"] = q.Offset
	}
	if q.Limit > 0 {
		query["limit"] = q.Limit
	}
	if q.Title != "" {
		query["title"] = q.Title
	}
	var data any
	if len(query) > 0 {
		data = query
	}
	var chats []Chat
	if err := c.call(ctx, "chats", http.MethodGet, "/chats", data, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// CreateChat creates a chat and returns its id.
func (c *Client) CreateChat(ctx context.Context, title string) (int, error) {
	var out struct {
		ID int `json:"id"`
	}
	err := c.call(ctx, "create chat", http.MethodPost, "/chats", map[string]string{"title": title}, &out)
	return out.ID, err
}

// DeleteChat deletes a chat.
func (c *Client) DeleteChat(ctx context.Context, chatID int) error {
	return c.call(ctx, "delete chat", http.MethodDelete, "/chats", map[string]int{"chatId": chatID}, nil)
}

type chatUsersRequest struct {
	Users  []int `json:"users"`
	ChatID int   `json:"chatId"`
}

// AddUsers adds users to a chat.
func (c *Client) AddUsers(ctx context.Context, chatID int, users ...int) error {
	return c.call(ctx, "add users", http.MethodPut, "/chats/users", chatUsersRequest{Users: users, ChatID: chatID}, nil)
}

// RemoveUsers removes users from a chat.
func (c *Client) RemoveUsers(ctx context.Context, chatID int, users ...int) error {
	return c.call(ctx, "remove users", http.MethodDelete, "/chats/users", chatUsersRequest{Users: users, ChatID: chatID}, nil)
}

// ChatUsers lists the members of a chat.
func (c *Client) ChatUsers(ctx context.Context, chatID int) ([]User, error) {
	var users []User
	if err := c.call(ctx, "chat users", http.MethodGet, "/chats/"+strconv.Itoa(chatID)+"/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ChatFiles lists the files shared in a chat.
func (c *Client) ChatFiles(ctx context.Context, chatID int) ([]ChatFile, error) {
	var files []ChatFile
	if err := c.call(ctx, "chat files", http.MethodGet, "/chats/"+strconv.Itoa(chatID)+"/files", nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// ChatToken returns the token that authorizes a socket connection to a chat.
func (c *Client) ChatToken(ctx context.Context, chatID int) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.call(ctx, "chat token", http.MethodPost, "/chats/token/"+strconv.Itoa(chatID), nil, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}
