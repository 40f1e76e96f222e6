package wecom

import (
	"context"
	"net/url"
)

// User is the subset of user/get used for health checks.
type User struct {
	UserID string `json:"userid"`
	Name   string `json:"name"`
}

type userResponse struct {
	envelope
	User
}

// GetUser looks up a member of the corp by userid.
func (c *Client) GetUser(ctx context.Context, userID string) (User, error) {
	var resp userResponse
	if err := c.getJSON(ctx, "user/get", "/cgi-bin/user/get", url.Values{"userid": {userID}}, &resp); err != nil {
		return User{}, err
	}
	return resp.User, nil
}
