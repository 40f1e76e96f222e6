package wecom

import "context"

type textMessage struct {
	ToUser  string      `json:"touser"`
	MsgType string      `json:"msgtype"`
	AgentID int         `json:"agentid"`
	Text    textContent `json:"text"`
	Safe    int         `json:"safe"`
}

type textContent struct {
	Content string `json:"content"`
}

type sendResponse struct {
	envelope
	InvalidUser string `json:"invaliduser"`
}

// SendText sends an application text message to toUser ("a|b" for several).
func (c *Client) SendText(ctx context.Context, agentID int, toUser, content string) error {
	msg := textMessage{
		ToUser:  toUser,
		MsgType: "text",
		AgentID: agentID,
		Text:    textContent{Content: content},
	}
	var resp sendResponse
	return c.postJSON(ctx, "message/send", "/cgi-bin/message/send", msg, &resp)
}
