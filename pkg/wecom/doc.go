// Package wecom is a small client for the WeCom server API endpoints used by
// approval automation: access tokens, OA templates and approvals, media
// upload, user lookup and application messages.
//
// Every call takes a context. Any non-2xx response is a transport error and
// any non-zero errcode is reported as *APIError.
package wecom
