// Package define holds the response envelopes shared by every handler
// in server/, mirroring the BaseResp/ListResp convention the rest of
// the sat20-labs API surface uses.
package define

type BaseResp struct {
	Code int    `json:"code" example:"0"`
	Msg  string `json:"msg" example:"ok"`
}

type ListResp struct {
	Start int64  `json:"start" example:"0"`
	Total uint64 `json:"total" example:"0"`
}
