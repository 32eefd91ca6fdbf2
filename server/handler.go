package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sat20-labs/mempoolsync/server/define"
)

type Handle struct {
	model *Model
}

func NewHandle(model *Model) *Handle {
	return &Handle{model: model}
}

type SnapshotResp struct {
	define.BaseResp
	define.ListResp
	Data []*TxSummary `json:"data"`
}

// @Summary Get the full cached mempool snapshot
// @Tags mempool
// @Produce json
// @Success 200 {object} SnapshotResp
// @Router /mempool/snapshot [get]
func (h *Handle) getSnapshot(c *gin.Context) {
	data := h.model.GetSnapshot()
	c.JSON(http.StatusOK, &SnapshotResp{
		BaseResp: define.BaseResp{Code: 0, Msg: "ok"},
		ListResp: define.ListResp{Start: 0, Total: uint64(len(data))},
		Data:     data,
	})
}

type InfoResp struct {
	define.BaseResp
	Data struct {
		Size  int `json:"size"`
		Bytes int `json:"bytes"`
	} `json:"data"`
}

// @Summary Get the upstream's self-reported mempool summary
// @Tags mempool
// @Produce json
// @Success 200 {object} InfoResp
// @Router /mempool/info [get]
func (h *Handle) getInfo(c *gin.Context) {
	info := h.model.GetInfo()
	resp := &InfoResp{BaseResp: define.BaseResp{Code: 0, Msg: "ok"}}
	resp.Data.Size = info.Size
	resp.Data.Bytes = info.Bytes
	c.JSON(http.StatusOK, resp)
}

type RateResp struct {
	define.BaseResp
	Data struct {
		TxPerSecond     float64 `json:"txPerSecond"`
		VBytesPerSecond int64   `json:"vBytesPerSecond"`
	} `json:"data"`
}

// @Summary Get the smoothed arrival-rate snapshot
// @Tags mempool
// @Produce json
// @Success 200 {object} RateResp
// @Router /mempool/rate [get]
func (h *Handle) getRate(c *gin.Context) {
	rate := h.model.GetRate()
	resp := &RateResp{BaseResp: define.BaseResp{Code: 0, Msg: "ok"}}
	resp.Data.TxPerSecond = rate.TxPerSecond
	resp.Data.VBytesPerSecond = rate.VBytesPerSecond
	c.JSON(http.StatusOK, resp)
}

type LatestResp struct {
	define.BaseResp
	Data []any `json:"data"`
}

// @Summary Get the latest-arrivals ring, newest first
// @Tags mempool
// @Produce json
// @Success 200 {object} LatestResp
// @Router /mempool/latest [get]
func (h *Handle) getLatest(c *gin.Context) {
	c.JSON(http.StatusOK, &LatestResp{
		BaseResp: define.BaseResp{Code: 0, Msg: "ok"},
		Data:     h.model.GetLatest(),
	})
}

type FirstSeenResp struct {
	define.BaseResp
	Data map[string]int64 `json:"data"`
}

// @Summary Get the first-seen timestamp for a set of txids
// @Tags mempool
// @Produce json
// @Param ids query string true "comma-separated txids"
// @Success 200 {object} FirstSeenResp
// @Router /mempool/firstseen [get]
func (h *Handle) getFirstSeen(c *gin.Context) {
	raw := c.Query("ids")
	var ids []string
	if raw != "" {
		ids = strings.Split(raw, ",")
	}
	seen := h.model.FirstSeenOf(ids)
	data := make(map[string]int64, len(ids))
	for i, id := range ids {
		data[id] = seen[i]
	}
	c.JSON(http.StatusOK, &FirstSeenResp{
		BaseResp: define.BaseResp{Code: 0, Msg: "ok"},
		Data:     data,
	})
}

type InSyncResp struct {
	define.BaseResp
	Data struct {
		InSync bool `json:"inSync"`
	} `json:"data"`
}

// @Summary Report whether the cache is currently in sync with upstream
// @Tags mempool
// @Produce json
// @Success 200 {object} InSyncResp
// @Router /mempool/insync [get]
func (h *Handle) getInSync(c *gin.Context) {
	resp := &InSyncResp{BaseResp: define.BaseResp{Code: 0, Msg: "ok"}}
	resp.Data.InSync = h.model.IsInSync()
	c.JSON(http.StatusOK, resp)
}
