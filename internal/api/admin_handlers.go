package api

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"incubator/internal/form"
	"incubator/internal/store"
)

func (s *Server) allRooms(c *gin.Context) {
	rooms, err := s.Forms.AllRooms()
	if err != nil {
		log.Printf("list rooms: %v", err)
		fail(c, "获取房间列表失败")
		return
	}
	ok(c, gin.H{"rooms": rooms})
}

func (s *Server) downloadSingle(c *gin.Context) {
	room := c.Query("room")
	sheet := c.Query("sheet_name")
	if room == "" || sheet == "" {
		fail(c, "参数不完整")
		return
	}
	data, err := s.Forms.DownloadSheet(room, sheet)
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrBadRoom) {
		fail(c, "文件不存在")
		return
	}
	if errors.Is(err, form.ErrSheetNotFound) {
		fail(c, "记录不存在")
		return
	}
	if err != nil {
		log.Printf("admin download room %s sheet %s: %v", room, sheet, err)
		fail(c, "下载失败")
		return
	}
	filename := fmt.Sprintf("room_%s_%s.xlsx", room, sheet)
	serveAttachment(c, filename, xlsxContentType, data)
}

type batchDownloadRequest struct {
	Records []struct {
		Room      string `json:"room"`
		SheetName string `json:"sheet_name"`
	} `json:"records"`
}

func (s *Server) downloadBatch(c *gin.Context) {
	var req batchDownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Records) == 0 {
		fail(c, "未选择任何记录")
		return
	}
	selections := make([]form.Selection, 0, len(req.Records))
	for _, record := range req.Records {
		selections = append(selections, form.Selection{Room: record.Room, SheetName: record.SheetName})
	}
	data, err := s.Forms.DownloadBatch(selections)
	if err != nil {
		log.Printf("batch download: %v", err)
		fail(c, "下载失败")
		return
	}
	filename := fmt.Sprintf("batch_download_%s.xlsx", time.Now().Format("20060102150405"))
	serveAttachment(c, filename, xlsxContentType, data)
}
