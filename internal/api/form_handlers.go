package api

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"incubator/internal/docs"
	"incubator/internal/form"
	"incubator/internal/middleware"
	"incubator/internal/services"
	"incubator/internal/store"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) submitForm(c *gin.Context) {
	session, _ := middleware.SessionFromContext(c)
	multipartForm, err := c.MultipartForm()
	if err != nil {
		fail(c, "提交失败")
		return
	}

	record := form.ParseSubmission(url.Values(multipartForm.Value), time.Now())

	license := s.stageFile(firstFile(multipartForm, "businessLicense"))
	patent := s.stageFile(firstFile(multipartForm, "inventionPatentCertificate"))
	copyright := s.stageFile(firstFile(multipartForm, "softwareCopyrightCertificate"))

	var awardPaths []string
	for _, fh := range multipartForm.File["award_certificate[]"] {
		awardPaths = append(awardPaths, s.stageFile(fh))
	}
	for i := range record.Awards {
		if i < len(awardPaths) {
			record.Awards[i].ImagePath = awardPaths[i]
		}
	}

	staged := append([]string{license, patent, copyright}, awardPaths...)
	defer s.Forms.Store.RemoveUploads(staged...)

	images := form.Images{
		BusinessLicense:   license,
		InventionPatent:   patent,
		SoftwareCopyright: copyright,
	}
	if err := s.Forms.Submit(session.Room, record, images); err != nil {
		log.Printf("submit form for room %s: %v", session.Room, err)
		fail(c, "提交失败")
		return
	}
	ok(c, gin.H{"message": "表单提交成功"})
}

func (s *Server) lastSubmission(c *gin.Context) {
	session, _ := middleware.SessionFromContext(c)
	record, err := s.Forms.LastSubmission(session.Room)
	if errors.Is(err, services.ErrNoData) {
		fail(c, "没有历史数据")
		return
	}
	if err != nil {
		log.Printf("last submission for room %s: %v", session.Room, err)
		fail(c, "获取数据失败")
		return
	}

	data := make(gin.H, len(record.Fields)+1)
	for key, value := range record.Fields {
		data[key] = value
	}
	awards := make([]gin.H, 0, len(record.Awards))
	for _, award := range record.Awards {
		awards = append(awards, gin.H{"competition": award.Competition, "prize": award.Prize})
	}
	data["awards"] = awards
	ok(c, gin.H{"data": data})
}

func (s *Server) history(c *gin.Context) {
	session, _ := middleware.SessionFromContext(c)
	entries, err := s.Forms.History(session.Room)
	if err != nil {
		log.Printf("history for room %s: %v", session.Room, err)
		fail(c, "获取历史记录失败")
		return
	}
	records := make([]gin.H, 0, len(entries))
	for _, entry := range entries {
		records = append(records, gin.H{"timestamp": entry.Timestamp})
	}
	ok(c, gin.H{"records": records})
}

func (s *Server) downloadExcel(c *gin.Context) {
	session, _ := middleware.SessionFromContext(c)
	timestamp := c.Query("timestamp")
	data, err := s.Forms.DownloadByTimestamp(session.Room, timestamp)
	if errors.Is(err, store.ErrNotFound) {
		fail(c, "文件不存在")
		return
	}
	if errors.Is(err, form.ErrSheetNotFound) {
		fail(c, "记录不存在")
		return
	}
	if err != nil {
		log.Printf("download for room %s: %v", session.Room, err)
		fail(c, "下载失败")
		return
	}
	filename := fmt.Sprintf("%s_%s.xlsx", session.Room, strings.ReplaceAll(timestamp, ":", "-"))
	serveAttachment(c, filename, xlsxContentType, data)
}

func (s *Server) downloadFieldsDoc(c *gin.Context) {
	data, err := docs.FieldsDoc()
	if err != nil {
		fail(c, "下载失败")
		return
	}
	serveAttachment(c, docs.FieldsDocName,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document", data)
}

func (s *Server) stageFile(fh *multipart.FileHeader) string {
	path, err := s.Forms.Store.StageUpload(fh)
	if err != nil {
		// A broken upload skips its image slot; the submission proceeds.
		log.Printf("stage upload: %v", err)
		return ""
	}
	return path
}

func firstFile(multipartForm *multipart.Form, key string) *multipart.FileHeader {
	files := multipartForm.File[key]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}

func serveAttachment(c *gin.Context, filename, contentType string, data []byte) {
	disposition := fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(filename))
	c.Writer.Header().Set("Content-Disposition", disposition)
	c.Writer.Header().Set("Content-Type", contentType)
	_, _ = c.Writer.Write(data)
}
