package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"incubator/internal/auth"
	"incubator/internal/services"
	"incubator/internal/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, *auth.Manager, *services.FormService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	base := t.TempDir()
	st, err := store.New(filepath.Join(base, "data"), filepath.Join(base, "uploads"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	sessions := auth.NewManager(time.Hour)
	forms := services.NewFormService(st)
	router := NewRouter(Config{Users: auth.NewUserStore(nil), Sessions: sessions, Forms: forms})
	return router, sessions, forms
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["status"] != "ok" {
		t.Fatalf("unexpected health payload: %v", body)
	}
}

func TestProtectedRouteRequiresSession(t *testing.T) {
	router, _, _ := newTestRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/get_history", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["success"] != false {
		t.Fatalf("expected failure envelope, got %v", body)
	}
}

func TestAdminRouteRejectsRoomSession(t *testing.T) {
	router, sessions, _ := newTestRouter(t)
	session, err := sessions.IssueRoom("101")
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/get_all_rooms", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for room session on admin route, got %d", w.Code)
	}
}

func TestHistoryEmptyRoom(t *testing.T) {
	router, sessions, _ := newTestRouter(t)
	session, err := sessions.IssueRoom("101")
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/get_history", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["success"] != true {
		t.Fatalf("expected success envelope, got %v", body)
	}
	if records, ok := body["records"].([]any); !ok || len(records) != 0 {
		t.Fatalf("expected empty records list, got %v", body["records"])
	}
}

func TestSubmitAndReadBack(t *testing.T) {
	router, sessions, _ := newTestRouter(t)
	session, err := sessions.IssueRoom("101")
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}

	var payload bytes.Buffer
	writer := multipart.NewWriter(&payload)
	fields := map[string]string{
		"projectLeaderName":   "张三",
		"projectLeaderGender": "male",
		"projectType":         "2",
		"financingAmount":     "100",
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := writer.WriteField("award_competition[]", "挑战杯"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := writer.WriteField("award_prize[]", "一等奖"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	writer.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submit_form", &payload)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", w.Code)
	}
	if body := decodeBody(t, w); body["success"] != true {
		t.Fatalf("submit failed: %v", body)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/get_last_submission", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	router.ServeHTTP(w, req)
	body := decodeBody(t, w)
	if body["success"] != true {
		t.Fatalf("read-back failed: %v", body)
	}
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("missing data payload: %v", body)
	}
	if data["projectLeaderName"] != "张三" {
		t.Fatalf("unexpected leader name: %v", data["projectLeaderName"])
	}
	if data["projectLeaderGender"] != "male" {
		t.Fatalf("enum not reversed on read-back: %v", data["projectLeaderGender"])
	}
	awards, ok := data["awards"].([]any)
	if !ok || len(awards) != 1 {
		t.Fatalf("unexpected awards payload: %v", data["awards"])
	}
}

func TestDownloadExcel(t *testing.T) {
	router, sessions, _ := newTestRouter(t)
	session, err := sessions.IssueRoom("101")
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}

	var payload bytes.Buffer
	writer := multipart.NewWriter(&payload)
	if err := writer.WriteField("projectLeaderName", "张三"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := writer.WriteField("projectType", "2"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	writer.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submit_form", &payload)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	router.ServeHTTP(w, req)
	if body := decodeBody(t, w); body["success"] != true {
		t.Fatalf("submit failed: %v", body)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/get_history", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	router.ServeHTTP(w, req)
	body := decodeBody(t, w)
	records, ok := body["records"].([]any)
	if !ok || len(records) != 1 {
		t.Fatalf("unexpected history: %v", body)
	}
	timestamp := records[0].(map[string]any)["timestamp"].(string)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/download_excel?timestamp="+strings.ReplaceAll(timestamp, " ", "%20"), nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != xlsxContentType {
		t.Fatalf("unexpected content type: %s", got)
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "attachment") {
		t.Fatalf("expected attachment disposition, got %s", w.Header().Get("Content-Disposition"))
	}
	if w.Body.Len() == 0 {
		t.Fatalf("empty download body")
	}
}

func TestRegisterRejectsBadRoom(t *testing.T) {
	router, _, _ := newTestRouter(t)
	payload := `{"room":"../escape","password":"secret"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	body := decodeBody(t, w)
	if body["success"] != false {
		t.Fatalf("expected rejection, got %v", body)
	}
	if body["message"] != "房间号格式不正确" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestCurrentUserWithoutSession(t *testing.T) {
	router, _, _ := newTestRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/get_current_user", nil)
	router.ServeHTTP(w, req)
	body := decodeBody(t, w)
	if body["success"] != false || body["message"] != "未登录" {
		t.Fatalf("unexpected payload: %v", body)
	}
}

func TestAdminBatchDownload(t *testing.T) {
	router, sessions, forms := newTestRouter(t)
	admin, err := sessions.IssueAdmin()
	if err != nil {
		t.Fatalf("issue admin session: %v", err)
	}

	room, err := sessions.IssueRoom("101")
	if err != nil {
		t.Fatalf("issue room session: %v", err)
	}
	var payload bytes.Buffer
	writer := multipart.NewWriter(&payload)
	if err := writer.WriteField("projectLeaderName", "张三"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := writer.WriteField("projectType", "2"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	writer.Close()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submit_form", &payload)
	req.Header.Set("Authorization", "Bearer "+room.Token)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	router.ServeHTTP(w, req)
	if body := decodeBody(t, w); body["success"] != true {
		t.Fatalf("submit failed: %v", body)
	}

	rooms, err := forms.AllRooms()
	if err != nil || len(rooms) != 1 || len(rooms[0].Records) != 1 {
		t.Fatalf("unexpected room state: %v %v", rooms, err)
	}
	sheet := rooms[0].Records[0].SheetName

	body := `{"records":[{"room":"101","sheet_name":"` + sheet + `"}]}`
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/admin/download_batch", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+admin.Token)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != xlsxContentType {
		t.Fatalf("unexpected content type: %s", got)
	}
	if w.Body.Len() == 0 {
		t.Fatalf("empty batch body")
	}
}
