package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/school-portal-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/school-portal-api/internal/config"
	"github.com/vietanh2810/school-portal-api/internal/domain"
	"github.com/vietanh2810/school-portal-api/internal/report"
	"github.com/vietanh2810/school-portal-api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testConf = &config.APIConfig{
	JWTSigningKey:    "handler-test-key",
	TokenTTL:         time.Hour,
	DownloadTokenTTL: 15 * time.Minute,
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeErr(t *testing.T, w *httptest.ResponseRecorder) response.Err {
	t.Helper()
	var e response.Err
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	return e
}

type fakeChecker struct {
	got service.CheckResultRequest
	v   domain.CardVerification
	err error
}

func (f *fakeChecker) CheckResult(_ context.Context, req service.CheckResultRequest) (domain.CardVerification, error) {
	f.got = req
	return f.v, f.err
}

type fakeSheets map[uint]report.ResultSheet

func (f fakeSheets) Sheet(_ context.Context, id uint) (report.ResultSheet, error) {
	sheet, ok := f[id]
	if !ok {
		return report.ResultSheet{}, fmt.Errorf("service.Sheet -> %w", service.ErrResultNotFound)
	}
	return sheet, nil
}

func verifyRouter(checker *fakeChecker, sheets fakeSheets) *gin.Engine {
	h := NewVerifyHandler(testConf, checker, sheets)
	r := gin.New()
	r.POST("/api/verify-scratch-card", h.HandleVerifyScratchCard)
	r.GET("/api/results/:id/pdf", h.HandleDownloadResult)
	return r
}

func verifyBody() map[string]string {
	return map[string]string{
		"admission_number": "ADM/2024/001",
		"pin":              "1234-5678-9012",
		"session":          "2024/2025",
		"term":             "First Term",
	}
}

func TestVerifyScratchCard_IssuesDownloadLink(t *testing.T) {
	student := domain.Student{ID: 3, FirstName: "Ada", LastName: "Obi", AdmissionNumber: "ADM/2024/001"}
	result := domain.Result{ID: 42, StudentID: 3, ClassName: "JSS 1A", Session: "2024/2025", Term: domain.FirstTerm}
	checker := &fakeChecker{v: domain.CardVerification{Student: student, Result: result}}
	sheets := fakeSheets{42: {School: domain.SchoolInfo{Name: "Unity College"}, Student: student, Result: result}}
	r := verifyRouter(checker, sheets)

	w := doJSON(r, http.MethodPost, "/api/verify-scratch-card", verifyBody())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "123456789012", checker.got.PIN)
	assert.Equal(t, domain.FirstTerm, checker.got.Term)

	var resp response.VerifyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint(42), resp.Result.ID)
	require.True(t, strings.HasPrefix(resp.DownloadURL, "/api/results/42/pdf?token="))

	w = doJSON(r, http.MethodGet, resp.DownloadURL, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, pdfContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Ada_Obi_2024-2025_First_Term_Result.pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	// the token is bound to result 42
	u, err := url.Parse(resp.DownloadURL)
	require.NoError(t, err)
	w = doJSON(r, http.MethodGet, "/api/results/43/pdf?"+u.RawQuery, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDownloadResult_RequiresToken(t *testing.T) {
	r := verifyRouter(&fakeChecker{}, fakeSheets{})

	w := doJSON(r, http.MethodGet, "/api/results/42/pdf", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodGet, "/api/results/42/pdf?token=garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVerifyScratchCard_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    interface{}
		err     error
		want    int
		message string
	}{
		{"malformed json", "{", nil, http.StatusBadRequest, ""},
		{"short pin", map[string]string{"admission_number": "A1", "pin": "123", "session": "2024/2025", "term": "First Term"}, nil, http.StatusBadRequest, ""},
		{"bad term", map[string]string{"admission_number": "A1", "pin": "123456789012", "session": "2024/2025", "term": "Fourth Term"}, nil, http.StatusBadRequest, ""},
		{"unknown card", verifyBody(), fmt.Errorf("service.CheckResult -> %w", service.ErrCardNotFound), http.StatusNotFound, service.ErrCardNotFound.Error()},
		{"expired", verifyBody(), fmt.Errorf("service.CheckResult -> %w", service.ErrCardExpired), http.StatusForbidden, service.ErrCardExpired.Error()},
		{"exhausted", verifyBody(), fmt.Errorf("service.CheckResult -> %w", service.ErrCardUsageExhausted), http.StatusForbidden, service.ErrCardUsageExhausted.Error()},
		{"bound elsewhere", verifyBody(), fmt.Errorf("service.CheckResult -> %w", service.ErrCardBoundElsewhere), http.StatusForbidden, service.ErrCardBoundElsewhere.Error()},
		{"database down", verifyBody(), fmt.Errorf("dao.FindBySerial -> %w", io.ErrUnexpectedEOF), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := verifyRouter(&fakeChecker{err: tt.err}, fakeSheets{})

			w := doJSON(r, http.MethodPost, "/api/verify-scratch-card", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			e := decodeErr(t, w)
			assert.Equal(t, tt.want, e.StatusCode)
			if tt.message != "" {
				assert.Contains(t, e.Message, tt.message)
			}
			assert.NotContains(t, e.Message, "dao.")
		})
	}
}

func TestClientErr(t *testing.T) {
	err := fmt.Errorf("service.Import -> report.ParseStudentSheet -> %w", report.ErrMissingColumns)
	assert.Equal(t, report.ErrMissingColumns.Error(), clientErr(err).Error())
	assert.Equal(t, "plain", clientErr(fmt.Errorf("plain")).Error())
}

type fakeNewsService struct {
	NewsService
	created domain.News
	err     error
}

func (f *fakeNewsService) Create(_ context.Context, news domain.News) (domain.News, error) {
	if f.err != nil {
		return domain.News{}, f.err
	}
	news.ID = 1
	news.Slug = "hello-world"
	f.created = news
	return news, nil
}

func (f *fakeNewsService) Get(_ context.Context, id uint) (domain.News, error) {
	return domain.News{}, fmt.Errorf("service.Get(%d) -> %w", id, service.ErrNewsNotFound)
}

func TestNewsHandler(t *testing.T) {
	svc := &fakeNewsService{}
	h := NewNewsHandler(svc)
	r := gin.New()
	r.POST("/admin/news", h.HandleCreateNews)
	r.GET("/admin/news/:id", h.HandleGetNews)

	w := doJSON(r, http.MethodPost, "/admin/news", map[string]interface{}{
		"title":   "Hello World",
		"content": "Inter-house sports holds on Friday.",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Hello World", svc.created.Title)

	w = doJSON(r, http.MethodPost, "/admin/news", map[string]interface{}{"title": "Hi"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.err = fmt.Errorf("service.Create -> %w", service.ErrNewsSlugExists)
	w = doJSON(r, http.MethodPost, "/admin/news", map[string]interface{}{
		"title":   "Hello World",
		"slug":    "hello-world",
		"content": "Again.",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodGet, "/admin/news/9", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodGet, "/admin/news/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type fakeAdmissionService struct {
	AdmissionService
	applied domain.AdmissionApplication
	err     error
}

func (f *fakeAdmissionService) Apply(_ context.Context, app domain.AdmissionApplication) (domain.AdmissionApplication, error) {
	if f.err != nil {
		return domain.AdmissionApplication{}, f.err
	}
	app.ApplicationNumber = "APP-2026-ABC123"
	f.applied = app
	return app, nil
}

func TestAdmissionHandler_Apply(t *testing.T) {
	body := map[string]string{
		"first_name":     "Tobi",
		"last_name":      "Adeyemi",
		"gender":         "male",
		"date_of_birth":  "2014-05-20",
		"class_applying": "JSS 1",
		"parent_name":    "Mrs Adeyemi",
		"parent_email":   "parent@example.com",
		"parent_phone":   "+234 803 000 0000",
	}

	svc := &fakeAdmissionService{}
	r := gin.New()
	r.POST("/admission", NewAdmissionHandler(svc).HandleApply)

	w := doJSON(r, http.MethodPost, "/admission", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotNil(t, svc.applied.DateOfBirth)
	assert.Equal(t, 2014, svc.applied.DateOfBirth.Year())

	svc.err = fmt.Errorf("service.Apply -> %w", service.ErrAdmissionsClosed)
	w = doJSON(r, http.MethodPost, "/admission", body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	svc.err = fmt.Errorf("service.Apply -> %w", service.ErrClassNotOffered)
	w = doJSON(r, http.MethodPost, "/admission", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.ErrClassNotOffered.Error(), decodeErr(t, w).Message)
}

type fakeContactService struct {
	ContactService
	submitted []domain.ContactMessage
}

func (f *fakeContactService) Submit(_ context.Context, msg domain.ContactMessage) (domain.ContactMessage, error) {
	f.submitted = append(f.submitted, msg)
	return msg, nil
}

func TestContactHandler_Submit(t *testing.T) {
	svc := &fakeContactService{}
	r := gin.New()
	r.POST("/contact", NewContactHandler(svc).HandleSubmitContact)

	w := doJSON(r, http.MethodPost, "/contact", map[string]string{
		"name":    "Ngozi",
		"email":   "ngozi@example.com",
		"message": "When does the next term begin?",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Len(t, svc.submitted, 1)

	w = doJSON(r, http.MethodPost, "/contact", map[string]string{"name": "N", "email": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, svc.submitted, 1)
}
