package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestErrorWritesMatchingHTTPStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := map[int]int{
		CodeBadRequest: http.StatusBadRequest,
		CodeNotFound:   http.StatusNotFound,
		CodeConflict:   http.StatusConflict,
		CodeInternal:   http.StatusInternalServerError,
		999:            http.StatusInternalServerError,
	}
	for code, want := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("request_id", "req-1")
		Error(c, code, "boom")
		if w.Code != want {
			t.Fatalf("code %d: want http %d got %d", code, want, w.Code)
		}
		var body struct {
			StatusCode int               `json:"status_code"`
			Msg        string            `json:"msg"`
			Data       map[string]string `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.StatusCode != code || body.Msg != "boom" || body.Data["request_id"] != "req-1" {
			t.Fatalf("unexpected body: %+v", body)
		}
	}
}

func TestBuildPagination(t *testing.T) {
	p := BuildPagination(2, 20, 41)
	if p.TotalPage != 3 || p.Page != 2 || p.PageSize != 20 || p.Total != 41 {
		t.Fatalf("unexpected pagination: %+v", p)
	}
	if empty := BuildPagination(1, 20, 0); empty.TotalPage != 0 {
		t.Fatalf("empty total should have zero pages, got %d", empty.TotalPage)
	}
}

func TestWrapErrorUnwrap(t *testing.T) {
	cause := errors.New("disk gone")
	appErr := WrapError(CodeInternal, "load failed", cause)
	if !errors.Is(appErr, cause) {
		t.Fatalf("expected wrapped cause")
	}
	if appErr.Error() != "load failed: disk gone" {
		t.Fatalf("unexpected message: %s", appErr.Error())
	}
}
