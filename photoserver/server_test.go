package photoserver

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arborlux/conifer"
)

func testServer(t *testing.T, ctrl *conifer.Controller) *Server {
	t.Helper()
	s, err := New(Config{Dir: t.TempDir(), Controller: ctrl})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func decodeJSON(t *testing.T, resp *http.Response, into any) {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(body, into); err != nil {
		t.Fatalf("decode %q: %v", body, err)
	}
}

func uploadRequest(t *testing.T, filename string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("photo", filename)
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("not really an image, the server does not decode"))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/photos", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestListPhotosEmpty(t *testing.T) {
	s := testServer(t, nil)
	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/api/photos", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		Photos []string `json:"photos"`
	}
	decodeJSON(t, resp, &body)
	if len(body.Photos) != 0 {
		t.Errorf("photos = %v, want empty", body.Photos)
	}
}

func TestUploadAndList(t *testing.T) {
	s := testServer(t, nil)

	resp, err := s.App().Test(uploadRequest(t, "holiday.jpg"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upload status = %d", resp.StatusCode)
	}
	var up struct {
		URL string `json:"url"`
	}
	decodeJSON(t, resp, &up)
	if !strings.HasPrefix(up.URL, "/photos/") || !strings.HasSuffix(up.URL, ".jpg") {
		t.Errorf("url = %q", up.URL)
	}

	// The stored name is a fresh uuid, never the client's filename.
	if strings.Contains(up.URL, "holiday") {
		t.Errorf("url %q leaks the client filename", up.URL)
	}

	// The file landed on disk.
	name := strings.TrimPrefix(up.URL, "/photos/")
	if _, err := os.Stat(filepath.Join(s.cfg.Dir, name)); err != nil {
		t.Errorf("stored file: %v", err)
	}

	// And the list now serves it.
	urls := s.URLs()
	if len(urls) != 1 || urls[0] != up.URL {
		t.Errorf("URLs = %v, want [%s]", urls, up.URL)
	}
}

func TestUploadMissingFile(t *testing.T) {
	s := testServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/photos", nil)
	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	s := testServer(t, nil)
	resp, err := s.App().Test(uploadRequest(t, "malware.exe"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want 415", resp.StatusCode)
	}
	if len(s.URLs()) != 0 {
		t.Error("rejected upload must not join the list")
	}
}

func TestExistingFilesSeedListInOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"c.jpg", "a.jpg", "b.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	s, err := New(Config{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"/photos/a.jpg", "/photos/b.png", "/photos/c.jpg"}
	urls := s.URLs()
	if len(urls) != len(want) {
		t.Fatalf("URLs = %v", urls)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("URLs[%d] = %q, want %q", i, urls[i], want[i])
		}
	}
}

func TestStatusReflectsController(t *testing.T) {
	ctrl := conifer.NewController()
	ctrl.SetState(conifer.StateFormed)
	ctrl.SetStatus("gesture source ended")
	s := testServer(t, ctrl)

	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/api/status", nil))
	if err != nil {
		t.Fatal(err)
	}
	var snap StateSnapshot
	decodeJSON(t, resp, &snap)
	if snap.State != "FORMED" {
		t.Errorf("state = %q, want FORMED", snap.State)
	}
	if snap.Pipeline != "gesture source ended" {
		t.Errorf("pipeline = %q", snap.Pipeline)
	}
}

func TestSetControllerAfterNew(t *testing.T) {
	s := testServer(t, nil)
	ctrl := conifer.NewController()
	ctrl.SetState(conifer.StateFormed)
	s.SetController(ctrl)

	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/api/status", nil))
	if err != nil {
		t.Fatal(err)
	}
	var snap StateSnapshot
	decodeJSON(t, resp, &snap)
	if snap.State != "FORMED" {
		t.Errorf("state = %q, want FORMED after late attach", snap.State)
	}
}

func TestWSRouteRequiresUpgrade(t *testing.T) {
	s := testServer(t, nil)
	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/ws/state", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUpgradeRequired {
		t.Errorf("plain GET on /ws/state = %d, want 426", resp.StatusCode)
	}
}
