package mobile

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestStartAndStopServer(t *testing.T) {
	if err := StartServer(t.TempDir(), "0"); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer StopServer()

	if err := StartServer(t.TempDir(), "0"); err == nil {
		t.Fatal("second start should fail")
	}

	resp, err := http.Get("http://" + Addr() + "/api/sessions")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var body struct {
		Capacity int `json:"capacity"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.StatusCode != http.StatusOK || body.Capacity != 10 {
		t.Fatalf("status=%d capacity=%d", resp.StatusCode, body.Capacity)
	}

	if err := StopServer(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if Addr() != "" {
		t.Fatal("addr should be empty after stop")
	}
}
