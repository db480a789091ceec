package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/spf13/cobra"

	"github.com/initializ/untis/types"
)

// fakeUntis answers the JSON-RPC methods the commands use.
type fakeUntis struct {
	srv *httptest.Server

	mu        sync.Mutex
	logins    int
	sessionID string
	calls     map[string]int
	params    map[string]json.RawMessage
}

var fakeResults = map[string]string{
	"getKlassen": `[{"id":1,"name":"5a","longName":"Klasse 5a","active":true}]`,

	"getTeachers": `[{"id":10,"name":"ADA","foreName":"Ada","longName":"Lovelace","active":true}]`,

	"getSubjects": `[{"id":100,"name":"M","longName":"Mathematics","active":true}]`,

	"getRooms": `[{"id":300,"name":"R12","longName":"Room 12","building":"North","active":true}]`,

	"getTimegridUnits": `[{"day":2,"timeUnits":[{"name":"1","startTime":745,"endTime":830}]}]`,

	"getTimetable": `[
		{"id":1001,"date":20240304,"startTime":745,"endTime":830,"kl":[{"id":1}],"te":[{"id":10}],"su":[{"id":100}],"ro":[{"id":300}]},
		{"id":1002,"date":20240305,"startTime":745,"endTime":830,"code":"cancelled","kl":[{"id":1}],"su":[{"id":100}]}
	]`,

	"getLatestImportTime": `1709539200000`,

	"getStatusData": `{"lstypes":[{"ls":{"foreColor":"000000"}}],"codes":[]}`,
}

func newFakeUntis(t *testing.T) *fakeUntis {
	t.Helper()
	f := &fakeUntis{calls: make(map[string]int), params: make(map[string]json.RawMessage)}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeUntis) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var req struct {
		ID     string          `json:"id"`
		Method string          `json:"method"`
		Params json.RawMessage `json:"params"`
	}
	_ = json.Unmarshal(body, &req)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[req.Method]++
	f.params[req.Method] = req.Params

	resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
	fail := func(code int, msg string) {
		resp["error"] = map[string]any{"code": code, "message": msg}
	}
	switch {
	case req.Method == "authenticate":
		var p struct {
			User     string `json:"user"`
			Password string `json:"password"`
		}
		_ = json.Unmarshal(req.Params, &p)
		if p.User != "max" || p.Password != "secret" {
			fail(-8504, "bad credentials")
			break
		}
		f.logins++
		f.sessionID = "S" + strconv.Itoa(f.logins)
		resp["result"] = map[string]any{"sessionId": f.sessionID, "personType": 5, "personId": 42, "klasseId": 1}
	case r.Header.Get("Cookie") != "JSESSIONID="+f.sessionID+"; schoolname=demo":
		fail(-8520, "not authenticated")
	case req.Method == "logout":
		f.sessionID = ""
		resp["result"] = nil
	default:
		result, ok := fakeResults[req.Method]
		if !ok {
			fail(-32601, "method not found")
			break
		}
		resp["result"] = json.RawMessage(result)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (f *fakeUntis) loginCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logins
}

func (f *fakeUntis) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeUntis) lastParams(t *testing.T, method string) map[string]any {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	var m map[string]any
	if err := json.Unmarshal(f.params[method], &m); err != nil {
		t.Fatalf("decoding %s params: %v", method, err)
	}
	return m
}

// setupCLI points the commands at f with a config file and session store in
// a temp dir. Globals are restored when the test ends.
func setupCLI(t *testing.T, f *fakeUntis, env map[string]string) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "untis.yaml")
	content := "server: " + f.srv.URL + "\nschool: demo\nusername: max\nsession_store:\n  path: " + filepath.Join(dir, "sessions.db") + "\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o600); err != nil {
		t.Fatalf("writing untis.yaml: %v", err)
	}

	oldCfg, oldOutput, oldNoCache := cfgFile, outputFormat, noCache
	oldLookup, oldPrompt := lookupEnv, readPassword
	oldTT, oldWeek := [2]string{ttFrom, ttTo}, weekDate
	oldTTElem, oldWeekElem, oldChanged := ttElement, weekElement, ttChanged
	oldSearch, oldActive, oldStrict := listSearch, listActiveOnly, strict
	t.Cleanup(func() {
		cfgFile, outputFormat, noCache = oldCfg, oldOutput, oldNoCache
		lookupEnv, readPassword = oldLookup, oldPrompt
		ttFrom, ttTo, weekDate = oldTT[0], oldTT[1], oldWeek
		ttElement, weekElement, ttChanged = oldTTElem, oldWeekElem, oldChanged
		listSearch, listActiveOnly, strict = oldSearch, oldActive, oldStrict
	})

	cfgFile = cfgPath
	outputFormat = ""
	noCache = false
	lookupEnv = func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	readPassword = func(string) (string, error) {
		t.Fatal("unexpected password prompt")
		return "", nil
	}
}

func defaultEnv() map[string]string {
	return map[string]string{"UNTIS_PASSWORD": "secret", "UNTIS_STORE_KEY": "test-store-secret"}
}

// testCommand returns a command whose output is captured in the returned
// buffer.
func testCommand() (*cobra.Command, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	return cmd, buf
}

func sessionInfos(f *fakeUntis, id string) types.Infos {
	return types.Infos{Username: "max", Server: f.srv.URL, School: "demo", SessionID: id, PersonID: 42, PersonType: types.ElementPerson, ClassID: 1}
}
