package session

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/initializ/untis/jsonrpc"
)

// fakeUntis is an in-process WebUntis JSON-RPC endpoint.
type fakeUntis struct {
	t   *testing.T
	srv *httptest.Server

	mu        sync.Mutex
	results   map[string]string
	errors    map[string]*jsonrpc.Error
	delays    map[string]time.Duration
	calls     map[string]int
	params    map[string][]json.RawMessage
	sessionID string
	logins    int
	expired   bool
}

func newFakeUntis(t *testing.T) *fakeUntis {
	t.Helper()
	f := &fakeUntis{
		t:         t,
		results:   defaultResults(),
		errors:    make(map[string]*jsonrpc.Error),
		delays:    make(map[string]time.Duration),
		calls:     make(map[string]int),
		params:    make(map[string][]json.RawMessage),
		sessionID: "SESSION-1",
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeUntis) creds() Credentials {
	return Credentials{Username: "max", Password: "secret", Server: f.srv.URL, School: "demo", UserAgent: "untis-test"}
}

func (f *fakeUntis) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var req struct {
		ID     string          `json:"id"`
		Method string          `json:"method"`
		Params json.RawMessage `json:"params"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		f.t.Errorf("fake untis: bad request body: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.calls[req.Method]++
	f.params[req.Method] = append(f.params[req.Method], req.Params)
	var delay time.Duration
	if !f.authorized(r) {
		delay = f.delays[req.Method]
	}
	f.mu.Unlock()
	time.Sleep(delay)

	f.mu.Lock()
	defer f.mu.Unlock()

	if r.URL.Query().Get("school") != "demo" {
		f.reply(w, req.ID, "", &jsonrpc.Error{Code: jsonrpc.ErrCodeInvalidSchool, Message: "invalid schoolname"})
		return
	}

	switch req.Method {
	case "authenticate":
		var p authParams
		_ = json.Unmarshal(req.Params, &p)
		if p.User != "max" || p.Password != "secret" {
			f.reply(w, req.ID, "", &jsonrpc.Error{Code: jsonrpc.ErrCodeBadCredentials, Message: "bad credentials"})
			return
		}
		f.logins++
		f.expired = false
		f.sessionID = "SESSION-" + strings.Repeat("I", f.logins)
		f.reply(w, req.ID, `{"sessionId":"`+f.sessionID+`","personType":5,"personId":42,"klasseId":7}`, nil)
		return
	}

	if !f.authorized(r) {
		f.reply(w, req.ID, "", &jsonrpc.Error{Code: jsonrpc.ErrCodeNotAuthenticated, Message: "not authenticated"})
		return
	}
	if e, ok := f.errors[req.Method]; ok {
		f.reply(w, req.ID, "", e)
		return
	}
	if req.Method == "logout" {
		f.expired = true
		f.reply(w, req.ID, "null", nil)
		return
	}
	result, ok := f.results[req.Method]
	if !ok {
		f.reply(w, req.ID, "", &jsonrpc.Error{Code: jsonrpc.ErrCodeMethodNotFound, Message: "method not found"})
		return
	}
	f.reply(w, req.ID, result, nil)
}

// authorized reports whether r carries the current, unexpired session.
// f.mu must be held.
func (f *fakeUntis) authorized(r *http.Request) bool {
	return !f.expired && r.Header.Get("Cookie") == "JSESSIONID="+f.sessionID+"; schoolname=demo"
}

func (f *fakeUntis) reply(w http.ResponseWriter, id, result string, rpcErr *jsonrpc.Error) {
	resp := map[string]any{"jsonrpc": "2.0", "id": id}
	if rpcErr != nil {
		resp["error"] = rpcErr
	} else {
		resp["result"] = json.RawMessage(result)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (f *fakeUntis) set(method, result string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[method] = result
	delete(f.errors, method)
}

func (f *fakeUntis) fail(method string, code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors[method] = &jsonrpc.Error{Code: code, Message: "failure for " + method}
}

// delayStale holds back replies to method while its request carries a
// stale or expired session.
func (f *fakeUntis) delayStale(method string, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delays[method] = d
}

func (f *fakeUntis) expire() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expired = true
}

func (f *fakeUntis) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeUntis) loginCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logins
}

func (f *fakeUntis) lastParams(method string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.params[method]
	if len(all) == 0 {
		f.t.Fatalf("no %s call recorded", method)
	}
	var m map[string]any
	if err := json.Unmarshal(all[len(all)-1], &m); err != nil {
		f.t.Fatalf("decoding %s params: %v", method, err)
	}
	return m
}

func defaultResults() map[string]string {
	return map[string]string{
		"getKlassen": `[
			{"id":1,"name":"5a","longName":"Klasse 5a","active":true},
			{"id":2,"name":"5b","longName":"Klasse 5b","active":false}
		]`,

		"getTeachers": `[
			{"id":10,"name":"ADA","foreName":"Ada","longName":"Lovelace","title":"Dr.","active":true},
			{"id":20,"name":"MUE","foreName":"Max","longName":"Mueller","title":"","active":true}
		]`,

		"getSubjects": `[
			{"id":100,"name":"M","longName":"Mathematics","alternateName":"Mathe","active":true,"backColor":"ff0000"},
			{"id":200,"name":"E","longName":"English","alternateName":"","active":true}
		]`,

		"getRooms": `[
			{"id":300,"name":"R12","longName":"Room 12","building":"North","active":true},
			{"id":301,"name":"R13","longName":"Room 13","building":"North","active":true}
		]`,

		"getDepartments": `[{"id":5,"name":"SCI","longName":"Sciences"}]`,

		"getHolidays": `[{"id":1,"name":"Xmas","longName":"Christmas","startDate":20241223,"endDate":20250106}]`,

		"getSchoolyears": `[
			{"id":8,"name":"2023/2024","startDate":20230904,"endDate":20240731},
			{"id":9,"name":"2024/2025","startDate":20240902,"endDate":20250731}
		]`,

		"getCurrentSchoolyear": `{"id":9,"name":"2024/2025","startDate":20240902,"endDate":20250731}`,

		"getTimegridUnits": `[
			{"day":2,"timeUnits":[
				{"name":"1","startTime":745,"endTime":830},
				{"name":"2","startTime":835,"endTime":920}
			]},
			{"day":3,"timeUnits":[{"name":"1","startTime":745,"endTime":830}]}
		]`,

		"getTimetable": `[
			{"id":1001,"date":20240304,"startTime":745,"endTime":830,
			 "kl":[{"id":1}],"te":[{"id":10,"orgid":20}],"su":[{"id":100}],"ro":[{"id":300}],
			 "lsnumber":5,"sg":"5a_M"},
			{"id":1002,"date":20240305,"startTime":1000,"endTime":1045,"code":"cancelled",
			 "kl":[{"id":1},{"id":999}],"su":[{"id":200}],"activityType":"Unterricht","substText":"moved"}
		]`,

		"getLatestImportTime": `1709539200000`,

		"getStatusData": `{"lstypes":[],"codes":[]}`,

		"getExamTypes": `[]`,

		"getExams": `[]`,

		"getClassregEvents": `[]`,

		"getClassregCategories": `[]`,

		"getClassregCategoryGroups": `[]`,

		"getTimetableWithAbsences": `[]`,
	}
}
