package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/initializ/untis/client"
	"github.com/initializ/untis/jsonrpc"
	"github.com/initializ/untis/types"
)

func login(t *testing.T, f *fakeUntis, opts ...Option) *Session {
	t.Helper()
	s, err := Login(context.Background(), f.creds(), opts...)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	return s
}

func TestLogin(t *testing.T) {
	f := newFakeUntis(t)
	s := login(t, f)

	infos := s.Infos()
	if infos.SessionID != "SESSION-I" {
		t.Errorf("SessionID: %q", infos.SessionID)
	}
	if infos.PersonID != 42 || infos.ClassID != 7 || infos.PersonType != types.ElementPerson {
		t.Errorf("infos: %+v", infos)
	}
	if infos.Server != f.srv.URL || infos.School != "demo" || infos.Username != "max" {
		t.Errorf("infos: %+v", infos)
	}

	p := f.lastParams("authenticate")
	if p["user"] != "max" || p["password"] != "secret" || p["client"] != "untis-test" {
		t.Errorf("authenticate params: %v", p)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	f := newFakeUntis(t)
	creds := f.creds()
	creds.Password = "wrong"

	_, err := Login(context.Background(), creds)
	if !errors.Is(err, ErrLogin) {
		t.Fatalf("expected ErrLogin, got %v", err)
	}
	var le *LoginError
	if !errors.As(err, &le) || !le.BadCredentials() {
		t.Errorf("expected bad credentials LoginError, got %#v", err)
	}
}

func TestLogin_InvalidSchool(t *testing.T) {
	f := newFakeUntis(t)
	creds := f.creds()
	creds.School = "nowhere"

	_, err := Login(context.Background(), creds)
	var le *LoginError
	if !errors.As(err, &le) || le.Code() != jsonrpc.ErrCodeInvalidSchool {
		t.Fatalf("expected invalid school LoginError, got %v", err)
	}
}

func TestLogin_MissingCredentials(t *testing.T) {
	if _, err := Login(context.Background(), Credentials{Username: "max"}); err == nil {
		t.Fatal("expected error for missing server and school")
	}
}

func TestLogout(t *testing.T) {
	f := newFakeUntis(t)
	s := login(t, f)

	if err := s.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if s.LoggedIn() {
		t.Error("session should be logged out")
	}
	if _, err := s.Rooms(context.Background()); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("expected ErrNotLoggedIn, got %v", err)
	}
	if err := s.Logout(context.Background()); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("second Logout: expected ErrNotLoggedIn, got %v", err)
	}
	if f.count("getRooms") != 0 {
		t.Error("no request should reach the server after logout")
	}
}

func TestReconnect(t *testing.T) {
	f := newFakeUntis(t)
	s := login(t, f)
	if _, err := s.Rooms(context.Background()); err != nil {
		t.Fatalf("Rooms: %v", err)
	}

	if err := s.Reconnect(context.Background()); err != nil {
		t.Fatalf("Reconnect: %v", err)
	}
	if got := s.Infos().SessionID; got != "SESSION-II" {
		t.Errorf("SessionID after reconnect: %q", got)
	}
	if _, err := s.Rooms(context.Background()); err != nil {
		t.Fatalf("Rooms: %v", err)
	}
	if f.count("getRooms") != 2 {
		t.Errorf("cache should start empty after reconnect, getRooms calls: %d", f.count("getRooms"))
	}
}

func TestReconnect_AfterLogout(t *testing.T) {
	f := newFakeUntis(t)
	s := login(t, f)
	if err := s.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if err := s.Reconnect(context.Background()); err != nil {
		t.Fatalf("Reconnect: %v", err)
	}
	if _, err := s.Classes(context.Background()); err != nil {
		t.Errorf("Classes after reconnect: %v", err)
	}
}

func TestAutoReconnect(t *testing.T) {
	f := newFakeUntis(t)
	s := login(t, f, WithAutoReconnect(true), WithoutCache())

	f.expire()
	rooms, err := s.Rooms(context.Background())
	if err != nil {
		t.Fatalf("Rooms: %v", err)
	}
	if len(rooms) != 2 {
		t.Errorf("rooms: %d", len(rooms))
	}
	if f.loginCount() != 2 {
		t.Errorf("expected a second login, got %d", f.loginCount())
	}
}

func TestNoAutoReconnect(t *testing.T) {
	f := newFakeUntis(t)
	s := login(t, f, WithoutCache())

	f.expire()
	_, err := s.Rooms(context.Background())
	if !jsonrpc.IsCode(err, jsonrpc.ErrCodeNotAuthenticated) {
		t.Fatalf("expected not authenticated error, got %v", err)
	}
}

func TestCaching(t *testing.T) {
	f := newFakeUntis(t)
	s := login(t, f)

	for i := 0; i < 3; i++ {
		if _, err := s.Subjects(context.Background()); err != nil {
			t.Fatalf("Subjects: %v", err)
		}
	}
	if f.count("getSubjects") != 1 {
		t.Errorf("cached call: getSubjects calls = %d", f.count("getSubjects"))
	}

	s.UseCache(false)
	if s.CacheUsed() {
		t.Error("CacheUsed should be false")
	}
	if _, err := s.Subjects(context.Background()); err != nil {
		t.Fatalf("Subjects: %v", err)
	}
	if f.count("getSubjects") != 2 {
		t.Errorf("uncached call: getSubjects calls = %d", f.count("getSubjects"))
	}
}

func TestCaching_DifferentParamsDifferentEntries(t *testing.T) {
	f := newFakeUntis(t)
	s := login(t, f)
	ctx := context.Background()

	if _, err := s.Classes(ctx); err != nil {
		t.Fatalf("Classes: %v", err)
	}
	if _, err := s.ClassesForSchoolYear(ctx, 8); err != nil {
		t.Fatalf("ClassesForSchoolYear: %v", err)
	}
	if _, err := s.ClassesForSchoolYear(ctx, 8); err != nil {
		t.Fatalf("ClassesForSchoolYear: %v", err)
	}
	if f.count("getKlassen") != 2 {
		t.Errorf("getKlassen calls = %d", f.count("getKlassen"))
	}
	if p := f.lastParams("getKlassen"); p["schoolyearId"] != float64(8) {
		t.Errorf("params: %v", p)
	}
}

func TestLatestImportTime_NeverCached(t *testing.T) {
	f := newFakeUntis(t)
	s := login(t, f, WithCache(client.CacheConfig{Size: 10}))

	for i := 0; i < 2; i++ {
		got, err := s.LatestImportTime(context.Background())
		if err != nil {
			t.Fatalf("LatestImportTime: %v", err)
		}
		if !got.Time().Equal(time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)) {
			t.Errorf("time: %v", got.Time())
		}
	}
	if f.count("getLatestImportTime") != 2 {
		t.Errorf("getLatestImportTime calls = %d", f.count("getLatestImportTime"))
	}
}

func TestCustomData(t *testing.T) {
	f := newFakeUntis(t)
	s := login(t, f)

	resp, err := s.CustomData(context.Background(), "getStatusData", nil)
	if err != nil {
		t.Fatalf("CustomData: %v", err)
	}
	if _, err := s.CustomData(context.Background(), "getStatusData", nil); err != nil {
		t.Fatalf("CustomData: %v", err)
	}
	if f.count("getStatusData") != 2 {
		t.Errorf("custom calls should bypass the cache, got %d", f.count("getStatusData"))
	}
	if len(resp.Result) == 0 {
		t.Error("empty result")
	}

	_, err = s.CustomData(context.Background(), "getNothing", map[string]int{"id": 1})
	if !jsonrpc.IsCode(err, jsonrpc.ErrCodeMethodNotFound) {
		t.Errorf("expected method not found, got %v", err)
	}
}

func TestResume(t *testing.T) {
	f := newFakeUntis(t)
	first := login(t, f)

	s, err := Resume(f.creds(), first.Infos())
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if _, err := s.Rooms(context.Background()); err != nil {
		t.Fatalf("Rooms on resumed session: %v", err)
	}
	if f.loginCount() != 1 {
		t.Errorf("resume should not log in again, logins = %d", f.loginCount())
	}

	other := f.creds()
	other.School = "elsewhere"
	if _, err := Resume(other, first.Infos()); err == nil {
		t.Error("resuming with a different school should fail")
	}
	if _, err := Resume(f.creds(), types.Infos{}); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("expected ErrNotLoggedIn for empty infos, got %v", err)
	}
}

func TestLogout_ServerFailureClearsLocalState(t *testing.T) {
	f := newFakeUntis(t)
	s := login(t, f)
	ctx := context.Background()
	if _, err := s.Subjects(ctx); err != nil {
		t.Fatalf("Subjects: %v", err)
	}

	f.fail("logout", jsonrpc.ErrCodeInternal)
	if err := s.Logout(ctx); !jsonrpc.IsCode(err, jsonrpc.ErrCodeInternal) {
		t.Fatalf("expected the server error, got %v", err)
	}
	if s.LoggedIn() {
		t.Error("session should be logged out after a failed logout")
	}
	if _, err := s.Subjects(ctx); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("expected ErrNotLoggedIn, got %v", err)
	}
	if f.count("getSubjects") != 1 {
		t.Errorf("getSubjects calls = %d", f.count("getSubjects"))
	}
}

func TestAutoReconnect_LateStaleReplyReusesNewSession(t *testing.T) {
	f := newFakeUntis(t)
	s := login(t, f, WithAutoReconnect(true), WithoutCache())
	ctx := context.Background()

	f.expire()
	f.delayStale("getKlassen", 150*time.Millisecond)

	classesErr := make(chan error, 1)
	go func() {
		_, err := s.Classes(ctx)
		classesErr <- err
	}()
	deadline := time.Now().Add(time.Second)
	for f.count("getKlassen") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("getKlassen never reached the server")
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := s.Rooms(ctx); err != nil {
		t.Fatalf("Rooms: %v", err)
	}
	if err := <-classesErr; err != nil {
		t.Fatalf("Classes: %v", err)
	}
	if f.loginCount() != 2 {
		t.Errorf("one expiry should cause one re-login, logins = %d", f.loginCount())
	}
	if got := s.Infos().SessionID; got != "SESSION-II" {
		t.Errorf("SessionID: %q", got)
	}
	if f.count("getKlassen") != 2 {
		t.Errorf("getKlassen should be retried once, calls = %d", f.count("getKlassen"))
	}
}

func TestReconnect_SharedLoginOutlivesCancelledCaller(t *testing.T) {
	f := newFakeUntis(t)
	s := login(t, f)
	f.delayStale("authenticate", 100*time.Millisecond)

	short, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	shortErr := make(chan error, 1)
	go func() { shortErr <- s.Reconnect(short) }()
	time.Sleep(5 * time.Millisecond)

	if err := s.Reconnect(context.Background()); err != nil {
		t.Fatalf("Reconnect: %v", err)
	}
	if err := <-shortErr; !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded for the short caller, got %v", err)
	}
	if f.loginCount() != 2 {
		t.Errorf("concurrent reconnects should share one login, logins = %d", f.loginCount())
	}
	if _, err := s.Rooms(context.Background()); err != nil {
		t.Errorf("Rooms after reconnect: %v", err)
	}
}
