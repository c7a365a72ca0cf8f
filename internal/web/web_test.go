package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/frostline/holidayquest/internal/achievements"
	"github.com/frostline/holidayquest/internal/auth"
	"github.com/frostline/holidayquest/internal/gallery"
	"github.com/frostline/holidayquest/internal/games/coding"
	"github.com/frostline/holidayquest/internal/games/quiz"
	"github.com/frostline/holidayquest/internal/progress"
	"github.com/frostline/holidayquest/internal/store"
)

func slogDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memBlob struct {
	keys []string
}

func (b *memBlob) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	b.keys = append(b.keys, key)
	return "https://cdn.example/" + key, nil
}

type testEnv struct {
	srv  *httptest.Server
	st   *store.Store
	blob *memBlob
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(ctx, store.Options{DSN: filepath.Join(t.TempDir(), "web.db")})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	logger := slogDiscard()
	hub := progress.NewHub(8)
	ach := achievements.NewService(st.AchievementRepo(), logger)
	gate := progress.NewGate(st, progress.WithLogger(logger))
	gate.Subscribe(ach)
	gate.Subscribe(hub)

	blob := &memBlob{}
	s := New(Deps{
		Store:        st,
		Gate:         gate,
		Hub:          hub,
		Auth:         auth.NewService(st, bcrypt.MinCost, logger),
		Sessions:     auth.NewSessions(auth.SessionConfig{Secret: "0123456789abcdef0123456789abcdef"}, logger),
		Achievements: ach,
		Gallery:      gallery.NewService(blob, st.PhotoRepo(), st.WishRepo(), gallery.WithHooks(ach), gallery.WithLogger(logger)),
		Runner:       coding.NewSandboxRunner(2*time.Second, 1000),
		Logger:       logger,
		Version:      "1.2.3",
	})
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, st: st, blob: blob}
}

func (e *testEnv) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func doJSON(t *testing.T, c *http.Client, method, url string, body any, out any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func (e *testEnv) signup(t *testing.T, c *http.Client, email string) {
	t.Helper()
	resp := doJSON(t, c, http.MethodPost, e.srv.URL+"/api/auth/signup", auth.SignupInput{
		Email: email, Password: "secret1", Confirm: "secret1", FullName: "Hero",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func perfectQuiz() map[string]any {
	var answers []quiz.Answer
	for _, q := range quiz.Bank() {
		answers = append(answers, quiz.Answer{Question: q.ID, Selected: q.Correct})
	}
	return map[string]any{"answers": answers}
}

func TestHealthAndVersion(t *testing.T) {
	e := newTestEnv(t)

	resp, err := http.Get(e.srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

	resp, err = http.Get(e.srv.URL + "/version")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "holidayquest v1.2.3\n", string(body))
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	e := newTestEnv(t)
	var out errorBody
	resp := doJSON(t, http.DefaultClient, http.MethodGet, e.srv.URL+"/api/nope", nil, &out)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", out.Error.Kind)
}

func TestAnonymousRequestsAreRejected(t *testing.T) {
	e := newTestEnv(t)
	for _, path := range []string{"/api/auth/me", "/api/progress", "/api/games/quiz", "/api/certificates", "/api/gallery/photos"} {
		t.Run(path, func(t *testing.T) {
			var out errorBody
			resp := doJSON(t, http.DefaultClient, http.MethodGet, e.srv.URL+path, nil, &out)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "not_authenticated", out.Error.Kind)
		})
	}
}

func TestPublicCatalog(t *testing.T) {
	e := newTestEnv(t)
	var out struct {
		Games []gameEntry `json:"games"`
	}
	resp := doJSON(t, http.DefaultClient, http.MethodGet, e.srv.URL+"/api/games", nil, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, out.Games, 6)
	assert.Equal(t, "quiz", string(out.Games[0].Slug))
	assert.NotEmpty(t, out.Games[0].UnlockRule)
}

func TestSignupLoginLogout(t *testing.T) {
	e := newTestEnv(t)
	c := e.client(t)
	e.signup(t, c, "hero@north.pole")

	var me accountResponse
	resp := doJSON(t, c, http.MethodGet, e.srv.URL+"/api/auth/me", nil, &me)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hero@north.pole", me.User.Email)
	assert.Equal(t, 0, me.Summary.Completed)

	resp = doJSON(t, c, http.MethodPost, e.srv.URL+"/api/auth/logout", nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = doJSON(t, c, http.MethodGet, e.srv.URL+"/api/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var bad errorBody
	resp = doJSON(t, c, http.MethodPost, e.srv.URL+"/api/auth/login", loginRequest{Email: "hero@north.pole", Password: "wrong!"}, &bad)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, c, http.MethodPost, e.srv.URL+"/api/auth/login", loginRequest{Email: "hero@north.pole", Password: "secret1"}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSignupValidation(t *testing.T) {
	e := newTestEnv(t)
	var out errorBody
	resp := doJSON(t, e.client(t), http.MethodPost, e.srv.URL+"/api/auth/signup", auth.SignupInput{
		Email: "hero@north.pole", Password: "secret1", Confirm: "secret2",
	}, &out)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "validation", out.Error.Kind)
}

func TestLockedGameIsConflict(t *testing.T) {
	e := newTestEnv(t)
	c := e.client(t)
	e.signup(t, c, "hero@north.pole")

	var out errorBody
	resp := doJSON(t, c, http.MethodGet, e.srv.URL+"/api/games/crossword", nil, &out)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "game_locked", out.Error.Kind)

	resp = doJSON(t, c, http.MethodPost, e.srv.URL+"/api/games/crossword/submit", map[string]any{"entries": [][]string{}}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestQuizSubmissionUnlocksNextGame(t *testing.T) {
	e := newTestEnv(t)
	c := e.client(t)
	e.signup(t, c, "hero@north.pole")

	var detail map[string]json.RawMessage
	resp := doJSON(t, c, http.MethodGet, e.srv.URL+"/api/games/quiz", nil, &detail)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, detail, "content")
	assert.Contains(t, detail, "submission")

	var out submitResponse
	resp = doJSON(t, c, http.MethodPost, e.srv.URL+"/api/games/quiz/submit", perfectQuiz(), &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, out.Completed)
	assert.Equal(t, 100, out.Score)
	require.NotNil(t, out.Result)
	assert.Equal(t, 2, out.Result.UnlockedGame)

	var prog progressResponse
	doJSON(t, c, http.MethodGet, e.srv.URL+"/api/progress", nil, &prog)
	assert.Equal(t, 1, prog.Summary.Completed)
	assert.Equal(t, 100, prog.Summary.TotalScore)

	resp = doJSON(t, c, http.MethodGet, e.srv.URL+"/api/games/crossword", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var badges struct {
		Achievements []achievements.Badge `json:"achievements"`
	}
	doJSON(t, c, http.MethodGet, e.srv.URL+"/api/achievements", nil, &badges)
	assert.NotEmpty(t, badges.Achievements)
}

func TestSubmissionSchemaIsEnforced(t *testing.T) {
	e := newTestEnv(t)
	c := e.client(t)
	e.signup(t, c, "hero@north.pole")

	var out errorBody
	resp := doJSON(t, c, http.MethodPost, e.srv.URL+"/api/games/quiz/submit", map[string]any{"answers": "all of them"}, &out)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "validation", out.Error.Kind)

	var prog progressResponse
	doJSON(t, c, http.MethodGet, e.srv.URL+"/api/progress", nil, &prog)
	assert.Equal(t, 0, prog.Summary.Completed)
}

func TestCheckOnlyServesNetworking(t *testing.T) {
	e := newTestEnv(t)
	c := e.client(t)
	e.signup(t, c, "hero@north.pole")

	resp := doJSON(t, c, http.MethodPost, e.srv.URL+"/api/games/quiz/check", map[string]int{"question": 1, "selected": 0}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Networking is still locked for a new user.
	resp = doJSON(t, c, http.MethodPost, e.srv.URL+"/api/games/networking/check", map[string]int{"question": 1, "selected": 0}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestWishes(t *testing.T) {
	e := newTestEnv(t)
	c := e.client(t)

	resp := doJSON(t, c, http.MethodPost, e.srv.URL+"/api/wishes", map[string]string{"text": "snow"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	e.signup(t, c, "hero@north.pole")
	var wish store.Wish
	resp = doJSON(t, c, http.MethodPost, e.srv.URL+"/api/wishes", map[string]string{"text": "  Let it snow  "}, &wish)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Let it snow", wish.Text)
	assert.Equal(t, "Hero", wish.Author)

	resp = doJSON(t, c, http.MethodPost, e.srv.URL+"/api/wishes", map[string]string{"text": "   "}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var list struct {
		Wishes []store.Wish `json:"wishes"`
	}
	resp = doJSON(t, http.DefaultClient, http.MethodGet, e.srv.URL+"/api/wishes?limit=5", nil, &list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, list.Wishes, 1)
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func multipartPhoto(t *testing.T, filename, caption string, data []byte) (string, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="photo"; filename="`+filename+`"`)
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("caption", caption))
	require.NoError(t, mw.Close())
	return mw.FormDataContentType(), &buf
}

func TestPhotoUpload(t *testing.T) {
	e := newTestEnv(t)
	c := e.client(t)
	e.signup(t, c, "hero@north.pole")

	ct, body := multipartPhoto(t, "tree.png", "Our tree", pngHeader)
	resp, err := c.Post(e.srv.URL+"/api/gallery/photos", ct, body)
	require.NoError(t, err)
	var p store.Photo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Our tree", p.Caption)
	assert.True(t, strings.HasPrefix(p.URL, "https://cdn.example/"))
	require.Len(t, e.blob.keys, 1)
	assert.True(t, strings.HasSuffix(e.blob.keys[0], "_tree.png"))

	var list struct {
		Photos []store.Photo `json:"photos"`
	}
	doJSON(t, c, http.MethodGet, e.srv.URL+"/api/gallery/photos", nil, &list)
	assert.Len(t, list.Photos, 1)
}

func TestPhotoUploadRejectsNonImages(t *testing.T) {
	e := newTestEnv(t)
	c := e.client(t)
	e.signup(t, c, "hero@north.pole")

	ct, body := multipartPhoto(t, "notes.png", "", []byte("just some text, not a picture"))
	resp, err := c.Post(e.srv.URL+"/api/gallery/photos", ct, body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Empty(t, e.blob.keys)

	resp, err = c.Post(e.srv.URL+"/api/gallery/photos", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestGiftsAndCountdown(t *testing.T) {
	e := newTestEnv(t)

	resp, err := http.Get(e.srv.URL + "/api/gifts/1/card.svg")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.Contains(t, string(body), "<svg")

	resp, err = http.Get(e.srv.URL + "/api/gifts/999/card.svg")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var cd struct {
		Days int `json:"days"`
	}
	resp = doJSON(t, http.DefaultClient, http.MethodGet, e.srv.URL+"/api/countdown", nil, &cd)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.GreaterOrEqual(t, cd.Days, 0)

	var pl struct {
		Tracks []struct {
			Title    string `json:"title"`
			Duration string `json:"duration"`
		} `json:"tracks"`
		TotalSeconds int `json:"total_seconds"`
	}
	resp = doJSON(t, http.DefaultClient, http.MethodGet, e.srv.URL+"/api/playlist", nil, &pl)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, pl.Tracks, 8)
	assert.Equal(t, "3:24", pl.Tracks[0].Duration)
	assert.Equal(t, 1809, pl.TotalSeconds)
}

func TestCertificatesBelongToOwner(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.client(t)
	e.signup(t, owner, "hero@north.pole")
	other := e.client(t)
	e.signup(t, other, "grinch@north.pole")

	u, err := e.st.UserRepo().ByEmail(ctx, "hero@north.pole")
	require.NoError(t, err)
	cert := &store.Certificate{UserID: u.ID, TotalScore: 500, GamesCompleted: 6}
	require.NoError(t, e.st.CertificateRepo().Insert(ctx, cert))

	var list struct {
		Certificates []store.Certificate `json:"certificates"`
	}
	doJSON(t, owner, http.MethodGet, e.srv.URL+"/api/certificates", nil, &list)
	require.Len(t, list.Certificates, 1)

	resp := doJSON(t, owner, http.MethodGet, e.srv.URL+"/api/certificates/"+cert.ID, nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = doJSON(t, other, http.MethodGet, e.srv.URL+"/api/certificates/"+cert.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	qr, err := owner.Get(e.srv.URL + "/api/certificates/" + cert.ID + "/qr")
	require.NoError(t, err)
	png, _ := io.ReadAll(qr.Body)
	qr.Body.Close()
	assert.Equal(t, http.StatusOK, qr.StatusCode)
	assert.Equal(t, "image/png", qr.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestProgressStream(t *testing.T) {
	e := newTestEnv(t)
	c := e.client(t)
	e.signup(t, c, "hero@north.pole")

	wsURL := "ws" + strings.TrimPrefix(e.srv.URL, "http") + "/api/progress/stream"
	dialer := websocket.Dialer{Jar: c.Jar, HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var snap progress.Update
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, "snapshot", snap.Type)
	assert.Len(t, snap.Slots, 6)

	resp := doJSON(t, c, http.MethodPost, e.srv.URL+"/api/games/quiz/submit", perfectQuiz(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var upd progress.Update
	require.NoError(t, conn.ReadJSON(&upd))
	assert.Equal(t, "completion", upd.Type)
	assert.Equal(t, 1, upd.Summary.Completed)
	assert.Equal(t, 2, upd.Unlocked)
}

func TestStreamRequiresSession(t *testing.T) {
	e := newTestEnv(t)
	wsURL := "ws" + strings.TrimPrefix(e.srv.URL, "http") + "/api/progress/stream"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
