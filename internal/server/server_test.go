package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/pathfinder/internal/archetype"
	"github.com/jonathan/pathfinder/internal/assessment"
	"github.com/jonathan/pathfinder/internal/config"
	"github.com/jonathan/pathfinder/internal/discover"
	"github.com/jonathan/pathfinder/internal/server/ratelimit"
	"github.com/jonathan/pathfinder/internal/store"
	"github.com/jonathan/pathfinder/internal/syncagent"
)

type stubProvider struct{}

func (stubProvider) Questions(_ context.Context, kind assessment.Kind, count int) ([]assessment.Question, error) {
	questions := make([]assessment.Question, count)
	for i := range questions {
		questions[i] = assessment.Question{Index: i, Text: fmt.Sprintf("%s q%d", kind, i)}
	}
	return questions, nil
}

func (stubProvider) Results(_ context.Context, kind assessment.Kind, _ string) (*assessment.Report, error) {
	report := &assessment.Report{Kind: kind}
	if kind == assessment.Interests {
		for i, c := range archetype.Categories {
			report.Categories = append(report.Categories, assessment.CategoryScore{
				Key: string(c), Score: 95 - i*5, Title: string(c),
			})
		}
	}
	return report, nil
}

func (stubProvider) CareerMatches(context.Context, archetype.Profile) ([]assessment.CareerMatch, error) {
	return []assessment.CareerMatch{{Code: "17-2051.00", Title: "Civil Engineer", Fit: "great"}}, nil
}

func (stubProvider) CareerDetails(_ context.Context, code string) (*assessment.CareerDetails, error) {
	if code == "00-0000.00" {
		return nil, nil
	}
	return &assessment.CareerDetails{Code: code, Title: "Civil Engineer"}, nil
}

// newTestServer wires a server over the in-memory store with rate limiting
// off, plus an httptest server around its handler.
func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	memory := store.NewMemory()
	s := &Server{
		gateway:     store.NewGateway(memory),
		provider:    stubProvider{},
		rateLimiter: ratelimit.NewLimiter(&ratelimit.Config{Enabled: false}),
	}
	s.registry = discover.NewRegistry(s.gateway, s.provider)
	s.syncAgent = syncagent.New(s.gateway)
	s.userService = NewUserService(memory, &config.PasswordConfig{BcryptCost: 10})
	s.jwtService = NewJWTService(&config.JWTConfig{
		Secret:          "test-secret-key-for-jwt-signing-minimum-32-bytes",
		ExpirationHours: 1,
	})
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	ts := httptest.NewServer(s.buildHandler())
	t.Cleanup(ts.Close)
	return s, ts
}

func registerUser(t *testing.T, ts *httptest.Server, email string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"name": "Test User", "email": email, "password": "password123",
	})
	resp, err := http.Post(ts.URL+"/auth/register", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	require.NotEmpty(t, login.Token)
	return login.Token
}

// doAuthed issues a request with the bearer token, without following
// redirects, and decodes a JSON body into out when it is non-nil.
func doAuthed(t *testing.T, ts *httptest.Server, token, method, path string, body any, out any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/app")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterLoginAndPasswordUpdate(t *testing.T) {
	_, ts := newTestServer(t)
	token := registerUser(t, ts, "flow@example.com")

	body, _ := json.Marshal(map[string]string{"email": "flow@example.com", "password": "password123"})
	resp, err := http.Post(ts.URL+"/auth/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doAuthed(t, ts, token, http.MethodPut, "/auth/password", map[string]string{
		"current_password": "password123",
		"new_password":     "betterpassword456",
	}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ = json.Marshal(map[string]string{"email": "flow@example.com", "password": "betterpassword456"})
	resp, err = http.Post(ts.URL+"/auth/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNavigateBareRootRedirectsToDefaultTab(t *testing.T) {
	_, ts := newTestServer(t)
	token := registerUser(t, ts, "nav@example.com")

	resp := doAuthed(t, ts, token, http.MethodGet, "/app", nil, nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/app/discover/overview", resp.Header.Get("Location"))
	assert.Equal(t, "replace", resp.Header.Get("X-History"))
}

func TestNavigateDiscoverCanonicalizesToOverview(t *testing.T) {
	_, ts := newTestServer(t)
	token := registerUser(t, ts, "nav2@example.com")

	resp := doAuthed(t, ts, token, http.MethodGet, "/app/discover", nil, nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/app/discover/overview", resp.Header.Get("Location"))
	assert.Equal(t, "replace", resp.Header.Get("X-History"))
}

func TestNavigateOverviewReturnsAllViews(t *testing.T) {
	_, ts := newTestServer(t)
	token := registerUser(t, ts, "nav3@example.com")

	var state struct {
		Tab    string          `json:"tab"`
		SubTab string          `json:"subtab"`
		Views  []discover.View `json:"views"`
	}
	resp := doAuthed(t, ts, token, http.MethodGet, "/app/discover/overview", nil, &state)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "discover", state.Tab)
	assert.Equal(t, "overview", state.SubTab)
	require.Len(t, state.Views, 3)
	for _, v := range state.Views {
		assert.Equal(t, assessment.StageIntro, v.Stage)
	}
}

func TestNavigateUnknownTabRedirects(t *testing.T) {
	_, ts := newTestServer(t)
	token := registerUser(t, ts, "nav4@example.com")

	resp := doAuthed(t, ts, token, http.MethodGet, "/app/bogus", nil, nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/app/discover/overview", resp.Header.Get("Location"))
}

func completeOverHTTP(t *testing.T, ts *httptest.Server, token string, sub string, count int) discover.View {
	t.Helper()

	var view discover.View
	resp := doAuthed(t, ts, token, http.MethodPost, "/app/discover/"+sub+"/start", nil, &view)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, assessment.StageQuestions, view.Stage)
	require.Len(t, view.Questions, count)

	for i := 0; i < count; i++ {
		resp = doAuthed(t, ts, token, http.MethodPost, "/app/discover/"+sub+"/answers",
			map[string]string{"value": "3"}, &view)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	require.Equal(t, assessment.StageResults, view.Stage)
	return view
}

func TestAssessmentFlowOverHTTP(t *testing.T) {
	_, ts := newTestServer(t)
	token := registerUser(t, ts, "assess@example.com")

	view := completeOverHTTP(t, ts, token, "interests", 60)
	require.NotNil(t, view.Archetype)
	assert.Equal(t, archetype.Realistic, view.Archetype.Types[0])

	// Career matches arrive with the interests results
	var matches struct {
		Matches []assessment.CareerMatch `json:"matches"`
	}
	resp := doAuthed(t, ts, token, http.MethodGet, "/app/discover/interests/matches", nil, &matches)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, matches.Matches, 1)
	assert.Equal(t, "17-2051.00", matches.Matches[0].Code)

	// Theme follows the top two interest categories
	var th struct {
		Colors struct {
			Primary   string `json:"primary"`
			Secondary string `json:"secondary"`
		} `json:"colors"`
	}
	resp = doAuthed(t, ts, token, http.MethodGet, "/app/theme", nil, &th)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "#38A169", th.Colors.Primary)
	assert.Equal(t, "#3182CE", th.Colors.Secondary)
}

func TestStartFromQuestionsConflicts(t *testing.T) {
	_, ts := newTestServer(t)
	token := registerUser(t, ts, "conflict@example.com")

	resp := doAuthed(t, ts, token, http.MethodPost, "/app/discover/personality/start", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doAuthed(t, ts, token, http.MethodPost, "/app/discover/personality/start", nil, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSentinelAnswerRejected(t *testing.T) {
	_, ts := newTestServer(t)
	token := registerUser(t, ts, "sentinel@example.com")

	resp := doAuthed(t, ts, token, http.MethodPost, "/app/discover/personality/start", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doAuthed(t, ts, token, http.MethodPost, "/app/discover/personality/answers",
		map[string]string{"value": "?"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCancelPreservesAnswersAndInterestsCannotCancel(t *testing.T) {
	_, ts := newTestServer(t)
	token := registerUser(t, ts, "cancel@example.com")

	var view discover.View
	resp := doAuthed(t, ts, token, http.MethodPost, "/app/discover/personality/start", nil, &view)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	for i := 0; i < 5; i++ {
		doAuthed(t, ts, token, http.MethodPost, "/app/discover/personality/answers",
			map[string]string{"value": "2"}, &view)
	}

	resp = doAuthed(t, ts, token, http.MethodPost, "/app/discover/personality/cancel", nil, &view)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, assessment.StageIntro, view.Stage)
	assert.Equal(t, 5, view.AnsweredCount)

	// Restart resumes at the first unanswered question
	resp = doAuthed(t, ts, token, http.MethodPost, "/app/discover/personality/start", nil, &view)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 5, view.CurrentIndex)

	// Interests has no cancel affordance
	doAuthed(t, ts, token, http.MethodPost, "/app/discover/interests/start", nil, nil)
	resp = doAuthed(t, ts, token, http.MethodPost, "/app/discover/interests/cancel", nil, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRetakeClearsResults(t *testing.T) {
	_, ts := newTestServer(t)
	token := registerUser(t, ts, "retake@example.com")

	completeOverHTTP(t, ts, token, "cognitive-style", 24)

	var view discover.View
	resp := doAuthed(t, ts, token, http.MethodPost, "/app/discover/cognitive-style/retake", nil, &view)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, assessment.StageQuestions, view.Stage)
	assert.Equal(t, 0, view.AnsweredCount)
}

func TestCompletedAssessmentNavigationRestoresResults(t *testing.T) {
	_, ts := newTestServer(t)
	token := registerUser(t, ts, "restore@example.com")

	completeOverHTTP(t, ts, token, "personality", 40)

	var state struct {
		View *discover.View `json:"view"`
	}
	resp := doAuthed(t, ts, token, http.MethodGet, "/app/discover/personality", nil, &state)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, state.View)
	assert.Equal(t, assessment.StageResults, state.View.Stage)
}

func TestUnknownAssessmentSubtab(t *testing.T) {
	_, ts := newTestServer(t)
	token := registerUser(t, ts, "unknown@example.com")

	resp := doAuthed(t, ts, token, http.MethodPost, "/app/discover/astrology/start", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCareerDetailsEndpoint(t *testing.T) {
	_, ts := newTestServer(t)
	token := registerUser(t, ts, "careers@example.com")

	var details assessment.CareerDetails
	resp := doAuthed(t, ts, token, http.MethodGet, "/careers/17-2051.00", nil, &details)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Civil Engineer", details.Title)

	resp = doAuthed(t, ts, token, http.MethodGet, "/careers/00-0000.00", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFlagsEndpoint(t *testing.T) {
	_, ts := newTestServer(t)
	token := registerUser(t, ts, "flags@example.com")

	var flags discover.FeatureFlags
	resp := doAuthed(t, ts, token, http.MethodGet, "/app/flags", nil, &flags)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, flags.ShowDiscover)
	assert.Equal(t, "discover", string(flags.DefaultTab))
}
