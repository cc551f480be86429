package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrakeen/tennis-player-rest/models"
	"github.com/arrakeen/tennis-player-rest/repositories"
	"github.com/arrakeen/tennis-player-rest/services"
)

// stubPlayerRepository — хранилище в памяти, чтобы гонять обработчики
// через реальный сервис без Postgres.
type stubPlayerRepository struct {
	players map[int]models.Player
	nextID  int
}

func newStubPlayerRepository() *stubPlayerRepository {
	return &stubPlayerRepository{players: make(map[int]models.Player), nextID: 1}
}

func (r *stubPlayerRepository) GetAllOrderedByID(ctx context.Context) ([]models.Player, error) {
	ids := make([]int, 0, len(r.players))
	for id := range r.players {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	players := make([]models.Player, 0, len(ids))
	for _, id := range ids {
		players = append(players, r.players[id])
	}
	return players, nil
}

func (r *stubPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	player, ok := r.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	return &player, nil
}

func (r *stubPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	player.ID = r.nextID
	r.nextID++
	if player.PlayerProfile != nil && player.PlayerProfile.ID == 0 {
		player.PlayerProfile.ID = player.ID
	}
	r.players[player.ID] = *player
	return nil
}

func (r *stubPlayerRepository) Update(ctx context.Context, player *models.Player) error {
	if _, ok := r.players[player.ID]; !ok {
		return repositories.ErrPlayerNotFound
	}
	r.players[player.ID] = *player
	return nil
}

func (r *stubPlayerRepository) UpdateTitles(ctx context.Context, id int, titles int) error {
	if player, ok := r.players[id]; ok {
		player.Titles = titles
		r.players[id] = player
	}
	return nil
}

func (r *stubPlayerRepository) Delete(ctx context.Context, id int) error {
	delete(r.players, id)
	return nil
}

func newTestRouter(repo repositories.PlayerRepository) *chi.Mux {
	handler := NewPlayerHandler(services.NewPlayerService(repo))

	router := chi.NewRouter()
	router.Get("/welcome", handler.Welcome)
	router.Route("/players", func(r chi.Router) {
		r.Get("/", handler.GetAllPlayers)
		r.Post("/", handler.AddPlayer)
		r.Get("/{playerID}", handler.GetPlayerByID)
		r.Put("/{playerID}", handler.UpdatePlayer)
		r.Patch("/{playerID}", handler.PatchPlayer)
		r.Delete("/{playerID}", handler.DeletePlayer)
		r.Patch("/{playerID}/titles", handler.UpdateTitles)
	})
	return router
}

func seedMurray(t *testing.T, repo *stubPlayerRepository) models.Player {
	t.Helper()
	player := models.Player{
		Name:        "Andy Murray",
		Nationality: "Great Britain",
		BirthDate:   models.NewDate(1987, time.May, 15),
		Titles:      3,
	}
	require.NoError(t, repo.Create(context.Background(), &player))
	return player
}

func doRequest(router *chi.Mux, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestWelcome(t *testing.T) {
	router := newTestRouter(newStubPlayerRepository())

	rec := doRequest(router, http.MethodGet, "/welcome", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Tennis Player REST API", rec.Body.String())
}

func TestGetAllPlayers_EmptyStore(t *testing.T) {
	router := newTestRouter(newStubPlayerRepository())

	rec := doRequest(router, http.MethodGet, "/players", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestGetPlayer_NotFound(t *testing.T) {
	router := newTestRouter(newStubPlayerRepository())

	rec := doRequest(router, http.MethodGet, "/players/999", "")

	require.Equal(t, http.StatusNotFound, rec.Code)

	var body struct {
		Timestamp  time.Time `json:"timestamp"`
		StatusCode int       `json:"statusCode"`
		Path       string    `json:"path"`
		Message    string    `json:"message"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, http.StatusNotFound, body.StatusCode)
	assert.Equal(t, "/players/999", body.Path)
	assert.Equal(t, "Player with id 999 not found.", body.Message)
	assert.False(t, body.Timestamp.IsZero())
}

func TestAddPlayer_Created(t *testing.T) {
	router := newTestRouter(newStubPlayerRepository())

	rec := doRequest(router, http.MethodPost, "/players",
		`{"name":"Andy Murray","nationality":"Great Britain","birthDate":"15-05-1987","titles":3}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	var player models.Player
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&player))
	assert.NotZero(t, player.ID)
	assert.Equal(t, "Andy Murray", player.Name)
	assert.Equal(t, 3, player.Titles)
	assert.Equal(t, "15-05-1987", player.BirthDate.String())
	assert.Nil(t, player.PlayerProfile)
}

func TestAddPlayer_WithProfile(t *testing.T) {
	router := newTestRouter(newStubPlayerRepository())

	rec := doRequest(router, http.MethodPost, "/players",
		`{"name":"Roger Federer","nationality":"Switzerland","birthDate":"08-08-1981","titles":20,"playerProfile":{"twitter":"@rogerfederer"}}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	var player models.Player
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&player))
	require.NotNil(t, player.PlayerProfile)
	assert.NotZero(t, player.PlayerProfile.ID)
	require.NotNil(t, player.PlayerProfile.Twitter)
	assert.Equal(t, "@rogerfederer", *player.PlayerProfile.Twitter)
}

func TestUpdatePlayer_EmptyNameIsBadRequest(t *testing.T) {
	repo := newStubPlayerRepository()
	seedMurray(t, repo)
	router := newTestRouter(repo)

	rec := doRequest(router, http.MethodPut, "/players/1",
		`{"name":"","nationality":"Great Britain","birthDate":"15-05-1987","titles":3}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t,
		"All player attributes (name, nationality, birthDate, titles) must be provided and valid",
		rec.Body.String())
}

// Валидация формы выполняется до проверки существования: некорректное
// тело против несуществующего id всё равно даёт 400, а не 404.
func TestUpdatePlayer_MalformedBodyBeatsNotFound(t *testing.T) {
	router := newTestRouter(newStubPlayerRepository())

	rec := doRequest(router, http.MethodPut, "/players/999",
		`{"name":"","nationality":"","birthDate":null,"titles":-1}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdatePlayer_NotFound(t *testing.T) {
	router := newTestRouter(newStubPlayerRepository())

	rec := doRequest(router, http.MethodPut, "/players/999",
		`{"name":"Andy Murray","nationality":"Great Britain","birthDate":"15-05-1987","titles":3}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdatePlayer_Success(t *testing.T) {
	repo := newStubPlayerRepository()
	seedMurray(t, repo)
	router := newTestRouter(repo)

	rec := doRequest(router, http.MethodPut, "/players/1",
		`{"name":"Sir Andy Murray","nationality":"Great Britain","birthDate":"15-05-1987","titles":4}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var player models.Player
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&player))
	assert.Equal(t, 1, player.ID)
	assert.Equal(t, "Sir Andy Murray", player.Name)
	assert.Equal(t, 4, player.Titles)
}

func TestPatchPlayer_PartialUpdate(t *testing.T) {
	repo := newStubPlayerRepository()
	seedMurray(t, repo)
	router := newTestRouter(repo)

	rec := doRequest(router, http.MethodPatch, "/players/1", `{"name":"X","titles":10}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var player models.Player
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&player))
	assert.Equal(t, "X", player.Name)
	assert.Equal(t, 10, player.Titles)
	assert.Equal(t, "Great Britain", player.Nationality)
	assert.Equal(t, "15-05-1987", player.BirthDate.String())
}

func TestPatchPlayer_UnknownField(t *testing.T) {
	repo := newStubPlayerRepository()
	seedMurray(t, repo)
	router := newTestRouter(repo)

	rec := doRequest(router, http.MethodPatch, "/players/1", `{"ranking":1}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	stored, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Andy Murray", stored.Name)
}

func TestPatchPlayer_NotFound(t *testing.T) {
	router := newTestRouter(newStubPlayerRepository())

	rec := doRequest(router, http.MethodPatch, "/players/999", `{"name":"X"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateTitles_RawIntegerBody(t *testing.T) {
	repo := newStubPlayerRepository()
	seedMurray(t, repo)
	router := newTestRouter(repo)

	rec := doRequest(router, http.MethodPatch, "/players/1/titles", `7`)

	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 7, stored.Titles)
	assert.Equal(t, "Andy Murray", stored.Name)
}

// Путь обновления титулов не проверяет существование игрока:
// запись по отсутствующему id возвращает 200.
func TestUpdateTitles_MissingPlayerStillOK(t *testing.T) {
	router := newTestRouter(newStubPlayerRepository())

	rec := doRequest(router, http.MethodPatch, "/players/999/titles", `7`)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeletePlayer_Success(t *testing.T) {
	repo := newStubPlayerRepository()
	seedMurray(t, repo)
	router := newTestRouter(repo)

	rec := doRequest(router, http.MethodDelete, "/players/1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Player with id 1 deleted", rec.Body.String())

	rec = doRequest(router, http.MethodDelete, "/players/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetPlayer_InvalidID(t *testing.T) {
	router := newTestRouter(newStubPlayerRepository())

	rec := doRequest(router, http.MethodGet, "/players/abc", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
