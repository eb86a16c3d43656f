package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventhall/internal/database"
	"eventhall/internal/domain"
	"eventhall/internal/logger"
	"eventhall/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code string `json:"code"`
	} `json:"error"`
}

// asUser stands in for the JWT middleware.
func asUser(id int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", id)
		c.Next()
	}
}

func setupRouter(t *testing.T) (*gin.Engine, *repository.HallRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:", logger.Discard())
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(context.Background(), db))

	halls := repository.NewHallRepository(db)
	performers := repository.NewPerformerRepository(db)
	h := NewHandler(NewService(halls, performers))

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.GET("/halls", h.GetHalls)
	v1.GET("/halls/:id", h.GetHallByID)
	v1.GET("/performers", h.GetPerformers)
	v1.GET("/performers/genres", h.GetGenres)
	v1.POST("/performers", h.CreatePerformer)

	owner := v1.Group("/", asUser(7))
	owner.POST("/halls", h.CreateHall)
	owner.PUT("/halls/:id", h.UpdateHall)
	owner.GET("/owner/halls", h.GetMyHalls)

	stranger := v1.Group("/other", asUser(8))
	stranger.PUT("/halls/:id", h.UpdateHall)

	return router, halls
}

func performRequest(router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var env envelope
	_ = json.Unmarshal(resp.Body.Bytes(), &env)
	return resp, env
}

func TestCreateAndGetHall(t *testing.T) {
	router, _ := setupRouter(t)

	resp, env := performRequest(router, http.MethodPost, "/api/v1/halls", CreateHallRequest{
		Name:     "Grand Hall",
		Location: "Almaty",
		Capacity: 200,
		Prices:   domain.DefaultPrices{Morning: 100, Evening: 150, FullDay: 220},
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var created struct {
		Hall domain.Hall `json:"hall"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, int64(7), created.Hall.OwnerID)
	assert.True(t, created.Hall.IsActive)

	resp, env = performRequest(router, http.MethodGet, "/api/v1/halls/1", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var got struct {
		Hall domain.Hall `json:"hall"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, int64(220), got.Hall.Prices.FullDay)
}

func TestCreateHall_Validation(t *testing.T) {
	router, _ := setupRouter(t)

	resp, env := performRequest(router, http.MethodPost, "/api/v1/halls", map[string]any{"name": "X"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	resp, env = performRequest(router, http.MethodPost, "/api/v1/halls", CreateHallRequest{
		Name: "Cheap", Location: "Almaty", Capacity: 10,
		Prices: domain.DefaultPrices{Morning: -1},
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestUpdateHall_OwnerOnly(t *testing.T) {
	router, halls := setupRouter(t)
	hall := &domain.Hall{OwnerID: 7, Name: "Loft", Location: "Astana", Capacity: 50, IsActive: true}
	require.NoError(t, halls.Create(context.Background(), hall))

	resp, env := performRequest(router, http.MethodPut, "/api/v1/other/halls/1", map[string]any{"name": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	resp, _ = performRequest(router, http.MethodPut, "/api/v1/halls/1", map[string]any{"is_active": false})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp, env = performRequest(router, http.MethodGet, "/api/v1/halls/1", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	resp, env = performRequest(router, http.MethodGet, "/api/v1/owner/halls", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var mine struct {
		Halls []domain.Hall `json:"halls"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	assert.Len(t, mine.Halls, 1)
}

func TestGetHalls_Pagination(t *testing.T) {
	router, halls := setupRouter(t)
	for _, name := range []string{"A", "B", "C"} {
		require.NoError(t, halls.Create(context.Background(), &domain.Hall{
			OwnerID: 7, Name: name, Location: "Almaty", Capacity: 10, IsActive: true,
		}))
	}

	resp, env := performRequest(router, http.MethodGet, "/api/v1/halls?limit=2&page=2", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var list HallList
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list.Halls, 1)
	assert.Equal(t, int64(3), list.Pagination.Total)
	assert.Equal(t, 2, list.Pagination.TotalPages)
}

func TestPerformers(t *testing.T) {
	router, _ := setupRouter(t)

	for _, p := range []CreatePerformerRequest{
		{Name: "DJ Nova", Genre: "DJ", ContactEmail: "nova@example.com", Price: 300, Rating: 4.5},
		{Name: "Saxophone Sam", Genre: "jazz", ContactEmail: "sam@example.com", Price: 200, Rating: 4.9},
	} {
		resp, _ := performRequest(router, http.MethodPost, "/api/v1/performers", p)
		require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	}

	resp, env := performRequest(router, http.MethodGet, "/api/v1/performers?genre=Dj", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var list struct {
		Performers []domain.Performer `json:"performers"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Performers, 1)
	assert.Equal(t, "DJ Nova", list.Performers[0].Name)

	resp, env = performRequest(router, http.MethodGet, "/api/v1/performers/genres", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var genres struct {
		Genres []string `json:"genres"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &genres))
	assert.Equal(t, []string{"dj", "jazz"}, genres.Genres)
}
