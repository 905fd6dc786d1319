package controllers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"Maru/controllers"
	"Maru/middleware"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(pgdriver.New(pgdriver.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func setupRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions(middleware.SessionCookie, cookie.NewStore([]byte("test-key"))))
	r.POST("/login", controllers.Login(db))
	r.POST("/signup", controllers.SignUp(db))
	r.GET("/auth/me", controllers.Me(db))
	return r
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginSuccess(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db, mock := setupMockDB(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("pass123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"session_id", "username", "password_hash", "member_since"}).
		AddRow("sess-1", "alice", string(hash), time.Now())
	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE username =`).
		WithArgs("alice", 1).
		WillReturnRows(rows)

	w := postForm(setupRouter(db), "/login", url.Values{
		"username": {"alice"},
		"password": {"pass123"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token"`)
	assert.Contains(t, w.Body.String(), `"session_id":"sess-1"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginWrongPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db, mock := setupMockDB(t)

	hash, _ := bcrypt.GenerateFromPassword([]byte("rightpass"), bcrypt.DefaultCost)
	rows := sqlmock.NewRows([]string{"session_id", "username", "password_hash", "member_since"}).
		AddRow("sess-1", "alice", string(hash), time.Now())
	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE username =`).
		WithArgs("alice", 1).
		WillReturnRows(rows)

	w := postForm(setupRouter(db), "/login", url.Values{
		"username": {"alice"},
		"password": {"wrongpass"},
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginEmptyParams(t *testing.T) {
	db, _ := setupMockDB(t)

	w := postForm(setupRouter(db), "/login", url.Values{
		"username": {"  "},
		"password": {""},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignUpCreatesUser(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	w := postForm(setupRouter(db), "/signup", url.Values{
		"username": {"bob"},
		"password": {"hunter22"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"session_id"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignUpDuplicateUsername(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users"`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	w := postForm(setupRouter(db), "/signup", url.Values{
		"username": {"bob"},
		"password": {"hunter22"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMeRequiresValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db, mock := setupMockDB(t)
	r := setupRouter(db)

	// No token
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid token resolves the user
	token, err := middleware.GenerateToken("sess-1")
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"session_id", "username", "password_hash", "member_since"}).
		AddRow("sess-1", "alice", "x", time.Now())
	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE session_id =`).
		WithArgs("sess-1", 1).
		WillReturnRows(rows)

	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
}
