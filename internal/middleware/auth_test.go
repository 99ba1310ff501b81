package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/morgancollado/mocingbird-task-manager/internal/pkg/logger"
	"github.com/morgancollado/mocingbird-task-manager/internal/repos"
	"github.com/morgancollado/mocingbird-task-manager/internal/requestdata"
	"github.com/morgancollado/mocingbird-task-manager/internal/services"
	"github.com/morgancollado/mocingbird-task-manager/internal/types"
)

type authFixture struct {
	router *gin.Engine
	tokens services.TokenService
	user   *types.User
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&types.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}

	user := &types.User{ID: uuid.New(), Email: "auth@example.com", PasswordHash: "x", FirstName: "A", LastName: "B"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	tokens := services.NewTokenService(log, "test-secret", time.Hour)
	am := NewAuthMiddleware(log, tokens, repos.NewUserRepo(db, log))

	router := gin.New()
	router.GET("/whoami", am.RequireAuth(), func(c *gin.Context) {
		p := requestdata.GetPrincipal(c.Request.Context())
		if p == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no principal"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": p.UserID.String()})
	})

	return &authFixture{router: router, tokens: tokens, user: user}
}

func (f *authFixture) get(t *testing.T, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	f := newAuthFixture(t)
	w := f.get(t, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Missing token") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestRequireAuth_ValidToken(t *testing.T) {
	f := newAuthFixture(t)
	tok, err := f.tokens.Issue(f.user.ID, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	w := f.get(t, "Bearer "+tok)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), f.user.ID.String()) {
		t.Fatalf("principal not resolved: %s", w.Body.String())
	}
}

func TestRequireAuth_BareTokenWithoutScheme(t *testing.T) {
	// the credential is the last space-separated segment, scheme optional
	f := newAuthFixture(t)
	tok, err := f.tokens.Issue(f.user.ID, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	w := f.get(t, tok)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
}

func TestRequireAuth_ExpiredAndForgedAndUnknownSubjectLookAlike(t *testing.T) {
	f := newAuthFixture(t)

	expired, err := f.tokens.Issue(f.user.ID, -time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	unknownSubject, err := f.tokens.Issue(uuid.New(), time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	var bodies []string
	for _, header := range []string{"Bearer " + expired, "Bearer forged.token.here", "Bearer " + unknownSubject} {
		w := f.get(t, header)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: want 401, got %d", header, w.Code)
		}
		bodies = append(bodies, w.Body.String())
	}
	// a deleted account must be indistinguishable from a bad token
	if bodies[0] != bodies[1] || bodies[1] != bodies[2] {
		t.Fatalf("401 responses differ: %v", bodies)
	}
}
