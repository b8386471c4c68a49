package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/zentrixai8-sys/checklist-sub001/internal/cache"
	"github.com/zentrixai8-sys/checklist-sub001/internal/config"
	"github.com/zentrixai8-sys/checklist-sub001/internal/model"
	"github.com/zentrixai8-sys/checklist-sub001/internal/repository"
	"github.com/zentrixai8-sys/checklist-sub001/internal/sheet"
)

const masterBody = `{"table":{"rows":[
	{"c":[{"v":"Username"},{"v":"Role"}]},
	{"c":[{"v":"Alice"},{"v":"Admin"}]},
	{"c":[{"v":"Bob"},{"v":"staff"}]}
]}}`

func newTestAuthService(t *testing.T) (*AuthService, cache.Store) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(masterBody))
	}))
	t.Cleanup(srv.Close)

	cfg := config.UpstreamConfig{
		BaseURL:     srv.URL,
		MasterSheet: "master",
		Timeout:     5 * time.Second,
	}
	store := cache.NewMemory()
	client := sheet.NewClient(cfg, store)
	userRepo := repository.NewUserRepository(client, cfg)

	auth := NewAuthService(userRepo, store, config.JWTConfig{
		Secret:           "test-secret",
		AccessExpiresIn:  time.Minute,
		RefreshExpiresIn: time.Hour,
	})
	return auth, store
}

func TestLogin_knownIdentity(t *testing.T) {
	auth, store := newTestAuthService(t)

	resp, err := auth.Login(context.Background(), model.LoginRequest{Username: "alice"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if resp.Viewer.Identity != "Alice" || resp.Viewer.Role != model.RoleAdmin {
		t.Errorf("viewer = %+v", resp.Viewer)
	}
	if resp.TokenType != "Bearer" || resp.ExpiresIn != 60 {
		t.Errorf("token envelope = %+v", resp)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("tokens should be issued")
	}

	claims, err := auth.ValidateAccessToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.Identity != "Alice" || claims.Role != model.RoleAdmin {
		t.Errorf("claims = %+v", claims)
	}

	// refresh token is persisted against the sheet's spelling of the name
	if _, err := store.Get(context.Background(), "refresh_token:Alice"); err != nil {
		t.Errorf("stored refresh token: %v", err)
	}
}

func TestLogin_unknownIdentity(t *testing.T) {
	auth, _ := newTestAuthService(t)

	if _, err := auth.Login(context.Background(), model.LoginRequest{Username: "mallory"}); !errors.Is(err, ErrUnknownIdentity) {
		t.Fatalf("err = %v, want ErrUnknownIdentity", err)
	}
}

func TestValidateAccessToken_rejectsRefreshToken(t *testing.T) {
	auth, _ := newTestAuthService(t)

	resp, err := auth.Login(context.Background(), model.LoginRequest{Username: "bob"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := auth.ValidateAccessToken(resp.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestValidateAccessToken_garbage(t *testing.T) {
	auth, _ := newTestAuthService(t)

	if _, err := auth.ValidateAccessToken("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestRefresh_rotatesTokens(t *testing.T) {
	auth, store := newTestAuthService(t)
	ctx := context.Background()

	first, err := auth.Login(ctx, model.LoginRequest{Username: "bob"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	second, err := auth.Refresh(ctx, first.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if second.Viewer.Identity != "Bob" || second.Viewer.Role != model.RoleStaff {
		t.Errorf("viewer = %+v", second.Viewer)
	}

	stored, err := store.Get(ctx, "refresh_token:Bob")
	if err != nil {
		t.Fatalf("stored refresh token: %v", err)
	}
	if string(stored) != second.RefreshToken {
		t.Error("store should hold the rotated refresh token")
	}

	// the replaced token no longer matches the stored one
	if string(stored) != first.RefreshToken {
		if _, err := auth.Refresh(ctx, first.RefreshToken); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("reuse of rotated token = %v, want ErrInvalidToken", err)
		}
	}
}

func TestRefresh_rejectsAccessToken(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	resp, err := auth.Login(ctx, model.LoginRequest{Username: "bob"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := auth.Refresh(ctx, resp.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestLogout_invalidatesRefreshToken(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	resp, err := auth.Login(ctx, model.LoginRequest{Username: "alice"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := auth.Logout(ctx, resp.Viewer.Identity); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if _, err := auth.Refresh(ctx, resp.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh after logout = %v, want ErrInvalidToken", err)
	}
}
