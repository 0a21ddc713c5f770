package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"time"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"newsdesk/internal/httperr"
	"newsdesk/internal/middleware"
	"newsdesk/internal/session"
	"newsdesk/internal/store"
)

// totpIssuer is the issuer name shown in authenticator apps.
const totpIssuer = "Newsdesk"

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	sessions  *session.Store
	userStore *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, userStore *store.UserStore) *Auth {
	return &Auth{
		sessions:  sessions,
		userStore: userStore,
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

// Login authenticates a user by username and password and creates a
// session. If the account has two-factor authentication enabled, the
// session starts in a pending state and must be completed with a TOTP
// code before it grants access.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		httperr.Write(w, r, err)
		return
	}

	user, err := a.userStore.FindByUsername(req.Username)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	// One message for both unknown user and wrong password.
	if user == nil || !a.userStore.CheckPassword(user, req.Password) {
		httperr.Write(w, r, httperr.Unauthorized("Invalid username or password"))
		return
	}

	pending := user.TOTPEnabled
	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:       user.ID,
		Username:     user.Username,
		IsAdmin:      user.IsAdmin,
		TwoFAPending: pending,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	slog.Info("user logged in", "username", user.Username, "two_fa_pending", pending)

	respond(w, http.StatusOK, map[string]any{
		"user":            user,
		"two_fa_required": pending,
	})
}

// Logout destroys the current session. Succeeds even without one.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		httperr.Write(w, r, err)
		return
	}
	respond(w, http.StatusNoContent, nil)
}

// Me returns the currently authenticated user.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}
	if user == nil {
		// The account was deleted while the session was live.
		a.sessions.Destroy(r.Context(), w, r)
		httperr.Write(w, r, httperr.Unauthorized("Authentication required"))
		return
	}

	respond(w, http.StatusOK, map[string]any{"user": user})
}

// TwoFASetup generates a fresh TOTP secret for the authenticated user
// and returns it with a QR code for authenticator apps. Enrollment only
// takes effect once the first code is verified.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: sess.Username,
	})
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	if err := a.userStore.SetTOTPSecret(sess.UserID, key.Secret()); err != nil {
		httperr.Write(w, r, err)
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"secret":      key.Secret(),
		"otpauth_url": key.URL(),
		"qr_code":     base64.StdEncoding.EncodeToString(qrPNG),
	})
}

type twoFAVerifyRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

// TwoFAVerify checks a TOTP code. On first success it completes
// enrollment; on later logins it clears the pending flag so the session
// becomes fully usable. This endpoint only needs a session, not a
// completed one, which is why it sits outside RequireAuth.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		httperr.Write(w, r, httperr.Unauthorized("Authentication required"))
		return
	}

	var req twoFAVerifyRequest
	if err := decodeJSON(r, &req); err != nil {
		httperr.Write(w, r, err)
		return
	}

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}
	if user == nil || user.TOTPSecret == nil {
		httperr.Write(w, r, httperr.Validation("Two-factor authentication is not set up"))
		return
	}

	if !totp.Validate(req.Code, *user.TOTPSecret) {
		httperr.Write(w, r, httperr.Unauthorized("Invalid verification code"))
		return
	}

	if !user.TOTPEnabled {
		if err := a.userStore.EnableTOTP(user.ID); err != nil {
			httperr.Write(w, r, err)
			return
		}
		slog.Info("two-factor authentication enabled", "username", user.Username)
	}

	if sess.TwoFAPending {
		sess.TwoFAPending = false
		if err := a.sessions.Update(r.Context(), r, sess); err != nil {
			httperr.Write(w, r, err)
			return
		}
	}

	respond(w, http.StatusOK, map[string]any{"verified": true})
}
