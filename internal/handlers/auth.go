package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/community-board/internal/constants"
	"github.com/yukikurage/community-board/internal/dto"
	apierrors "github.com/yukikurage/community-board/internal/errors"
	"github.com/yukikurage/community-board/internal/middleware"
	"github.com/yukikurage/community-board/internal/services"
)

// AuthHandler coordinates the credential lifecycle pages.
type AuthHandler struct {
	authService *services.AuthService
	feedService *services.FeedService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, feedService *services.FeedService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		feedService: feedService,
	}
}

type credentialsForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// LoginPage renders the login form.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"Message": c.Query("message")})
}

// RegisterPage renders the registration form.
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{})
}

// Register creates a new user and sends them to the login page.
func (h *AuthHandler) Register(c *gin.Context) {
	var form credentialsForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "register.html", gin.H{"Message": "Invalid form submission."})
		return
	}

	_, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		Username: form.Username,
		Password: form.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			c.HTML(http.StatusConflict, "register.html", gin.H{"Message": "That username is already taken!"})
		case errors.Is(err, services.ErrValidation):
			c.HTML(http.StatusBadRequest, "register.html", gin.H{"Message": "Username and password are required, and the password may be at most 72 bytes."})
		default:
			renderServiceError(c, err)
		}
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// Login authenticates a user, starts a session and renders the welcome feed.
func (h *AuthHandler) Login(c *gin.Context) {
	var form credentialsForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "login.html", gin.H{"Message": "Invalid form submission."})
		return
	}

	ctx := c.Request.Context()
	user, err := h.authService.Login(ctx, services.LoginInput{
		Username: form.Username,
		Password: form.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoSuchUser):
			c.HTML(http.StatusUnauthorized, "login.html", gin.H{"Message": "No such user!"})
		case errors.Is(err, services.ErrWrongPassword):
			c.HTML(http.StatusUnauthorized, "login.html", gin.H{"Message": "Wrong password!"})
		default:
			renderServiceError(c, err)
		}
		return
	}

	// replace whatever session the browser had before
	sess := sessions.Default(c)
	if previous, ok := sess.Get(constants.SessionKeyToken).(string); ok {
		// EndSession logs store failures itself; a stale token left behind still expires
		_ = h.authService.EndSession(ctx, previous)
	}

	token, err := h.authService.StartSession(ctx, user)
	if err != nil {
		renderServiceError(c, err)
		return
	}
	sess.Set(constants.SessionKeyToken, token)
	if err := sess.Save(); err != nil {
		renderError(c, http.StatusInternalServerError, "Failed to save session.")
		return
	}

	renderFeed(c, h.feedService, "welcome.html", user.Username)
}

// Logout destroys the session and returns to the login page.
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := sessions.Default(c)
	token, _ := sess.Get(constants.SessionKeyToken).(string)

	sess.Clear()
	sess.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := sess.Save(); err != nil {
		renderError(c, http.StatusInternalServerError, "Failed to log out.")
		return
	}

	if err := h.authService.EndSession(c.Request.Context(), token); err != nil {
		renderServiceError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// EditAccountPage renders the account form.
func (h *AuthHandler) EditAccountPage(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	c.HTML(http.StatusOK, "edit_account.html", gin.H{"Username": identity.Username})
}

// UpdateAccount replaces the current user's credentials and rotates the session.
func (h *AuthHandler) UpdateAccount(c *gin.Context) {
	type updateForm struct {
		NewUsername string `form:"newUsername"`
		NewPassword string `form:"newPassword"`
	}

	identity, _ := middleware.GetIdentity(c)

	var form updateForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "edit_account.html", gin.H{"Username": identity.Username, "Message": "Invalid form submission."})
		return
	}

	ctx := c.Request.Context()
	oldToken := middleware.GetSessionToken(c)
	user, err := h.authService.UpdateCredentials(ctx, oldToken, services.UpdateCredentialsInput{
		NewUsername: form.NewUsername,
		NewPassword: form.NewPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			c.HTML(http.StatusConflict, "edit_account.html", gin.H{"Username": identity.Username, "Message": "That username is already taken!"})
		case errors.Is(err, services.ErrValidation):
			c.HTML(http.StatusBadRequest, "edit_account.html", gin.H{"Username": identity.Username, "Message": "Both a new username and a new password are required."})
		case errors.Is(err, services.ErrUnauthenticated), errors.Is(err, services.ErrUserNotFound):
			c.Redirect(http.StatusFound, "/")
		default:
			renderServiceError(c, err)
		}
		return
	}

	if err := h.authService.EndSession(ctx, oldToken); err != nil {
		renderServiceError(c, err)
		return
	}
	token, err := h.authService.StartSession(ctx, user)
	if err != nil {
		renderServiceError(c, err)
		return
	}

	sess := sessions.Default(c)
	sess.Set(constants.SessionKeyToken, token)
	if err := sess.Save(); err != nil {
		renderError(c, http.StatusInternalServerError, "Failed to save session.")
		return
	}

	c.Redirect(http.StatusFound, "/welcome")
}

// DeleteAccountPage asks the user to confirm deletion with their password.
func (h *AuthHandler) DeleteAccountPage(c *gin.Context) {
	c.HTML(http.StatusOK, "confirm_delete.html", gin.H{})
}

// ConfirmDelete deletes the current user's account if the password matches.
func (h *AuthHandler) ConfirmDelete(c *gin.Context) {
	password := c.PostForm("password")

	err := h.authService.DeleteAccount(c.Request.Context(), middleware.GetSessionToken(c), password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrWrongPassword):
			c.HTML(http.StatusUnauthorized, "confirm_delete.html", gin.H{"Message": "Wrong password! Your account was not deleted."})
		case errors.Is(err, services.ErrUnauthenticated), errors.Is(err, services.ErrUserNotFound):
			c.Redirect(http.StatusFound, "/")
		default:
			renderServiceError(c, err)
		}
		return
	}

	sess := sessions.Default(c)
	sess.Clear()
	sess.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := sess.Save(); err != nil {
		renderError(c, http.StatusInternalServerError, "Your account was deleted, but the session cookie could not be cleared.")
		return
	}

	c.HTML(http.StatusOK, "deleted.html", gin.H{})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondAPIError(c, err)
		return
	}

	userDTO := dto.ToUserDTO(*user)
	c.JSON(http.StatusOK, userDTO)
}
