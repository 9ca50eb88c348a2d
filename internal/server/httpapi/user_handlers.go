package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mzfirozuddin/elib-apis/internal/common"
	"github.com/mzfirozuddin/elib-apis/internal/server/services"
)

func (s *Server) setSessionCookies(c *gin.Context, pair *services.TokenPair) {
	secure := s.cfg.IsProduction()
	c.SetCookie("accessToken", pair.AccessToken, int(s.cfg.AccessTokenTTL.Seconds()), "/", "", secure, true)
	c.SetCookie("refreshToken", pair.RefreshToken, int(s.cfg.RefreshTokenTTL.Seconds()), "/", "", secure, true)
}

func (s *Server) clearSessionCookies(c *gin.Context) {
	secure := s.cfg.IsProduction()
	c.SetCookie("accessToken", "", -1, "/", "", secure, true)
	c.SetCookie("refreshToken", "", -1, "/", "", secure, true)
}

func (s *Server) handleRegister(c *gin.Context) {
	var req struct {
		Name     string `form:"name" json:"name" binding:"required"`
		Email    string `form:"email" json:"email" binding:"required,email"`
		Password string `form:"password" json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBind(&req); err != nil {
		s.respondError(c, validationError(err))
		return
	}

	avatarPath, err := s.stageOptionalUpload(c, "avatar")
	if err != nil {
		s.respondError(c, err)
		return
	}
	defer cleanupStaged(avatarPath)

	user, pair, err := s.users.Register(c.Request.Context(), req.Name, req.Email, req.Password, avatarPath)
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.setSessionCookies(c, pair)
	c.JSON(http.StatusCreated, gin.H{"userId": user.ID, "accessToken": pair.AccessToken})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req struct {
		Email    string `form:"email" json:"email" binding:"required"`
		Password string `form:"password" json:"password" binding:"required"`
	}
	if err := c.ShouldBind(&req); err != nil {
		s.respondError(c, validationError(err))
		return
	}

	user, pair, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.setSessionCookies(c, pair)
	c.JSON(http.StatusOK, gin.H{"userId": user.ID, "accessToken": pair.AccessToken})
}

func (s *Server) handleLogout(c *gin.Context) {
	id, ok := identityFrom(c)
	if !ok {
		s.respondError(c, common.ErrorUnauthorized)
		return
	}

	if err := s.users.Logout(c.Request.Context(), id.ID); err != nil {
		s.respondError(c, err)
		return
	}

	s.clearSessionCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": "user logged out"})
}

func (s *Server) handleSelf(c *gin.Context) {
	id, ok := identityFrom(c)
	if !ok {
		s.respondError(c, common.ErrorUnauthorized)
		return
	}
	c.JSON(http.StatusOK, id)
}

// handleRefreshTokens accepts the refresh token from the cookie, the JSON
// body or the Authorization header, in that order.
func (s *Server) handleRefreshTokens(c *gin.Context) {
	token := s.refreshTokenFrom(c)
	if token == "" {
		s.respondError(c, common.ErrorUnauthorized)
		return
	}

	user, pair, err := s.users.Refresh(c.Request.Context(), token)
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.setSessionCookies(c, pair)
	c.JSON(http.StatusOK, gin.H{"userId": user.ID, "accessToken": pair.AccessToken})
}

func (s *Server) refreshTokenFrom(c *gin.Context) string {
	if v, err := c.Cookie("refreshToken"); err == nil && v != "" {
		return v
	}
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.ShouldBindJSON(&body); err == nil && body.RefreshToken != "" {
		return body.RefreshToken
	}
	return bearerToken(c)
}

func (s *Server) handleChangePassword(c *gin.Context) {
	id, ok := identityFrom(c)
	if !ok {
		s.respondError(c, common.ErrorUnauthorized)
		return
	}

	var req struct {
		OldPassword string `form:"oldPassword" json:"oldPassword" binding:"required"`
		NewPassword string `form:"newPassword" json:"newPassword" binding:"required,min=8"`
	}
	if err := c.ShouldBind(&req); err != nil {
		s.respondError(c, validationError(err))
		return
	}

	if err := s.users.ChangePassword(c.Request.Context(), id.ID, req.OldPassword, req.NewPassword); err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	id, ok := identityFrom(c)
	if !ok {
		s.respondError(c, common.ErrorUnauthorized)
		return
	}

	var req struct {
		Name string `form:"name" json:"name" binding:"required"`
	}
	if err := c.ShouldBind(&req); err != nil {
		s.respondError(c, validationError(err))
		return
	}

	if err := s.users.UpdateProfile(c.Request.Context(), id.ID, req.Name); err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
}

func (s *Server) handleUpdateAvatar(c *gin.Context) {
	id, ok := identityFrom(c)
	if !ok {
		s.respondError(c, common.ErrorUnauthorized)
		return
	}

	avatarPath, err := s.stageUpload(c, "avatar")
	if err != nil {
		s.respondError(c, err)
		return
	}
	defer cleanupStaged(avatarPath)

	ref, err := s.users.UpdateAvatar(c.Request.Context(), id.ID, avatarPath)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatar": ref.URL})
}
