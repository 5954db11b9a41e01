package api

import (
	"errors"

	"github.com/gin-gonic/gin"

	"incubator/internal/auth"
	"incubator/internal/middleware"
	"incubator/internal/store"
)

type credentialsRequest struct {
	Room     string `json:"room"`
	Password string `json:"password"`
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Room == "" || req.Password == "" {
		fail(c, "房间号和密码不能为空")
		return
	}
	if !store.ValidRoom(req.Room) {
		fail(c, "房间号格式不正确")
		return
	}
	err := s.Users.RegisterRoom(c.Request.Context(), req.Room, req.Password)
	if errors.Is(err, auth.ErrRoomTaken) {
		fail(c, "该房间号已注册")
		return
	}
	if err != nil {
		fail(c, "注册失败")
		return
	}
	ok(c, gin.H{"message": "注册成功"})
}

func (s *Server) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, "房间号或密码错误")
		return
	}
	if err := s.Users.AuthenticateRoom(c.Request.Context(), req.Room, req.Password); err != nil {
		fail(c, "房间号或密码错误")
		return
	}
	session, err := s.Sessions.IssueRoom(req.Room)
	if err != nil {
		fail(c, "登录失败")
		return
	}
	setSessionCookie(c, session)
	ok(c, gin.H{"message": "登录成功", "token": session.Token})
}

func (s *Server) logout(c *gin.Context) {
	s.revokeSession(c)
	ok(c, gin.H{"message": "已退出登录"})
}

func (s *Server) currentUser(c *gin.Context) {
	session, valid := s.validateRequest(c)
	if !valid || session.Admin {
		fail(c, "未登录")
		return
	}
	ok(c, gin.H{"room": session.Room})
}

func (s *Server) adminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		fail(c, "用户名和密码不能为空")
		return
	}
	if err := s.Users.AuthenticateAdmin(c.Request.Context(), req.Username, req.Password); err != nil {
		fail(c, "用户名或密码错误")
		return
	}
	session, err := s.Sessions.IssueAdmin()
	if err != nil {
		fail(c, "登录失败")
		return
	}
	setSessionCookie(c, session)
	ok(c, gin.H{"message": "登录成功", "token": session.Token})
}

func (s *Server) adminLogout(c *gin.Context) {
	s.revokeSession(c)
	ok(c, gin.H{"message": "已退出登录"})
}

func setSessionCookie(c *gin.Context, session *auth.Session) {
	c.SetCookie(middleware.SessionCookie, session.Token, 0, "/", "", false, true)
}

func (s *Server) revokeSession(c *gin.Context) {
	if token, found := middleware.SessionToken(c); found {
		s.Sessions.Revoke(token)
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
}

func (s *Server) validateRequest(c *gin.Context) (*auth.Session, bool) {
	token, found := middleware.SessionToken(c)
	if !found {
		return nil, false
	}
	return s.Sessions.Validate(token)
}
